package persist

import (
	"testing"

	"github.com/dekarrin/expando"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	nsTest = 1
	fieldC = iota
	fieldA
)

func testDefs() *expando.DefinitionTable {
	t, err := expando.NewDefinitionTable([]expando.Definition{
		{ShortName: "c", NamespaceID: nsTest, FieldID: fieldC, Kind: expando.ValueString},
		{ShortName: "a", NamespaceID: nsTest, FieldID: fieldA, Kind: expando.ValueNumber},
	})
	if err != nil {
		panic(err)
	}
	return t
}

func Test_Encode_Decode_RoundTrip(t *testing.T) {
	tests := []string{
		"plain text",
		"%%escaped%%",
		"%<a?%-5c&%.2c>",
		"A%>.B%|*C%*-D",
	}

	for _, format := range tests {
		t.Run(format, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			defs := testDefs()
			e, err := expando.Parse(format, defs)
			require.NoError(err)

			data := Encode(e)
			require.NotEmpty(data)

			got, err := Decode(data, defs)
			require.NoError(err)

			assert.Equal(e.Source(), got.Source())
			assert.True(e.Root().Equal(got.Root()))
		})
	}
}

func Test_Decode_UnknownCode(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	defs := testDefs()
	e, err := expando.Parse("%c", defs)
	require.NoError(err)

	data := Encode(e)

	otherDefs, err := expando.NewDefinitionTable([]expando.Definition{
		{ShortName: "a", NamespaceID: nsTest, FieldID: fieldA, Kind: expando.ValueNumber},
	})
	require.NoError(err)

	_, err = Decode(data, otherDefs)
	assert.ErrorIs(err, ErrUnknownCode)
}

func Test_Decode_NilDefsWithCodedTree(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	defs := testDefs()
	e, err := expando.Parse("%c", defs)
	require.NoError(err)

	data := Encode(e)

	_, err = Decode(data, nil)
	assert.ErrorIs(err, ErrUnknownCode)
}
