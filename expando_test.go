package expando

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_Equal(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "plain text", src: "hello world"},
		{name: "escape", src: "100%% done"},
		{name: "conditional", src: "%<c?%t&%f>"},
		{name: "padding", src: "A%>.B"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			e1, err := Parse(tc.src, testDefs())
			require.NoError(err)
			e2, err := Parse(tc.src, testDefs())
			require.NoError(err)

			assert.True(e1.Equal(e2))
			assert.Equal(tc.src, e1.Source())
		})
	}
}

func Test_Expando_Equal_DifferentSource(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a, err := Parse("%t", testDefs())
	require.NoError(err)
	b, err := Parse("%f", testDefs())
	require.NoError(err)

	assert.False(a.Equal(b))
}

func Test_Expando_Free_Idempotent(t *testing.T) {
	require := require.New(t)
	e, err := Parse("%<c?%t&%f>", testDefs())
	require.NoError(err)

	e.Free()
	e.Free() // must not panic
}

func Test_Parse_Deterministic(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	const src = "%<a?%<b?x&y>&z>"
	e1, err := Parse(src, testDefs())
	require.NoError(err)
	e2, err := Parse(src, testDefs())
	require.NoError(err)

	assert.Equal(e1.root.String(), e2.root.String())
}
