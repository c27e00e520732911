package expando

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_Escape(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	e, err := Parse("%%", nil)
	require.NoError(err)
	// a single top-level element is returned as-is rather than wrapped in a
	// Container (see buildGroup), so root here is the Text node itself.
	require.Equal(KindText, e.root.Kind)
	assert.Equal("%", e.root.Text)
	assert.Equal("%", renderToString(e, testCallbacks(), testData{}))
}

func Test_Parse_EmptyThenBranch(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	e, err := Parse("%<c?>", testDefs())
	require.NoError(err)

	cond := e.root
	require.Equal(KindCondition, cond.Kind)
	// field "c" is STRING-kind, so its condition test parses as a plain
	// Expando rather than CondBool (see parseExpando).
	assert.Equal(KindExpando, cond.GetChild(SlotCondition).Kind)
	assert.Equal(KindEmpty, cond.GetChild(SlotTrue).Kind)
	assert.Nil(cond.GetChild(SlotFalse))

	assert.Equal("", renderToString(e, testCallbacks(), testData{c: ""}))
	assert.Equal("", renderToString(e, testCallbacks(), testData{c: "x"}))
}

func Test_Parse_ThenAndElse(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	e, err := Parse("%<c?%t&%f>", testDefs())
	require.NoError(err)

	cb := testCallbacks()
	assert.Equal("tan", renderToString(e, cb, testData{c: "1", t: "tan", f: "fig"}))
	assert.Equal("fig", renderToString(e, cb, testData{c: "", t: "tan", f: "fig"}))
}

func Test_Parse_WidthAndJustify(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	cb := testCallbacks()

	e, err := Parse("%-5t", testDefs())
	require.NoError(err)
	assert.Equal("ab   ", renderToString(e, cb, testData{t: "ab"}))

	e, err = Parse("%5t", testDefs())
	require.NoError(err)
	assert.Equal("   ab", renderToString(e, cb, testData{t: "ab"}))

	e, err = Parse("%.2t", testDefs())
	require.NoError(err)
	assert.Equal("ab", renderToString(e, cb, testData{t: "abcd"}))
}

func Test_Parse_CustomArgument(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	e, err := Parse("%[fmt]", testDefs())
	require.NoError(err)

	bracket := e.root
	require.Equal(KindExpando, bracket.Kind)
	assert.Equal("fmt", bracket.Text)

	cb := testCallbacks()
	assert.Equal("now:fmt", renderToString(e, cb, testData{bracketArg: "now"}))
}

func Test_Parse_Padding(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	e, err := Parse("A%>.B", testDefs())
	require.NoError(err)

	cb := testCallbacks()
	var sb string

	sb = renderMax(e, cb, 5)
	assert.Equal("A...B", sb)

	sb = renderMax(e, cb, 3)
	assert.Equal("A.B", sb)

	sb = renderMax(e, cb, 2)
	assert.Equal("AB", sb)
}

func renderMax(e *Expando, cb *CallbackTable, maxCols int) string {
	var sb strings.Builder
	e.RenderMax(&sb, cb, testData{}, 0, maxCols)
	return sb.String()
}

func Test_Parse_UnterminatedConditional(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("%<c?xxx", testDefs())
	assert.Error(err)

	pe, ok := err.(ParseError)
	assert.True(ok)
	assert.Equal(len("%<c?xxx"), pe.Position(), "error should point at the byte after the unterminated branch")
}

func Test_Parse_NestingNewVsLegacy(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// Modern form nests: the inner "%<b?x&y>" is a nested conditional.
	e, err := Parse("%<a?%<b?x&y>&z>", testDefs())
	require.NoError(err)

	outer := e.root
	require.Equal(KindCondition, outer.Kind)
	trueBranch := outer.GetChild(SlotTrue)
	assert.Equal(KindCondition, trueBranch.Kind, "inner %%<b?x&y> should parse as a nested Condition")

	// Legacy form does not nest: the "%<" at the start of the true branch
	// does not open a conditional but is parsed as a plain (here: unknown)
	// expando code, so the parse fails there.
	_, err = Parse("%?a?%<b?x&y>&z?", testDefs())
	assert.Error(err, "legacy branch should attempt plain expando parsing of '%<', which has no matching definition")
}
