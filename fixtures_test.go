package expando

import "strings"

// Test fixture namespace/field ids for a small made-up set of expando codes,
// loosely modeled on a mail index line: c=STRING (category), t=STRING
// (tan/test string A), f=STRING (test string B), a=NUMBER (boolean-ish
// condition), s=STRING, d=NUMBER.
const (
	nsTest = 1

	fieldC = iota
	fieldT
	fieldF
	fieldA
	fieldS
	fieldD
	fieldB
	fieldX
	fieldY
	fieldZ
	fieldBracket
)

func testDefs() *DefinitionTable {
	t, err := NewDefinitionTable([]Definition{
		{ShortName: "c", NamespaceID: nsTest, FieldID: fieldC, Kind: ValueString},
		{ShortName: "t", NamespaceID: nsTest, FieldID: fieldT, Kind: ValueString},
		{ShortName: "f", NamespaceID: nsTest, FieldID: fieldF, Kind: ValueString},
		{ShortName: "a", NamespaceID: nsTest, FieldID: fieldA, Kind: ValueNumber},
		{ShortName: "s", NamespaceID: nsTest, FieldID: fieldS, Kind: ValueString},
		{ShortName: "d", NamespaceID: nsTest, FieldID: fieldD, Kind: ValueNumber},
		{ShortName: "b", NamespaceID: nsTest, FieldID: fieldB, Kind: ValueNumber},
		{ShortName: "x", NamespaceID: nsTest, FieldID: fieldX, Kind: ValueString},
		{ShortName: "y", NamespaceID: nsTest, FieldID: fieldY, Kind: ValueString},
		{ShortName: "z", NamespaceID: nsTest, FieldID: fieldZ, Kind: ValueString},
		{
			ShortName: "[", NamespaceID: nsTest, FieldID: fieldBracket, Kind: ValueString,
			ParseArg: scanBracketArg,
		},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// scanBracketArg is a fixture ArgParser mimicking a "%[fmt]"-style code: it
// consumes everything up to and including the next ']', returning the text
// between the brackets.
func scanBracketArg(runes []rune, pos int) (string, int, error) {
	for i := pos; i < len(runes); i++ {
		if runes[i] == ']' {
			return string(runes[pos:i]), i - pos + 1, nil
		}
	}
	return "", 0, errUnterminatedBracketArg
}

var errUnterminatedBracketArg = bracketArgError{}

type bracketArgError struct{}

func (bracketArgError) Error() string { return "unterminated '[' argument: expected ']'" }

// testData carries the values a testCallbacks table reads from; tests set
// the fields they care about and leave the rest at zero value.
type testData struct {
	c, t, f, s, bracketArg string
	a, d                   int64
}

func testCallbacks() *CallbackTable {
	return NewCallbackTable([]CallbackEntry{
		{
			NamespaceID: nsTest, FieldID: fieldC,
			RenderString: func(n *Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString(data.(testData).c)
			},
		},
		{
			NamespaceID: nsTest, FieldID: fieldT,
			RenderString: func(n *Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString(data.(testData).t)
			},
		},
		{
			NamespaceID: nsTest, FieldID: fieldF,
			RenderString: func(n *Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString(data.(testData).f)
			},
		},
		{
			NamespaceID: nsTest, FieldID: fieldA,
			RenderNumber: func(n *Node, data interface{}, flags uint32) int64 {
				return data.(testData).a
			},
		},
		{
			NamespaceID: nsTest, FieldID: fieldS,
			RenderString: func(n *Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString(data.(testData).s)
			},
		},
		{
			NamespaceID: nsTest, FieldID: fieldD,
			RenderNumber: func(n *Node, data interface{}, flags uint32) int64 {
				return data.(testData).d
			},
		},
		{
			NamespaceID: nsTest, FieldID: fieldB,
			RenderNumber: func(n *Node, data interface{}, flags uint32) int64 { return 0 },
		},
		{
			NamespaceID: nsTest, FieldID: fieldX,
			RenderString: func(n *Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString("x")
			},
		},
		{
			NamespaceID: nsTest, FieldID: fieldY,
			RenderString: func(n *Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString("y")
			},
		},
		{
			NamespaceID: nsTest, FieldID: fieldZ,
			RenderString: func(n *Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString("z")
			},
		},
		{
			NamespaceID: nsTest, FieldID: fieldBracket,
			RenderString: func(n *Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString(data.(testData).bracketArg + ":" + n.Text)
			},
		},
	})
}

func renderToString(exp *Expando, cb *CallbackTable, data interface{}) string {
	var sb strings.Builder
	exp.Render(&sb, cb, data, 0)
	return sb.String()
}
