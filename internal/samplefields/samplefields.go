// Package samplefields provides a tiny, built-in expando.Definition and
// expando.CallbackTable pair used only for demos and tests of the host
// integration surface: cmd/expandoctl's REPL and previewsrv's preview
// endpoint. This is explicitly not "the library of concrete expando
// callbacks" a real deployment would write for its own data model — that
// remains a caller concern, per the core package's design.
package samplefields

import (
	"strconv"
	"strings"
	"time"

	"github.com/dekarrin/expando"
)

// Namespace and field IDs for the sample table. A real host would define its
// own constants with its own meanings; these exist only so this package's
// Definitions and Callbacks agree on what each code means.
const (
	NamespaceSample = 1

	FieldSubject = iota
	FieldFrom
	FieldSize
	FieldFlagged
	FieldDate
)

// Data is the sample record rendered against by cmd/expandoctl and
// previewsrv's /preview endpoint: a stand-in for whatever per-item record a
// real host would render a status line for (an email header, a log line, a
// process listing row).
type Data struct {
	Subject string
	From    string
	Size    int64
	Flagged bool
	When    time.Time
}

// Sample returns a representative Data value for use as default preview
// input.
func Sample() Data {
	return Data{
		Subject: "Re: quarterly planning",
		From:    "pat@example.com",
		Size:    4096,
		Flagged: true,
		When:    time.Date(2026, time.March, 5, 9, 30, 0, 0, time.UTC),
	}
}

// Definitions builds the Definition table for the sample field set: %s
// (subject), %f (from), %c (size in bytes), %F (flagged, NUMBER-kind so it
// can be used as a CondBool test), and %[fmt] (date, with a strftime-ish
// custom argument consumed up to the closing ']').
func Definitions() *expando.DefinitionTable {
	t, err := expando.NewDefinitionTable([]expando.Definition{
		{ShortName: "s", LongName: "subject", NamespaceID: NamespaceSample, FieldID: FieldSubject, Kind: expando.ValueString},
		{ShortName: "f", LongName: "from", NamespaceID: NamespaceSample, FieldID: FieldFrom, Kind: expando.ValueString},
		{ShortName: "c", LongName: "size", NamespaceID: NamespaceSample, FieldID: FieldSize, Kind: expando.ValueNumber},
		{ShortName: "F", LongName: "flagged", NamespaceID: NamespaceSample, FieldID: FieldFlagged, Kind: expando.ValueNumber},
		{ShortName: "[", LongName: "date", NamespaceID: NamespaceSample, FieldID: FieldDate, Kind: expando.ValueString, ParseArg: scanBracketArg},
	})
	if err != nil {
		// the table above is fixed at compile time; a collision here would
		// be a programmer error in this package, not a runtime condition.
		panic(err)
	}
	return t
}

// scanBracketArg consumes a "[fmt]"-style argument, returning the text
// between the brackets.
func scanBracketArg(runes []rune, pos int) (arg string, consumed int, err error) {
	start := pos
	for pos < len(runes) && runes[pos] != ']' {
		pos++
	}
	if pos >= len(runes) {
		return "", 0, strconv.ErrSyntax
	}
	return string(runes[start:pos]), pos - start + 1, nil
}

// Callbacks builds the CallbackTable matching Definitions, rendering against
// a Data value passed as the render-time data argument.
func Callbacks() *expando.CallbackTable {
	return expando.NewCallbackTable([]expando.CallbackEntry{
		{
			NamespaceID: NamespaceSample, FieldID: FieldSubject,
			RenderString: func(n *expando.Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString(data.(Data).Subject)
			},
		},
		{
			NamespaceID: NamespaceSample, FieldID: FieldFrom,
			RenderString: func(n *expando.Node, data interface{}, flags uint32, out *strings.Builder) {
				out.WriteString(data.(Data).From)
			},
		},
		{
			NamespaceID: NamespaceSample, FieldID: FieldSize,
			RenderNumber: func(n *expando.Node, data interface{}, flags uint32) int64 {
				return data.(Data).Size
			},
		},
		{
			NamespaceID: NamespaceSample, FieldID: FieldFlagged,
			RenderNumber: func(n *expando.Node, data interface{}, flags uint32) int64 {
				if data.(Data).Flagged {
					return 1
				}
				return 0
			},
		},
		{
			NamespaceID: NamespaceSample, FieldID: FieldDate,
			RenderString: func(n *expando.Node, data interface{}, flags uint32, out *strings.Builder) {
				layout := n.Text
				if layout == "" {
					layout = "2006-01-02"
				}
				out.WriteString(data.(Data).When.Format(layout))
			},
		},
	})
}
