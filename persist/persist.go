// Package persist provides binary (de)serialization of a compiled Expando,
// so a host that parses the same format strings on every startup can cache
// the compiled tree to disk instead. It does not cache rendered output —
// only the parse tree, which is immutable once built.
package persist

import (
	"errors"
	"fmt"

	"github.com/dekarrin/expando"
	"github.com/dekarrin/rezi"
)

// ErrUnknownCode is returned by Decode when the byte stream references an
// expando code that isn't present in the DefinitionTable passed to Decode.
// A persisted blob is only ever portable across processes that register the
// same codes; this is the error a version skew between writer and reader
// surfaces as.
var ErrUnknownCode = errors.New("persist: expando code not found in definition table")

// ErrMalformed is returned when the byte stream doesn't decode to a valid
// tree, such as a Condition node missing its test or true branch.
var ErrMalformed = errors.New("persist: malformed compiled format")

// record is the on-disk shape of a single Node. Def pointers cannot be
// serialized directly (they're process-local), so a node's expando code is
// stored as its ShortName and re-resolved against the DefinitionTable given
// to Decode.
type record struct {
	Kind       int
	Text       string
	Code       string
	MinWidth   int
	MaxWidth   int
	Justify    int
	Leader     int32
	PadVariant int
	Children   []record
}

// compiled is the on-disk shape of an entire Expando: its original source
// (kept so Expando.Equal and Expando.String still work after a round trip)
// plus the compiled tree.
type compiled struct {
	Source string
	Root   record
}

// Encode serializes e to a portable byte slice using rezi's binary encoding.
func Encode(e *expando.Expando) []byte {
	c := compiled{
		Source: e.Source(),
		Root:   toRecord(e.Root()),
	}
	return rezi.EncBinary(&c)
}

// Decode reconstructs an Expando from a byte slice previously produced by
// Encode. defs resolves each persisted expando code back to a live
// *expando.Definition; it need not be the same *DefinitionTable instance
// used to parse the original format string, only one that registers the
// same codes.
func Decode(data []byte, defs *expando.DefinitionTable) (*expando.Expando, error) {
	var c compiled
	if _, err := rezi.DecBinary(data, &c); err != nil {
		return nil, fmt.Errorf("persist: decode: %w", err)
	}

	root, err := fromRecord(c.Root, defs)
	if err != nil {
		return nil, err
	}

	return expando.NewCompiled(c.Source, root), nil
}

func toRecord(n *expando.Node) record {
	if n == nil {
		return record{Kind: int(expando.KindEmpty)}
	}

	r := record{
		Kind:       int(n.Kind),
		Text:       n.Text,
		MinWidth:   n.Format.MinWidth,
		MaxWidth:   n.Format.MaxWidth,
		Justify:    int(n.Format.Justify),
		Leader:     n.Format.Leader,
		PadVariant: int(n.PadVariant),
	}
	if n.Def != nil {
		r.Code = n.Def.ShortName
	}
	for _, c := range n.Children {
		r.Children = append(r.Children, toRecord(c))
	}
	return r
}

func fromRecord(r record, defs *expando.DefinitionTable) (*expando.Node, error) {
	n := &expando.Node{
		Kind: expando.Kind(r.Kind),
		Text: r.Text,
		Format: expando.FormatSpec{
			MinWidth: r.MinWidth,
			MaxWidth: r.MaxWidth,
			Justify:  expando.Justify(r.Justify),
			Leader:   r.Leader,
		},
		PadVariant: expando.PadVariant(r.PadVariant),
	}

	if r.Code != "" {
		if defs == nil {
			return nil, ErrUnknownCode
		}
		def := defs.Lookup(r.Code)
		if def == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCode, r.Code)
		}
		n.Def = def
	}

	switch n.Kind {
	case expando.KindCondition:
		if len(r.Children) < 2 {
			return nil, fmt.Errorf("%w: condition node has %d children, want at least 2", ErrMalformed, len(r.Children))
		}
	}

	for _, c := range r.Children {
		child, err := fromRecord(c, defs)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}
