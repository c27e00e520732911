package expando

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Kind identifies the variant a Node holds.
type Kind int

const (
	// KindEmpty is a placeholder used where the grammar requires a subtree
	// but the author supplied none, e.g. the true-branch of "%<c?>".
	KindEmpty Kind = iota

	// KindText is a literal run of characters with no children.
	KindText

	// KindExpando is a reference to a host-defined data field.
	KindExpando

	// KindCondBool is a NUMBER-kind expando used strictly as a truth test;
	// it is rendered only through a callback's RenderNumber, never
	// RenderString. A STRING-kind code used as a condition test parses as a
	// plain KindExpando instead (see parseExpando).
	KindCondBool

	// KindCondition is a ternary: its children sit in fixed slots (test,
	// true branch, and an optional false branch).
	KindCondition

	// KindContainer is an ordered sibling list with no rendering of its own.
	KindContainer

	// KindPadding is a structural fill node injected by the re-pad pass.
	KindPadding
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindText:
		return "Text"
	case KindExpando:
		return "Expando"
	case KindCondBool:
		return "CondBool"
	case KindCondition:
		return "Condition"
	case KindContainer:
		return "Container"
	case KindPadding:
		return "Padding"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Condition node slots. A Condition node always has SlotCondition and
// SlotTrue (an Empty node if the true branch was left empty); the slice
// reaches SlotFalse only when a non-empty else-branch was written.
const (
	SlotCondition = 0
	SlotTrue      = 1
	SlotFalse     = 2
)

// PadVariant distinguishes the three padding constructs.
type PadVariant int

const (
	// PadSoft never truncates its siblings; on overflow it simply emits no
	// fill.
	PadSoft PadVariant = iota

	// PadHard may truncate left siblings to keep the whole render within
	// budget.
	PadHard

	// PadEOL fills to the end of the row; multiple EOL fills on one row
	// split the remainder evenly.
	PadEOL
)

func (v PadVariant) String() string {
	switch v {
	case PadSoft:
		return "soft"
	case PadHard:
		return "hard"
	case PadEOL:
		return "eol"
	default:
		return fmt.Sprintf("PadVariant(%d)", int(v))
	}
}

// Node is a single element of a compiled Expando's tree. It is a tagged
// variant: which fields are meaningful depends on Kind.
type Node struct {
	Kind Kind

	// Text holds the literal run for KindText, the code-specific argument
	// (e.g. a strftime pattern) for KindExpando/KindCondBool, or the fill
	// glyph for KindPadding. Unused otherwise.
	Text string

	// Children holds, in source order:
	//   - the three fixed Condition slots for KindCondition
	//   - the sibling list for KindContainer
	//   - nothing for every other kind
	Children []*Node

	// Def identifies the matched definition for KindExpando/KindCondBool
	// nodes. Nil for every other kind.
	Def *Definition

	// Format holds width/justification/precision for KindExpando nodes.
	// Zero value for every other kind.
	Format FormatSpec

	// PadVariant distinguishes soft/hard/EOL fills. Meaningful only for
	// KindPadding.
	PadVariant PadVariant
}

func emptyNode() *Node {
	return &Node{Kind: KindEmpty}
}

func textNode(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

func containerNode(children []*Node) *Node {
	return &Node{Kind: KindContainer, Children: children}
}

func paddingNode(variant PadVariant, glyph rune) *Node {
	if glyph == 0 {
		glyph = ' '
	}
	return &Node{Kind: KindPadding, PadVariant: variant, Text: string(glyph)}
}

// appendChild appends n to the tail of list, returning the updated slice.
// list may be nil.
func appendChild(list []*Node, n *Node) []*Node {
	return append(list, n)
}

// GetChild returns the child at the given slot/index. For KindCondition
// nodes, slot must be one of SlotCondition, SlotTrue, or SlotFalse; it
// returns nil if that slot wasn't populated (only possible for SlotFalse).
// For every other kind with children, slot is a plain index into Children.
// GetChild panics if slot is out of range for a kind that isn't Condition.
func (n *Node) GetChild(slot int) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == KindCondition {
		if slot < 0 || slot >= len(n.Children) {
			return nil
		}
		return n.Children[slot]
	}
	return n.Children[slot]
}

// Free recursively detaches a node's children, aiding early garbage
// collection of large trees. It is idempotent and safe to call on nil or on
// an already-freed node.
func (n *Node) Free() {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		c.Free()
	}
	n.Children = nil
	n.Def = nil
}

// String returns a debug-oriented, indentation-based rendering of the
// subtree rooted at n, suitable for line-by-line comparison in tests. Two
// trees that produce the same String() are considered structurally
// identical.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var sb strings.Builder
	n.writeString(&sb, 0)
	return sb.String()
}

func (n *Node) writeString(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case KindEmpty:
		sb.WriteString(indent + "[EMPTY]\n")
	case KindText:
		wrapped := rosed.Edit(n.Text).Wrap(60).String()
		sb.WriteString(indent + "[TEXT " + quote(wrapped) + "]\n")
	case KindExpando:
		sb.WriteString(fmt.Sprintf("%s[EXPANDO %s arg=%q format=%s]\n", indent, n.defName(), n.Text, n.Format.String()))
	case KindCondBool:
		sb.WriteString(fmt.Sprintf("%s[CONDBOOL %s arg=%q]\n", indent, n.defName(), n.Text))
	case KindCondition:
		sb.WriteString(indent + "[CONDITION\n")
		sb.WriteString(indent + " COND:\n")
		n.GetChild(SlotCondition).writeString(sb, depth+2)
		sb.WriteString(indent + " TRUE:\n")
		n.GetChild(SlotTrue).writeString(sb, depth+2)
		if f := n.GetChild(SlotFalse); f != nil {
			sb.WriteString(indent + " FALSE:\n")
			f.writeString(sb, depth+2)
		}
		sb.WriteString(indent + "]\n")
	case KindContainer:
		sb.WriteString(indent + "[CONTAINER\n")
		for _, c := range n.Children {
			c.writeString(sb, depth+1)
		}
		sb.WriteString(indent + "]\n")
	case KindPadding:
		sb.WriteString(fmt.Sprintf("%s[PADDING %s glyph=%q]\n", indent, n.PadVariant, n.Text))
	}
}

func (n *Node) defName() string {
	if n.Def == nil {
		return "?"
	}
	return n.Def.ShortName
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Equal reports whether two subtrees are structurally identical: same kind,
// same text/format/definition, and recursively equal children. It does not
// compare the original source string (that's Expando.Equal's job).
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	if n.Text != o.Text {
		return false
	}
	if n.Format != o.Format {
		return false
	}
	if n.PadVariant != o.PadVariant {
		return false
	}
	if (n.Def == nil) != (o.Def == nil) {
		return false
	}
	if n.Def != nil && n.Def.ShortName != o.Def.ShortName {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}
