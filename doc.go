// Package expando implements a small domain-specific language for
// user-configurable format strings that expand runtime data into a
// bounded-width text buffer.
//
// A format string is compiled once with Parse into a tree of Nodes, then
// rendered many times against caller-supplied data with Expando.Render. The
// grammar supports literal text, %-prefixed data references ("expandos"),
// ternary conditionals, and three flavors of column padding.
//
// The package knows nothing about what any particular expando code means; the
// caller supplies a Definition table at parse time and a CallbackTable at
// render time. This mirrors status-line engines like the one in neomutt,
// where "%s" might mean "subject" in one host and "size" in another.
package expando
