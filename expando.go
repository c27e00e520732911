package expando

// Expando is a compiled format string: an immutable pairing of its original
// source text and the parsed tree rooted at root. Create one with Parse;
// render it as many times as needed with Render/RenderMax.
type Expando struct {
	source string
	root   *Node
}

// Source returns the original format string this Expando was parsed from.
func (e *Expando) Source() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Root returns the compiled tree's root node. It exists for packages (such
// as persist) that need to walk or re-serialize the tree directly; ordinary
// callers should use Render/RenderMax instead.
func (e *Expando) Root() *Node {
	if e == nil {
		return nil
	}
	return e.root
}

// NewCompiled builds an Expando directly from an already-constructed tree,
// bypassing Parse. It exists for package persist, which reconstructs a tree
// from a serialized form rather than parsing source text; source is kept
// only so Equal and String continue to reflect the format string the tree
// was originally compiled from.
func NewCompiled(source string, root *Node) *Expando {
	return &Expando{source: source, root: root}
}

// Equal reports whether two Expandos were parsed from byte-identical source
// strings. It does not walk the tree: two parses of the same string are
// always structurally identical (parsing is deterministic), so source
// equality is sufficient and considerably cheaper.
func (e *Expando) Equal(o *Expando) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.source == o.source
}

// Free recursively detaches e's tree, aiding early garbage collection of
// large compiled format strings. Safe to call on nil.
func (e *Expando) Free() {
	if e == nil {
		return
	}
	e.root.Free()
	e.root = nil
}

// String returns e's original source text.
func (e *Expando) String() string {
	return e.Source()
}
