package expando

// repadList walks the flat top-level element list and regroups it around
// any KindPadding markers it contains: "[a, b, PAD, c, d]" becomes a
// 3-element "[Container{a,b}, PAD, Container{c,d}]" list. A list with no
// padding marker at all comes back as a one-element list: the lone element
// itself if there is just one, otherwise a new Container holding them all.
// Called once at parse time, via buildGroup, so that render.go never has to
// re-scan for markers.
//
// repadList is idempotent: calling it again on its own output reproduces the
// same structure, because makeGroup returns a lone element (such as an
// already-built Container) unchanged instead of re-wrapping it.
func repadList(elements []*Node) []*Node {
	first := indexOfFirstPadding(elements)
	if first < 0 {
		if len(elements) == 1 {
			return elements
		}
		return []*Node{makeGroup(elements)}
	}

	left := elements[:first]
	marker := elements[first]
	rest := repadList(elements[first+1:])

	out := make([]*Node, 0, 2+len(rest))
	out = append(out, makeGroup(left))
	out = append(out, marker)
	out = append(out, rest...)
	return out
}

func indexOfFirstPadding(elements []*Node) int {
	for i, n := range elements {
		if n.Kind == KindPadding {
			return i
		}
	}
	return -1
}

// buildGroup is the entry point Parse uses to turn the top-level element
// list (as returned by parseElements) into the document root: it first
// regroups around any padding markers via repadList, then collapses the
// result to one Node. It must never be used for a conditional branch — see
// makeCondition, which uses makeGroup instead so that padding markers stay
// scoped to the root sibling list.
func buildGroup(elements []*Node) *Node {
	padded := repadList(elements)
	if len(padded) == 0 {
		return emptyNode()
	}
	if len(padded) == 1 {
		return padded[0]
	}
	return containerNode(padded)
}
