package expando

import (
	"strconv"
	"strings"

	"github.com/dekarrin/expando/internal/cells"
	"github.com/dekarrin/expando/internal/util"
)

// unboundedCols is the sentinel max_cols is remapped to when a caller passes
// a negative budget, meaning "no limit".
const unboundedCols = 8192

// Render walks e's tree, invoking cb for each Expando/CondBool node, and
// writes up to maxCols columns to out. The one exception is a row whose
// padding markers are all SOFT (or EOL) and whose groups' natural widths
// already exceed maxCols: those groups are written in full, unclipped, so
// the output is wider than maxCols (see renderOverflowChain). data is an
// opaque pointer passed
// through to every callback untouched. flags is passed through untouched as
// well; the engine assigns it no meaning of its own. It returns the number
// of columns actually written. A negative maxCols is treated as unbounded.
func (e *Expando) Render(out *strings.Builder, cb *CallbackTable, data interface{}, flags uint32) int {
	if e == nil || e.root == nil {
		return 0
	}
	return e.RenderMax(out, cb, data, flags, -1)
}

// RenderMax is Render with an explicit column budget.
func (e *Expando) RenderMax(out *strings.Builder, cb *CallbackTable, data interface{}, flags uint32, maxCols int) int {
	if e == nil || e.root == nil {
		return 0
	}
	if maxCols < 0 {
		maxCols = unboundedCols
	}
	if maxCols == 0 {
		return 0
	}
	ctx := &renderCtx{cb: cb, data: data, flags: flags}
	return ctx.renderNode(out, e.root, maxCols)
}

type renderCtx struct {
	cb    *CallbackTable
	data  interface{}
	flags uint32
}

// renderNode renders n into out, never writing more than budget columns
// except in the unclipped SOFT-overflow case described on Render, and
// returns how many columns it wrote.
func (rc *renderCtx) renderNode(out *strings.Builder, n *Node, budget int) int {
	if n == nil || budget <= 0 {
		return 0
	}

	switch n.Kind {
	case KindEmpty:
		return 0

	case KindText:
		return rc.renderText(out, n, budget)

	case KindExpando:
		return rc.renderExpando(out, n, budget)

	case KindCondBool:
		// CondBool never renders directly; it is only evaluated as a
		// Condition's test. Rendering one in isolation emits nothing.
		return 0

	case KindCondition:
		return rc.renderCondition(out, n, budget)

	case KindContainer:
		return rc.renderContainer(out, n, budget)

	case KindPadding:
		// A bare padding node outside repadList's restructuring has no
		// group widths to balance against; render nothing.
		return 0

	default:
		return 0
	}
}

// renderText emits a Text node's literal run, column-truncated to budget.
func (rc *renderCtx) renderText(out *strings.Builder, n *Node, budget int) int {
	s, w := cells.Truncate(n.Text, budget)
	out.WriteString(s)
	return w
}

// renderExpando invokes the matching callback, applies the node's format
// spec (width, precision, justification, leader), and writes the result.
func (rc *renderCtx) renderExpando(out *strings.Builder, n *Node, budget int) int {
	raw := rc.evaluateString(n)
	formatted := applyFieldFormat(raw, n.Format)
	s, w := cells.Truncate(formatted, budget)
	out.WriteString(s)
	return w
}

// evaluateString produces the raw (pre-format-spec) string value of an
// Expando node, whatever its declared value kind.
func (rc *renderCtx) evaluateString(n *Node) string {
	if n.Def == nil {
		return ""
	}
	entry, ok := rc.cb.lookup(n.Def.NamespaceID, n.Def.FieldID)
	if !ok {
		return ""
	}

	switch n.Def.Kind {
	case ValueNumber:
		if entry.RenderNumber == nil {
			return ""
		}
		return strconv.FormatInt(entry.RenderNumber(n, rc.data, rc.flags), 10)
	default:
		if entry.RenderString == nil {
			return ""
		}
		var sb strings.Builder
		entry.RenderString(n, rc.data, rc.flags, &sb)
		return sb.String()
	}
}

// evaluateNumber produces the raw numeric value of a CondBool/Expando node,
// used for truth-testing a Condition whose test is a NUMBER-kind field.
func (rc *renderCtx) evaluateNumber(n *Node) int64 {
	if n.Def == nil {
		return 0
	}
	entry, ok := rc.cb.lookup(n.Def.NamespaceID, n.Def.FieldID)
	if !ok || entry.RenderNumber == nil {
		return 0
	}
	return entry.RenderNumber(n, rc.data, rc.flags)
}

// renderCondition evaluates n's test and renders whichever branch is
// selected; the other branch is never evaluated.
func (rc *renderCtx) renderCondition(out *strings.Builder, n *Node, budget int) int {
	test := n.GetChild(SlotCondition)
	truth := rc.evaluateTruth(test)

	var branch *Node
	if truth {
		branch = n.GetChild(SlotTrue)
	} else {
		branch = n.GetChild(SlotFalse)
	}
	return rc.renderNode(out, branch, budget)
}

// evaluateTruth implements the test rules from the renderer contract: a
// CondBool test (always a NUMBER-kind definition, per parseExpando) is
// truthy iff its number callback returns non-zero; a condition test that
// parsed as a plain STRING-kind Expando is instead truthy iff its rendered
// string is non-empty; any other subtree is truthy iff it renders to a
// non-empty string.
func (rc *renderCtx) evaluateTruth(test *Node) bool {
	if test == nil {
		return false
	}
	switch test.Kind {
	case KindCondBool:
		return rc.evaluateNumber(test) != 0
	case KindExpando:
		return rc.evaluateString(test) != ""
	default:
		var sb strings.Builder
		rc.renderNode(&sb, test, unboundedCols)
		return sb.Len() != 0
	}
}

// renderContainer renders a Container's children in order, including the
// [group, padding, group, ...] shape the re-pad pass produces.
func (rc *renderCtx) renderContainer(out *strings.Builder, n *Node, budget int) int {
	if !containsPadding(n.Children) {
		written := 0
		for _, c := range n.Children {
			if written >= budget {
				break
			}
			written += rc.renderNode(out, c, budget-written)
		}
		return written
	}
	return rc.renderPaddingChain(out, n.Children, budget)
}

func containsPadding(children []*Node) bool {
	for _, c := range children {
		if c.Kind == KindPadding {
			return true
		}
	}
	return false
}

// renderPaddingChain renders a repadList-restructured [group, pad, group,
// pad, group, ...] list, computing each group's natural width up front so
// that every padding node's own budget is "whatever columns the groups
// don't need" rather than a local guess.
func (rc *renderCtx) renderPaddingChain(out *strings.Builder, chain []*Node, budget int) int {
	groups := make([]*Node, 0, len(chain))
	pads := make([]*Node, 0, len(chain))
	for i, c := range chain {
		if i%2 == 0 {
			groups = append(groups, c)
		} else {
			pads = append(pads, c)
		}
	}

	// Render every group at unbounded width first so natural widths are
	// known before any padding is distributed; groups are re-rendered into
	// the real output buffer afterward (cheap: fields are small, and HARD
	// fill needs the scratch text anyway to truncate it).
	scratch := make([]string, len(groups))
	natural := make([]int, len(groups))
	for i, g := range groups {
		var sb strings.Builder
		rc.renderNode(&sb, g, unboundedCols)
		scratch[i] = sb.String()
		natural[i] = cells.Width(scratch[i])
	}

	totalNatural := 0
	for _, w := range natural {
		totalNatural += w
	}

	hasEOL := false
	for _, p := range pads {
		if p.PadVariant == PadEOL {
			hasEOL = true
		}
	}

	remaining := budget - totalNatural

	if remaining < 0 {
		return rc.renderOverflowChain(out, groups, scratch, natural, pads, budget)
	}

	if !hasEOL {
		return rc.renderFitChain(out, scratch, natural, pads, remaining, budget)
	}
	return rc.renderEOLChain(out, scratch, natural, pads, remaining, budget)
}

// renderFitChain is the common case: total natural width already fits in
// budget and there are no EOL pads, so every group renders in full and the
// leftover columns (if any) go to the non-EOL pads evenly, remainder to the
// rightmost.
func (rc *renderCtx) renderFitChain(out *strings.Builder, scratch []string, natural []int, pads []*Node, remaining, budget int) int {
	written := 0
	fills := distributeRemainder(remaining, len(pads))

	for i, s := range scratch {
		s2, w := cells.Truncate(s, budget-written)
		out.WriteString(s2)
		written += w
		if i < len(pads) {
			n := fills[i]
			glyph := padGlyph(pads[i])
			fillStr, fw := cells.Truncate(strings.Repeat(string(glyph), n), budget-written)
			out.WriteString(fillStr)
			written += fw
		}
	}
	return written
}

// renderEOLChain handles at least one PadEOL marker: every EOL pad shares
// the remainder evenly (remainder via integer division, leftover column to
// the rightmost EOL pad); non-EOL pads in the same chain get nothing extra
// beyond their natural (zero) width, since EOL pads claim the row.
func (rc *renderCtx) renderEOLChain(out *strings.Builder, scratch []string, natural []int, pads []*Node, remaining, budget int) int {
	if remaining < 0 {
		remaining = 0
	}
	eolIdx := make([]int, 0, len(pads))
	for i, p := range pads {
		if p.PadVariant == PadEOL {
			eolIdx = append(eolIdx, i)
		}
	}
	share := 0
	extra := 0
	if len(eolIdx) > 0 {
		share = remaining / len(eolIdx)
		extra = remaining % len(eolIdx)
	}

	written := 0
	eolSeen := 0
	for i, s := range scratch {
		s2, w := cells.Truncate(s, budget-written)
		out.WriteString(s2)
		written += w
		if i < len(pads) {
			p := pads[i]
			glyph := padGlyph(p)
			n := 0
			if p.PadVariant == PadEOL {
				n = share
				if eolSeen == len(eolIdx)-1 {
					n += extra
				}
				eolSeen++
			}
			fillStr, fw := cells.Truncate(strings.Repeat(string(glyph), n), budget-written)
			out.WriteString(fillStr)
			written += fw
		}
	}
	return written
}

// renderOverflowChain handles the case where the groups' natural widths
// alone already exceed budget, with no room left for any pad. SOFT pads
// emit nothing and never clip a sibling, which (per the documented
// trade-off in DESIGN.md) means total output exceeds budget by the full
// overflow in this case. HARD pads instead truncate left-hand groups, working
// backwards from the padding marker, to bring the total back within budget.
func (rc *renderCtx) renderOverflowChain(out *strings.Builder, groups []*Node, scratch []string, natural []int, pads []*Node, budget int) int {
	hasHard := false
	for _, p := range pads {
		if p.PadVariant == PadHard {
			hasHard = true
		}
	}
	if !hasHard {
		written := 0
		for _, s := range scratch {
			out.WriteString(s)
			written += cells.Width(s)
		}
		return written
	}
	return rc.renderHardTruncatedChain(out, scratch, pads, budget)
}

// renderHardTruncatedChain brings an overflowing chain back within budget by
// truncating the groups to the left of the first HARD pad, working
// backwards one rune at a time from the end of that left-hand run. Each
// rune is appended as its own op on an UndoableStringBuilder so that
// reaching back past a group boundary to drop the next rune is just another
// Undo() call, rather than a fresh truncate-and-remeasure of the
// accumulated string.
func (rc *renderCtx) renderHardTruncatedChain(out *strings.Builder, scratch []string, pads []*Node, budget int) int {
	widths := make([]int, len(scratch))
	total := 0
	for i, s := range scratch {
		widths[i] = cells.Width(s)
		total += widths[i]
	}

	limit := len(scratch)
	for i, p := range pads {
		if p.PadVariant == PadHard {
			limit = i + 1
			break
		}
	}

	var usb util.UndoableStringBuilder
	runeWidths := make([]int, 0, 64)
	for gi := 0; gi < limit; gi++ {
		for _, r := range scratch[gi] {
			usb.WriteRune(r)
			runeWidths = append(runeWidths, cells.RuneWidth(r))
		}
	}

	over := total - budget
	for over > 0 && len(runeWidths) > 0 {
		usb.Undo()
		last := runeWidths[len(runeWidths)-1]
		runeWidths = runeWidths[:len(runeWidths)-1]
		over -= last
	}

	written := 0
	left := usb.String()
	out.WriteString(left)
	written += cells.Width(left)

	for gi := limit; gi < len(scratch); gi++ {
		out.WriteString(scratch[gi])
		written += widths[gi]
	}
	return written
}

func padGlyph(p *Node) rune {
	if p == nil || p.Text == "" {
		return ' '
	}
	return []rune(p.Text)[0]
}

// distributeRemainder splits remaining columns across n pads as evenly as
// possible, with any leftover column going to the rightmost pad.
func distributeRemainder(remaining, n int) []int {
	out := make([]int, n)
	if n == 0 {
		return out
	}
	share := remaining / n
	extra := remaining % n
	for i := range out {
		out[i] = share
	}
	if extra > 0 {
		out[n-1] += extra
	}
	return out
}

// applyFieldFormat truncates raw to f.MaxWidth (if set), then pads/justifies
// it to f.MinWidth using f.Leader. It does not enforce the caller's overall
// render budget; renderExpando does that afterward via cells.Truncate.
func applyFieldFormat(raw string, f FormatSpec) string {
	s := raw
	if f.MaxWidth >= 0 {
		s, _ = cells.Truncate(s, f.MaxWidth)
	}

	w := cells.Width(s)
	if w >= f.MinWidth {
		return s
	}
	need := f.MinWidth - w
	leader := f.Leader
	if leader == 0 {
		leader = ' '
	}
	fill := strings.Repeat(string(leader), need)

	switch f.Justify {
	case JustifyRight:
		return fill + s
	case JustifyCentre:
		left := need / 2
		right := need - left
		return strings.Repeat(string(leader), left) + s + strings.Repeat(string(leader), right)
	default: // JustifyLeft
		return s + fill
	}
}
