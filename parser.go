package expando

// Parse compiles a format string into an Expando using the given definition
// table to resolve expando codes. defs may be nil, in which case no
// expando code will resolve and any "%x" code reference (including a
// conditional's test) produces a ParseError; "%%" and padding markers still
// parse.
func Parse(format string, defs *DefinitionTable) (*Expando, error) {
	p := newParser(format, defs)

	children, err := p.parseElements(termSet{}, false)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		// parseElements only returns early on a terminator, and the
		// top-level term set matches nothing, so reaching here without
		// consuming everything means an unmatched closer was found.
		return nil, p.errorHere("unexpected %q with no matching opener", p.peek())
	}

	root := buildGroup(children)
	return &Expando{source: format, root: root}, nil
}

// parseElements scans literal text and "%..." constructs until end of input
// or a rune in term is reached (without consuming it). legacy marks that
// this element run lives inside a legacy ("%?...?") conditional branch,
// where "%<" and "%?" lose their conditional-opening meaning (see
// parsePercent).
func (p *parser) parseElements(term termSet, legacy bool) ([]*Node, error) {
	var nodes []*Node

	for {
		if p.atEnd() {
			return nodes, nil
		}
		if term.matches(p.peek()) {
			return nodes, nil
		}

		if p.peek() == '%' {
			n, err := p.parsePercent(term, legacy)
			if err != nil {
				return nil, err
			}
			if n != nil {
				nodes = appendChild(nodes, n)
			}
			continue
		}

		text, err := p.scanText(term)
		if err != nil {
			return nil, err
		}
		if text != "" {
			nodes = appendChild(nodes, textNode(text))
		}
	}
}

// parsePercent handles everything that can follow a '%': the escape "%%",
// modern and legacy conditionals, padding markers, and plain expando
// references. The leading '%' is consumed by this call.
//
// legacy suppresses conditional-opening for '<' and '?': per the scenario
// suite, a legacy ("%?...?") branch does not recognise "%<...>" (or a
// further "%?...?") as a nested conditional at all — the '<' or '?' falls
// through to plain expando-code parsing instead, since legacy conditionals
// do not nest.
func (p *parser) parsePercent(term termSet, legacy bool) (*Node, error) {
	startByte := p.bytePos()
	p.advance() // consume '%'

	switch p.peek() {
	case 0:
		return nil, newParseError(p.source, startByte, "unterminated '%%' at end of input")
	case '%':
		p.advance()
		return textNode("%"), nil
	case '<':
		if legacy {
			return p.parseExpando(false)
		}
		return p.parseModernConditional()
	case '?':
		if legacy {
			return p.parseExpando(false)
		}
		return p.parseLegacyConditional()
	case '>', '|', '*':
		return p.parsePadding()
	default:
		return p.parseExpando(false)
	}
}

// parseModernConditional parses "%<code?true&false>" or "%<code?true>",
// consuming the leading '<'. Modern conditionals nest: a "%<" inside a
// branch is parsed recursively as its own conditional and consumes its own
// closing '>', so the first '>' left at this level closes this one. A bare
// '<' in a branch is plain text.
func (p *parser) parseModernConditional() (*Node, error) {
	p.advance() // consume '<'

	test, err := p.parseExpando(true)
	if err != nil {
		return nil, err
	}
	if p.peek() != '?' {
		return nil, p.errorHere("malformed conditional: expected '?' after test code")
	}
	p.advance()

	trueBranch, err := p.parseElements(termSet{amp: true, close: true}, false)
	if err != nil {
		return nil, err
	}

	var falseBranch []*Node
	if p.peek() == '&' {
		p.advance()
		falseBranch, err = p.parseElements(termSet{close: true}, false)
		if err != nil {
			return nil, err
		}
	}

	if p.peek() != '>' {
		return nil, p.errorHere("unterminated modern conditional: expected '>'")
	}
	p.advance()

	return makeCondition(test, trueBranch, falseBranch), nil
}

// parseLegacyConditional parses "%?code?true?false?", consuming the leading
// '?'. Legacy conditionals are flat: they do not nest, and each '?' at any
// depth terminates the current branch.
func (p *parser) parseLegacyConditional() (*Node, error) {
	p.advance() // consume '?'

	test, err := p.parseExpando(true)
	if err != nil {
		return nil, err
	}
	if p.peek() != '?' {
		return nil, p.errorHere("malformed legacy conditional: expected '?' after test code")
	}
	p.advance()

	trueBranch, err := p.parseElements(termSet{qmark: true}, true)
	if err != nil {
		return nil, err
	}
	if p.peek() != '?' {
		return nil, p.errorHere("unterminated legacy conditional: expected '?' after true branch")
	}
	p.advance()

	falseBranch, err := p.parseElements(termSet{qmark: true}, true)
	if err != nil {
		return nil, err
	}
	if p.peek() != '?' {
		return nil, p.errorHere("unterminated legacy conditional: expected closing '?'")
	}
	p.advance()

	return makeCondition(test, trueBranch, falseBranch), nil
}

// makeCondition collapses each branch with makeGroup, not buildGroup: the
// re-pad pass only ever runs once, over the top-level element list (see
// Parse), so a padding marker written inside a conditional branch is never
// regrouped into a KindPadding sibling of that branch's own Container —
// padding nodes only ever appear as immediate children of the root
// container.
func makeCondition(test *Node, trueBranch, falseBranch []*Node) *Node {
	n := &Node{Kind: KindCondition}
	n.Children = make([]*Node, 2, 3)
	n.Children[SlotCondition] = test
	n.Children[SlotTrue] = makeGroup(trueBranch)
	if len(falseBranch) > 0 {
		n.Children = append(n.Children, makeGroup(falseBranch))
	}
	return n
}

// makeGroup collapses an element list down to a single Node: nil becomes an
// Empty node, a lone element is returned unchanged rather than wrapped (this
// is also what keeps the re-pad pass in pad.go idempotent), and two or more
// elements are wrapped in a fresh Container.
func makeGroup(elements []*Node) *Node {
	if len(elements) == 0 {
		return emptyNode()
	}
	if len(elements) == 1 {
		return elements[0]
	}
	return containerNode(elements)
}

// parsePadding parses "%>c", "%|c", or "%*c" where the rune immediately
// after the marker is the fill glyph.
func (p *parser) parsePadding() (*Node, error) {
	markerByte := p.bytePos()
	marker := p.peek()
	p.advance()

	var variant PadVariant
	switch marker {
	case '>':
		variant = PadSoft
	case '|':
		variant = PadHard
	case '*':
		variant = PadEOL
	}

	if p.atEnd() {
		return nil, newParseError(p.source, markerByte, "padding marker %%%c requires a fill glyph", marker)
	}
	glyph := p.peek()
	p.advance()

	return paddingNode(variant, glyph), nil
}

// parseExpando parses a percent-code reference: an optional format spec (not
// permitted in condition-test position), the code itself (looked up in
// p.defs), and an optional custom argument. asCondition selects
// condition-test position, where the implicit '%' has already been consumed
// by the caller and no format spec is allowed.
func (p *parser) parseExpando(asCondition bool) (*Node, error) {
	startByte := p.bytePos()

	format := defaultFormatSpec()
	if !asCondition {
		var err error
		format, err = p.parseFormatSpec()
		if err != nil {
			return nil, err
		}
	}

	if p.defs == nil || p.atEnd() {
		return nil, newParseError(p.source, startByte, "unrecognized expando code")
	}

	def, width := p.defs.lookup(p.runes, p.pos)
	if def == nil {
		return nil, p.errorHere("unrecognized expando code %q", string(p.peek()))
	}
	for i := 0; i < width; i++ {
		p.advance()
	}

	var arg string
	if def.ParseArg != nil {
		a, consumed, err := def.ParseArg(p.runes, p.pos)
		if err != nil {
			return nil, newParseError(p.source, startByte, "%s", err.Error())
		}
		arg = a
		for i := 0; i < consumed; i++ {
			p.advance()
		}
	}

	// A condition test is only tagged CondBool when it resolves to a
	// NUMBER-kind definition; a STRING-kind code used as a test stays plain
	// KindExpando (see evaluateTruth), matching the renderer contract's
	// separate "CondBool" and "Expando of STRING kind" test rules.
	kind := KindExpando
	if asCondition && def.Kind == ValueNumber {
		kind = KindCondBool
	}
	return &Node{Kind: kind, Def: def, Text: arg, Format: format}, nil
}
