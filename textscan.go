package expando

// termSet is a bitmask of runes that terminate the current run of elements.
// Which runes are active depends on where parseElements was called from:
// empty at the top level, {'&','>'} inside a modern conditional's true
// branch, {'>'} inside its false branch, and {'?'} inside a legacy
// conditional's branch.
type termSet struct {
	amp   bool
	close bool
	qmark bool
}

func (t termSet) matches(r rune) bool {
	switch r {
	case '&':
		return t.amp
	case '>':
		return t.close
	case '?':
		return t.qmark
	}
	return false
}

// parser walks a format string rune by rune, tracking the byte offset of
// each rune so that errors can be reported at an exact byte position in the
// original source, using a rune-cursor scanning style (track position
// separately from byte offset so error positions stay exact even over
// multi-byte UTF-8 input).
type parser struct {
	source  string
	runes   []rune
	byteOff []int // byteOff[i] is the byte offset of runes[i] in source
	pos     int   // current rune index

	defs *DefinitionTable
}

func newParser(source string, defs *DefinitionTable) *parser {
	runes := make([]rune, 0, len(source))
	byteOff := make([]int, 0, len(source))
	for i, r := range source {
		runes = append(runes, r)
		byteOff = append(byteOff, i)
	}
	return &parser{source: source, runes: runes, byteOff: byteOff, defs: defs}
}

// peek returns the rune at the cursor, or 0 at end of input.
func (p *parser) peek() rune {
	if p.pos >= len(p.runes) {
		return 0
	}
	return p.runes[p.pos]
}

// peekAt returns the rune offs runes ahead of the cursor, or 0 past the end.
func (p *parser) peekAt(offs int) rune {
	idx := p.pos + offs
	if idx < 0 || idx >= len(p.runes) {
		return 0
	}
	return p.runes[idx]
}

func (p *parser) advance() {
	if p.pos < len(p.runes) {
		p.pos++
	}
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.runes)
}

// bytePos returns the byte offset in source corresponding to the current
// rune cursor, for use in error positions.
func (p *parser) bytePos() int {
	if p.pos < len(p.byteOff) {
		return p.byteOff[p.pos]
	}
	return len(p.source)
}

func (p *parser) errorHere(format string, args ...interface{}) ParseError {
	return newParseError(p.source, p.bytePos(), format, args...)
}

// scanText consumes a maximal run of characters that are neither '%' nor a
// rune in term.
func (p *parser) scanText(term termSet) (string, error) {
	start := p.pos
	for !p.atEnd() && p.peek() != '%' && !term.matches(p.peek()) {
		p.advance()
	}
	return string(p.runes[start:p.pos]), nil
}
