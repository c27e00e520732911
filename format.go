package expando

import "fmt"

// Justify is the justification of an Expando node's rendered value within
// its minimum width.
type Justify int

const (
	JustifyLeft Justify = iota
	JustifyCentre
	JustifyRight
)

func (j Justify) String() string {
	switch j {
	case JustifyLeft:
		return "left"
	case JustifyCentre:
		return "centre"
	case JustifyRight:
		return "right"
	default:
		return fmt.Sprintf("Justify(%d)", int(j))
	}
}

// FormatSpec is the width/precision/justification prefix attached to an
// Expando node, e.g. the "-5.2" in "%-5.2t".
type FormatSpec struct {
	// MinWidth is the minimum number of columns the rendered value should
	// occupy; it is padded with Leader to reach it.
	MinWidth int

	// MaxWidth is the maximum number of columns the rendered value may
	// occupy before truncation. -1 means unbounded.
	MaxWidth int

	// Justify controls where padding is added when the rendered value is
	// narrower than MinWidth.
	Justify Justify

	// Leader is the glyph used to pad up to MinWidth: a space, or '0' when
	// the width field was written with a leading zero.
	Leader rune
}

func defaultFormatSpec() FormatSpec {
	return FormatSpec{MinWidth: 0, MaxWidth: -1, Justify: JustifyLeft, Leader: ' '}
}

func (f FormatSpec) String() string {
	j := "-"
	switch f.Justify {
	case JustifyCentre:
		j = "="
	case JustifyRight:
		j = ""
	}
	prec := ""
	if f.MaxWidth >= 0 {
		prec = fmt.Sprintf(".%d", f.MaxWidth)
	}
	leader := ""
	if f.Leader == '0' {
		leader = "0"
	}
	return fmt.Sprintf("%s%s%d%s", j, leader, f.MinWidth, prec)
}

// parseFormatSpec reads an optional justification flag, an optional leading
// "0" zero-pad flag, optional decimal width digits, and an optional
// ".precision" suffix, starting at p.pos. It does not consume the code that
// follows. Grammar (informal, from spec.md §4.1):
//
//	spec ::= ("-"|"=")? ("0")? digits? ("." digits)?
func (p *parser) parseFormatSpec() (FormatSpec, error) {
	spec := defaultFormatSpec()

	switch p.peek() {
	case '-':
		spec.Justify = JustifyLeft
		p.advance()
	case '=':
		spec.Justify = JustifyCentre
		p.advance()
	default:
		spec.Justify = JustifyRight
	}

	if p.peek() == '0' {
		spec.Leader = '0'
		p.advance()
	}

	if isDigit(p.peek()) {
		start := p.pos
		for isDigit(p.peek()) {
			p.advance()
		}
		width, err := parseDecimal(string(p.runes[start:p.pos]))
		if err != nil {
			return spec, p.errorHere("malformed width in format spec")
		}
		spec.MinWidth = width
	}

	if p.peek() == '.' {
		p.advance()
		start := p.pos
		for isDigit(p.peek()) {
			p.advance()
		}
		if p.pos == start {
			return spec, p.errorHere("malformed precision in format spec: expected digits after '.'")
		}
		prec, err := parseDecimal(string(p.runes[start:p.pos]))
		if err != nil {
			return spec, p.errorHere("malformed precision in format spec")
		}
		spec.MaxWidth = prec
	}

	return spec, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func parseDecimal(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty decimal")
	}
	n := 0
	for _, ch := range s {
		n = n*10 + int(ch-'0')
	}
	return n, nil
}
