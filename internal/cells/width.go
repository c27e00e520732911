// Package cells measures and truncates strings by terminal display column
// rather than by byte or rune count, so that wide (e.g. East Asian) glyphs
// and combining marks occupy the same number of columns here as they would
// in the terminal the rendered text is destined for.
package cells

import "github.com/mattn/go-runewidth"

// Width returns the number of terminal columns s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// RuneWidth returns the number of terminal columns a single rune occupies.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// Truncate returns the longest prefix of s whose column width is no more
// than maxCols, along with that prefix's width. It never splits a
// multi-byte rune and never leaves a dangling half of a double-width cell;
// if the rune at the cut point is double-width and only one column remains,
// that rune is dropped rather than partially rendered.
func Truncate(s string, maxCols int) (string, int) {
	if maxCols <= 0 {
		return "", 0
	}
	width := 0
	cut := len(s)
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if width+w > maxCols {
			cut = i
			return s[:cut], width
		}
		width += w
	}
	return s, width
}

// PadTo returns s with leader runes appended so its display width is at
// least minCols; it always pads on the right and does not justify. If s is
// already at or beyond minCols columns wide, it is returned unchanged.
func PadTo(s string, minCols int, leader rune) string {
	w := Width(s)
	if w >= minCols {
		return s
	}
	need := minCols - w
	pad := make([]rune, need)
	for i := range pad {
		pad[i] = leader
	}
	return s + string(pad)
}
