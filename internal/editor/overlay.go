package editor

import "strings"

// overlayAt draws overlay on top of bg with its top-left corner at visible
// position (x, y).
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		idx := y + i
		if idx < 0 || idx >= len(bgLines) {
			continue
		}
		bgLines[idx] = spliceLineAt(bgLines[idx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// endsEscape reports whether r terminates an ANSI escape sequence.
func endsEscape(r rune) bool {
	return r != '\x1b' && r != '[' && (r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z')
}

// skipEscape advances past the escape sequence starting at runes[i],
// copying it into out when out is non-nil, and returns the index just
// after the sequence.
func skipEscape(runes []rune, i int, out *strings.Builder) int {
	for i < len(runes) {
		r := runes[i]
		if out != nil {
			out.WriteRune(r)
		}
		i++
		if endsEscape(r) {
			break
		}
	}
	return i
}

// spliceLineAt replaces the visible columns of bgLine covered by the
// overlay, starting at column x. Escape sequences before the splice point
// are kept so the background styling survives; sequences inside the
// covered span are dropped with it.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	width := visibleLen(overlay)

	var prefix strings.Builder
	i, col := 0, 0
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			i = skipEscape(runes, i, &prefix)
			continue
		}
		prefix.WriteRune(runes[i])
		i++
		col++
	}
	for ; col < x; col++ {
		prefix.WriteByte(' ')
	}

	covered := 0
	for i < len(runes) && covered < width {
		if runes[i] == '\x1b' {
			i = skipEscape(runes, i, nil)
			continue
		}
		i++
		covered++
	}

	return prefix.String() + overlay + string(runes[i:])
}

// visibleLen counts the visible (non-escape) runes in a string.
func visibleLen(s string) int {
	runes := []rune(s)
	n := 0
	for i := 0; i < len(runes); {
		if runes[i] == '\x1b' {
			i = skipEscape(runes, i, nil)
			continue
		}
		n++
		i++
	}
	return n
}
