package views

// InsertNewline replaces the selection [selStart, selEnd) of value with a
// newline and returns the new value and caret. Offsets count runes and are
// clamped to the value; a reversed selection is normalised.
func InsertNewline(value string, selStart, selEnd int) (string, int) {
	r := []rune(value)
	selStart = clamp(selStart, 0, len(r))
	selEnd = clamp(selEnd, 0, len(r))
	if selStart > selEnd {
		selStart, selEnd = selEnd, selStart
	}
	out := make([]rune, 0, len(r)-(selEnd-selStart)+1)
	out = append(out, r[:selStart]...)
	out = append(out, '\n')
	out = append(out, r[selEnd:]...)
	return string(out), selStart + 1
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
