package submission

// Percent converts a byte count into a whole percentage, rounding half up.
// ok is false when total is not positive and the report carries no information.
func Percent(loaded, total int64) (pct int, ok bool) {
	if total <= 0 {
		return 0, false
	}
	if loaded <= 0 {
		return 0, true
	}
	if loaded >= total {
		return 100, true
	}
	// round(loaded*100/total) without floating point
	return int((loaded*200 + total) / (2 * total)), true
}

// Advance applies a transport progress report to the current percentage.
// The result never decreases and never exceeds 100.
func Advance(current int, loaded, total int64) int {
	pct, ok := Percent(loaded, total)
	if !ok || pct < current {
		return current
	}
	return pct
}
