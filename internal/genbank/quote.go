package genbank

// ExtractQuoted returns the text between the first and the last double
// quote of window. Quotes in between are kept as-is and bytes outside the
// quotes are ignored. It fails when fewer than two quotes are present.
func ExtractQuoted(window []byte) (string, bool) {
	if len(window) < 2 {
		return "", false
	}
	last := len(window) - 1

	// The opening quote cannot be the final byte.
	open := -1
	for i := 0; i < last; i++ {
		if window[i] == '"' {
			open = i
			break
		}
	}
	if open < 0 {
		return "", false
	}

	for i := last; i > open; i-- {
		if window[i] == '"' {
			return string(window[open+1 : i]), true
		}
	}
	return "", false
}
