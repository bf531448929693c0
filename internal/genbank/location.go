package genbank

import (
	"bytes"
	"fmt"
	"strconv"
)

// minLocationLength is the shortest parsable location, "D..D".
const minLocationLength = 4

// minComplementLength is the shortest parsable complement location,
// "complement(D..D". The closing parenthesis is optional.
const minComplementLength = len(complementPrefix) + minLocationLength

// FeatureLocation is a 1-based inclusive span on the record.
type FeatureLocation struct {
	Start      int64
	End        int64
	Complement bool
}

// Len returns the number of bases covered.
func (l FeatureLocation) Len() int64 {
	return l.End - l.Start + 1
}

// Contains returns true if pos lies within the span.
func (l FeatureLocation) Contains(pos int64) bool {
	return pos >= l.Start && pos <= l.End
}

// Strand returns "-" for complement locations and "+" otherwise.
func (l FeatureLocation) Strand() string {
	if l.Complement {
		return "-"
	}
	return "+"
}

func (l FeatureLocation) String() string {
	if l.Complement {
		return fmt.Sprintf("complement(%d..%d)", l.Start, l.End)
	}
	return fmt.Sprintf("%d..%d", l.Start, l.End)
}

// ParseLocation parses a simple span such as "10..200", "<1..>300" or
// "complement(10..200)". Anything it cannot read as a valid span
// (start >= 1, start <= end) is rejected; no partial value is returned.
func ParseLocation(window []byte) (FeatureLocation, bool) {
	var loc FeatureLocation
	if len(window) < minLocationLength {
		return loc, false
	}

	i := 0
	if bytes.HasPrefix(window, []byte(complementPrefix)) {
		if len(window) < minComplementLength {
			return loc, false
		}
		i = len(complementPrefix)
		loc.Complement = true
	}

	if window[i] == '<' {
		i++
	}

	// The first run must leave room for "..D".
	j := i
	for j < len(window)-3 && isDigit(window[j]) {
		j++
	}
	start, ok := parseDigits(window[i:j])
	if !ok {
		return FeatureLocation{}, false
	}

	if j+1 >= len(window) || window[j] != '.' || window[j+1] != '.' {
		return FeatureLocation{}, false
	}
	j += 2

	if j < len(window) && window[j] == '>' {
		j++
	}

	i = j
	for j < len(window) && isDigit(window[j]) {
		j++
	}
	end, ok := parseDigits(window[i:j])
	if !ok {
		return FeatureLocation{}, false
	}

	if start < 1 || end < 1 || start > end {
		return FeatureLocation{}, false
	}
	loc.Start = start
	loc.End = end
	return loc, true
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// parseDigits parses a non-empty run of decimal digits.
func parseDigits(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
