package genbank

// FindFeatureTable advances c to the line starting with "FEATURES".
// The comparison is case-sensitive. It returns false if the stream ends
// first. On success the cursor is left on the header line.
func FindFeatureTable(c *Cursor) bool {
	var key [len(featuresKeyword)]byte
	for {
		n := c.ReadChars(key[:])
		if n == len(key) && string(key[:]) == featuresKeyword {
			return true
		}
		if !c.NextLine() {
			return false
		}
	}
}
