// Package genbank reads the FEATURES table of GenBank flat files.
package genbank

// Column layout of the feature table. Most GenBank files keep lines within
// 80 characters; keys start in column 6 and qualifiers in column 22.
const (
	LineLength      = 80
	KeyIndent       = 5
	QualifierIndent = 21

	// KeyColumnWidth is the width of the key column including the padding
	// before the location, so the location starts at QualifierIndent.
	KeyColumnWidth = QualifierIndent - KeyIndent

	// MaxKeyLength is the longest feature key that fits the key column.
	MaxKeyLength = KeyColumnWidth - 1
)

// Literals recognised in the table.
const (
	featuresKeyword   = "FEATURES"
	sourceKey         = "source"
	organismQualifier = "/organism="
	geneQualifier     = "/gene="
	complementPrefix  = "complement("
)
