package genbank

import "sort"

// Features holds the annotation extracted from one feature table.
// It is built by a single parse and must be treated as read-only.
type Features struct {
	// Organism is the /organism qualifier of the source feature.
	Organism string
	// BasePositions is the end coordinate of the source feature.
	BasePositions int64
	// Locations maps gene names to the location of their first feature.
	Locations map[string]FeatureLocation
}

func newFeatures(organism string, basePositions int64) *Features {
	return &Features{
		Organism:      organism,
		BasePositions: basePositions,
		Locations:     make(map[string]FeatureLocation),
	}
}

// addGene records a gene location unless the gene is already known.
func (f *Features) addGene(name string, loc FeatureLocation) bool {
	if _, ok := f.Locations[name]; ok {
		return false
	}
	f.Locations[name] = loc
	return true
}

// Genes returns the gene names in sorted order.
func (f *Features) Genes() []string {
	genes := make([]string, 0, len(f.Locations))
	for name := range f.Locations {
		genes = append(genes, name)
	}
	sort.Strings(genes)
	return genes
}

// GeneCount returns the number of genes with a location.
func (f *Features) GeneCount() int {
	return len(f.Locations)
}
