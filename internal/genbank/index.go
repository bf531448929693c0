package genbank

import "sort"

// GeneLocation pairs a gene name with its location.
type GeneLocation struct {
	Gene     string
	Location FeatureLocation
}

// LocationIndex answers overlap queries over the genes of one record.
// It is built once and never modified.
type LocationIndex struct {
	entries []GeneLocation
	maxEnd  []int64 // maxEnd[i] = max(End) for entries[:i+1]
}

// NewLocationIndex builds an index over the gene locations of f.
func NewLocationIndex(f *Features) *LocationIndex {
	if f == nil || len(f.Locations) == 0 {
		return &LocationIndex{}
	}

	entries := make([]GeneLocation, 0, len(f.Locations))
	for gene, loc := range f.Locations {
		entries = append(entries, GeneLocation{Gene: gene, Location: loc})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Location.Start != entries[j].Location.Start {
			return entries[i].Location.Start < entries[j].Location.Start
		}
		return entries[i].Gene < entries[j].Gene
	})

	maxEnd := make([]int64, len(entries))
	maxEnd[0] = entries[0].Location.End
	for i := 1; i < len(entries); i++ {
		maxEnd[i] = max(maxEnd[i-1], entries[i].Location.End)
	}

	return &LocationIndex{entries: entries, maxEnd: maxEnd}
}

// FindOverlaps returns the genes whose location contains pos, ordered by
// start position.
func (x *LocationIndex) FindOverlaps(pos int64) []GeneLocation {
	if len(x.entries) == 0 {
		return nil
	}

	// Candidates are [0, hi): every entry with Start <= pos.
	hi := sort.Search(len(x.entries), func(i int) bool {
		return x.entries[i].Location.Start > pos
	})

	var result []GeneLocation
	for i := hi - 1; i >= 0; i-- {
		// No entry in 0..i ends at or after pos.
		if x.maxEnd[i] < pos {
			break
		}
		if x.entries[i].Location.End >= pos {
			result = append(result, x.entries[i])
		}
	}

	// Reverse to ascending start order.
	for l, r := 0, len(result)-1; l < r; l, r = l+1, r-1 {
		result[l], result[r] = result[r], result[l]
	}
	return result
}

// Len returns the number of indexed genes.
func (x *LocationIndex) Len() int {
	return len(x.entries)
}
