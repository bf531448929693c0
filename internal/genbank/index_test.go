package genbank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func genes(hits []GeneLocation) []string {
	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.Gene
	}
	return names
}

func TestLocationIndex_Empty(t *testing.T) {
	assert.Empty(t, NewLocationIndex(nil).FindOverlaps(10))
	assert.Empty(t, NewLocationIndex(newFeatures("x", 100)).FindOverlaps(10))
	assert.Equal(t, 0, NewLocationIndex(nil).Len())
}

func TestLocationIndex_FindOverlaps(t *testing.T) {
	f := newFeatures("Escherichia coli", 5000)
	f.addGene("A", FeatureLocation{Start: 100, End: 300})
	f.addGene("B", FeatureLocation{Start: 150, End: 250, Complement: true})
	f.addGene("C", FeatureLocation{Start: 200, End: 400})
	f.addGene("D", FeatureLocation{Start: 1000, End: 1100})

	x := NewLocationIndex(f)
	assert.Equal(t, 4, x.Len())

	assert.Equal(t, []string{"A", "B"}, genes(x.FindOverlaps(175)))
	assert.Equal(t, []string{"A", "B", "C"}, genes(x.FindOverlaps(250)))
	assert.Equal(t, []string{"C"}, genes(x.FindOverlaps(350)))
	assert.Equal(t, []string{"A"}, genes(x.FindOverlaps(100)), "start inclusive")
	assert.Equal(t, []string{"C"}, genes(x.FindOverlaps(400)), "end inclusive")
	assert.Empty(t, x.FindOverlaps(99))
	assert.Empty(t, x.FindOverlaps(500))
	assert.Equal(t, []string{"D"}, genes(x.FindOverlaps(1050)))

	hits := x.FindOverlaps(160)
	assert.True(t, hits[1].Location.Complement)
}

func TestLocationIndex_NestedGenes(t *testing.T) {
	f := newFeatures("Escherichia coli", 5000)
	f.addGene("long", FeatureLocation{Start: 1, End: 1000})
	f.addGene("short", FeatureLocation{Start: 5, End: 10})
	f.addGene("late", FeatureLocation{Start: 40, End: 45})

	x := NewLocationIndex(f)
	assert.Equal(t, []string{"long"}, genes(x.FindOverlaps(50)), "enclosing gene behind shorter ones")
	assert.Equal(t, []string{"long", "short"}, genes(x.FindOverlaps(7)))
	assert.Equal(t, []string{"long", "late"}, genes(x.FindOverlaps(42)))
	assert.Equal(t, []string{"long"}, genes(x.FindOverlaps(1000)))
	assert.Empty(t, x.FindOverlaps(1001))
}

func TestFeatures_Genes(t *testing.T) {
	f := newFeatures("x", 100)
	assert.True(t, f.addGene("zeta", FeatureLocation{Start: 1, End: 2}))
	assert.True(t, f.addGene("alpha", FeatureLocation{Start: 3, End: 4}))
	assert.False(t, f.addGene("zeta", FeatureLocation{Start: 5, End: 6}))

	assert.Equal(t, []string{"alpha", "zeta"}, f.Genes())
	assert.Equal(t, FeatureLocation{Start: 1, End: 2}, f.Locations["zeta"])
}
