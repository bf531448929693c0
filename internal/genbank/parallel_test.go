package genbank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRecords writes n small records whose organism encodes the index.
func writeRecords(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := range n {
		paths[i] = filepath.Join(dir, fmt.Sprintf("rec%03d.gb", i))
		content := record(
			"FEATURES             Location/Qualifiers",
			keyLine("source", fmt.Sprintf("1..%d", 1000+i)),
			qualifierLine(fmt.Sprintf(`/organism="organism %d"`, i)),
			keyLine("gene", "10..20"),
			qualifierLine(fmt.Sprintf(`/gene="g%d"`, i)),
		)
		require.NoError(t, os.WriteFile(paths[i], []byte(content), 0644))
	}
	return paths
}

func TestParallelParse_OrderPreservation(t *testing.T) {
	paths := writeRecords(t, 40)
	p := NewFileParser(16)

	var collected []WorkResult
	err := OrderedCollect(p.ParallelParse(PathItems(paths), 8), func(r WorkResult) error {
		collected = append(collected, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, collected, 40)

	for i, r := range collected {
		assert.Equal(t, i, r.Seq, "result %d out of order", i)
		assert.Equal(t, paths[i], r.Path)
		require.NoError(t, r.Err)
		require.NotNil(t, r.Features)
		assert.Equal(t, fmt.Sprintf("organism %d", i), r.Features.Organism)
		assert.Equal(t, int64(1000+i), r.Features.BasePositions)
	}
}

func TestParallelParse_ErrorsAndMissingData(t *testing.T) {
	paths := writeRecords(t, 2)
	empty := filepath.Join(t.TempDir(), "empty.gb")
	require.NoError(t, os.WriteFile(empty, []byte("LOCUS X\n//\n"), 0644))
	paths = append(paths, empty, filepath.Join(t.TempDir(), "missing.gb"))

	var collected []WorkResult
	err := OrderedCollect(NewFileParser(0).ParallelParse(PathItems(paths), 0), func(r WorkResult) error {
		collected = append(collected, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, collected, 4)

	assert.NotNil(t, collected[0].Features)
	assert.NotNil(t, collected[1].Features)
	assert.NoError(t, collected[2].Err)
	assert.Nil(t, collected[2].Features, "no feature table")
	assert.ErrorIs(t, collected[3].Err, os.ErrNotExist)
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	paths := writeRecords(t, 20)
	stop := errors.New("stop")

	seen := 0
	err := OrderedCollect(NewFileParser(0).ParallelParse(PathItems(paths), 4), func(r WorkResult) error {
		seen++
		if r.Seq == 4 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 5, seen)
}
