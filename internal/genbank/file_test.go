package genbank

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGzip(t *testing.T, path string, data []byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := pgzip.NewWriter(f)
	_, err = gz.Write(data)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
}

func TestOpen_Plain(t *testing.T) {
	rc, err := Open(filepath.Join("testdata", "ecothr.gb"))
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FEATURES")
}

func TestOpen_Gzip(t *testing.T) {
	plain, err := os.ReadFile(filepath.Join("testdata", "ecothr.gb"))
	require.NoError(t, err)

	// The extension is irrelevant, detection uses the magic bytes.
	path := filepath.Join(t.TempDir(), "ecothr.gbk")
	writeGzip(t, path, plain)

	rc, err := Open(path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, plain, data)

	f, err := NewFileParser(64).ParseFile(path)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "Escherichia coli", f.Organism)
	assert.Equal(t, 5, f.GeneCount())
}

func TestOpen_EmptyAndTinyFiles(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{"empty.gb": "", "tiny.gb": "L"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		f, err := NewFileParser(0).ParseFile(path)
		require.NoError(t, err, name)
		assert.Nil(t, f, name)
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.gb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
