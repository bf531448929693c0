package ncbi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const record = "LOCUS       NC_001422               5386 bp    DNA     circular PHG 06-JAN-2023\n//\n"

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchURL(t *testing.T) {
	c := NewClient("", "")
	u, err := url.Parse(c.FetchURL("NC_001422.1"))
	require.NoError(t, err)

	assert.Equal(t, "eutils.ncbi.nlm.nih.gov", u.Host)
	assert.Equal(t, "/entrez/eutils/efetch.fcgi", u.Path)
	q := u.Query()
	assert.Equal(t, "nuccore", q.Get("db"))
	assert.Equal(t, "NC_001422.1", q.Get("id"))
	assert.Equal(t, "gb", q.Get("rettype"))
	assert.Equal(t, "text", q.Get("retmode"))
	assert.False(t, q.Has("api_key"))

	u, err = url.Parse(NewClient("http://localhost/eutils/", "secret").FetchURL("X"))
	require.NoError(t, err)
	assert.Equal(t, "/eutils/efetch.fcgi", u.Path)
	assert.Equal(t, "secret", u.Query().Get("api_key"))
}

func TestValidAccession(t *testing.T) {
	for _, s := range []string{"NC_001422", "NC_001422.1", "U00096", "J01636.1"} {
		assert.True(t, ValidAccession(s), s)
	}
	for _, s := range []string{"", ".1", "NC_1.", "a.b.c", "NC 1", "x&db=pubmed", "../etc"} {
		assert.False(t, ValidAccession(s), s)
	}
}

func TestFetch(t *testing.T) {
	var gotID string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("id")
		w.Write([]byte(record))
	})

	var buf bytes.Buffer
	n, err := NewClient(srv.URL, "").Fetch(context.Background(), "NC_001422.1", &buf)
	require.NoError(t, err)
	assert.Equal(t, "NC_001422.1", gotID)
	assert.Equal(t, int64(len(record)), n)
	assert.Equal(t, record, buf.String())
}

func TestFetch_Errors(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "")
	_, err := c.Fetch(context.Background(), "bad id", &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid accession")

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	})
	_, err = NewClient(srv.URL, "").Fetch(context.Background(), "NC_1", &bytes.Buffer{})
	assert.ErrorContains(t, err, "429")

	srv = newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Error: F a i l u r e in request to nuccore\n"))
	})
	_, err = NewClient(srv.URL, "").Fetch(context.Background(), "NC_1", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNotGenBank)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewClient(srv.URL, "").Fetch(ctx, "NC_1", &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownload(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(record))
	})

	dest := filepath.Join(t.TempDir(), "NC_001422.gb")
	var progress bytes.Buffer
	c := NewClient(srv.URL, "")
	c.SetProgress(&progress)

	_, err := c.Download(context.Background(), "NC_001422", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, record, string(data))

	_, err = os.Stat(dest + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDownload_FailureLeavesNoFile(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	})

	dest := filepath.Join(t.TempDir(), "bad.gb")
	_, err := NewClient(srv.URL, "").Download(context.Background(), "NC_1", dest)
	assert.ErrorIs(t, err, ErrNotGenBank)

	for _, p := range []string{dest, dest + ".tmp"} {
		_, err = os.Stat(p)
		assert.ErrorIs(t, err, os.ErrNotExist, p)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "2.0 MB", FormatSize(2*1024*1024))
}
