// Package ncbi downloads GenBank flat files from the NCBI E-utilities.
package ncbi

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the E-utilities endpoint root.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// ErrNotGenBank is returned when efetch answers with something other than
// a GenBank flat file (NCBI reports unknown IDs in the body with status 200).
var ErrNotGenBank = errors.New("response is not a GenBank record")

// Client fetches nucleotide records with efetch.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	logger   *zap.Logger
	progress io.Writer
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
// apiKey is optional and raises the NCBI rate limit.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 10 * time.Minute, // whole chromosomes are large
		},
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for request messages.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SetProgress directs download progress lines to w. Nil disables them.
func (c *Client) SetProgress(w io.Writer) {
	c.progress = w
}

// FetchURL returns the efetch URL for a GenBank flat file of accession.
func (c *Client) FetchURL(accession string) string {
	q := url.Values{}
	q.Set("db", "nuccore")
	q.Set("id", accession)
	q.Set("rettype", "gb")
	q.Set("retmode", "text")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	return fmt.Sprintf("%s/efetch.fcgi?%s", c.baseURL, q.Encode())
}

// ValidAccession reports whether s looks like a nucleotide accession or
// accession.version (letters, digits, '_' and a single '.').
func ValidAccession(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	dots := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '_':
		case ch == '.':
			dots++
			if dots > 1 || i == 0 || i == len(s)-1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Fetch streams the GenBank flat file of accession to w and returns the
// number of bytes written.
func (c *Client) Fetch(ctx context.Context, accession string, w io.Writer) (int64, error) {
	if !ValidAccession(accession) {
		return 0, fmt.Errorf("invalid accession %q", accession)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FetchURL(accession), nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	c.logger.Debug("fetching record", zap.String("accession", accession))
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	// client must read and close response body to keep connection alive
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	body := bufio.NewReader(resp.Body)
	head, err := body.Peek(len("LOCUS"))
	if err != nil || string(head) != "LOCUS" {
		return 0, fmt.Errorf("fetch %s: %w", accession, ErrNotGenBank)
	}

	var src io.Reader = body
	if c.progress != nil {
		pw := &progressWriter{out: c.progress, total: resp.ContentLength, lastPrint: time.Now()}
		src = io.TeeReader(body, pw)
		defer pw.finish()
	}

	n, err := io.Copy(w, src)
	if err != nil {
		return n, fmt.Errorf("download failed: %w", err)
	}
	c.logger.Debug("fetched record", zap.String("accession", accession), zap.Int64("bytes", n))
	return n, nil
}

// Download saves the GenBank flat file of accession to destPath. The file
// is written to a temporary name first and only renamed on success.
func (c *Client) Download(ctx context.Context, accession, destPath string) (int64, error) {
	if !ValidAccession(accession) {
		return 0, fmt.Errorf("invalid accession %q", accession)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	n, err := c.Fetch(ctx, accession, f)
	f.Close()
	if err != nil {
		os.Remove(tmpPath)
		return n, err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("rename file: %w", err)
	}
	return n, nil
}

// progressWriter prints download progress at most once per second.
type progressWriter struct {
	out        io.Writer
	total      int64
	downloaded int64
	lastPrint  time.Time
	printed    bool
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.downloaded += int64(n)

	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(pw.downloaded) / float64(pw.total) * 100
			fmt.Fprintf(pw.out, "\r    Progress: %s / %s (%.1f%%)  ",
				FormatSize(pw.downloaded), FormatSize(pw.total), pct)
		} else {
			fmt.Fprintf(pw.out, "\r    Progress: %s  ", FormatSize(pw.downloaded))
		}
		pw.lastPrint = time.Now()
		pw.printed = true
	}

	return n, nil
}

func (pw *progressWriter) finish() {
	if pw.printed {
		fmt.Fprintln(pw.out)
	}
}

// FormatSize formats bytes as human-readable size.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
