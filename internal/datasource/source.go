package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"nbadash/internal/config"
)

// Source opens a named static resource such as "nba_players_info.csv".
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Location describes where resources are read from, for logs and health checks
	Location() string
}

// NewSource picks an implementation from the configured base URL. http and
// https URLs are fetched over the network; anything else is a directory.
func NewSource(cfg config.DataConfig) (Source, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse data base URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		client := &http.Client{Timeout: cfg.FetchTimeout}
		return NewHTTPSource(u, client), nil
	case "file":
		return NewDirSource(u.Path), nil
	case "":
		return NewDirSource(cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported data source scheme %q", u.Scheme)
	}
}

// HTTPSource fetches resources relative to a base URL
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client means http.DefaultClient.
func NewHTTPSource(base *url.URL, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	b := *base
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	return &HTTPSource{base: &b, client: client}
}

// Open issues a GET for base/name. Non-2xx responses are errors.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	target := s.base.ResolveReference(&url.URL{Path: path.Clean(name)})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", name, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{URL: target.String(), StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}

// Location returns the base URL
func (s *HTTPSource) Location() string {
	return s.base.String()
}

// StatusError is returned for a non-2xx HTTP response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// DirSource reads resources from a local directory
type DirSource struct {
	dir string
}

// NewDirSource creates a DirSource rooted at dir
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Open opens dir/name. The name may not escape the directory.
func (s *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("resource name %q escapes data directory", name)
	}

	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Location returns the directory path
func (s *DirSource) Location() string {
	return s.dir
}

// Probe checks that a resource can be opened. It reads nothing beyond the
// first byte so readiness checks stay cheap.
func Probe(ctx context.Context, src Source, name string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rc, err := src.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	var b [1]byte
	if _, err := rc.Read(b[:]); err != nil && err != io.EOF {
		return err
	}
	return nil
}
