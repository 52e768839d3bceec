// Package source abstracts where dataset bytes come from: local files,
// HTTP(S) URLs and S3 objects.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/opendq/opendq/internal/errdefs"
)

// Source yields the bytes of one dataset.
type Source interface {
	// Location identifies the source for reports and logs.
	Location() string
	// Open returns a reader over the dataset bytes.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Resolve picks a source implementation from the reference syntax:
// s3://bucket/key, http(s)://..., anything else is a local path.
func Resolve(ref string, httpTimeout time.Duration) (Source, error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		return NewS3Source(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return NewHTTPSource(ref, httpTimeout)
	default:
		return &FileSource{path: ref}, nil
	}
}

// Fetch materializes a source as a local file and returns its path.
// Local files are returned as-is; remote sources are downloaded into
// dir (or the system temp directory when dir is empty).
func Fetch(ctx context.Context, src Source, dir string) (string, func(), error) {
	if fs, ok := src.(*FileSource); ok {
		return fs.path, func() {}, nil
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	name := path.Base(src.Location())
	if name == "" || name == "." || name == "/" {
		name = "dataset.csv"
	}
	tmp, err := os.CreateTemp(dir, "opendq-*-"+sanitizeName(name))
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, errdefs.Wrap(err, errdefs.CodeDownload, "fetch failed")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	return tmp.Name(), cleanup, nil
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// FileSource reads a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for a local path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Location() string { return s.path }

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(s.path)
}

// HTTPSource fetches a dataset over HTTP(S).
type HTTPSource struct {
	url    *url.URL
	client *http.Client
}

// NewHTTPSource creates an HTTP source.
func NewHTTPSource(rawURL string, timeout time.Duration) (*HTTPSource, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", parsed.Scheme)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		url:    parsed,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (s *HTTPSource) Location() string { return s.url.String() }

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeDownload, "request failed")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errdefs.Newf(errdefs.CodeDownload, "HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return resp.Body, nil
}
