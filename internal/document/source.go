package document

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

//go:embed sample.json
var sampleJSON []byte

// Sample returns the embedded fallback document. It is shown whenever the
// configured source cannot be fetched or decoded.
func Sample() *Tree {
	t, err := Parse(sampleJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded sample document is invalid: %v", err))
	}
	return t
}

// Source fetches the raw JSON bytes of a document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads the document from a local file.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return data, nil
}

func (s FileSource) String() string { return s.Path }

// HTTPSource fetches the document from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

func (s HTTPSource) String() string { return s.URL }

// NewSource picks an HTTPSource for http(s) URLs and a FileSource otherwise.
// An empty location yields nil, which Load treats as "use the sample".
func NewSource(location string, client *http.Client) Source {
	switch {
	case location == "":
		return nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return HTTPSource{URL: location, Client: client}
	default:
		return FileSource{Path: location}
	}
}

// Load fetches and decodes the document from src. It never fails: on any
// fetch or decode error, or when the document has no sections, it returns the
// embedded sample and fallback=true.
func Load(ctx context.Context, src Source, log *slog.Logger) (tree *Tree, fallback bool) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if src == nil {
		log.Info("no document source configured, using sample document")
		return Sample(), true
	}

	data, err := src.Fetch(ctx)
	if err != nil {
		log.Warn("document fetch failed, using sample document", "source", src.String(), "error", err)
		return Sample(), true
	}
	t, err := Parse(data)
	if err != nil {
		log.Warn("document decode failed, using sample document", "source", src.String(), "error", err)
		return Sample(), true
	}
	if len(t.Sections) == 0 {
		log.Warn("document has no sections, using sample document", "source", src.String())
		return Sample(), true
	}

	for _, p := range t.Lint() {
		log.Warn("document lint", "source", src.String(), "problem", p)
	}
	return t, false
}
