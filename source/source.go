// Package source holds the text and parsed tree of every document fetched
// during a run (component A of the engine: the Source+Span store) and maps
// byte offsets to (line,col) and JSON pointers against that tree.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	speclinterrors "github.com/speclint/speclint/errors"
	"github.com/speclint/speclint/internal/utils"
	"github.com/speclint/speclint/system"
	"gopkg.in/yaml.v3"
)

const (
	// ErrParse is returned, wrapped with detail, when a document's bytes do
	// not parse as YAML/JSON.
	ErrParse = speclinterrors.Error("yaml parse error")
	// ErrFetch is returned, wrapped with detail, when a Source's bytes
	// cannot be obtained from its URI (file or network).
	ErrFetch = speclinterrors.Error("source fetch error")
)

// Source owns the raw bytes of one fetched document and its parsed tree.
// Spans are half-open [start,end) byte offsets into Bytes, expressed via the
// yaml.Node Line/Column fields (1-based) rather than raw offsets -- yaml.v3
// does not expose byte offsets directly, so positions are reported in the
// (line,col) form the rest of the engine (and yaml.v3 error messages) use.
type Source struct {
	URI   string
	Bytes []byte
	Root  *yaml.Node // DocumentNode; nil if parsing failed

	lineStartsOnce sync.Once
	lineStarts     []int // byte offset of the start of each line, 0-indexed
}

// Store is a cache of opened Sources, keyed by absolute URI. Open is
// idempotent: a URI already present is never re-fetched within the Store's
// lifetime, matching the read-mostly, single-writer-per-URI cache model of
// spec.md §5.
type Store struct {
	mu      sync.Mutex
	byURI   map[string]*Source
	fs      system.VirtualFS
	client  *http.Client
	locks   map[string]*sync.Mutex // per-URI fetch lock
	locksMu sync.Mutex
}

// NewStore creates an empty Store. A nil fs defaults to the real
// filesystem; a nil client defaults to http.DefaultClient.
func NewStore(fs system.VirtualFS, client *http.Client) *Store {
	if fs == nil {
		fs = &system.FileSystem{}
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{
		byURI:  map[string]*Source{},
		fs:     fs,
		client: client,
		locks:  map[string]*sync.Mutex{},
	}
}

// Open fetches and parses the document at uri, or returns the cached Source
// if uri was already opened by this Store. uri may be a file path, a
// file:// URL, or an http(s):// URL.
func (s *Store) Open(ctx context.Context, uri string) (*Source, error) {
	s.mu.Lock()
	if src, ok := s.byURI[uri]; ok {
		s.mu.Unlock()
		return src, nil
	}
	s.mu.Unlock()

	lock := s.lockFor(uri)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	if src, ok := s.byURI[uri]; ok {
		s.mu.Unlock()
		return src, nil
	}
	s.mu.Unlock()

	raw, err := s.fetch(ctx, uri)
	if err != nil {
		return nil, ErrFetch.Wrap(fmt.Errorf("%s: %w", uri, err))
	}

	src := &Source{URI: uri, Bytes: raw}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, ErrParse.Wrap(fmt.Errorf("%s: %w", uri, err))
	}
	if len(doc.Content) > 0 {
		src.Root = doc.Content[0]
	} else {
		src.Root = &doc
	}

	s.mu.Lock()
	s.byURI[uri] = src
	s.mu.Unlock()

	return src, nil
}

func (s *Store) lockFor(uri string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[uri]
	if !ok {
		l = &sync.Mutex{}
		s.locks[uri] = l
	}
	return l
}

func (s *Store) fetch(ctx context.Context, uri string) ([]byte, error) {
	cls, err := utils.ClassifyReference(uri)
	if err != nil {
		return nil, err
	}

	switch {
	case cls.IsURL && isHTTPScheme(cls.ParsedURL):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close() //nolint:errcheck
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	case cls.IsURL && cls.ParsedURL.Scheme == "file":
		return readFile(s.fs, cls.ParsedURL.Path)
	default:
		return readFile(s.fs, uri)
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func readFile(vfs system.VirtualFS, path string) ([]byte, error) {
	f, err := vfs.Open(path)
	if err != nil {
		// Fall back to the OS filesystem directly for absolute paths, since
		// system.VirtualFS (fs.FS) requires slash-separated relative paths.
		return os.ReadFile(path) //nolint:gosec
	}
	defer f.Close() //nolint:errcheck
	return io.ReadAll(f)
}

// Sources returns every Source currently held by the Store, for diagnostics.
func (s *Store) Sources() []*Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Source, 0, len(s.byURI))
	for _, src := range s.byURI {
		out = append(out, src)
	}
	return out
}

// Position returns the 1-based (line, column) of a yaml.Node belonging to
// this Source, as reported directly by the parser.
func Position(n *yaml.Node) (line, column int) {
	if n == nil {
		return 0, 0
	}
	return n.Line, n.Column
}
