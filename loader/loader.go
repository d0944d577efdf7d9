package loader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/vitalvas/wadl/ast"
	"github.com/vitalvas/wadl/schema"
)

// DefaultMaxDocuments bounds transitive loading when Config.MaxDocuments
// is zero.
const DefaultMaxDocuments = 64

// Config configures a Loader. The zero value is usable: documents are
// opened from the filesystem, http and https URIs are fetched with
// http.DefaultClient, and transitive loading stops after
// DefaultMaxDocuments documents.
type Config struct {
	// HTTPClient fetches http and https documents. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Open overrides how document URIs are opened. When set it is
	// used for every URI, including http and https ones.
	Open func(uri string) (io.ReadCloser, error)

	// MaxDocuments caps how many documents the loader will hold,
	// including ones loaded transitively while resolving cross
	// document references.
	MaxDocuments int
}

// Loader reads WADL documents into a Registry. Documents referenced
// by href from a loaded document are fetched lazily the first time a
// reference into them is resolved.
type Loader struct {
	cfg Config
	reg *Registry

	mu    sync.Mutex
	roots []string
}

// New returns a Loader with an empty registry.
func New(cfg Config) *Loader {
	if cfg.MaxDocuments <= 0 {
		cfg.MaxDocuments = DefaultMaxDocuments
	}
	l := &Loader{cfg: cfg, reg: NewRegistry()}
	l.reg.load = l.loadDocument
	return l
}

// Registry returns the registry backing the loader. It implements
// ast.Resolver and can be handed to ast.BuildResources directly.
func (l *Loader) Registry() *Registry {
	return l.reg
}

// Load reads the document at uri, indexes it and marks it as a root
// for Analyze. Loading an already known URI returns the registered
// document without re-reading it, which also keeps reference cycles
// between documents harmless.
func (l *Loader) Load(uri string) (*Document, error) {
	doc, err := l.loadDocument(uri)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, root := range l.roots {
		if root == uri {
			return doc, nil
		}
	}
	l.roots = append(l.roots, uri)
	return doc, nil
}

// LoadBytes indexes an in-memory document under uri, for descriptions
// that are embedded or generated rather than fetched.
func (l *Loader) LoadBytes(uri string, data []byte) (*Document, error) {
	if doc, ok := l.reg.Document(uri); ok {
		return doc, nil
	}
	app, err := schema.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", uri, err)
	}
	doc := l.reg.Add(&Document{URI: uri, Application: app})

	l.mu.Lock()
	defer l.mu.Unlock()
	l.roots = append(l.roots, uri)
	return doc, nil
}

// Analyze builds resource nodes for every document passed to Load, in
// load order. Each path template is analyzed exactly once; the nodes
// are reusable for any number of evaluations. Documents pulled in
// lazily through references contribute definitions but no resources
// of their own.
func (l *Loader) Analyze() ([]*ast.ResourceNode, error) {
	l.mu.Lock()
	roots := make([]string, len(l.roots))
	copy(roots, l.roots)
	l.mu.Unlock()

	var nodes []*ast.ResourceNode
	for _, uri := range roots {
		doc, ok := l.reg.Document(uri)
		if !ok {
			continue
		}
		built, err := ast.BuildResources(doc.Application, doc.URI, l.reg)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, built...)
	}
	return nodes, nil
}

func (l *Loader) loadDocument(uri string) (*Document, error) {
	if doc, ok := l.reg.Document(uri); ok {
		return doc, nil
	}
	if l.reg.Len() >= l.cfg.MaxDocuments {
		return nil, fmt.Errorf("loader: document limit %d reached loading %s", l.cfg.MaxDocuments, uri)
	}

	rc, err := l.open(uri)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", uri, err)
	}
	defer rc.Close()

	app, err := schema.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", uri, err)
	}
	return l.reg.Add(&Document{URI: uri, Application: app}), nil
}

func (l *Loader) open(uri string) (io.ReadCloser, error) {
	if l.cfg.Open != nil {
		return l.cfg.Open(uri)
	}
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		client := l.cfg.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Get(uri)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return resp.Body, nil
	}
	return os.Open(uri)
}
