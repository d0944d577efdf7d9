package loader

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/vitalvas/wadl/ast"
	"github.com/vitalvas/wadl/schema"
)

// Document is one loaded WADL description, identified by the URI it
// was loaded from. Relative hrefs inside the document resolve against
// that URI.
type Document struct {
	URI         string
	Application *schema.Application
}

// Registry indexes the id-carrying elements of loaded documents so
// that href references can be dereferenced. Keys are absolute:
// "<document URI>#<id>". It implements ast.Resolver together with the
// method, resource type and representation capabilities.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	docs    map[string]*Document
	params  map[string]*schema.Param
	methods map[string]*schema.Method
	types   map[string]*schema.ResourceType
	reps    map[string]*schema.Representation

	// load, when set, fetches a document that a reference points at
	// but that has not been added yet. Wired by Loader.
	load func(uri string) (*Document, error)
}

// NewRegistry returns an empty registry. Without a Loader in front of
// it, references resolve only among explicitly added documents.
func NewRegistry() *Registry {
	return &Registry{
		docs:    make(map[string]*Document),
		params:  make(map[string]*schema.Param),
		methods: make(map[string]*schema.Method),
		types:   make(map[string]*schema.ResourceType),
		reps:    make(map[string]*schema.Representation),
	}
}

// Add indexes doc and returns the registered instance. Adding a URI
// twice is a no-op returning the first registration.
func (r *Registry) Add(doc *Document) *Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.docs[doc.URI]; ok {
		return existing
	}
	r.docs[doc.URI] = doc

	app := doc.Application
	for _, p := range app.Params {
		r.indexParam(doc.URI, p)
	}
	for _, m := range app.Methods {
		r.indexMethod(doc.URI, m)
	}
	for _, rt := range app.ResourceTypes {
		r.indexResourceType(doc.URI, rt)
	}
	for _, rep := range app.Representations {
		r.indexRepresentation(doc.URI, rep)
	}
	for _, rs := range app.Resources {
		for _, res := range rs.Resources {
			r.indexResource(doc.URI, res)
		}
	}
	return doc
}

// Document returns the document registered under uri.
func (r *Registry) Document(uri string) (*Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[uri]
	return doc, ok
}

// Documents returns every registered document ordered by URI.
func (r *Registry) Documents() []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uris := make([]string, 0, len(r.docs))
	for uri := range r.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	docs := make([]*Document, 0, len(uris))
	for _, uri := range uris {
		docs = append(docs, r.docs[uri])
	}
	return docs
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

func (r *Registry) indexParam(uri string, p *schema.Param) {
	if p.ID != "" {
		r.params[uri+"#"+p.ID] = p
	}
}

func (r *Registry) indexMethod(uri string, m *schema.Method) {
	if m.ID != "" {
		r.methods[uri+"#"+m.ID] = m
	}
	if m.Request != nil {
		for _, p := range m.Request.Params {
			r.indexParam(uri, p)
		}
		for _, rep := range m.Request.Representations {
			r.indexRepresentation(uri, rep)
		}
	}
	for _, resp := range m.Responses {
		for _, p := range resp.Params {
			r.indexParam(uri, p)
		}
		for _, rep := range resp.Representations {
			r.indexRepresentation(uri, rep)
		}
	}
}

func (r *Registry) indexRepresentation(uri string, rep *schema.Representation) {
	if rep.ID != "" {
		r.reps[uri+"#"+rep.ID] = rep
	}
	for _, p := range rep.Params {
		r.indexParam(uri, p)
	}
}

func (r *Registry) indexResourceType(uri string, rt *schema.ResourceType) {
	if rt.ID != "" {
		r.types[uri+"#"+rt.ID] = rt
	}
	for _, p := range rt.Params {
		r.indexParam(uri, p)
	}
	for _, m := range rt.Methods {
		r.indexMethod(uri, m)
	}
	for _, res := range rt.Resources {
		r.indexResource(uri, res)
	}
}

func (r *Registry) indexResource(uri string, res *schema.Resource) {
	for _, p := range res.Params {
		r.indexParam(uri, p)
	}
	for _, m := range res.Methods {
		r.indexMethod(uri, m)
	}
	for _, child := range res.Resources {
		r.indexResource(uri, child)
	}
}

// ResolveParam implements ast.Resolver.
func (r *Registry) ResolveParam(file, href string, _ *schema.Param) (*schema.Param, error) {
	_, key, err := r.ensureTarget(file, href)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	p, ok := r.params[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ast.InvalidWADLError{Document: file, Ref: href}
	}
	return p, nil
}

// ResolveMethod implements ast.MethodResolver.
func (r *Registry) ResolveMethod(file, href string, _ *schema.Method) (*schema.Method, string, error) {
	doc, key, err := r.ensureTarget(file, href)
	if err != nil {
		return nil, "", err
	}

	r.mu.RLock()
	m, ok := r.methods[key]
	r.mu.RUnlock()
	if !ok {
		return nil, "", ast.InvalidWADLError{Document: file, Ref: href}
	}
	return m, doc, nil
}

// ResolveResourceType implements ast.ResourceTypeResolver.
func (r *Registry) ResolveResourceType(file, ref string) (*schema.ResourceType, string, error) {
	doc, key, err := r.ensureTarget(file, ref)
	if err != nil {
		return nil, "", err
	}

	r.mu.RLock()
	rt, ok := r.types[key]
	r.mu.RUnlock()
	if !ok {
		return nil, "", ast.InvalidWADLError{Document: file, Ref: ref}
	}
	return rt, doc, nil
}

// ResolveRepresentation dereferences a representation href. The
// openapi converter uses it to expand shared representation
// definitions.
func (r *Registry) ResolveRepresentation(file, href string, _ *schema.Representation) (*schema.Representation, error) {
	_, key, err := r.ensureTarget(file, href)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	rep, ok := r.reps[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ast.InvalidWADLError{Document: file, Ref: href}
	}
	return rep, nil
}

// ensureTarget resolves href against the containing document, loads
// the target document if needed and possible, and returns the target
// document URI together with the absolute index key.
func (r *Registry) ensureTarget(file, href string) (string, string, error) {
	doc, id, err := splitRef(file, href)
	if err != nil {
		return "", "", ast.InvalidWADLError{Document: file, Ref: href, Cause: err}
	}

	r.mu.RLock()
	_, loaded := r.docs[doc]
	load := r.load
	r.mu.RUnlock()

	if !loaded {
		if load == nil {
			return "", "", ast.InvalidWADLError{Document: file, Ref: href, Cause: fmt.Errorf("document %s not loaded", doc)}
		}
		if _, err := load(doc); err != nil {
			return "", "", ast.InvalidWADLError{Document: file, Ref: href, Cause: err}
		}
	}
	return doc, doc + "#" + id, nil
}

// splitRef resolves an href against the URI of its containing document
// and splits it into the target document URI and fragment id. An href
// with no document part ("#id") targets the containing document. URL
// bases resolve per RFC 3986; plain filesystem paths resolve against
// the containing directory.
func splitRef(file, href string) (string, string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", "", err
	}

	id := ref.Fragment
	ref.Fragment = ""

	target := ref.String()
	if target == "" {
		return file, id, nil
	}
	if ref.IsAbs() {
		return target, id, nil
	}

	base, err := url.Parse(file)
	if err != nil {
		return "", "", err
	}
	if base.IsAbs() {
		return base.ResolveReference(ref).String(), id, nil
	}

	if strings.HasPrefix(target, "/") {
		return target, id, nil
	}
	return path.Join(path.Dir(file), target), id, nil
}
