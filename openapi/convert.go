package openapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/vitalvas/wadl/ast"
	"github.com/vitalvas/wadl/schema"
)

// xsdTypeMap maps XSD simple type names (the local part of a WADL param
// type QName) to OpenAPI type and format.
var xsdTypeMap = map[string][2]string{
	"string":             {"string", ""},
	"token":              {"string", ""},
	"int":                {"integer", ""},
	"integer":            {"integer", ""},
	"long":               {"integer", ""},
	"short":              {"integer", ""},
	"byte":               {"integer", ""},
	"positiveInteger":    {"integer", ""},
	"nonNegativeInteger": {"integer", ""},
	"unsignedInt":        {"integer", ""},
	"unsignedLong":       {"integer", ""},
	"decimal":            {"number", ""},
	"float":              {"number", ""},
	"double":             {"number", ""},
	"boolean":            {"boolean", ""},
	"date":               {"string", "date"},
	"dateTime":           {"string", "date-time"},
	"time":               {"string", "time"},
	"anyURI":             {"string", "uri"},
	"base64Binary":       {"string", "byte"},
}

// RepresentationResolver dereferences representation hrefs against the
// document they appear in. *loader.Registry satisfies it.
type RepresentationResolver interface {
	ResolveRepresentation(file, href string, rep *schema.Representation) (*schema.Representation, error)
}

// Config configures a Converter.
type Config struct {
	// Title and Version fill the info object. They default to "API"
	// and "1.0.0": both fields are mandatory in OpenAPI and WADL has
	// no equivalent.
	Title   string
	Version string

	// Description fills the info description.
	Description string

	// IncludeMatrix emits matrix style parameters as path parameters
	// with style "matrix". Off by default: matrix parameters have no
	// placeholder in the path template, which makes the resulting
	// document formally questionable even though common tooling
	// accepts it.
	IncludeMatrix bool

	// Representations dereferences representation hrefs. When nil,
	// representations declared by reference are skipped.
	Representations RepresentationResolver
}

// Converter translates analyzed WADL resource trees into OpenAPI 3.1
// documents. A Converter is stateless and safe to reuse.
type Converter struct {
	cfg Config
}

// NewConverter returns a converter with defaults applied to cfg.
func NewConverter(cfg Config) *Converter {
	if cfg.Title == "" {
		cfg.Title = "API"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	return &Converter{cfg: cfg}
}

// Convert builds an OpenAPI document from resource nodes, typically the
// result of loader.Analyze. Each resource that declares methods becomes
// a path item at the path formed by joining the normalized segment
// templates from the top level resource down; resources without methods
// contribute only their segment to the paths of their descendants.
func (c *Converter) Convert(nodes []*ast.ResourceNode) (*Document, error) {
	b := &docBuilder{
		cfg:     c.cfg,
		paths:   make(map[string]*PathItem),
		schemas: make(map[string]*Schema),
	}

	for _, node := range nodes {
		b.addServer(node.Base)
		if err := b.addResource(node); err != nil {
			return nil, err
		}
	}

	doc := &Document{
		OpenAPI: "3.1.0",
		Info: Info{
			Title:       c.cfg.Title,
			Description: c.cfg.Description,
			Version:     c.cfg.Version,
		},
		Servers: b.servers,
		Paths:   b.paths,
		Tags:    b.tags(),
	}
	if len(b.schemas) > 0 {
		doc.Components = &Components{Schemas: b.schemas}
	}
	return doc, nil
}

// docBuilder accumulates the document pieces during one Convert call.
type docBuilder struct {
	cfg      Config
	servers  []Server
	paths    map[string]*PathItem
	schemas  map[string]*Schema
	tagNames map[string]bool
}

func (b *docBuilder) addServer(base string) {
	if base == "" {
		return
	}
	for _, s := range b.servers {
		if s.URL == base {
			return
		}
	}
	b.servers = append(b.servers, Server{URL: base})
}

func (b *docBuilder) addResource(node *ast.ResourceNode) error {
	if len(node.Methods) > 0 {
		if err := b.addPathItem(node); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := b.addResource(child); err != nil {
			return err
		}
	}
	return nil
}

func (b *docBuilder) addPathItem(node *ast.ResourceNode) error {
	chain := node.Chain()
	path := pathOf(chain)

	item, ok := b.paths[path]
	if !ok {
		item = &PathItem{
			Summary:     docTitle(node.Resource.Docs),
			Description: docText(node.Resource.Docs),
			Parameters:  b.pathParameters(chain),
		}
		b.paths[path] = item
	}

	for _, mn := range node.Methods {
		op, err := b.buildOperation(chain[0], mn)
		if err != nil {
			return err
		}
		assignOperation(item, strings.ToUpper(mn.Method.Name), op)
	}
	return nil
}

// pathOf joins the normalized segment templates of a resource chain
// into an OpenAPI path. Placeholders are already in bare {name} form.
func pathOf(chain []*ast.ResourceNode) string {
	var parts []string
	for _, n := range chain {
		seg := strings.Trim(n.Segment.Normalized(), "/")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return "/" + strings.Join(parts, "/")
}

// pathParameters collects the parameters that apply to every operation
// under a path: template (and optionally matrix) parameters from each
// chain segment, plus the query and header parameters of the leaf
// resource and its applied types. One parameter survives per name and
// location, the last declaration winning.
func (b *docBuilder) pathParameters(chain []*ast.ResourceNode) []*Parameter {
	var params []*Parameter

	for _, n := range chain {
		for _, p := range n.Segment.TemplateParameters() {
			params = append(params, b.parameter(p, "path"))
		}
		if b.cfg.IncludeMatrix {
			params = append(params, b.matrixParameters(n.Segment)...)
		}
	}

	leaf := chain[len(chain)-1]
	segments := []*ast.PathSegment{leaf.Segment}
	for _, tn := range leaf.Types {
		segments = append(segments, tn.Segment)
	}
	for _, seg := range segments {
		if b.cfg.IncludeMatrix && seg != leaf.Segment {
			params = append(params, b.matrixParameters(seg)...)
		}
		for _, p := range seg.QueryParameters() {
			params = append(params, b.parameter(p, "query"))
		}
		for _, p := range seg.HeaderParameters() {
			params = append(params, b.parameter(p, "header"))
		}
	}

	return dedupeParameters(params)
}

func (b *docBuilder) matrixParameters(seg *ast.PathSegment) []*Parameter {
	var params []*Parameter
	for _, p := range seg.MatrixParameters() {
		mp := b.parameter(p, "path")
		mp.Style = "matrix"
		mp.Required = p.IsRequired()
		params = append(params, mp)
	}
	return params
}

func (b *docBuilder) parameter(p *schema.Param, in string) *Parameter {
	return &Parameter{
		Name:        p.Name,
		In:          in,
		Description: docText(p.Docs),
		Required:    in == "path" || p.IsRequired(),
		Schema:      schemaFor(p),
	}
}

func (b *docBuilder) buildOperation(root *ast.ResourceNode, mn *ast.MethodNode) (*Operation, error) {
	m := mn.Method
	op := &Operation{
		OperationID: m.ID,
		Summary:     docTitle(m.Docs),
		Description: docText(m.Docs),
		Tags:        b.operationTags(root),
	}

	if m.Request != nil {
		for _, p := range m.Request.Params {
			switch p.Style {
			case schema.StyleQuery:
				op.Parameters = append(op.Parameters, b.parameter(p, "query"))
			case schema.StyleHeader:
				op.Parameters = append(op.Parameters, b.parameter(p, "header"))
			}
		}
		op.Parameters = dedupeParameters(op.Parameters)

		body, err := b.requestBody(mn.File, m.Request)
		if err != nil {
			return nil, err
		}
		op.RequestBody = body
	}

	responses, err := b.responses(mn.File, m.Responses)
	if err != nil {
		return nil, err
	}
	op.Responses = responses
	return op, nil
}

// operationTags tags an operation with the id of its top level
// resource, when one is declared.
func (b *docBuilder) operationTags(root *ast.ResourceNode) []string {
	id := root.Resource.ID
	if id == "" {
		return nil
	}
	if b.tagNames == nil {
		b.tagNames = make(map[string]bool)
	}
	b.tagNames[id] = true
	return []string{id}
}

func (b *docBuilder) tags() []Tag {
	if len(b.tagNames) == 0 {
		return nil
	}
	names := make([]string, 0, len(b.tagNames))
	for name := range b.tagNames {
		names = append(names, name)
	}
	sort.Strings(names)

	tags := make([]Tag, len(names))
	for i, name := range names {
		tags[i] = Tag{Name: name}
	}
	return tags
}

func (b *docBuilder) requestBody(file string, req *schema.Request) (*RequestBody, error) {
	if len(req.Representations) == 0 {
		return nil, nil
	}

	content := make(map[string]*MediaType, len(req.Representations))
	for _, rep := range req.Representations {
		mediaType, mt, err := b.mediaType(file, rep)
		if err != nil {
			return nil, err
		}
		if mediaType == "" {
			continue
		}
		content[mediaType] = mt
	}
	if len(content) == 0 {
		return nil, nil
	}

	return &RequestBody{
		Description: docText(req.Docs),
		Content:     content,
	}, nil
}

func (b *docBuilder) responses(file string, list []*schema.Response) (map[string]*Response, error) {
	out := make(map[string]*Response)

	for _, r := range list {
		content := make(map[string]*MediaType)
		for _, rep := range r.Representations {
			mediaType, mt, err := b.mediaType(file, rep)
			if err != nil {
				return nil, err
			}
			if mediaType == "" {
				continue
			}
			content[mediaType] = mt
		}

		var headers map[string]*Header
		for _, p := range r.Params {
			if p.Style != schema.StyleHeader || p.Name == "" {
				continue
			}
			if headers == nil {
				headers = make(map[string]*Header)
			}
			headers[p.Name] = &Header{
				Description: docText(p.Docs),
				Required:    p.IsRequired(),
				Schema:      schemaFor(p),
			}
		}

		for _, key := range statusKeys(r) {
			resp, ok := out[key]
			if !ok {
				resp = &Response{Description: responseDescription(key, r.Docs)}
				out[key] = resp
			}
			if len(content) > 0 {
				if resp.Content == nil {
					resp.Content = make(map[string]*MediaType)
				}
				for mediaType, mt := range content {
					resp.Content[mediaType] = mt
				}
			}
			if len(headers) > 0 {
				if resp.Headers == nil {
					resp.Headers = make(map[string]*Header)
				}
				for name, h := range headers {
					resp.Headers[name] = h
				}
			}
		}
	}

	if len(out) == 0 {
		out["default"] = &Response{Description: "Default response"}
	}
	return out, nil
}

// mediaType converts a representation into a content map entry. A
// representation declared by href is dereferenced first; without a
// configured resolver it is skipped (empty media type returned).
func (b *docBuilder) mediaType(file string, rep *schema.Representation) (string, *MediaType, error) {
	if rep.Href != "" {
		if b.cfg.Representations == nil {
			return "", nil, nil
		}
		target, err := b.cfg.Representations.ResolveRepresentation(file, rep.Href, rep)
		if err != nil {
			return "", nil, err
		}
		if target == nil {
			return "", nil, nil
		}
		rep = target
	}

	mt := &MediaType{Schema: b.representationSchema(rep)}
	mediaType := rep.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return mediaType, mt, nil
}

// representationSchema builds the schema of a representation. A
// representation carrying an id lands in components once and is
// referenced from every use site.
func (b *docBuilder) representationSchema(rep *schema.Representation) *Schema {
	s := buildRepresentationSchema(rep)
	if s == nil || rep.ID == "" {
		return s
	}
	if _, ok := b.schemas[rep.ID]; !ok {
		b.schemas[rep.ID] = s
	}
	return &Schema{Ref: "#/components/schemas/" + rep.ID}
}

// buildRepresentationSchema maps the plain style params of a
// representation to object properties. A representation without params
// has no schema.
func buildRepresentationSchema(rep *schema.Representation) *Schema {
	if len(rep.Params) == 0 {
		return nil
	}

	s := &Schema{
		Type:        TypeString("object"),
		Description: docText(rep.Docs),
		Properties:  make(map[string]*Schema, len(rep.Params)),
	}
	var required []string
	for _, p := range rep.Params {
		if p.Name == "" {
			continue
		}
		s.Properties[p.Name] = schemaFor(p)
		if p.IsRequired() {
			required = append(required, p.Name)
		}
	}
	sort.Strings(required)
	s.Required = required
	return s
}

// schemaFor maps a WADL param to a schema: XSD type to OpenAPI
// type/format, options to an enumeration, default and fixed values to
// default and const, and repeating params to an array wrapper.
func schemaFor(p *schema.Param) *Schema {
	typ, format := "string", ""
	if mapped, ok := xsdTypeMap[p.TypeName()]; ok {
		typ, format = mapped[0], mapped[1]
	}

	s := &Schema{Type: TypeString(typ), Format: format}
	for _, o := range p.Options {
		s.Enum = append(s.Enum, o.Value)
	}
	if p.Default != "" {
		s.Default = p.Default
	}
	if p.Fixed != "" {
		s.Const = p.Fixed
	}

	if p.IsRepeating() {
		s = &Schema{Type: TypeString("array"), Items: s}
	}
	return s
}

// dedupeParameters keeps one parameter per name and location, the last
// declaration winning. Parameter uniqueness in OpenAPI is determined by
// name and "in".
func dedupeParameters(params []*Parameter) []*Parameter {
	if len(params) == 0 {
		return nil
	}

	last := make(map[[2]string]int, len(params))
	for i, p := range params {
		last[[2]string{p.Name, p.In}] = i
	}

	var out []*Parameter
	for i, p := range params {
		if last[[2]string{p.Name, p.In}] == i {
			out = append(out, p)
		}
	}
	return out
}

// statusKeys returns the response map keys of a WADL response element.
// A response without a status attribute documents the 200 case.
func statusKeys(r *schema.Response) []string {
	codes := r.StatusCodes()
	if len(codes) == 0 {
		return []string{"200"}
	}
	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = strconv.Itoa(code)
	}
	return keys
}

// responseDescription derives the mandatory response description from
// the response docs, falling back to the standard status text.
func responseDescription(key string, docs []schema.Doc) string {
	if text := docText(docs); text != "" {
		return text
	}
	if key == "default" {
		return "Default response"
	}
	if code, err := strconv.Atoi(key); err == nil {
		if text := http.StatusText(code); text != "" {
			return text
		}
	}
	return key
}

// docTitle returns the first doc title.
func docTitle(docs []schema.Doc) string {
	for _, d := range docs {
		if d.Title != "" {
			return d.Title
		}
	}
	return ""
}

// docText concatenates the plain text of docs.
func docText(docs []schema.Doc) string {
	var parts []string
	for _, d := range docs {
		if text := d.Text(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// assignOperation assigns an operation to the correct HTTP method field
// on the path item.
func assignOperation(item *PathItem, method string, op *Operation) {
	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPut:
		item.Put = op
	case http.MethodPost:
		item.Post = op
	case http.MethodDelete:
		item.Delete = op
	case http.MethodOptions:
		item.Options = op
	case http.MethodHead:
		item.Head = op
	case http.MethodPatch:
		item.Patch = op
	case http.MethodTrace:
		item.Trace = op
	}
}
