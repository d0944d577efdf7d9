package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/vitalvas/wadl/ast"
	"github.com/vitalvas/wadl/schema"
)

// Config configures a Builder.
type Config struct {
	// Base overrides the base URI declared by the resources container
	// of the description. Useful when the description carries a
	// placeholder base.
	Base string

	// RequestIDHeader overrides the header used to carry the request
	// ID. Defaults to "X-Request-ID" when empty.
	RequestIDHeader string

	// GenerateRequestID is an optional callback that returns a new
	// unique request ID. Defaults to GenerateUUIDv4.
	GenerateRequestID func() string

	// DisableRequestID turns the request ID header off entirely.
	DisableRequestID bool
}

// Builder assembles HTTP requests from analyzed resources. It
// evaluates the path segments of a resource chain, joins them onto the
// base URI and fills in the declared query and header parameters.
//
// A Builder is stateless apart from its configuration and safe for
// concurrent use.
type Builder struct {
	cfg      Config
	header   string
	generate func() string
}

// New returns a builder with defaults applied to cfg.
func New(cfg Config) *Builder {
	b := &Builder{
		cfg:      cfg,
		header:   cfg.RequestIDHeader,
		generate: cfg.GenerateRequestID,
	}
	if b.header == "" {
		b.header = "X-Request-ID"
	}
	if b.generate == nil {
		b.generate = GenerateUUIDv4
	}
	return b
}

// RequestOption adjusts a single request built by NewRequest.
type RequestOption func(*requestOptions)

type requestOptions struct {
	requestID string
	header    http.Header
	mediaType string
	body      io.Reader
}

// WithRequestID sets an explicit request ID instead of a generated one.
func WithRequestID(id string) RequestOption {
	return func(o *requestOptions) { o.requestID = id }
}

// WithHeader adds a header to the request. Headers declared as WADL
// parameters are filled from the values map instead; this option is for
// headers outside the description.
func WithHeader(name, value string) RequestOption {
	return func(o *requestOptions) {
		if o.header == nil {
			o.header = make(http.Header)
		}
		o.header.Add(name, value)
	}
}

// WithBody attaches a request body together with its media type.
func WithBody(mediaType string, body io.Reader) RequestOption {
	return func(o *requestOptions) {
		o.mediaType = mediaType
		o.body = body
	}
}

// NewRequest builds an HTTP request for a method of node. The path is
// assembled by evaluating each segment of the resource chain against
// values and joining the results onto the base URI; the query string
// and headers are filled from the same values for every query and
// header parameter declared along the chain, by its applied resource
// types and by the matching method's request.
//
// Segment evaluation errors surface unchanged. A required query or
// header parameter with no value fails with MissingQueryParameterError
// or MissingHeaderParameterError; optional parameters without a value
// contribute nothing, as does a value that is present but nil. A
// parameter carrying a fixed value always contributes it. A parameter
// declared repeating expands a []string or []any value to one entry
// per element.
//
// Evaluated values pass through as-is: percent encoding happens only
// when the URL serializes.
func (b *Builder) NewRequest(ctx context.Context, node *ast.ResourceNode, method string, values map[string]any, opts ...RequestOption) (*http.Request, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	chain := node.Chain()

	u, err := b.baseURL(node)
	if err != nil {
		return nil, err
	}

	var parts []string
	for _, n := range chain {
		seg, err := n.Segment.Evaluate(values)
		if err != nil {
			return nil, err
		}
		seg = strings.Trim(seg, "/")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	joinPath(u, parts)

	query := url.Values{}
	for _, p := range queryParams(chain, method) {
		if err := addQueryValue(query, p, values); err != nil {
			return nil, err
		}
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), u.String(), o.body)
	if err != nil {
		return nil, err
	}

	for _, p := range headerParams(chain, method) {
		if err := addHeaderValue(req.Header, p, values); err != nil {
			return nil, err
		}
	}

	if o.mediaType != "" {
		req.Header.Set("Content-Type", o.mediaType)
	}
	for name, vs := range o.header {
		for _, v := range vs {
			req.Header.Add(name, v)
		}
	}

	if !b.cfg.DisableRequestID {
		id := o.requestID
		if id == "" {
			id = b.generate()
		}
		if id != "" {
			req.Header.Set(b.header, id)
		}
	}

	return req, nil
}

func (b *Builder) baseURL(node *ast.ResourceNode) (*url.URL, error) {
	base := b.cfg.Base
	if base == "" {
		base = node.Base
	}
	if base == "" {
		return nil, ErrNoBase
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("client: parse base %q: %w", base, err)
	}
	return u, nil
}

// joinPath appends the evaluated segments to the base path.
func joinPath(u *url.URL, parts []string) {
	if len(parts) == 0 {
		return
	}
	joined := strings.Join(parts, "/")
	switch {
	case u.Path == "":
		u.Path = "/" + joined
	case strings.HasSuffix(u.Path, "/"):
		u.Path += joined
	default:
		u.Path += "/" + joined
	}
	u.RawPath = ""
}

func queryParams(chain []*ast.ResourceNode, method string) []*schema.Param {
	return chainParams(chain, method, (*ast.PathSegment).QueryParameters, schema.StyleQuery)
}

func headerParams(chain []*ast.ResourceNode, method string) []*schema.Param {
	return chainParams(chain, method, (*ast.PathSegment).HeaderParameters, schema.StyleHeader)
}

// chainParams collects the declared parameters of one style in
// declaration order: each chain resource's segment, then the segments
// of its applied types, then the request parameters of the leaf's
// methods matching method. A later declaration of a name replaces an
// earlier one.
func chainParams(chain []*ast.ResourceNode, method string, pick func(*ast.PathSegment) []*schema.Param, style schema.ParamStyle) []*schema.Param {
	index := make(map[string]int)
	var out []*schema.Param

	add := func(p *schema.Param) {
		if p == nil || p.Name == "" {
			return
		}
		if i, ok := index[p.Name]; ok {
			out[i] = p
			return
		}
		index[p.Name] = len(out)
		out = append(out, p)
	}

	for _, n := range chain {
		for _, p := range pick(n.Segment) {
			add(p)
		}
		for _, tn := range n.Types {
			for _, p := range pick(tn.Segment) {
				add(p)
			}
		}
	}

	leaf := chain[len(chain)-1]
	for _, mn := range leaf.Methods {
		m := mn.Method
		if m.Request == nil || !strings.EqualFold(m.Name, method) {
			continue
		}
		for _, p := range m.Request.Params {
			if p.Style == style {
				add(p)
			}
		}
	}

	return out
}

func addQueryValue(query url.Values, p *schema.Param, values map[string]any) error {
	if p.Fixed != "" {
		query.Add(p.Name, p.Fixed)
		return nil
	}

	value, ok := values[p.Name]
	if !ok {
		if p.IsRequired() {
			return MissingQueryParameterError{Name: p.Name}
		}
		return nil
	}
	if value == nil {
		return nil
	}

	if p.IsRepeating() {
		for _, v := range expand(value) {
			query.Add(p.Name, v)
		}
		return nil
	}
	query.Add(p.Name, stringify(value))
	return nil
}

func addHeaderValue(header http.Header, p *schema.Param, values map[string]any) error {
	if p.Fixed != "" {
		header.Set(p.Name, p.Fixed)
		return nil
	}

	value, ok := values[p.Name]
	if !ok {
		if p.IsRequired() {
			return MissingHeaderParameterError{Name: p.Name}
		}
		return nil
	}
	if value == nil {
		return nil
	}

	if p.IsRepeating() {
		for _, v := range expand(value) {
			header.Add(p.Name, v)
		}
		return nil
	}
	header.Set(p.Name, stringify(value))
	return nil
}

// expand flattens a repeating parameter value. Slices contribute one
// entry per element; any other value contributes itself.
func expand(value any) []string {
	switch vs := value.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			out = append(out, stringify(v))
		}
		return out
	default:
		return []string{stringify(value)}
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// GenerateUUIDv4 returns a new UUID v4 string.
//
// See: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4() string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new UUID v7 string. UUIDs are time-ordered:
// IDs generated later sort lexicographically after earlier ones.
//
// See: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}
