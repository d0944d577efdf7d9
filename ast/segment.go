package ast

import (
	"fmt"
	"strings"

	"github.com/vitalvas/wadl/schema"
)

// PathSegment is the analyzed form of one path segment of a resource:
// the raw template string plus the parameters bound to it, classified
// by usage style.
//
// Template parameters are ordered left to right by the position of
// their {name} placeholder in the template; a repeated placeholder name
// appears once per occurrence. Matrix, query and header parameters keep
// declaration order and are never part of the template text.
//
// A PathSegment is immutable once constructed and safe for concurrent
// use by multiple goroutines.
type PathSegment struct {
	template   string
	normalized string

	templateParams []*schema.Param
	matrixParams   []*schema.Param
	queryParams    []*schema.Param
	headerParams   []*schema.Param
}

// NewPathSegment analyzes a literal template with no declarations
// attached. Every {name} placeholder becomes an implicit optional
// template parameter; each entry of matrixNames becomes an implicit
// optional matrix parameter, in input order.
//
//	seg := ast.NewPathSegment("widgets/{id}", "verbose")
//	seg.Evaluate(map[string]any{"id": 42, "verbose": true}) // "widgets/42;verbose"
func NewPathSegment(template string, matrixNames ...string) *PathSegment {
	seg := &PathSegment{template: template}

	var names []string
	seg.normalized, names = normalizeTemplate(template)
	for _, name := range names {
		seg.templateParams = append(seg.templateParams, &schema.Param{Name: name})
	}
	for _, name := range matrixNames {
		seg.matrixParams = append(seg.matrixParams, &schema.Param{Name: name, Style: schema.StyleMatrix})
	}
	return seg
}

// NewResourceSegment analyzes the path template of a resource
// declaration together with the params the resource declares. Param
// references are dereferenced through resolver; file is the URI of the
// document containing res and scopes that resolution.
//
// Declared params are bucketed by style: template style (or no style)
// entries feed placeholder binding, matrix, query and header entries
// keep declaration order in their own lists, and plain entries are
// ignored. A placeholder with no matching template declaration is bound
// to a fresh implicit parameter carrying just the name.
func NewResourceSegment(res *schema.Resource, file string, resolver Resolver) (*PathSegment, error) {
	seg := &PathSegment{template: res.Path}

	// Later declarations with the same name overwrite earlier ones.
	templates := make(map[string]*schema.Param)

	for _, decl := range res.Params {
		p, err := derefParam(file, decl, resolver)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		switch p.Style {
		case schema.StyleTemplate, "":
			templates[p.Name] = p
		case schema.StyleMatrix:
			seg.matrixParams = append(seg.matrixParams, p)
		case schema.StyleQuery:
			seg.queryParams = append(seg.queryParams, p)
		case schema.StyleHeader:
			seg.headerParams = append(seg.headerParams, p)
		}
	}

	var names []string
	seg.normalized, names = normalizeTemplate(res.Path)
	for _, name := range names {
		if p, ok := templates[name]; ok {
			seg.templateParams = append(seg.templateParams, p)
		} else {
			seg.templateParams = append(seg.templateParams, &schema.Param{Name: name})
		}
	}
	return seg, nil
}

// NewResourceTypeSegment buckets the out-of-line params declared by a
// resource type. A resource type has no path of its own, so the
// resulting segment has an empty template and no template parameters;
// template style declarations are dropped.
func NewResourceTypeSegment(rt *schema.ResourceType, file string, resolver Resolver) (*PathSegment, error) {
	seg := &PathSegment{}
	for _, decl := range rt.Params {
		p, err := derefParam(file, decl, resolver)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		switch p.Style {
		case schema.StyleMatrix:
			seg.matrixParams = append(seg.matrixParams, p)
		case schema.StyleQuery:
			seg.queryParams = append(seg.queryParams, p)
		case schema.StyleHeader:
			seg.headerParams = append(seg.headerParams, p)
		}
	}
	return seg, nil
}

// Template returns the raw template string the segment was built from.
// It is empty for segments built from a resource type.
func (s *PathSegment) Template() string { return s.template }

// Normalized returns the template with every placeholder reduced to its
// bare {name} form: constraints and surrounding whitespace stripped.
// Evaluate substitutes on this form, and it is the form converters
// should emit.
func (s *PathSegment) Normalized() string { return s.normalized }

// TemplateParameters returns the parameters bound to template
// placeholders in order of appearance. The returned slice is shared
// with the segment and must not be modified.
func (s *PathSegment) TemplateParameters() []*schema.Param { return s.templateParams }

// MatrixParameters returns the matrix style parameters in declaration
// order. The returned slice is shared with the segment and must not be
// modified.
func (s *PathSegment) MatrixParameters() []*schema.Param { return s.matrixParams }

// QueryParameters returns the query style parameters in declaration
// order. They are never rendered by Evaluate; they belong to the query
// string of an eventual request.
func (s *PathSegment) QueryParameters() []*schema.Param { return s.queryParams }

// HeaderParameters returns the header style parameters in declaration
// order. They are never rendered by Evaluate.
func (s *PathSegment) HeaderParameters() []*schema.Param { return s.headerParams }

// Evaluate renders the segment as a literal path fragment: template
// placeholders are substituted with the stringified values and matrix
// parameters are appended in ;name=value notation.
//
// A required parameter absent from values fails with
// MissingTemplateParameterError or MissingMatrixParameterError. An
// optional template parameter with no value substitutes the empty
// string; an optional matrix parameter with no value contributes
// nothing. A boolean matrix value renders as ";name" when true and is
// omitted entirely when false.
//
// Values pass through as-is: no URL encoding and no validation against
// placeholder constraints is performed.
func (s *PathSegment) Evaluate(values map[string]any) (string, error) {
	result := s.normalized

	for _, p := range s.templateParams {
		value, ok := values[p.Name]
		if !ok {
			if p.IsRequired() {
				return "", MissingTemplateParameterError{Name: p.Name}
			}
			value = ""
		}
		result = strings.ReplaceAll(result, "{"+p.Name+"}", stringify(value))
	}

	for _, p := range s.matrixParams {
		value, ok := values[p.Name]
		if !ok {
			if p.IsRequired() {
				return "", MissingMatrixParameterError{Name: p.Name}
			}
			continue
		}
		if value == nil {
			continue
		}
		switch v := value.(type) {
		case bool:
			if v {
				result += ";" + p.Name
			}
		default:
			result += ";" + p.Name + "=" + stringify(value)
		}
	}

	return result, nil
}

// placeholderIndices returns the start and end+1 indices of each {...}
// placeholder in tpl. A placeholder runs from an opening brace to the
// nearest closing brace, so braces never nest; unpaired braces are
// literal text.
func placeholderIndices(tpl string) []int {
	var idxs []int
	for i := 0; i < len(tpl); {
		open := strings.IndexByte(tpl[i:], '{')
		if open < 0 {
			break
		}
		open += i
		end := strings.IndexByte(tpl[open:], '}')
		if end < 0 {
			break
		}
		end += open
		idxs = append(idxs, open, end+1)
		i = end + 1
	}
	return idxs
}

// normalizeTemplate rewrites every placeholder of tpl to its bare
// {name} form and returns the rewritten template together with the
// names in order of appearance. The name is the placeholder text before
// the first colon with surrounding whitespace trimmed; a constraint
// after the colon ("{id: [0-9]+}") is discarded.
func normalizeTemplate(tpl string) (string, []string) {
	idxs := placeholderIndices(tpl)
	if len(idxs) == 0 {
		return tpl, nil
	}

	var (
		b     strings.Builder
		names []string
		end   int
	)
	for i := 0; i < len(idxs); i += 2 {
		inner := tpl[idxs[i]+1 : idxs[i+1]-1]
		name := strings.TrimSpace(strings.SplitN(inner, ":", 2)[0])

		b.WriteString(tpl[end:idxs[i]])
		b.WriteString("{")
		b.WriteString(name)
		b.WriteString("}")
		names = append(names, name)
		end = idxs[i+1]
	}
	b.WriteString(tpl[end:])

	return b.String(), names
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
