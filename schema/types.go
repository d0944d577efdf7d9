package schema

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Namespace is the XML namespace of the WADL 2009-02 vocabulary.
//
// See: https://www.w3.org/Submission/wadl/ section 2.1
const Namespace = "http://wadl.dev.java.net/2009/02"

// Application is the root element of a WADL description.
//
// See: https://www.w3.org/Submission/wadl/ section 2.2
type Application struct {
	XMLName         xml.Name          `xml:"application"`
	Docs            []Doc             `xml:"doc"`
	Grammars        *Grammars         `xml:"grammars"`
	Resources       []*Resources      `xml:"resources"`
	ResourceTypes   []*ResourceType   `xml:"resource_type"`
	Methods         []*Method         `xml:"method"`
	Representations []*Representation `xml:"representation"`
	Params          []*Param          `xml:"param"`
}

// Grammars collects definitions of the data formats exchanged by an
// application, typically via include of external schema files.
//
// See: https://www.w3.org/Submission/wadl/ section 2.4
type Grammars struct {
	Docs     []Doc      `xml:"doc"`
	Includes []*Include `xml:"include"`
}

// Include refers to an external grammar definition such as an XML Schema
// or RELAX NG document.
//
// See: https://www.w3.org/Submission/wadl/ section 2.4.1
type Include struct {
	Href string `xml:"href,attr"`
	Docs []Doc  `xml:"doc"`
}

// Resources acts as a container for the resources provided by an
// application. Base gives the common base URI of the contained resources.
//
// See: https://www.w3.org/Submission/wadl/ section 2.5
type Resources struct {
	Base      string      `xml:"base,attr"`
	Docs      []Doc       `xml:"doc"`
	Resources []*Resource `xml:"resource"`
}

// Resource describes one resource of an application. Path holds a URI
// path-segment template relative to the parent resource (or the resources
// base) and may embed template parameters as {name} or {name: pattern}.
// Type optionally lists resource_type references, space separated.
//
// See: https://www.w3.org/Submission/wadl/ section 2.6
type Resource struct {
	ID        string      `xml:"id,attr"`
	Path      string      `xml:"path,attr"`
	Type      string      `xml:"type,attr"`
	QueryType string      `xml:"queryType,attr"`
	Docs      []Doc       `xml:"doc"`
	Params    []*Param    `xml:"param"`
	Methods   []*Method   `xml:"method"`
	Resources []*Resource `xml:"resource"`
}

// TypeRefs returns the resource_type references of the resource as a list
// of href values. The type attribute is a space-separated list.
//
// See: https://www.w3.org/Submission/wadl/ section 2.6
func (r *Resource) TypeRefs() []string {
	return strings.Fields(r.Type)
}

// ResourceType describes a reusable set of methods and parameters that a
// resource can apply via its type attribute. A resource type has no path
// of its own; its parameters are out-of-line additions to the referencing
// resource.
//
// See: https://www.w3.org/Submission/wadl/ section 2.7
type ResourceType struct {
	ID        string      `xml:"id,attr"`
	Docs      []Doc       `xml:"doc"`
	Params    []*Param    `xml:"param"`
	Methods   []*Method   `xml:"method"`
	Resources []*Resource `xml:"resource"`
}

// Method describes the input to and output from an HTTP protocol method
// applied to a resource. Name is the HTTP verb; a method with a non-empty
// Href is a reference to a method definition elsewhere.
//
// See: https://www.w3.org/Submission/wadl/ section 2.8
type Method struct {
	ID        string      `xml:"id,attr"`
	Name      string      `xml:"name,attr"`
	Href      string      `xml:"href,attr"`
	Docs      []Doc       `xml:"doc"`
	Request   *Request    `xml:"request"`
	Responses []*Response `xml:"response"`
}

// Request describes the input to an HTTP method as a set of parameters
// and optional representations of the entity body.
//
// See: https://www.w3.org/Submission/wadl/ section 2.9
type Request struct {
	Docs            []Doc             `xml:"doc"`
	Params          []*Param          `xml:"param"`
	Representations []*Representation `xml:"representation"`
}

// Response describes the output of an HTTP method. Status optionally
// lists the HTTP status codes the response applies to, space separated.
//
// See: https://www.w3.org/Submission/wadl/ section 2.10
type Response struct {
	Status          string            `xml:"status,attr"`
	Docs            []Doc             `xml:"doc"`
	Params          []*Param          `xml:"param"`
	Representations []*Representation `xml:"representation"`
}

// StatusCodes returns the status attribute parsed into integers.
// Malformed entries are skipped.
//
// See: https://www.w3.org/Submission/wadl/ section 2.10
func (r *Response) StatusCodes() []int {
	fields := strings.Fields(r.Status)
	if len(fields) == 0 {
		return nil
	}
	codes := make([]int, 0, len(fields))
	for _, f := range fields {
		if code, err := strconv.Atoi(f); err == nil {
			codes = append(codes, code)
		}
	}
	return codes
}

// Representation describes a representation of a resource or request
// entity body, identified by its media type. A representation with a
// non-empty Href refers to a representation definition elsewhere.
//
// See: https://www.w3.org/Submission/wadl/ section 2.11
type Representation struct {
	ID        string   `xml:"id,attr"`
	MediaType string   `xml:"mediaType,attr"`
	Element   string   `xml:"element,attr"`
	Profile   string   `xml:"profile,attr"`
	Href      string   `xml:"href,attr"`
	Docs      []Doc    `xml:"doc"`
	Params    []*Param `xml:"param"`
}

// Param describes a parameterized component of a resource, request or
// response: a template placeholder, matrix or query component of a URI,
// an HTTP header, or a plain value inside a representation.
//
// Required and Repeating are tri-state: a nil pointer means the attribute
// was absent, which WADL defines to default to false.
//
// A Param with a non-empty Href is a reference to a param definition
// elsewhere; its other fields are ignored once the reference is resolved.
//
// See: https://www.w3.org/Submission/wadl/ section 2.12
type Param struct {
	ID        string     `xml:"id,attr"`
	Name      string     `xml:"name,attr"`
	Style     ParamStyle `xml:"style,attr"`
	Href      string     `xml:"href,attr"`
	Type      string     `xml:"type,attr"`
	Default   string     `xml:"default,attr"`
	Fixed     string     `xml:"fixed,attr"`
	Path      string     `xml:"path,attr"`
	Required  *bool      `xml:"required,attr"`
	Repeating *bool      `xml:"repeating,attr"`
	Docs      []Doc      `xml:"doc"`
	Options   []*Option  `xml:"option"`
	Link      *Link      `xml:"link"`
}

// IsRequired reports the effective value of the tri-state required
// attribute: true only when the attribute is present and true.
//
// See: https://www.w3.org/Submission/wadl/ section 2.12
func (p *Param) IsRequired() bool {
	return p.Required != nil && *p.Required
}

// IsRepeating reports the effective value of the tri-state repeating
// attribute: true only when the attribute is present and true.
//
// See: https://www.w3.org/Submission/wadl/ section 2.12
func (p *Param) IsRepeating() bool {
	return p.Repeating != nil && *p.Repeating
}

// TypeName returns the local part of the param's XSD type QName, e.g.
// "int" for "xsd:int". An absent type defaults to "string" per the WADL
// submission.
//
// See: https://www.w3.org/Submission/wadl/ section 2.12
func (p *Param) TypeName() string {
	if p.Type == "" {
		return "string"
	}
	if i := strings.LastIndex(p.Type, ":"); i >= 0 {
		return p.Type[i+1:]
	}
	return p.Type
}

// Option defines one of a set of permitted values for a parameter.
//
// See: https://www.w3.org/Submission/wadl/ section 2.12.3
type Option struct {
	Value     string `xml:"value,attr"`
	MediaType string `xml:"mediaType,attr"`
	Docs      []Doc  `xml:"doc"`
}

// Link identifies a parameter value as a typed link to another resource.
//
// See: https://www.w3.org/Submission/wadl/ section 2.12.4
type Link struct {
	ResourceType string `xml:"resource_type,attr"`
	Rel          string `xml:"rel,attr"`
	Rev          string `xml:"rev,attr"`
	Docs         []Doc  `xml:"doc"`
}

// Doc provides human-readable documentation for the element containing
// it. Content preserves the raw inner markup, which may be XHTML; use
// Text for a plain-text rendering.
//
// See: https://www.w3.org/Submission/wadl/ section 2.3
type Doc struct {
	Title   string `xml:"title,attr"`
	Lang    string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Content string `xml:",innerxml"`
}
