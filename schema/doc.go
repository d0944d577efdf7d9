// Package schema provides a Go object model for WADL (Web Application
// Description Language) documents, following the W3C Member Submission
// of 31 August 2009.
//
// The model mirrors the WADL vocabulary one struct per element and decodes
// from / encodes to XML in the http://wadl.dev.java.net/2009/02 namespace.
//
// See: https://www.w3.org/Submission/wadl/
//
// # Decoding
//
// Decode reads a WADL document from a reader:
//
//	f, _ := os.Open("api.wadl")
//	app, err := schema.Decode(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rs := range app.Resources {
//	    fmt.Println(rs.Base)
//	}
//
// # Parameters
//
// Param models the WADL param element. The required attribute is tri-state
// (absent, false, true) and therefore a *bool; use IsRequired for the
// effective value:
//
//	if p.IsRequired() {
//	    // value must be supplied at request time
//	}
//
// Parameter usage is classified by ParamStyle: template parameters are
// embedded in a resource path, matrix parameters are appended to a path
// segment, query parameters belong to the query string and header
// parameters to HTTP headers. An absent style on a resource-level param
// is treated as template by the analysis layer.
//
// # Cross references
//
// Several elements (param, method, representation) may carry an href
// attribute referring to a definition elsewhere, either in the same
// document ("#id") or in another one ("other.wadl#id"). This package only
// records the reference; resolution is performed by the loader package.
//
// # Documentation elements
//
// The doc element carries mixed content that is frequently XHTML. The raw
// inner markup is preserved verbatim in Doc.Content; Doc.Text returns the
// plain text with markup stripped:
//
//	doc := schema.Doc{Content: "Fetch a <b>single</b> widget."}
//	doc.Text() // "Fetch a single widget."
package schema
