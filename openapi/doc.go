// Package openapi converts analyzed WADL resource trees into OpenAPI
// v3.1.0 documents.
//
// The conversion consumes the []*ast.ResourceNode forest produced by
// loader.Analyze (or ast.BuildResources directly). Every resource that
// declares methods becomes a path item; the path is the chain of
// normalized segment templates from the top level resource down, so
// WADL placeholders with constraints ("{id: [0-9]+}") arrive as plain
// OpenAPI {id} placeholders.
//
// See: https://spec.openapis.org/oas/v3.1.0
// See: https://www.w3.org/Submission/wadl/
//
// # Converting
//
//	l := loader.New(loader.Config{})
//	if _, err := l.Load("api.wadl"); err != nil {
//	    log.Fatal(err)
//	}
//	nodes, err := l.Analyze()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv := openapi.NewConverter(openapi.Config{
//	    Title:           "Widget Store",
//	    Version:         "2.1.0",
//	    Representations: l.Registry(),
//	})
//	doc, err := conv.Convert(nodes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := doc.YAML()
//
// Parameter mapping follows the WADL styles: template parameters become
// required path parameters, query and header parameters keep their
// location, and matrix parameters are emitted as path parameters with
// style "matrix" when Config.IncludeMatrix is set. XSD simple types map
// to OpenAPI type/format pairs, param options become enumerations, and
// default/fixed values become default/const. Representations carrying
// an id are shared through components and referenced with $ref.
//
// # Serving
//
// Handler exposes a converted document over HTTP together with an
// interactive documentation UI (Swagger UI by default, RapiDoc and
// Redoc selectable):
//
//	http.ListenAndServe(":8080", openapi.Handler(doc, openapi.HandlerConfig{}))
//
// The document is serialized once per representation and cached.
package openapi
