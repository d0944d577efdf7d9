// Package ast analyzes WADL resource path templates and renders them
// with runtime values.
//
// A WADL resource declares its location as a path segment template
// that may embed named parameters, with an optional constraint after a
// colon:
//
//	widgets/{id}
//	widgets/{id: [0-9]+}
//
// The analyzer turns one such template, together with the params
// declared for the resource, into an immutable PathSegment: the
// parameters embedded in the template in order of appearance, plus
// separate buckets for matrix, query and header style declarations.
// Analysis happens once per resource at document load time; the
// evaluator then renders the segment for every request:
//
//	seg := ast.NewPathSegment("widgets/{id}", "verbose")
//
//	out, err := seg.Evaluate(map[string]any{"id": 42, "verbose": true})
//	// out == "widgets/42;verbose"
//
// Boolean matrix values render as ";name" when true and disappear
// entirely when false or absent. Query and header parameters are never
// rendered into the segment; they belong to the query string and
// headers of an eventual request, assembled by the client package.
//
// Evaluate substitutes values verbatim: it does not URL encode them
// and does not check them against placeholder constraints.
//
// Analyzing a full document goes through BuildResources, which walks
// every resource declaration and analyzes each template once. Param,
// method and resource type references (href attributes) are
// dereferenced through a Resolver, typically a loader.Registry:
//
//	app, _ := schema.Decode(f)
//	nodes, err := ast.BuildResources(app, "api.wadl", registry)
//
// The resulting nodes, like the segments they carry, are immutable and
// safe for concurrent use.
package ast
