// Package client builds HTTP requests from analyzed WADL resources.
//
// A Builder consumes the resource nodes produced by ast.BuildResources
// or loader.Analyze. For each request it evaluates the path segments
// of the resource chain against a map of values, joins the results
// onto the base URI declared by the description and fills in the query
// and header parameters declared along the way:
//
//	l := loader.New(loader.Config{})
//	if _, err := l.Load("api.wadl"); err != nil {
//		// ...
//	}
//	nodes, _ := l.Analyze()
//
//	b := client.New(client.Config{})
//	req, err := b.NewRequest(ctx, nodes[0].Children[0], http.MethodGet,
//		map[string]any{"wid": 42, "verbose": true, "lang": "en"})
//
// One values map feeds every parameter of the request: template and
// matrix parameters through segment evaluation, query parameters into
// the query string, header parameters into the headers. Required
// parameters with no value fail with a typed error naming the
// parameter; optional ones contribute nothing. Parameters declaring a
// fixed value contribute it without consulting the map.
//
// Every built request carries an X-Request-ID header with a fresh
// UUIDv4 by default; Config and the WithRequestID option adjust or
// disable this.
//
// See: https://www.w3.org/Submission/wadl/
package client
