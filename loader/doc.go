// Package loader reads WADL documents and resolves the href
// references between them.
//
// A Loader decodes documents into the schema model and indexes every
// id-carrying element (params, methods, resource types,
// representations) in a Registry under "<document URI>#<id>". The
// Registry implements ast.Resolver and its companion capabilities, so
// document analysis dereferences references through it; an href
// pointing into a document that is not loaded yet triggers a lazy
// load of the target first:
//
//	l := loader.New(loader.Config{})
//	if _, err := l.Load("api.wadl"); err != nil {
//		// ...
//	}
//	nodes, err := l.Analyze()
//
// Load accepts filesystem paths as well as http and https URIs;
// Config.Open replaces the opener entirely, for descriptions served
// from embedded files or object storage. Relative hrefs resolve
// against the URI of the containing document, so a document loaded as
// "https://api.example.com/defs/api.wadl" can reference
// "common.wadl#widgetId" next to it.
//
// A reference whose target cannot be located fails resolution with
// ast.InvalidWADLError; the loader never guesses. Already loaded
// documents are returned from the registry as-is, which keeps
// reference cycles between documents harmless.
package loader
