package loader

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/wadl/ast"
)

const apiWADL = `<application xmlns="http://wadl.dev.java.net/2009/02">
  <resources base="https://api.example.com/v1/">
    <resource path="widgets/{wid}">
      <param href="defs.wadl#widgetId"/>
      <method href="defs.wadl#auth"/>
      <resource path="parts" type="defs.wadl#paged">
        <method name="GET"/>
      </resource>
    </resource>
  </resources>
</application>`

const defsWADL = `<application xmlns="http://wadl.dev.java.net/2009/02">
  <param id="widgetId" name="wid" style="template" required="true"/>
  <resource_type id="paged">
    <param name="page" style="query" type="xsd:int" default="1"/>
  </resource_type>
  <method id="auth" name="POST"/>
  <resources base="https://internal.example.com/">
    <resource path="internal"/>
  </resources>
</application>`

func openMap(docs map[string]string) func(string) (io.ReadCloser, error) {
	return func(uri string) (io.ReadCloser, error) {
		data, ok := docs[uri]
		if !ok {
			return nil, fmt.Errorf("no such document %s", uri)
		}
		return io.NopCloser(strings.NewReader(data)), nil
	}
}

func TestLoaderAnalyze(t *testing.T) {
	l := New(Config{Open: openMap(map[string]string{
		"api.wadl":  apiWADL,
		"defs.wadl": defsWADL,
	})})
	_, err := l.Load("api.wadl")
	require.NoError(t, err)

	nodes, err := l.Analyze()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	widget := nodes[0]

	t.Run("referenced document loaded lazily", func(t *testing.T) {
		assert.Equal(t, 2, l.Registry().Len())
		_, ok := l.Registry().Document("defs.wadl")
		assert.True(t, ok)
	})

	t.Run("template parameter dereferenced", func(t *testing.T) {
		assert.Equal(t, "widgets/{wid}", widget.Segment.Template())
		params := widget.Segment.TemplateParameters()
		require.Len(t, params, 1)
		assert.Equal(t, "wid", params[0].Name)
		assert.True(t, params[0].IsRequired())
	})

	t.Run("method keeps its defining document", func(t *testing.T) {
		require.Len(t, widget.Methods, 1)
		assert.Equal(t, "POST", widget.Methods[0].Method.Name)
		assert.Equal(t, "defs.wadl", widget.Methods[0].File)
	})

	t.Run("resource type contributes query parameters", func(t *testing.T) {
		require.Len(t, widget.Children, 1)
		parts := widget.Children[0]
		require.Len(t, parts.Types, 1)
		assert.Equal(t, "defs.wadl#paged", parts.Types[0].Ref)
		assert.Equal(t, "defs.wadl", parts.Types[0].File)

		queries := parts.Types[0].Segment.QueryParameters()
		require.Len(t, queries, 1)
		assert.Equal(t, "page", queries[0].Name)
	})

	t.Run("lazily loaded documents contribute no resources", func(t *testing.T) {
		for _, node := range nodes {
			node.Walk(func(n *ast.ResourceNode) {
				assert.Equal(t, "api.wadl", n.File)
				assert.NotEqual(t, "internal", n.Segment.Template())
			})
		}
	})
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loading twice returns the registered document", func(t *testing.T) {
		l := New(Config{Open: openMap(map[string]string{
			"api.wadl":  apiWADL,
			"defs.wadl": defsWADL,
		})})

		first, err := l.Load("api.wadl")
		require.NoError(t, err)
		second, err := l.Load("api.wadl")
		require.NoError(t, err)
		assert.Same(t, first, second)

		nodes, err := l.Analyze()
		require.NoError(t, err)
		assert.Len(t, nodes, 1)
	})

	t.Run("open failure", func(t *testing.T) {
		l := New(Config{Open: openMap(nil)})
		_, err := l.Load("missing.wadl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loader: open missing.wadl")
	})

	t.Run("malformed document", func(t *testing.T) {
		l := New(Config{Open: openMap(map[string]string{"bad.wadl": "<application"})})
		_, err := l.Load("bad.wadl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loader: bad.wadl")
	})

	t.Run("document limit stops transitive loading", func(t *testing.T) {
		l := New(Config{
			Open: openMap(map[string]string{
				"api.wadl":  apiWADL,
				"defs.wadl": defsWADL,
			}),
			MaxDocuments: 1,
		})
		_, err := l.Load("api.wadl")
		require.NoError(t, err)

		_, err = l.Analyze()
		var invalid ast.InvalidWADLError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, err.Error(), "document limit 1")
	})
}

func TestLoaderReferenceCycle(t *testing.T) {
	// cycle-a applies a type from cycle-b whose parameter refers back
	// into cycle-a.
	docs := map[string]string{
		"cycle-a.wadl": `<application xmlns="http://wadl.dev.java.net/2009/02">
  <param id="traceParam" name="trace" style="query"/>
  <resources base="https://api.example.com/">
    <resource path="owners/{owner}" type="cycle-b.wadl#audited"/>
  </resources>
</application>`,
		"cycle-b.wadl": `<application xmlns="http://wadl.dev.java.net/2009/02">
  <resource_type id="audited">
    <param href="cycle-a.wadl#traceParam"/>
  </resource_type>
</application>`,
	}

	l := New(Config{Open: openMap(docs)})
	_, err := l.Load("cycle-a.wadl")
	require.NoError(t, err)

	nodes, err := l.Analyze()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 2, l.Registry().Len())

	require.Len(t, nodes[0].Types, 1)
	queries := nodes[0].Types[0].Segment.QueryParameters()
	require.Len(t, queries, 1)
	assert.Equal(t, "trace", queries[0].Name)
}

func TestLoadBytes(t *testing.T) {
	l := New(Config{})
	doc, err := l.LoadBytes("embedded.wadl", []byte(`<application xmlns="http://wadl.dev.java.net/2009/02">
  <resources base="https://api.example.com/">
    <resource path="health"/>
  </resources>
</application>`))
	require.NoError(t, err)
	assert.Equal(t, "embedded.wadl", doc.URI)

	nodes, err := l.Analyze()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "health", nodes[0].Segment.Template())

	t.Run("same uri returns the registered document", func(t *testing.T) {
		again, err := l.LoadBytes("embedded.wadl", []byte("ignored"))
		require.NoError(t, err)
		assert.Same(t, doc, again)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := l.LoadBytes("bad.wadl", []byte("<application"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loader: bad.wadl")
	})
}

func TestLoaderFiles(t *testing.T) {
	dir := t.TempDir()
	apiPath := filepath.Join(dir, "api.wadl")
	require.NoError(t, os.WriteFile(apiPath, []byte(apiWADL), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defs.wadl"), []byte(defsWADL), 0o644))

	l := New(Config{})
	_, err := l.Load(apiPath)
	require.NoError(t, err)

	nodes, err := l.Analyze()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 2, l.Registry().Len())

	params := nodes[0].Segment.TemplateParameters()
	require.Len(t, params, 1)
	assert.True(t, params[0].IsRequired())
}

func TestLoaderHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wadl/api.wadl", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, apiWADL)
	})
	mux.HandleFunc("/wadl/defs.wadl", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, defsWADL)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Run("relative references resolve against the request uri", func(t *testing.T) {
		l := New(Config{HTTPClient: srv.Client()})
		_, err := l.Load(srv.URL + "/wadl/api.wadl")
		require.NoError(t, err)

		nodes, err := l.Analyze()
		require.NoError(t, err)
		require.Len(t, nodes, 1)

		_, ok := l.Registry().Document(srv.URL + "/wadl/defs.wadl")
		assert.True(t, ok)
	})

	t.Run("non 200 status", func(t *testing.T) {
		l := New(Config{HTTPClient: srv.Client()})
		_, err := l.Load(srv.URL + "/wadl/missing.wadl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status")
	})
}
