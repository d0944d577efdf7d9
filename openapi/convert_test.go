package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/wadl/ast"
	"github.com/vitalvas/wadl/loader"
	"github.com/vitalvas/wadl/schema"
)

const storeWADL = `<application xmlns="http://wadl.dev.java.net/2009/02">
  <representation id="widgetJSON" mediaType="application/json">
    <doc>A widget.</doc>
    <param name="name" style="plain" required="true"/>
    <param name="count" style="plain" type="xsd:int"/>
  </representation>
  <resources base="https://api.example.com/v1/">
    <resource id="widgets" path="widgets">
      <doc title="Widgets">The widget collection.</doc>
      <param name="lang" style="query" default="en"/>
      <method id="listWidgets" name="GET">
        <doc title="List widgets">Returns every widget.</doc>
        <request>
          <param name="limit" style="query" type="xsd:int"/>
          <param name="X-Tenant" style="header" required="true"/>
        </request>
        <response status="200">
          <param name="X-Total" style="header" type="xsd:int"/>
          <representation href="#widgetJSON"/>
        </response>
        <response status="400 404">
          <doc>Lookup failed.</doc>
        </response>
      </method>
      <method name="POST">
        <request>
          <representation mediaType="application/x-www-form-urlencoded">
            <param name="name" style="plain" required="true"/>
          </representation>
        </request>
        <response status="201"/>
      </method>
      <resource path="{wid: [0-9]+}">
        <param name="wid" style="template" required="true" type="xsd:long"/>
        <param name="verbose" style="matrix" type="xsd:boolean"/>
        <method name="GET"/>
        <method name="DELETE"/>
      </resource>
    </resource>
  </resources>
</application>`

func convertStore(t *testing.T, cfg Config) *Document {
	t.Helper()

	l := loader.New(loader.Config{})
	_, err := l.LoadBytes("store.wadl", []byte(storeWADL))
	require.NoError(t, err)

	nodes, err := l.Analyze()
	require.NoError(t, err)

	if cfg.Representations == nil {
		cfg.Representations = l.Registry()
	}
	doc, err := NewConverter(cfg).Convert(nodes)
	require.NoError(t, err)
	return doc
}

func TestConvert(t *testing.T) {
	doc := convertStore(t, Config{Title: "Widget Store", Version: "2.0.0"})

	t.Run("document shape", func(t *testing.T) {
		assert.Equal(t, "3.1.0", doc.OpenAPI)
		assert.Equal(t, "Widget Store", doc.Info.Title)
		assert.Equal(t, "2.0.0", doc.Info.Version)
		assert.Equal(t, []Server{{URL: "https://api.example.com/v1/"}}, doc.Servers)
	})

	t.Run("paths from normalized templates", func(t *testing.T) {
		require.Contains(t, doc.Paths, "/widgets")
		require.Contains(t, doc.Paths, "/widgets/{wid}")
		assert.Len(t, doc.Paths, 2)
	})

	t.Run("path item metadata", func(t *testing.T) {
		item := doc.Paths["/widgets"]
		assert.Equal(t, "Widgets", item.Summary)
		assert.Equal(t, "The widget collection.", item.Description)
	})

	t.Run("query parameter with default", func(t *testing.T) {
		item := doc.Paths["/widgets"]
		require.Len(t, item.Parameters, 1)
		lang := item.Parameters[0]
		assert.Equal(t, "lang", lang.Name)
		assert.Equal(t, "query", lang.In)
		assert.False(t, lang.Required)
		assert.Equal(t, TypeString("string"), lang.Schema.Type)
		assert.Equal(t, "en", lang.Schema.Default)
	})

	t.Run("template parameter becomes required path parameter", func(t *testing.T) {
		item := doc.Paths["/widgets/{wid}"]
		require.Len(t, item.Parameters, 1)
		wid := item.Parameters[0]
		assert.Equal(t, "wid", wid.Name)
		assert.Equal(t, "path", wid.In)
		assert.True(t, wid.Required)
		assert.Equal(t, TypeString("integer"), wid.Schema.Type)
	})

	t.Run("matrix parameters omitted by default", func(t *testing.T) {
		for _, p := range doc.Paths["/widgets/{wid}"].Parameters {
			assert.NotEqual(t, "verbose", p.Name)
		}
	})

	t.Run("operations", func(t *testing.T) {
		collection := doc.Paths["/widgets"]
		require.NotNil(t, collection.Get)
		require.NotNil(t, collection.Post)
		assert.Equal(t, "listWidgets", collection.Get.OperationID)
		assert.Equal(t, "List widgets", collection.Get.Summary)
		assert.Equal(t, "Returns every widget.", collection.Get.Description)
		assert.Equal(t, []string{"widgets"}, collection.Get.Tags)

		item := doc.Paths["/widgets/{wid}"]
		require.NotNil(t, item.Get)
		require.NotNil(t, item.Delete)
		assert.Empty(t, item.Get.OperationID)
	})

	t.Run("request parameters", func(t *testing.T) {
		params := doc.Paths["/widgets"].Get.Parameters
		require.Len(t, params, 2)

		assert.Equal(t, "limit", params[0].Name)
		assert.Equal(t, "query", params[0].In)
		assert.Equal(t, TypeString("integer"), params[0].Schema.Type)

		assert.Equal(t, "X-Tenant", params[1].Name)
		assert.Equal(t, "header", params[1].In)
		assert.True(t, params[1].Required)
	})

	t.Run("request body from representation", func(t *testing.T) {
		body := doc.Paths["/widgets"].Post.RequestBody
		require.NotNil(t, body)
		require.Contains(t, body.Content, "application/x-www-form-urlencoded")

		s := body.Content["application/x-www-form-urlencoded"].Schema
		require.NotNil(t, s)
		assert.Equal(t, TypeString("object"), s.Type)
		require.Contains(t, s.Properties, "name")
		assert.Equal(t, []string{"name"}, s.Required)
	})

	t.Run("response with referenced representation", func(t *testing.T) {
		responses := doc.Paths["/widgets"].Get.Responses
		require.Contains(t, responses, "200")

		ok := responses["200"]
		assert.Equal(t, "OK", ok.Description)
		require.Contains(t, ok.Content, "application/json")
		assert.Equal(t, "#/components/schemas/widgetJSON", ok.Content["application/json"].Schema.Ref)

		require.Contains(t, ok.Headers, "X-Total")
		assert.Equal(t, TypeString("integer"), ok.Headers["X-Total"].Schema.Type)
	})

	t.Run("status list fans out", func(t *testing.T) {
		responses := doc.Paths["/widgets"].Get.Responses
		require.Contains(t, responses, "400")
		require.Contains(t, responses, "404")
		assert.Equal(t, "Lookup failed.", responses["400"].Description)
		assert.Equal(t, "Lookup failed.", responses["404"].Description)
	})

	t.Run("status text fills missing descriptions", func(t *testing.T) {
		responses := doc.Paths["/widgets"].Post.Responses
		require.Contains(t, responses, "201")
		assert.Equal(t, "Created", responses["201"].Description)
	})

	t.Run("method without responses gets a default", func(t *testing.T) {
		responses := doc.Paths["/widgets/{wid}"].Delete.Responses
		require.Contains(t, responses, "default")
		assert.Equal(t, "Default response", responses["default"].Description)
	})

	t.Run("shared representation lands in components", func(t *testing.T) {
		require.NotNil(t, doc.Components)
		require.Contains(t, doc.Components.Schemas, "widgetJSON")

		s := doc.Components.Schemas["widgetJSON"]
		assert.Equal(t, TypeString("object"), s.Type)
		assert.Equal(t, "A widget.", s.Description)
		require.Contains(t, s.Properties, "name")
		require.Contains(t, s.Properties, "count")
		assert.Equal(t, TypeString("integer"), s.Properties["count"].Type)
		assert.Equal(t, []string{"name"}, s.Required)
	})

	t.Run("tags from resource ids", func(t *testing.T) {
		assert.Equal(t, []Tag{{Name: "widgets"}}, doc.Tags)
	})
}

func TestConvertMatrix(t *testing.T) {
	doc := convertStore(t, Config{IncludeMatrix: true})

	var verbose *Parameter
	for _, p := range doc.Paths["/widgets/{wid}"].Parameters {
		if p.Name == "verbose" {
			verbose = p
		}
	}
	require.NotNil(t, verbose)
	assert.Equal(t, "path", verbose.In)
	assert.Equal(t, "matrix", verbose.Style)
	assert.False(t, verbose.Required)
	assert.Equal(t, TypeString("boolean"), verbose.Schema.Type)
}

func TestConvertDefaults(t *testing.T) {
	doc, err := NewConverter(Config{}).Convert(nil)
	require.NoError(t, err)

	assert.Equal(t, "3.1.0", doc.OpenAPI)
	assert.Equal(t, "API", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.Empty(t, doc.Paths)
	assert.Nil(t, doc.Components)
}

func TestConvertWithoutRepresentationResolver(t *testing.T) {
	app, err := schema.DecodeBytes([]byte(storeWADL))
	require.NoError(t, err)

	nodes, err := ast.BuildResources(app, "store.wadl", nil)
	require.NoError(t, err)

	doc, err := NewConverter(Config{}).Convert(nodes)
	require.NoError(t, err)

	// The referenced representation is skipped, the response stays.
	ok := doc.Paths["/widgets"].Get.Responses["200"]
	require.NotNil(t, ok)
	assert.Empty(t, ok.Content)
	assert.Nil(t, doc.Components)
}

func TestConvertDanglingRepresentation(t *testing.T) {
	l := loader.New(loader.Config{})
	_, err := l.LoadBytes("bad.wadl", []byte(`<application xmlns="http://wadl.dev.java.net/2009/02">
  <resources base="https://api.example.com/">
    <resource path="things">
      <method name="GET">
        <response status="200">
          <representation href="#nope"/>
        </response>
      </method>
    </resource>
  </resources>
</application>`))
	require.NoError(t, err)

	nodes, err := l.Analyze()
	require.NoError(t, err)

	_, err = NewConverter(Config{Representations: l.Registry()}).Convert(nodes)
	var invalid ast.InvalidWADLError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "#nope", invalid.Ref)
}

func TestSchemaFor(t *testing.T) {
	boolp := func(b bool) *bool { return &b }

	tests := []struct {
		name       string
		param      *schema.Param
		wantType   string
		wantFormat string
	}{
		{"default type is string", &schema.Param{Name: "p"}, "string", ""},
		{"xsd int", &schema.Param{Name: "p", Type: "xsd:int"}, "integer", ""},
		{"xsd long", &schema.Param{Name: "p", Type: "xsd:long"}, "integer", ""},
		{"xsd double", &schema.Param{Name: "p", Type: "xsd:double"}, "number", ""},
		{"xsd boolean", &schema.Param{Name: "p", Type: "xsd:boolean"}, "boolean", ""},
		{"xsd date", &schema.Param{Name: "p", Type: "xsd:date"}, "string", "date"},
		{"xsd dateTime", &schema.Param{Name: "p", Type: "xsd:dateTime"}, "string", "date-time"},
		{"xsd anyURI", &schema.Param{Name: "p", Type: "xsd:anyURI"}, "string", "uri"},
		{"unprefixed name", &schema.Param{Name: "p", Type: "int"}, "integer", ""},
		{"unknown type falls back to string", &schema.Param{Name: "p", Type: "xsd:QName"}, "string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := schemaFor(tt.param)
			assert.Equal(t, TypeString(tt.wantType), s.Type)
			assert.Equal(t, tt.wantFormat, s.Format)
		})
	}

	t.Run("options become an enumeration", func(t *testing.T) {
		s := schemaFor(&schema.Param{
			Name:    "format",
			Options: []*schema.Option{{Value: "json"}, {Value: "xml"}},
		})
		assert.Equal(t, []any{"json", "xml"}, s.Enum)
	})

	t.Run("default and fixed values", func(t *testing.T) {
		s := schemaFor(&schema.Param{Name: "p", Default: "10", Fixed: "2.0"})
		assert.Equal(t, "10", s.Default)
		assert.Equal(t, "2.0", s.Const)
	})

	t.Run("repeating wraps in an array", func(t *testing.T) {
		s := schemaFor(&schema.Param{Name: "tag", Type: "xsd:int", Repeating: boolp(true)})
		assert.Equal(t, TypeString("array"), s.Type)
		require.NotNil(t, s.Items)
		assert.Equal(t, TypeString("integer"), s.Items.Type)
	})
}

func TestPathOf(t *testing.T) {
	chain := func(templates ...string) []*ast.ResourceNode {
		nodes := make([]*ast.ResourceNode, len(templates))
		for i, tpl := range templates {
			nodes[i] = &ast.ResourceNode{Segment: ast.NewPathSegment(tpl)}
		}
		return nodes
	}

	tests := []struct {
		name string
		in   []*ast.ResourceNode
		want string
	}{
		{"simple chain", chain("widgets", "{id}"), "/widgets/{id}"},
		{"surrounding slashes trimmed", chain("/widgets/", "/{id}/"), "/widgets/{id}"},
		{"multi segment template", chain("widgets/{wid}", "parts"), "/widgets/{wid}/parts"},
		{"constraint normalized", chain("{id: [0-9]+}"), "/{id}"},
		{"empty segment skipped", chain("", "widgets"), "/widgets"},
		{"all empty", chain(""), "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pathOf(tt.in))
		})
	}
}

func TestDedupeParameters(t *testing.T) {
	first := &Parameter{Name: "id", In: "path"}
	second := &Parameter{Name: "id", In: "path", Required: true}
	query := &Parameter{Name: "id", In: "query"}

	out := dedupeParameters([]*Parameter{first, query, second})
	require.Len(t, out, 2)
	assert.Same(t, query, out[0])
	assert.Same(t, second, out[1])
}

// --- Benchmarks ---

func BenchmarkConvert(b *testing.B) {
	app, err := schema.DecodeBytes([]byte(storeWADL))
	if err != nil {
		b.Fatal(err)
	}
	nodes, err := ast.BuildResources(app, "store.wadl", nil)
	if err != nil {
		b.Fatal(err)
	}
	conv := NewConverter(Config{Title: "Widget Store"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := conv.Convert(nodes); err != nil {
			b.Fatal(err)
		}
	}
}
