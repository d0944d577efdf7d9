package openapi

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// DocsUI selects which interactive documentation UI to serve.
type DocsUI int

const (
	DocsSwaggerUI DocsUI = iota
	DocsRapiDoc
	DocsRedoc
)

// HandlerConfig configures the endpoints served by Handler.
type HandlerConfig struct {
	// UI selects the interactive docs UI (default: DocsSwaggerUI).
	UI DocsUI

	// Title overrides the HTML page title (default: the document's
	// info title).
	Title string

	// JSONPath is the path of the JSON endpoint (default:
	// "/schema.json"). Set to "-" to disable. Paths are absolute
	// within the handler; mount the handler under a prefix with
	// http.StripPrefix.
	JSONPath string

	// YAMLPath is the path of the YAML endpoint (default:
	// "/schema.yaml"). Set to "-" to disable.
	YAMLPath string

	// DisableDocs disables the interactive HTML docs UI endpoint.
	DisableDocs bool

	// SwaggerUIConfig provides additional SwaggerUIBundle configuration
	// options, rendered as JavaScript object properties alongside the
	// url and dom_id defaults. For example, {"docExpansion": "none"}
	// produces:
	//
	//	SwaggerUIBundle({url: "...", dom_id: "#swagger-ui", "docExpansion": "none"});
	//
	// Only used when UI is DocsSwaggerUI (the default).
	//
	// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/configuration/
	SwaggerUIConfig map[string]any
}

func (cfg HandlerConfig) jsonPath() string {
	if cfg.JSONPath == "" {
		return "/schema.json"
	}
	return cfg.JSONPath
}

func (cfg HandlerConfig) yamlPath() string {
	if cfg.YAMLPath == "" {
		return "/schema.yaml"
	}
	return cfg.YAMLPath
}

// Handler serves doc over HTTP. Depending on config it exposes:
//
//	/              - interactive HTML docs (unless DisableDocs)
//	/schema.json   - the document as JSON  (unless JSONPath is "-")
//	/schema.yaml   - the document as YAML  (unless YAMLPath is "-")
//
// Each representation is serialized on first request and cached; the
// document must not be mutated after the handler is created.
//
//	nodes, _ := l.Analyze()
//	doc, _ := openapi.NewConverter(openapi.Config{Title: "Widgets"}).Convert(nodes)
//	http.ListenAndServe(":8080", openapi.Handler(doc, openapi.HandlerConfig{}))
func Handler(doc *Document, cfg HandlerConfig) http.Handler {
	mux := http.NewServeMux()

	jsonPath := cfg.jsonPath()
	yamlPath := cfg.yamlPath()

	if jsonPath != "-" {
		mux.HandleFunc(jsonPath, serveDocument(doc.JSON, "application/json"))
	} else {
		jsonPath = ""
	}
	if yamlPath != "-" {
		mux.HandleFunc(yamlPath, serveDocument(doc.YAML, "application/x-yaml"))
	} else {
		yamlPath = ""
	}

	if !cfg.DisableDocs {
		// The docs UI references the JSON or YAML endpoint.
		specURL := jsonPath
		if specURL == "" {
			specURL = yamlPath
		}
		if specURL != "" {
			mux.HandleFunc("/", serveDocs(doc, cfg, specURL))
		}
	}

	return mux
}

// serveDocument serializes the document once on first request and
// caches the result.
func serveDocument(marshal func() ([]byte, error), contentType string) http.HandlerFunc {
	var (
		once sync.Once
		data []byte
		err  error
	)
	return func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			data, err = marshal()
		})
		if err != nil {
			http.Error(w, "failed to serialize openapi document", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func serveDocs(doc *Document, cfg HandlerConfig, specURL string) http.HandlerFunc {
	var (
		once sync.Once
		data []byte
	)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		once.Do(func() {
			title := cfg.Title
			if title == "" {
				title = doc.Info.Title
			}

			var page string
			switch cfg.UI {
			case DocsRapiDoc:
				page = rapidocTemplate(title, specURL)
			case DocsRedoc:
				page = redocTemplate(title, specURL)
			default:
				page = swaggerUITemplate(title, specURL, cfg.SwaggerUIConfig)
			}
			data = []byte(page)
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func swaggerUITemplate(title, specPath string, config map[string]any) string {
	var extra string
	if len(config) > 0 {
		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf strings.Builder
		for _, k := range keys {
			v, err := json.Marshal(config[k])
			if err != nil {
				continue
			}
			fmt.Fprintf(&buf, ", %s: %s", k, v)
		}
		extra = buf.String()
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), specPath, extra)
}

func rapidocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url=%q></rapi-doc>
</body>
</html>`, html.EscapeString(title), specPath)
}

func redocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specPath)
}
