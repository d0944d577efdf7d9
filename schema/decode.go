package schema

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Decode reads a WADL document from r.
//
// Elements are matched by local name, so documents qualified with the
// 2009/02 namespace, the legacy 2006/10 namespace, or no namespace at
// all are accepted alike. The namespace actually present on the root
// element is preserved in the XMLName field of the returned value.
func Decode(r io.Reader) (*Application, error) {
	var app Application
	if err := xml.NewDecoder(r).Decode(&app); err != nil {
		return nil, fmt.Errorf("schema: decode wadl: %w", err)
	}
	return &app, nil
}

// DecodeBytes is Decode for a document already held in memory.
func DecodeBytes(data []byte) (*Application, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes app to w as an indented XML document qualified with
// the 2009/02 WADL namespace. The XMLName recorded by Decode is
// ignored so that legacy documents are re-emitted in the current
// namespace.
func Encode(w io.Writer, app *Application) error {
	doc := *app
	doc.XMLName = xml.Name{Space: Namespace, Local: "application"}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("schema: encode wadl: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("schema: encode wadl: %w", err)
	}
	return enc.Close()
}
