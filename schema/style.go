package schema

// ParamStyle is the value of a param element's style attribute. It
// controls how the parameter is serialized into a request.
//
// See: https://www.w3.org/Submission/wadl/ section 2.12.2
type ParamStyle string

const (
	// StylePlain parameters are embedded in a representation and play no
	// part in URI construction.
	StylePlain ParamStyle = "plain"

	// StyleQuery parameters are serialized into the URI query component.
	StyleQuery ParamStyle = "query"

	// StyleMatrix parameters are serialized into a path segment as matrix
	// parameters (";name=value", or ";name" for a boolean true).
	StyleMatrix ParamStyle = "matrix"

	// StyleHeader parameters are serialized as HTTP headers.
	StyleHeader ParamStyle = "header"

	// StyleTemplate parameters replace "{name}" placeholders in a path
	// segment. A param attached to a resource with no style attribute is
	// treated as a template parameter.
	StyleTemplate ParamStyle = "template"
)

// Valid reports whether s is one of the five styles the WADL
// specification names. The zero value is not valid; consumers default
// it to StyleTemplate for resource params.
func (s ParamStyle) Valid() bool {
	switch s {
	case StylePlain, StyleQuery, StyleMatrix, StyleHeader, StyleTemplate:
		return true
	}
	return false
}

// String returns the attribute value.
func (s ParamStyle) String() string { return string(s) }
