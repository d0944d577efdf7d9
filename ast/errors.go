package ast

import "fmt"

// InvalidWADLError reports a WADL description that cannot be analyzed
// because a cross reference in it does not resolve to a valid target.
// It is not recoverable locally; loading of the offending document
// should be aborted.
type InvalidWADLError struct {
	Document string // URI of the document containing the reference
	Ref      string // href value that failed to resolve
	Cause    error
}

func (e InvalidWADLError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ast: invalid wadl document %s: reference %q: %v", e.Document, e.Ref, e.Cause)
	}
	return fmt.Sprintf("ast: invalid wadl document %s: reference %q cannot be resolved", e.Document, e.Ref)
}

func (e InvalidWADLError) Unwrap() error { return e.Cause }

// MissingTemplateParameterError is returned by Evaluate when a template
// parameter marked required has no value.
type MissingTemplateParameterError struct {
	Name string
}

func (e MissingTemplateParameterError) Error() string {
	return fmt.Sprintf("ast: missing value for required template parameter %q", e.Name)
}

// MissingMatrixParameterError is returned by Evaluate when a matrix
// parameter marked required has no value.
type MissingMatrixParameterError struct {
	Name string
}

func (e MissingMatrixParameterError) Error() string {
	return fmt.Sprintf("ast: missing value for required matrix parameter %q", e.Name)
}
