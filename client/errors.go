package client

import (
	"errors"
	"fmt"
)

// ErrNoBase is returned by NewRequest when neither the resource chain
// nor the builder configuration provides a base URI.
var ErrNoBase = errors.New("client: no base URI")

// MissingQueryParameterError is returned by NewRequest when a query
// parameter marked required has no value.
type MissingQueryParameterError struct {
	Name string
}

func (e MissingQueryParameterError) Error() string {
	return fmt.Sprintf("client: missing value for required query parameter %q", e.Name)
}

// MissingHeaderParameterError is returned by NewRequest when a header
// parameter marked required has no value.
type MissingHeaderParameterError struct {
	Name string
}

func (e MissingHeaderParameterError) Error() string {
	return fmt.Sprintf("client: missing value for required header parameter %q", e.Name)
}
