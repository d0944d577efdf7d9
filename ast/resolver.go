package ast

import (
	"errors"

	"github.com/vitalvas/wadl/schema"
)

// Resolver locates the targets of href references on behalf of the
// analyzer. file is always the URI of the document containing the
// reference, so implementations can resolve relative hrefs against it.
//
// Returning an error marks the containing document invalid and aborts
// analysis. Returning a nil target with a nil error reports that the
// target is intentionally absent; the analyzer then skips the
// referencing declaration. loader.Registry is the standard
// implementation.
type Resolver interface {
	// ResolveParam returns the param definition an href designates. p
	// is the referencing declaration, passed for context.
	ResolveParam(file, href string, p *schema.Param) (*schema.Param, error)
}

// MethodResolver is an optional Resolver capability for method href
// references. The resolved method is returned together with the URI of
// the document defining it, since the target may live in a different
// document than the referencing resource.
type MethodResolver interface {
	ResolveMethod(file, href string, m *schema.Method) (*schema.Method, string, error)
}

// ResourceTypeResolver is an optional Resolver capability for the
// resource type references carried by a resource's type attribute.
// Like MethodResolver it returns the URI of the defining document.
type ResourceTypeResolver interface {
	ResolveResourceType(file, ref string) (*schema.ResourceType, string, error)
}

var (
	errNoResolver       = errors.New("no resolver configured")
	errNoMethodResolver = errors.New("resolver cannot resolve method references")
	errNoTypeResolver   = errors.New("resolver cannot resolve resource type references")
)

// derefParam resolves a param declaration that may be an href
// reference. A declaration without an href is used as declared and
// never triggers resolution.
func derefParam(file string, p *schema.Param, resolver Resolver) (*schema.Param, error) {
	if p.Href == "" {
		return p, nil
	}
	if resolver == nil {
		return nil, InvalidWADLError{Document: file, Ref: p.Href, Cause: errNoResolver}
	}
	target, err := resolver.ResolveParam(file, p.Href, p)
	if err != nil {
		return nil, invalid(file, p.Href, err)
	}
	return target, nil
}

func derefMethod(file string, m *schema.Method, resolver Resolver) (*schema.Method, string, error) {
	if m.Href == "" {
		return m, file, nil
	}
	mr, ok := resolver.(MethodResolver)
	if !ok {
		return nil, "", InvalidWADLError{Document: file, Ref: m.Href, Cause: errNoMethodResolver}
	}
	target, doc, err := mr.ResolveMethod(file, m.Href, m)
	if err != nil {
		return nil, "", invalid(file, m.Href, err)
	}
	return target, doc, nil
}

func derefResourceType(file, ref string, resolver Resolver) (*schema.ResourceType, string, error) {
	tr, ok := resolver.(ResourceTypeResolver)
	if !ok {
		return nil, "", InvalidWADLError{Document: file, Ref: ref, Cause: errNoTypeResolver}
	}
	rt, doc, err := tr.ResolveResourceType(file, ref)
	if err != nil {
		return nil, "", invalid(file, ref, err)
	}
	return rt, doc, nil
}

// invalid wraps err in an InvalidWADLError unless it already carries
// one.
func invalid(file, ref string, err error) error {
	var inv InvalidWADLError
	if errors.As(err, &inv) {
		return err
	}
	return InvalidWADLError{Document: file, Ref: ref, Cause: err}
}
