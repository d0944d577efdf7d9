package ast

import (
	"slices"

	"github.com/vitalvas/wadl/schema"
)

// ResourceNode is the analyzed form of one resource declaration: the
// path segment built from its template plus its dereferenced methods,
// applied resource types and child resources. Nodes are built once at
// document load time and are reusable for any number of evaluations.
type ResourceNode struct {
	// File is the URI of the document declaring the resource.
	File string

	// Base is the base URI of the enclosing resources container,
	// inherited by nested resources.
	Base string

	// Resource is the declaration the node was built from.
	Resource *schema.Resource

	// Segment is the analyzed path segment of the resource.
	Segment *PathSegment

	// Methods are the resource's methods with href references
	// dereferenced.
	Methods []*MethodNode

	// Types are the resource types applied through the resource's
	// type attribute.
	Types []*TypeNode

	// Parent is the enclosing resource node, nil for top level
	// resources.
	Parent *ResourceNode

	// Children are the nested resource declarations.
	Children []*ResourceNode
}

// MethodNode pairs a method with the URI of the document defining it.
// For a method resolved through a cross document reference the
// defining document differs from the resource's.
type MethodNode struct {
	File   string
	Method *schema.Method
}

// TypeNode pairs an applied resource type with the segment carrying
// its out-of-line parameters.
type TypeNode struct {
	Ref     string
	File    string
	Type    *schema.ResourceType
	Segment *PathSegment
}

// BuildResources analyzes every resource declared by app and returns
// the top level nodes. file is the URI app was loaded from; it scopes
// reference resolution through resolver.
func BuildResources(app *schema.Application, file string, resolver Resolver) ([]*ResourceNode, error) {
	var nodes []*ResourceNode
	for _, rs := range app.Resources {
		for _, res := range rs.Resources {
			node, err := buildResource(res, file, rs.Base, resolver)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func buildResource(res *schema.Resource, file, base string, resolver Resolver) (*ResourceNode, error) {
	seg, err := NewResourceSegment(res, file, resolver)
	if err != nil {
		return nil, err
	}
	node := &ResourceNode{File: file, Base: base, Resource: res, Segment: seg}

	for _, m := range res.Methods {
		target, doc, err := derefMethod(file, m, resolver)
		if err != nil {
			return nil, err
		}
		if target == nil {
			continue
		}
		node.Methods = append(node.Methods, &MethodNode{File: doc, Method: target})
	}

	for _, ref := range res.TypeRefs() {
		rt, doc, err := derefResourceType(file, ref, resolver)
		if err != nil {
			return nil, err
		}
		if rt == nil {
			continue
		}
		typeSeg, err := NewResourceTypeSegment(rt, doc, resolver)
		if err != nil {
			return nil, err
		}
		node.Types = append(node.Types, &TypeNode{Ref: ref, File: doc, Type: rt, Segment: typeSeg})
	}

	for _, child := range res.Resources {
		cn, err := buildResource(child, file, base, resolver)
		if err != nil {
			return nil, err
		}
		cn.Parent = node
		node.Children = append(node.Children, cn)
	}

	return node, nil
}

// Chain returns the nodes from the top level resource down to n,
// inclusive. Request builders evaluate the chain's segments in this
// order to assemble a full path.
func (n *ResourceNode) Chain() []*ResourceNode {
	var chain []*ResourceNode
	for cur := n; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	slices.Reverse(chain)
	return chain
}

// Walk calls fn for n and every node below it, depth first in
// declaration order.
func (n *ResourceNode) Walk(fn func(*ResourceNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
