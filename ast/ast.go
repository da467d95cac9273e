// Package ast models the parsed Puppet AST handed over by an external parser.
//
// Nodes are plain structs. Parent pointers are established once, by Link,
// after a tree is built (the decoder does this); from then on the tree is
// treated as read-only. Generators look up a node's syntactic container with
// Parent and its kind-specific children through the typed fields.
package ast

import "reflect"

// Kind names a node variant. Values match the parser's model class names so
// serialized dumps can be decoded without a translation table.
type Kind string

const (
	KindProgram                     Kind = "Program"
	KindBlockExpression             Kind = "BlockExpression"
	KindResourceExpression          Kind = "ResourceExpression"
	KindResourceBody                Kind = "ResourceBody"
	KindResourceTypeDefinition      Kind = "ResourceTypeDefinition"
	KindHostClassDefinition         Kind = "HostClassDefinition"
	KindParameter                   Kind = "Parameter"
	KindAssignmentExpression        Kind = "AssignmentExpression"
	KindVariableExpression          Kind = "VariableExpression"
	KindNamedAccessExpression       Kind = "NamedAccessExpression"
	KindAccessExpression            Kind = "AccessExpression"
	KindConcatenatedString          Kind = "ConcatenatedString"
	KindTextExpression              Kind = "TextExpression"
	KindRelationshipExpression      Kind = "RelationshipExpression"
	KindAttributeOperation          Kind = "AttributeOperation"
	KindAttributesOperation         Kind = "AttributesOperation"
	KindCallMethodExpression        Kind = "CallMethodExpression"
	KindCallNamedFunctionExpression Kind = "CallNamedFunctionExpression"
	KindLambdaExpression            Kind = "LambdaExpression"
	KindCapabilityMapping           Kind = "CapabilityMapping"
	KindParenthesizedExpression     Kind = "ParenthesizedExpression"
	KindNotExpression               Kind = "NotExpression"
	KindIfExpression                Kind = "IfExpression"
	KindUnlessExpression            Kind = "UnlessExpression"
	KindQualifiedName               Kind = "QualifiedName"
	KindQualifiedReference          Kind = "QualifiedReference"
	KindKeyedEntry                  Kind = "KeyedEntry"
	KindLiteralInteger              Kind = "LiteralInteger"
	KindLiteralFloat                Kind = "LiteralFloat"
	KindLiteralString               Kind = "LiteralString"
	KindLiteralBoolean              Kind = "LiteralBoolean"
	KindLiteralList                 Kind = "LiteralList"
	KindLiteralHash                 Kind = "LiteralHash"
	KindLiteralRegularExpression    Kind = "LiteralRegularExpression"
	KindLiteralDefault              Kind = "LiteralDefault"
	KindLiteralUndef                Kind = "LiteralUndef"
	KindNop                         Kind = "Nop"
)

// Node is implemented by every AST variant.
type Node interface {
	Kind() Kind
	// Parent returns the syntactic container, or nil for the root.
	Parent() Node
	// Children returns the non-nil child nodes in source order.
	Children() []Node

	setParent(Node)
}

// Declaration is a top-level construct that gets its own generated spec:
// a class or a defined resource type.
type Declaration interface {
	Node
	DeclarationName() string
	DeclarationParameters() []*Parameter
	DeclarationBody() Node
}

type base struct {
	parent Node
}

func (b *base) Parent() Node     { return b.parent }
func (b *base) setParent(p Node) { b.parent = p }

// Link sets the parent pointer of every node reachable from root. Calling it
// twice is harmless.
func Link(root Node) {
	if IsNil(root) {
		return
	}
	for _, c := range root.Children() {
		c.setParent(root)
		Link(c)
	}
	// Definitions that are not part of the body still need a container.
	if p, ok := root.(*Program); ok {
		for _, d := range p.Definitions {
			if !IsNil(d) && IsNil(d.Parent()) {
				d.setParent(p)
				Link(d)
			}
		}
	}
}

// Walk visits root and its descendants depth-first, pre-order. Returning
// false from fn skips the children of that node.
func Walk(root Node, fn func(Node) bool) {
	if IsNil(root) {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Children() {
		Walk(c, fn)
	}
}

// Enclosing returns the nearest ancestor of n (excluding n) with one of the
// given kinds, or nil.
func Enclosing(n Node, kinds ...Kind) Node {
	if IsNil(n) {
		return nil
	}
	for p := n.Parent(); !IsNil(p); p = p.Parent() {
		for _, k := range kinds {
			if p.Kind() == k {
				return p
			}
		}
	}
	return nil
}

// IsNil reports whether n is nil, including typed nil pointers stored in the
// interface.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// collect builds a Children slice, dropping nil entries.
func collect(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !IsNil(n) {
			out = append(out, n)
		}
	}
	return out
}

func params(ps []*Parameter) []Node {
	out := make([]Node, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
