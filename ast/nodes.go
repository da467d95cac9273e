package ast

// Program is the root of a parsed manifest. Generators treat it as
// transparent: only its body is walked.
type Program struct {
	base
	Body Node
	// Definitions references the classes and defined types found by the
	// parser. They normally also appear inline in Body; only a Program
	// without a body owns them.
	Definitions []Node
}

func (*Program) Kind() Kind { return KindProgram }
func (n *Program) Children() []Node {
	if !IsNil(n.Body) {
		return collect(n.Body)
	}
	return collect(n.Definitions...)
}

type BlockExpression struct {
	base
	Statements []Node
}

func (*BlockExpression) Kind() Kind         { return KindBlockExpression }
func (n *BlockExpression) Children() []Node { return collect(n.Statements...) }

// ResourceExpression is `type { title: attr => value; ... }`. Form is
// "regular", "virtual" or "exported".
type ResourceExpression struct {
	base
	TypeName Node
	Bodies   []*ResourceBody
	Form     string
}

func (*ResourceExpression) Kind() Kind { return KindResourceExpression }
func (n *ResourceExpression) Children() []Node {
	out := collect(n.TypeName)
	for _, b := range n.Bodies {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

type ResourceBody struct {
	base
	Title      Node
	Operations []Node
}

func (*ResourceBody) Kind() Kind { return KindResourceBody }
func (n *ResourceBody) Children() []Node {
	return append(collect(n.Title), collect(n.Operations...)...)
}

// ResourceTypeDefinition is a `define`.
type ResourceTypeDefinition struct {
	base
	Name       string
	Parameters []*Parameter
	Body       Node
}

func (*ResourceTypeDefinition) Kind() Kind { return KindResourceTypeDefinition }
func (n *ResourceTypeDefinition) Children() []Node {
	return append(params(n.Parameters), collect(n.Body)...)
}
func (n *ResourceTypeDefinition) DeclarationName() string             { return n.Name }
func (n *ResourceTypeDefinition) DeclarationParameters() []*Parameter { return n.Parameters }
func (n *ResourceTypeDefinition) DeclarationBody() Node               { return n.Body }

// HostClassDefinition is a `class`.
type HostClassDefinition struct {
	base
	Name        string
	Parameters  []*Parameter
	Body        Node
	ParentClass string
}

func (*HostClassDefinition) Kind() Kind { return KindHostClassDefinition }
func (n *HostClassDefinition) Children() []Node {
	return append(params(n.Parameters), collect(n.Body)...)
}
func (n *HostClassDefinition) DeclarationName() string             { return n.Name }
func (n *HostClassDefinition) DeclarationParameters() []*Parameter { return n.Parameters }
func (n *HostClassDefinition) DeclarationBody() Node               { return n.Body }

// Parameter belongs to a class, defined type or lambda. A nil Value means
// the parameter is required.
type Parameter struct {
	base
	Name         string
	Value        Node
	TypeExpr     Node
	CapturesRest bool
}

func (*Parameter) Kind() Kind         { return KindParameter }
func (n *Parameter) Children() []Node { return collect(n.TypeExpr, n.Value) }

type AssignmentExpression struct {
	base
	Operator string
	Left     Node
	Right    Node
}

func (*AssignmentExpression) Kind() Kind         { return KindAssignmentExpression }
func (n *AssignmentExpression) Children() []Node { return collect(n.Left, n.Right) }

// VariableExpression is `$name`; Expr is normally a QualifiedName without
// the sigil.
type VariableExpression struct {
	base
	Expr Node
}

func (*VariableExpression) Kind() Kind         { return KindVariableExpression }
func (n *VariableExpression) Children() []Node { return collect(n.Expr) }

// Name returns the variable name without the sigil.
func (n *VariableExpression) Name() string {
	switch e := n.Expr.(type) {
	case *QualifiedName:
		return e.Value
	case *LiteralString:
		return e.Value
	}
	return ""
}

// NamedAccessExpression is `left.right`, the functor of a method call.
type NamedAccessExpression struct {
	base
	Left  Node
	Right Node
}

func (*NamedAccessExpression) Kind() Kind         { return KindNamedAccessExpression }
func (n *NamedAccessExpression) Children() []Node { return collect(n.Left, n.Right) }

// AccessExpression is `left[keys...]`.
type AccessExpression struct {
	base
	Left Node
	Keys []Node
}

func (*AccessExpression) Kind() Kind { return KindAccessExpression }
func (n *AccessExpression) Children() []Node {
	return append(collect(n.Left), collect(n.Keys...)...)
}

// ConcatenatedString is a double-quoted string with interpolation.
type ConcatenatedString struct {
	base
	Segments []Node
}

func (*ConcatenatedString) Kind() Kind         { return KindConcatenatedString }
func (n *ConcatenatedString) Children() []Node { return collect(n.Segments...) }

// TextExpression is one `${...}` interpolation segment.
type TextExpression struct {
	base
	Expr Node
}

func (*TextExpression) Kind() Kind         { return KindTextExpression }
func (n *TextExpression) Children() []Node { return collect(n.Expr) }

// RelationshipExpression is `left -> right` (also ~>, <-, <~).
type RelationshipExpression struct {
	base
	Operator string
	Left     Node
	Right    Node
}

func (*RelationshipExpression) Kind() Kind         { return KindRelationshipExpression }
func (n *RelationshipExpression) Children() []Node { return collect(n.Left, n.Right) }

// AttributeOperation is `name => value` (or `name +> value`) in a resource body.
type AttributeOperation struct {
	base
	AttributeName string
	Operator      string
	Value         Node
}

func (*AttributeOperation) Kind() Kind         { return KindAttributeOperation }
func (n *AttributeOperation) Children() []Node { return collect(n.Value) }

// AttributesOperation is the splat form `* => $hash`.
type AttributesOperation struct {
	base
	Expr Node
}

func (*AttributesOperation) Kind() Kind         { return KindAttributesOperation }
func (n *AttributesOperation) Children() []Node { return collect(n.Expr) }

// CallMethodExpression is `functor(args) |params| { body }` where functor is
// a NamedAccessExpression.
type CallMethodExpression struct {
	base
	Functor      Node
	Arguments    []Node
	Lambda       *LambdaExpression
	RvalRequired bool
}

func (*CallMethodExpression) Kind() Kind { return KindCallMethodExpression }
func (n *CallMethodExpression) Children() []Node {
	out := append(collect(n.Functor), collect(n.Arguments...)...)
	if n.Lambda != nil {
		out = append(out, n.Lambda)
	}
	return out
}

// CallNamedFunctionExpression is `name(args)` or the statement form
// `include foo`.
type CallNamedFunctionExpression struct {
	base
	Functor      Node
	Arguments    []Node
	Lambda       *LambdaExpression
	RvalRequired bool
}

func (*CallNamedFunctionExpression) Kind() Kind { return KindCallNamedFunctionExpression }
func (n *CallNamedFunctionExpression) Children() []Node {
	out := append(collect(n.Functor), collect(n.Arguments...)...)
	if n.Lambda != nil {
		out = append(out, n.Lambda)
	}
	return out
}

// FunctionName returns the called function's name, or "".
func (n *CallNamedFunctionExpression) FunctionName() string {
	switch f := n.Functor.(type) {
	case *QualifiedName:
		return f.Value
	case *QualifiedReference:
		return f.Value
	}
	return ""
}

type LambdaExpression struct {
	base
	Parameters []*Parameter
	Body       Node
}

func (*LambdaExpression) Kind() Kind { return KindLambdaExpression }
func (n *LambdaExpression) Children() []Node {
	return append(params(n.Parameters), collect(n.Body)...)
}

// CapabilityMapping is `Component produces|consumes Capability { ... }`.
type CapabilityMapping struct {
	base
	MappingKind string
	Component   Node
	Capability  string
	Mappings    []Node
}

func (*CapabilityMapping) Kind() Kind { return KindCapabilityMapping }
func (n *CapabilityMapping) Children() []Node {
	return append(collect(n.Component), collect(n.Mappings...)...)
}

type ParenthesizedExpression struct {
	base
	Expr Node
}

func (*ParenthesizedExpression) Kind() Kind         { return KindParenthesizedExpression }
func (n *ParenthesizedExpression) Children() []Node { return collect(n.Expr) }

type NotExpression struct {
	base
	Expr Node
}

func (*NotExpression) Kind() Kind         { return KindNotExpression }
func (n *NotExpression) Children() []Node { return collect(n.Expr) }

type IfExpression struct {
	base
	Test Node
	Then Node
	Else Node
}

func (*IfExpression) Kind() Kind         { return KindIfExpression }
func (n *IfExpression) Children() []Node { return collect(n.Test, n.Then, n.Else) }

type UnlessExpression struct {
	base
	Test Node
	Then Node
	Else Node
}

func (*UnlessExpression) Kind() Kind         { return KindUnlessExpression }
func (n *UnlessExpression) Children() []Node { return collect(n.Test, n.Then, n.Else) }

// QualifiedName is a bare word: `present`, `apache::vhost`, `::osfamily`.
type QualifiedName struct {
	base
	Value string
}

func (*QualifiedName) Kind() Kind       { return KindQualifiedName }
func (*QualifiedName) Children() []Node { return nil }

// QualifiedReference is a capitalized type reference: `File`, `Apache::Vhost`.
type QualifiedReference struct {
	base
	Value string
}

func (*QualifiedReference) Kind() Kind       { return KindQualifiedReference }
func (*QualifiedReference) Children() []Node { return nil }

// KeyedEntry is one `key => value` pair of a LiteralHash.
type KeyedEntry struct {
	base
	Key   Node
	Value Node
}

func (*KeyedEntry) Kind() Kind         { return KindKeyedEntry }
func (n *KeyedEntry) Children() []Node { return collect(n.Key, n.Value) }

// LiteralInteger keeps the radix the integer was written in (8, 10 or 16).
type LiteralInteger struct {
	base
	Value int64
	Radix int
}

func (*LiteralInteger) Kind() Kind       { return KindLiteralInteger }
func (*LiteralInteger) Children() []Node { return nil }

type LiteralFloat struct {
	base
	Value float64
}

func (*LiteralFloat) Kind() Kind       { return KindLiteralFloat }
func (*LiteralFloat) Children() []Node { return nil }

type LiteralString struct {
	base
	Value string
}

func (*LiteralString) Kind() Kind       { return KindLiteralString }
func (*LiteralString) Children() []Node { return nil }

type LiteralBoolean struct {
	base
	Value bool
}

func (*LiteralBoolean) Kind() Kind       { return KindLiteralBoolean }
func (*LiteralBoolean) Children() []Node { return nil }

type LiteralList struct {
	base
	Values []Node
}

func (*LiteralList) Kind() Kind         { return KindLiteralList }
func (n *LiteralList) Children() []Node { return collect(n.Values...) }

type LiteralHash struct {
	base
	Entries []*KeyedEntry
}

func (*LiteralHash) Kind() Kind { return KindLiteralHash }
func (n *LiteralHash) Children() []Node {
	out := make([]Node, 0, len(n.Entries))
	for _, e := range n.Entries {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// LiteralRegularExpression holds the pattern source without delimiters.
type LiteralRegularExpression struct {
	base
	Value string
}

func (*LiteralRegularExpression) Kind() Kind       { return KindLiteralRegularExpression }
func (*LiteralRegularExpression) Children() []Node { return nil }

type LiteralDefault struct{ base }

func (*LiteralDefault) Kind() Kind       { return KindLiteralDefault }
func (*LiteralDefault) Children() []Node { return nil }

type LiteralUndef struct{ base }

func (*LiteralUndef) Kind() Kind       { return KindLiteralUndef }
func (*LiteralUndef) Children() []Node { return nil }

type Nop struct{ base }

func (*Nop) Kind() Kind       { return KindNop }
func (*Nop) Children() []Node { return nil }

// Unknown stands in for any variant this package does not model. Nested
// nodes found in its fields are kept so the tree stays connected.
type Unknown struct {
	base
	Name  string
	Nodes []Node
}

func (n *Unknown) Kind() Kind       { return Kind(n.Name) }
func (n *Unknown) Children() []Node { return collect(n.Nodes...) }
