package rspec

import (
	"strings"
	"unicode"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/ir"
	"github.com/teranos/retrospec/symtab"
)

// Ordering matchers per relationship operator, as seen from the left and
// right operand.
var orderings = map[string]struct{ left, right string }{
	"->": {"that_comes_before", "that_requires"},
	"~>": {"that_notifies", "that_subscribes_to"},
	"<-": {"that_requires", "that_comes_before"},
	"<~": {"that_subscribes_to", "that_notifies"},
}

func resourceExpression(d *Dispatcher, n ast.Node) ir.Fragment {
	r := n.(*ast.ResourceExpression)
	out := make(ir.Seq, 0, len(r.Bodies))
	for _, b := range r.Bodies {
		if b != nil {
			out = append(out, d.Dispatch(b))
		}
	}
	return out
}

// resourceBody emits one example per title asserting the catalog contains
// the resource, with its attributes and ordering.
func resourceBody(d *Dispatcher, n ast.Node) ir.Fragment {
	body := n.(*ast.ResourceBody)
	res, _ := body.Parent().(*ast.ResourceExpression)
	if res == nil {
		return ir.Empty
	}
	matcher := "contain_" + strings.ToLower(strings.ReplaceAll(ir.Raw(d.value(res.TypeName)), symtab.Separator, "__"))

	var ops []ir.Fragment
	for _, op := range body.Operations {
		if !ast.IsNil(op) {
			ops = append(ops, d.Dispatch(op))
		}
	}
	ordering := d.relationships(res)

	var out ir.Seq
	for _, title := range titles(d.value(body.Title)) {
		assertion := "is_expected.to " + matcher + "(" + ir.Inspect(title) + ")"
		out = append(out, ir.Break{}, ir.Break{}, ir.Text("it"), ir.Text("do"), ir.BlockOpen{})
		if len(ops) == 0 {
			out = append(out, ir.Text(assertion))
		} else {
			out = append(out, ir.Text(assertion+".with("), ir.BlockOpen{})
			for i, op := range ops {
				if i > 0 {
					out = append(out, ir.Break{})
				}
				out = append(out, op)
			}
			out = append(out, ir.BlockClose{}, ir.Text(")"))
		}
		out = append(out, ordering, ir.BlockClose{}, ir.Text("end"))
	}
	return out
}

// titles expands an array title into one title per element.
func titles(f ir.Fragment) []ir.Fragment {
	if l, ok := f.(ir.List); ok && len(l) > 0 {
		return l
	}
	return []ir.Fragment{f}
}

// relationships walks the relationship expressions enclosing res and
// renders one ordering matcher per resource on the other side. res is the
// subject where it is the rightmost operand of a left side, and the object
// where it is the leftmost operand of a right side.
func (d *Dispatcher) relationships(res *ast.ResourceExpression) ir.Fragment {
	var out ir.Seq
	var child ast.Node = res
	for p := res.Parent(); !ast.IsNil(p); child, p = p, p.Parent() {
		rel, ok := p.(*ast.RelationshipExpression)
		if !ok {
			break
		}
		names, ok := orderings[rel.Operator]
		if !ok {
			continue
		}
		switch {
		case child == rel.Left && rightmost(rel.Left) == ast.Node(res):
			out = append(out, d.orderingMatchers(names.left, leftmost(rel.Right))...)
		case child == rel.Right && leftmost(rel.Right) == ast.Node(res):
			out = append(out, d.orderingMatchers(names.right, rightmost(rel.Left))...)
		}
	}
	return out
}

func (d *Dispatcher) orderingMatchers(matcher string, other ast.Node) ir.Seq {
	var out ir.Seq
	for _, ref := range d.references(other) {
		out = append(out, ir.Break{}, ir.Text("."+matcher+"("+ir.Quote(ref)+")"))
	}
	return out
}

// references renders `Type[title]` for every resource addressed by n.
func (d *Dispatcher) references(n ast.Node) []string {
	switch o := n.(type) {
	case *ast.ResourceExpression:
		typ := TypeReference(ir.Raw(d.value(o.TypeName)))
		var refs []string
		for _, b := range o.Bodies {
			if b == nil {
				continue
			}
			for _, t := range titles(d.value(b.Title)) {
				refs = append(refs, typ+"["+ir.Raw(t)+"]")
			}
		}
		return refs
	case *ast.AccessExpression:
		if ref := ir.Raw(d.Dispatch(o)); ref != "" {
			return []string{ref}
		}
	}
	return nil
}

func leftmost(n ast.Node) ast.Node {
	for {
		rel, ok := n.(*ast.RelationshipExpression)
		if !ok {
			return n
		}
		n = rel.Left
	}
}

func rightmost(n ast.Node) ast.Node {
	for {
		rel, ok := n.(*ast.RelationshipExpression)
		if !ok {
			return n
		}
		n = rel.Right
	}
}

// TypeReference capitalizes each segment of a resource type name:
// `apache::vhost` becomes `Apache::Vhost`.
func TypeReference(name string) string {
	segs := strings.Split(strings.TrimPrefix(name, symtab.Separator), symtab.Separator)
	for i, s := range segs {
		if s == "" {
			continue
		}
		r := []rune(s)
		r[0] = unicode.ToUpper(r[0])
		segs[i] = string(r)
	}
	return strings.Join(segs, symtab.Separator)
}

// relationshipExpression renders the resources on both sides; the ordering
// itself is reported by the resource bodies involved. References such as
// File['/a'] render nothing here.
func relationshipExpression(d *Dispatcher, n ast.Node) ir.Fragment {
	rel := n.(*ast.RelationshipExpression)
	var out ir.Seq
	for _, side := range []ast.Node{rel.Left, rel.Right} {
		if f := d.value(side); !ir.IsValue(f) {
			out = append(out, f)
		}
	}
	return out
}

func attributeOperation(d *Dispatcher, n ast.Node) ir.Fragment {
	op := n.(*ast.AttributeOperation)
	return ir.Of(
		ir.Text(ir.Quote(op.AttributeName)),
		ir.Text(op.Operator),
		ir.Text(ir.Inspect(d.value(op.Value))+","),
	)
}

// attributesOperation renders the `* => $hash` splat as a comment, since
// the attributes it sets are not known statically.
func attributesOperation(d *Dispatcher, n ast.Node) ir.Fragment {
	op := n.(*ast.AttributesOperation)
	return ir.Text("# * => " + ir.Inspect(d.value(op.Expr)) + ",")
}
