package rspec

import (
	"strconv"
	"strings"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/ir"
	"github.com/teranos/retrospec/logger"
	"github.com/teranos/retrospec/symtab"
)

// Placeholder stands in for values only known at catalog compile time.
const Placeholder = "# some_value"

// containment lists the functions whose arguments are classes the catalog
// will contain.
var containment = map[string]bool{
	"include": true,
	"contain": true,
	"require": true,
}

// assignment records the assigned value in the symbol table. It renders
// nothing.
func assignment(d *Dispatcher, n ast.Node) ir.Fragment {
	a := n.(*ast.AssignmentExpression)
	switch a.Operator {
	case "=":
		d.assign(a, a.Left, a.Right)
	case "+=":
		d.appendTo(a)
	default:
		d.log.Debugw("assignment not evaluated", "operator", a.Operator)
	}
	return ir.Empty
}

func (d *Dispatcher) assign(a *ast.AssignmentExpression, left, right ast.Node) {
	switch l := left.(type) {
	case *ast.VariableExpression:
		var value ir.Fragment
		switch right.(type) {
		case *ast.CallNamedFunctionExpression, *ast.CallMethodExpression:
			value = ir.Nil
		default:
			value = d.value(right)
		}
		d.write(a, l.Name(), value)

	case *ast.LiteralList:
		// [$a, $b] = [1, 2]
		if r, ok := right.(*ast.LiteralList); ok {
			for i := 0; i < len(l.Values) && i < len(r.Values); i++ {
				d.assign(a, l.Values[i], r.Values[i])
			}
			return
		}
		values, _ := d.value(right).(ir.List)
		for i, v := range l.Values {
			if lv, ok := v.(*ast.VariableExpression); ok && i < len(values) {
				d.write(a, lv.Name(), values[i])
			}
		}
	}
}

// write stores value under name unless value is just the name itself.
func (d *Dispatcher) write(a *ast.AssignmentExpression, name string, value ir.Fragment) {
	key := symtab.Normalize(name)
	if key == ir.Raw(value) {
		return
	}
	d.store.Store(key, value, assignmentScope(a, name), true)
}

// appendTo handles `$list += value`.
func (d *Dispatcher) appendTo(a *ast.AssignmentExpression) {
	v, ok := a.Left.(*ast.VariableExpression)
	if !ok {
		return
	}
	current, found := d.store.Lookup(v.Name())
	list, isList := current.(ir.List)
	if !found || !isList {
		d.log.Debugw("assignment not evaluated", "operator", a.Operator, logger.FieldKey, symtab.Normalize(v.Name()))
		return
	}
	merged := append(ir.List{}, list...)
	switch add := d.value(a.Right).(type) {
	case ir.List:
		merged = append(merged, add...)
	default:
		merged = append(merged, add)
	}
	d.store.Store(v.Name(), merged, assignmentScope(a, v.Name()), true)
}

func assignmentScope(a *ast.AssignmentExpression, name string) symtab.Scope {
	if isTopScoped(name) || enclosingDeclaration(a) == nil {
		return symtab.TopScope
	}
	return symtab.ClassScope
}

func isTopScoped(name string) bool {
	return strings.HasPrefix(strings.TrimPrefix(name, symtab.Sigil), symtab.Separator)
}

// variable substitutes the value recorded for a variable. Unknown variables
// render as their own sigiled name.
func variable(d *Dispatcher, n ast.Node) ir.Fragment {
	v := n.(*ast.VariableExpression)
	name := v.Name()
	key := symtab.Normalize(name)

	if value, ok := d.store.Lookup(key); ok {
		if isTopScoped(name) {
			d.store.Store(key, value, symtab.TopScope, false)
		}
		return value
	}

	switch v.Parent().(type) {
	case *ast.AttributeOperation, *ast.AssignmentExpression:
		return ir.Str(key)
	}
	scope := symtab.ClassScope
	if isTopScoped(name) {
		scope = symtab.TopScope
	}
	return d.store.Store(key, ir.Str(key), scope, false)
}

// access indexes a value, or renders a resource reference such as
// File['/tmp'] as the string `File[/tmp]`.
func access(d *Dispatcher, n ast.Node) ir.Fragment {
	a := n.(*ast.AccessExpression)
	if ref, ok := a.Left.(*ast.QualifiedReference); ok {
		keys := make([]string, 0, len(a.Keys))
		for _, k := range a.Keys {
			keys = append(keys, ir.Raw(d.value(k)))
		}
		return ir.Str(TypeReference(ref.Value) + "[" + strings.Join(keys, ", ") + "]")
	}

	target := d.value(a.Left)
	var key ir.Fragment = ir.Empty
	if len(a.Keys) > 0 {
		key = d.value(a.Keys[0])
	}

	switch t := target.(type) {
	case ir.List:
		if i, err := strconv.Atoi(ir.Raw(key)); err == nil {
			if i < 0 {
				i += len(t)
			}
			if i >= 0 && i < len(t) {
				return t[i]
			}
		}
	case ir.Hash:
		want := ir.Inspect(key)
		for _, p := range t {
			if ir.Inspect(p.Key) == want {
				return p.Value
			}
		}
	}

	d.log.Errorw("invalid index access",
		logger.FieldSeverity, logger.SeverityFatal,
		logger.FieldValue, ir.Inspect(target),
		logger.FieldIndex, ir.Inspect(key))
	return ir.Empty
}

func namedAccess(d *Dispatcher, n ast.Node) ir.Fragment {
	a := n.(*ast.NamedAccessExpression)
	return ir.Text(ir.Raw(d.value(a.Left)) + "." + ir.Raw(d.value(a.Right)))
}

// callMethod renders a placeholder with the call's arguments when the
// result is used as a value. As a statement only its lambda is walked.
func callMethod(d *Dispatcher, n ast.Node) ir.Fragment {
	c := n.(*ast.CallMethodExpression)
	if c.RvalRequired {
		return d.placeholder(c.Arguments)
	}
	if c.Lambda != nil {
		return d.Dispatch(c.Lambda)
	}
	return ir.Empty
}

// callNamedFunction turns include, contain and require into class
// containment examples. Other calls only have their lambda walked.
func callNamedFunction(d *Dispatcher, n ast.Node) ir.Fragment {
	c := n.(*ast.CallNamedFunctionExpression)
	if c.RvalRequired {
		return d.placeholder(c.Arguments)
	}

	var out ir.Seq
	if containment[c.FunctionName()] {
		for _, arg := range c.Arguments {
			for _, class := range titles(d.value(arg)) {
				name := strings.TrimPrefix(ir.Raw(class), symtab.Separator)
				if name == "" {
					continue
				}
				out = append(out,
					ir.Break{}, ir.Break{}, ir.Text("it"), ir.Text("do"), ir.BlockOpen{},
					ir.Text("is_expected.to contain_class("+ir.Quote(name)+")"),
					ir.BlockClose{}, ir.Text("end"),
				)
			}
		}
	}
	if c.Lambda != nil {
		out = append(out, d.Dispatch(c.Lambda))
	}
	return out
}

func (d *Dispatcher) placeholder(args []ast.Node) ir.Fragment {
	rendered := make([]string, 0, len(args))
	for _, a := range args {
		rendered = append(rendered, ir.Inspect(d.value(a)))
	}
	return ir.Of(ir.Text(Placeholder+"("), ir.Text(strings.Join(rendered, ", ")), ir.Text(")"))
}

// lambda registers the block parameters and walks the body.
func lambda(d *Dispatcher, n ast.Node) ir.Fragment {
	l := n.(*ast.LambdaExpression)
	for _, p := range l.Parameters {
		if p != nil {
			d.Dispatch(p)
		}
	}
	return d.value(l.Body)
}

// conditional walks both branches; the test is not evaluated.
func conditional(d *Dispatcher, n ast.Node) ir.Fragment {
	var then, els ast.Node
	switch c := n.(type) {
	case *ast.IfExpression:
		then, els = c.Then, c.Else
	case *ast.UnlessExpression:
		then, els = c.Then, c.Else
	}
	var out ir.Seq
	for _, branch := range []ast.Node{then, els} {
		if f := d.value(branch); !ir.IsValue(f) {
			out = append(out, f)
		}
	}
	return out
}

func concatenatedString(d *Dispatcher, n ast.Node) ir.Fragment {
	var sb strings.Builder
	for _, s := range n.(*ast.ConcatenatedString).Segments {
		sb.WriteString(ir.Raw(d.value(s)))
	}
	return ir.Str(sb.String())
}

func textExpression(d *Dispatcher, n ast.Node) ir.Fragment {
	return d.value(n.(*ast.TextExpression).Expr)
}

func parenthesized(d *Dispatcher, n ast.Node) ir.Fragment {
	return d.value(n.(*ast.ParenthesizedExpression).Expr)
}

func not(d *Dispatcher, n ast.Node) ir.Fragment {
	return ir.Text("!" + ir.Raw(d.value(n.(*ast.NotExpression).Expr)))
}

func capabilityMapping(d *Dispatcher, n ast.Node) ir.Fragment {
	c := n.(*ast.CapabilityMapping)
	out := ir.Of(ir.Text(c.MappingKind), ir.Text(ir.Raw(d.value(c.Component))), ir.Text(c.Capability))
	for _, m := range c.Mappings {
		out = append(out, d.value(m))
	}
	return out
}
