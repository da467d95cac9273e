package rspec

import (
	"strings"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/ir"
	"github.com/teranos/retrospec/logger"
	"github.com/teranos/retrospec/symtab"
)

// TitlePlaceholder is the title given to defined types, to be replaced by
// hand.
const TitlePlaceholder = "XXreplace_meXX"

func program(d *Dispatcher, n ast.Node) ir.Fragment {
	return d.value(n.(*ast.Program).Body)
}

func block(d *Dispatcher, n ast.Node) ir.Fragment {
	stmts := n.(*ast.BlockExpression).Statements
	out := make(ir.Seq, 0, len(stmts))
	for _, s := range stmts {
		// Bare values in statement position have nothing to assert.
		if f := d.Dispatch(s); !ir.IsValue(f) {
			out = append(out, f)
		}
	}
	return out
}

// declaration renders the describe block of a class or defined type.
//
// The body is walked before the facts block is assembled: walking it is
// what records the top scope variables.
func declaration(d *Dispatcher, n ast.Node) ir.Fragment {
	decl := n.(ast.Declaration)
	if d.active != nil {
		d.log.Debugw("nested declaration skipped", logger.FieldDeclaration, decl.DeclarationName())
		return ir.Empty
	}
	d.active = n
	defer func() { d.active = nil }()

	out := ir.Of(
		ir.Text("describe"), ir.Text(ir.Quote(decl.DeclarationName())), ir.Text("do"), ir.BlockOpen{},
	)
	if n.Kind() == ast.KindResourceTypeDefinition {
		out = append(out, ir.Text("let(:title) { "+ir.Quote(TitlePlaceholder)+" }"), ir.Break{})
	}

	var params []ir.Fragment
	for _, p := range decl.DeclarationParameters() {
		if p != nil {
			params = append(params, d.Dispatch(p))
		}
	}
	out = append(out, letBlock("params", params))

	body := d.value(decl.DeclarationBody())

	var facts []ir.Fragment
	for _, e := range d.store.TopScopeEntries() {
		facts = append(facts, ir.Of(ir.Text(FactName(e.Key)+":"), ir.Text(ir.Inspect(e.Value)+",")))
	}
	out = append(out, ir.Break{}, ir.Break{}, letBlock("facts", facts))

	return append(out, body, ir.BlockClose{}, ir.Text("end"))
}

// letBlock renders `let(:name) do { line, ... } end`, or an inline `{}`
// when there are no lines.
func letBlock(name string, lines []ir.Fragment) ir.Fragment {
	head := ir.Of(ir.Text("let(:"+name+")"), ir.Text("do"), ir.BlockOpen{})
	if len(lines) == 0 {
		return append(head, ir.Text("{}"), ir.BlockClose{}, ir.Text("end"))
	}
	out := append(head, ir.Text("{"), ir.BlockOpen{})
	for i, l := range lines {
		if i > 0 {
			out = append(out, ir.Break{})
		}
		out = append(out, l)
	}
	return append(out, ir.BlockClose{}, ir.Text("}"), ir.BlockClose{}, ir.Text("end"))
}

// FactName turns a top scope key into the facts hash key: `$::osfamily`
// becomes `osfamily`.
func FactName(key string) string {
	key = strings.TrimPrefix(key, symtab.Sigil)
	return strings.TrimPrefix(key, symtab.Separator)
}

// parameter registers a parameter in the symbol table and renders its line
// in the params block: required parameters as a `name: nil,` stub, optional
// ones commented out with their default.
func parameter(d *Dispatcher, n ast.Node) ir.Fragment {
	p := n.(*ast.Parameter)
	name := p.Name
	if p.CapturesRest {
		name = "*" + name
	}

	required := ast.IsNil(p.Value)
	var value ir.Fragment = ir.Undef
	if !required {
		value = d.Dispatch(p.Value)
	}

	switch c := p.Parent().(type) {
	case *ast.LambdaExpression:
		d.store.Store(p.Name, value, symtab.LambdaScope, false)
	case ast.Declaration:
		d.store.Store(c.DeclarationName()+symtab.Separator+p.Name, value, symtab.ParameterScope, false)
	default:
		d.store.Store(p.Name, value, symtab.ParameterScope, false)
	}

	if required {
		return ir.Of(ir.Text(name+":"), ir.Text("nil,"))
	}
	return ir.Of(ir.Text("# "+name+":"), ir.Text(ir.Inspect(value)+","))
}

func enclosingDeclaration(n ast.Node) ast.Node {
	return ast.Enclosing(n, ast.KindHostClassDefinition, ast.KindResourceTypeDefinition)
}
