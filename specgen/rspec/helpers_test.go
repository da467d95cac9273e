package rspec

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/ir"
)

func qn(v string) *ast.QualifiedName                 { return &ast.QualifiedName{Value: v} }
func ref(v string) *ast.QualifiedReference           { return &ast.QualifiedReference{Value: v} }
func str(v string) *ast.LiteralString                { return &ast.LiteralString{Value: v} }
func num(v int64) *ast.LiteralInteger                { return &ast.LiteralInteger{Value: v, Radix: 10} }
func varx(name string) *ast.VariableExpression       { return &ast.VariableExpression{Expr: qn(name)} }
func list(vs ...ast.Node) *ast.LiteralList           { return &ast.LiteralList{Values: vs} }
func blockOf(stmts ...ast.Node) *ast.BlockExpression { return &ast.BlockExpression{Statements: stmts} }

func attr(name string, v ast.Node) *ast.AttributeOperation {
	return &ast.AttributeOperation{AttributeName: name, Operator: "=>", Value: v}
}

func assign(name string, v ast.Node) *ast.AssignmentExpression {
	return &ast.AssignmentExpression{Operator: "=", Left: varx(name), Right: v}
}

func resource(typ string, title ast.Node, ops ...ast.Node) *ast.ResourceExpression {
	return &ast.ResourceExpression{
		TypeName: qn(typ),
		Bodies:   []*ast.ResourceBody{{Title: title, Operations: ops}},
		Form:     "regular",
	}
}

func rel(op string, left, right ast.Node) *ast.RelationshipExpression {
	return &ast.RelationshipExpression{Operator: op, Left: left, Right: right}
}

func class(name string, params []*ast.Parameter, stmts ...ast.Node) *ast.HostClassDefinition {
	c := &ast.HostClassDefinition{Name: name, Parameters: params}
	if len(stmts) > 0 {
		c.Body = blockOf(stmts...)
	}
	return c
}

func define(name string, params []*ast.Parameter, stmts ...ast.Node) *ast.ResourceTypeDefinition {
	d := &ast.ResourceTypeDefinition{Name: name, Parameters: params}
	if len(stmts) > 0 {
		d.Body = blockOf(stmts...)
	}
	return d
}

func hash(kv ...ast.Node) *ast.LiteralHash {
	h := &ast.LiteralHash{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Entries = append(h.Entries, &ast.KeyedEntry{Key: kv[i], Value: kv[i+1]})
	}
	return h
}

// generate links decl and renders it with trailing whitespace removed.
func generate(t *testing.T, decl ast.Declaration) string {
	t.Helper()
	ast.Link(decl)
	return trimLines(NewGenerator(zaptest.NewLogger(t).Sugar()).GenerateDeclaration(decl))
}

// observed renders decl and returns the captured diagnostics.
func observed(decl ast.Declaration) (string, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	ast.Link(decl)
	out := NewGenerator(zap.New(core).Sugar()).GenerateDeclaration(decl)
	return trimLines(out), logs
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

// dispatchIn dispatches n after linking it below a throwaway class, so
// rules that look at their container see a declaration.
func dispatchIn(t *testing.T, n ast.Node) (ir.Fragment, *Dispatcher) {
	t.Helper()
	ast.Link(class("holder", nil, n))
	d := New(zaptest.NewLogger(t).Sugar())
	return d.Dispatch(n), d
}
