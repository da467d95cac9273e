// Package rspec turns Puppet declarations into rspec-puppet test stubs.
//
// A Dispatcher walks one declaration, resolving variables through a private
// symbol table, and returns an ir document. Every node kind maps to exactly
// one rule; kinds without a rule produce nothing and log "unsupported node".
// No rule ever fails: odd input yields a smaller stub, never an error.
package rspec

import (
	"go.uber.org/zap"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/ir"
	"github.com/teranos/retrospec/logger"
	"github.com/teranos/retrospec/symtab"
)

// rule renders one node kind.
type rule func(d *Dispatcher, n ast.Node) ir.Fragment

// rules is populated in init to break the rule -> Dispatch -> rules cycle.
var rules map[ast.Kind]rule

func init() {
	rules = map[ast.Kind]rule{
		ast.KindProgram:                     program,
		ast.KindBlockExpression:             block,
		ast.KindHostClassDefinition:         declaration,
		ast.KindResourceTypeDefinition:      declaration,
		ast.KindParameter:                   parameter,
		ast.KindResourceExpression:          resourceExpression,
		ast.KindResourceBody:                resourceBody,
		ast.KindRelationshipExpression:      relationshipExpression,
		ast.KindAttributeOperation:          attributeOperation,
		ast.KindAttributesOperation:         attributesOperation,
		ast.KindAssignmentExpression:        assignment,
		ast.KindVariableExpression:          variable,
		ast.KindAccessExpression:            access,
		ast.KindNamedAccessExpression:       namedAccess,
		ast.KindCallMethodExpression:        callMethod,
		ast.KindCallNamedFunctionExpression: callNamedFunction,
		ast.KindLambdaExpression:            lambda,
		ast.KindIfExpression:                conditional,
		ast.KindUnlessExpression:            conditional,
		ast.KindConcatenatedString:          concatenatedString,
		ast.KindTextExpression:              textExpression,
		ast.KindParenthesizedExpression:     parenthesized,
		ast.KindNotExpression:               not,
		ast.KindCapabilityMapping:           capabilityMapping,
		ast.KindKeyedEntry:                  keyedEntry,
		ast.KindLiteralInteger:              literalInteger,
		ast.KindLiteralFloat:                literalFloat,
		ast.KindLiteralString:               literalString,
		ast.KindQualifiedName:               qualifiedName,
		ast.KindQualifiedReference:          qualifiedReference,
		ast.KindLiteralBoolean:              literalBoolean,
		ast.KindLiteralList:                 literalList,
		ast.KindLiteralHash:                 literalHash,
		ast.KindLiteralRegularExpression:    literalRegex,
		ast.KindLiteralDefault:              fixed(ir.Default),
		ast.KindLiteralUndef:                fixed(ir.Undef),
		ast.KindNop:                         fixed(ir.NopSym),
	}
}

// Dispatcher holds the state of one generation pass.
type Dispatcher struct {
	log   *zap.SugaredLogger
	store *symtab.Table
	// active is the declaration being rendered; declarations met while
	// it is set belong to their own pass
	active ast.Node
}

// New creates a Dispatcher with an empty symbol table. A nil log discards
// diagnostics.
func New(log *zap.SugaredLogger) *Dispatcher {
	log = logger.OrNop(log)
	return &Dispatcher{
		log:   log,
		store: symtab.New(log),
	}
}

// Table exposes the pass's symbol table.
func (d *Dispatcher) Table() *symtab.Table {
	return d.store
}

// Dispatch renders n with the rule registered for its kind.
func (d *Dispatcher) Dispatch(n ast.Node) ir.Fragment {
	if ast.IsNil(n) {
		d.log.Warnw("unsupported node", logger.FieldKind, "nil")
		return ir.Empty
	}
	r, ok := rules[n.Kind()]
	if !ok {
		d.log.Warnw("unsupported node", logger.FieldKind, string(n.Kind()))
		return ir.Empty
	}
	return r(d, n)
}

// value dispatches n when present; absent optional children are not
// diagnostics.
func (d *Dispatcher) value(n ast.Node) ir.Fragment {
	if ast.IsNil(n) {
		return ir.Empty
	}
	return d.Dispatch(n)
}

func fixed(f ir.Fragment) rule {
	return func(*Dispatcher, ast.Node) ir.Fragment { return f }
}
