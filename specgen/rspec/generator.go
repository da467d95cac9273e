package rspec

import (
	"go.uber.org/zap"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/ir"
	"github.com/teranos/retrospec/logger"
)

// Generator renders rspec-puppet documents, one fresh Dispatcher per
// declaration.
type Generator struct {
	log *zap.SugaredLogger
}

// NewGenerator creates a Generator logging to log (nil discards).
func NewGenerator(log *zap.SugaredLogger) *Generator {
	return &Generator{log: logger.OrNop(log)}
}

// Language returns the target test framework.
func (g *Generator) Language() string {
	return "rspec-puppet"
}

// FileExtension returns the extension of generated files.
func (g *Generator) FileExtension() string {
	return "rb"
}

// GenerateDeclaration renders the describe block for decl. The result has
// no header and no trailing newline.
func (g *Generator) GenerateDeclaration(decl ast.Declaration) string {
	log := logger.ChildLogger(g.log, logger.FieldDeclaration, decl.DeclarationName())
	return ir.Render(New(log).Dispatch(decl), log)
}
