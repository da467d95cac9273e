// Package specgen generates test stubs for the classes and defined types of
// a parsed Puppet program.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Declaration discovery and file handling (this package) find the
//     classes and defined types and own paths, headers, writing and checks
//  2. Framework-specific generators (rspec/) render one declaration
//
// Each declaration is rendered in its own pass with its own symbol table,
// so passes can run in parallel. Output order always follows source order.
//
// # Implementing a New Generator
//
//	type ServerspecGenerator struct{}
//
//	func (g *ServerspecGenerator) Language() string      { return "serverspec" }
//	func (g *ServerspecGenerator) FileExtension() string { return "rb" }
//	func (g *ServerspecGenerator) GenerateDeclaration(decl ast.Declaration) string {
//	    // Render one describe block
//	}
package specgen

import "github.com/teranos/retrospec/ast"

// Generator defines the interface for framework-specific stub generators.
type Generator interface {
	// Language returns the framework name (e.g., "rspec-puppet")
	Language() string

	// FileExtension returns the extension of generated files (e.g., "rb")
	FileExtension() string

	// GenerateDeclaration renders the document for one declaration, without
	// header or trailing newline
	GenerateDeclaration(decl ast.Declaration) string
}
