package specgen

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/errors"
	"github.com/teranos/retrospec/logger"
	"github.com/teranos/retrospec/specgen/rspec"
)

// DefaultHeader is the first line of every generated spec file.
const DefaultHeader = "require 'spec_helper'"

// Options controls a generation run.
type Options struct {
	// Generator renders declarations. Defaults to the rspec-puppet generator.
	Generator Generator
	// Header is written above each document; empty for none.
	Header string
	// Parallelism is the number of declarations rendered concurrently.
	// Values below 2 render sequentially.
	Parallelism int
	Logger      *zap.SugaredLogger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Header: DefaultHeader, Parallelism: 1}
}

// Spec is one generated file.
type Spec struct {
	Declaration string
	Kind        ast.Kind
	// Path is relative to the module root, e.g. spec/classes/init_spec.rb
	Path    string
	Content string
}

// Result holds the specs of one run, in declaration order.
type Result struct {
	Language string
	Specs    []Spec
}

// Declarations returns the classes and defined types of program in source
// order. The parser's definition list is used when present; otherwise the
// body is searched, nested declarations included.
func Declarations(program *ast.Program) []ast.Declaration {
	if program == nil {
		return nil
	}
	var out []ast.Declaration
	for _, d := range program.Definitions {
		if decl, ok := d.(ast.Declaration); ok && !ast.IsNil(d) {
			out = append(out, decl)
		}
	}
	if len(out) > 0 {
		return out
	}
	ast.Walk(program.Body, func(n ast.Node) bool {
		if decl, ok := n.(ast.Declaration); ok {
			out = append(out, decl)
		}
		return true
	})
	return out
}

// Generate renders every declaration of program.
func Generate(ctx context.Context, program *ast.Program, opts Options) (*Result, error) {
	decls := Declarations(program)
	if len(decls) == 0 {
		return nil, errors.WithHint(errors.WithStack(errors.ErrNoDeclarations),
			"only classes and defined types produce spec files")
	}

	log := logger.OrNop(opts.Logger)
	gen := opts.Generator
	if gen == nil {
		gen = rspec.NewGenerator(log)
	}

	specs := make([]Spec, len(decls))
	render := func(i int) {
		decl := decls[i]
		specs[i] = Spec{
			Declaration: decl.DeclarationName(),
			Kind:        decl.Kind(),
			Path:        SpecPath(decl),
			Content:     Format(opts.Header, gen.GenerateDeclaration(decl)),
		}
		log.Debugw("generated spec",
			logger.FieldDeclaration, specs[i].Declaration,
			logger.FieldFile, specs[i].Path)
	}

	if opts.Parallelism < 2 {
		for i := range decls {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "generation cancelled")
			}
			render(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Parallelism)
		for i := range decls {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				render(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, errors.Wrap(err, "generation cancelled")
		}
	}

	log.Infow("generation complete",
		"language", gen.Language(),
		logger.FieldCount, len(specs))
	return &Result{Language: gen.Language(), Specs: specs}, nil
}

// SpecPath returns where the spec for decl lives, relative to the module
// root. The module segment of the name is dropped: apache::vhost becomes
// spec/defines/vhost_spec.rb and a bare apache becomes
// spec/classes/apache_spec.rb.
func SpecPath(decl ast.Declaration) string {
	dir := "classes"
	if decl.Kind() == ast.KindResourceTypeDefinition {
		dir = "defines"
	}
	segs := strings.Split(strings.TrimPrefix(decl.DeclarationName(), "::"), "::")
	if len(segs) > 1 {
		segs = segs[1:]
	}
	return filepath.Join("spec", dir, filepath.Join(segs...)+"_spec.rb")
}

// Format assembles a spec file: header, blank line, document, with
// trailing whitespace removed from every line and a final newline.
func Format(header, document string) string {
	var sb strings.Builder
	if header != "" {
		sb.WriteString(header)
		sb.WriteString("\n\n")
	}
	sb.WriteString(document)
	lines := strings.Split(strings.TrimRight(sb.String(), " \t\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n") + "\n"
}
