package commands

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pterm/pterm"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/config"
	"github.com/teranos/retrospec/errors"
	"github.com/teranos/retrospec/logger"
	"github.com/teranos/retrospec/specgen"
)

var cfg = config.Default()

// SetConfig installs the configuration loaded by the root command.
func SetConfig(c *config.Config) {
	if c != nil {
		cfg = c
	}
}

// options builds generation options from the configuration.
func options() specgen.Options {
	opts := specgen.DefaultOptions()
	opts.Header = cfg.Output.Header
	opts.Parallelism = cfg.Generate.Parallelism
	opts.Logger = logger.ComponentLogger("specgen")
	return opts
}

// dumpFile is one AST dump to generate from.
type dumpFile struct {
	Path string
	// Searched is set for dumps found below a directory argument rather
	// than named on the command line.
	Searched bool
}

// collectDumps expands the arguments into AST dump files. Directories are
// searched recursively; explicitly named files must be dumps.
func collectDumps(args []string) ([]dumpFile, error) {
	if len(args) == 0 {
		return nil, errors.WithHint(errors.New("no AST dumps given"),
			"pass dump files or directories containing .json/.yaml dumps")
	}

	var dumps []dumpFile
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", arg)
		}
		if !info.IsDir() {
			if _, err := ast.FormatFromPath(arg); err != nil {
				return nil, err
			}
			dumps = append(dumps, dumpFile{Path: arg})
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && ast.IsDumpFile(path) {
				dumps = append(dumps, dumpFile{Path: path, Searched: true})
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to search %s", arg)
		}
	}
	sort.SliceStable(dumps, func(i, j int) bool { return dumps[i].Path < dumps[j].Path })
	return dumps, nil
}

// skipDump reports whether err only means that a searched dump has nothing
// to generate, like a site manifest holding node definitions alone. Named
// dumps without declarations stay errors.
func skipDump(dump dumpFile, err error) bool {
	if !dump.Searched || !errors.Is(err, errors.ErrNoDeclarations) {
		return false
	}
	logger.Debugw("dump skipped", logger.FieldFile, dump.Path, logger.FieldError, err)
	pterm.Info.Printfln("%s has no classes or defined types, skipped", dump.Path)
	return true
}

// generateDump decodes one dump and renders its declarations.
func generateDump(ctx context.Context, path string) (*specgen.Result, error) {
	program, err := ast.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	result, err := specgen.Generate(ctx, program, options())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate specs for %s", path)
	}
	return result, nil
}
