package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/retrospec/errors"
	"github.com/teranos/retrospec/logger"
	"github.com/teranos/retrospec/specgen"
)

var (
	generateOutput   string
	generateForce    bool
	generateDryRun   bool
	generateParallel int
)

// GenerateCmd writes spec files for AST dumps
var GenerateCmd = &cobra.Command{
	Use:   "generate [dump or directory...]",
	Short: "Write rspec-puppet specs for AST dumps",
	Long: `Decode each AST dump and write one spec file per class and defined type.

Classes go to spec/classes/, defined types to spec/defines/, below the
output directory. Existing spec files are left alone unless --force is
given, since generated stubs are meant to be finished by hand.

Examples:
  retrospec generate init.json                # Write below the current directory
  retrospec generate -o modules/ntp dumps/    # Every dump below dumps/
  retrospec generate --dry-run init.yaml      # Print specs to stdout`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Module root to write specs below (default: output.dir)")
	GenerateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Overwrite existing spec files")
	GenerateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Print specs instead of writing them")
	GenerateCmd.Flags().IntVarP(&generateParallel, "parallel", "p", 0, "Declarations rendered concurrently (default: generate.parallelism)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir = generateOutput
	}
	if cmd.Flags().Changed("force") {
		cfg.Output.Overwrite = generateForce
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Generate.Parallelism = generateParallel
	}

	dumps, err := collectDumps(args)
	if err != nil {
		return err
	}

	var written, skipped int
	for _, dump := range dumps {
		result, err := generateDump(cmd.Context(), dump.Path)
		if skipDump(dump, err) {
			continue
		}
		if err != nil {
			return err
		}

		if generateDryRun {
			for _, spec := range result.Specs {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", spec.Path, spec.Content)
			}
			continue
		}

		out, err := specgen.Write(result, cfg.Output.Dir, cfg.Output.Overwrite)
		if err != nil {
			return errors.Wrapf(err, "failed to write specs for %s", dump.Path)
		}
		for _, p := range out.Written {
			pterm.Success.Printfln("wrote %s", p)
		}
		for _, p := range out.Skipped {
			pterm.Warning.Printfln("kept existing %s", p)
		}
		written += len(out.Written)
		skipped += len(out.Skipped)
	}

	logger.Infow("generate finished",
		logger.FieldCount, written,
		"skipped", skipped,
		"dumps", len(dumps))
	if skipped > 0 && !generateDryRun {
		pterm.Info.Printfln("%d existing spec(s) kept; use --force to overwrite", skipped)
	}
	return nil
}
