package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/retrospec/errors"
	"github.com/teranos/retrospec/specgen"
)

var checkOutput string

// CheckCmd reports spec files that differ from what would be generated
var CheckCmd = &cobra.Command{
	Use:   "check [dump or directory...]",
	Short: "Check whether spec files match their AST dumps",
	Long: `Generate specs in memory and compare them with the files on disk.

Useful after regenerating dumps to see which stubs need attention.
Trailing whitespace is ignored.

Exit codes:
  0 - Specs are up to date
  1 - Specs are missing or differ

Examples:
  retrospec check dumps/
  retrospec check -o modules/ntp init.json`,
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Module root the specs live below (default: output.dir)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := cfg.Output.Dir
	if cmd.Flags().Changed("output") {
		dir = checkOutput
	}

	dumps, err := collectDumps(args)
	if err != nil {
		return err
	}

	var missing, differ []pterm.BulletListItem
	for _, dump := range dumps {
		result, err := generateDump(cmd.Context(), dump.Path)
		if skipDump(dump, err) {
			continue
		}
		if err != nil {
			return err
		}
		check, err := specgen.Check(result, dir)
		if err != nil {
			return errors.Wrapf(err, "failed to check specs for %s", dump.Path)
		}
		for _, p := range check.Missing {
			missing = append(missing, pterm.BulletListItem{Level: 0, Text: p})
		}
		for _, p := range check.Differences {
			differ = append(differ, pterm.BulletListItem{Level: 0, Text: p})
		}
	}

	if len(missing) == 0 && len(differ) == 0 {
		pterm.Success.Println("Specs are up to date")
		return nil
	}

	if len(missing) > 0 {
		pterm.Warning.Printfln("%d spec(s) missing:", len(missing))
		pterm.DefaultBulletList.WithItems(missing).Render()
	}
	if len(differ) > 0 {
		pterm.Warning.Printfln("%d spec(s) differ:", len(differ))
		pterm.DefaultBulletList.WithItems(differ).Render()
	}
	return errors.WithHint(errors.New("specs are out of date"),
		"run 'retrospec generate --force' to regenerate them")
}
