package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/retrospec/cmd/retrospec/commands"
	"github.com/teranos/retrospec/config"
	"github.com/teranos/retrospec/errors"
	"github.com/teranos/retrospec/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "retrospec",
	Short: "Generate rspec-puppet test stubs from Puppet ASTs",
	Long: `retrospec reads AST dumps of Puppet manifests and writes one rspec-puppet
spec per class and defined type, pre-filled with the values it can infer
from parameter defaults and variable assignments.

Available commands:
  generate - Write spec files for AST dumps
  check    - Report spec files that differ from what would be generated
  watch    - Regenerate specs whenever a dump changes
  config   - Show or edit retrospec.toml

Examples:
  retrospec generate manifests.json        # Write spec/classes/... below .
  retrospec generate -o modules/ntp dumps/ # All dumps in a directory
  retrospec check dumps/                   # Fail when specs are stale
  retrospec config init                    # Write a default retrospec.toml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}

		verbosity, _ := cmd.Flags().GetCount("verbose")
		level := logger.EffectiveLevel(verbosity, logger.ParseLevel(cfg.Logger.Level))
		if err := logger.Initialize(cfg.Logger.JSON, level); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		if logger.JSONOutput {
			// plain status lines next to JSON logs
			pterm.DisableStyling()
		}
		logger.Debugw("configuration loaded",
			logger.FieldFile, cfg.Path,
			"verbosity", logger.LevelName(verbosity),
			"level", level.String())

		commands.SetConfig(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: retrospec.toml in this or a parent directory)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
