package commands

import (
	"github.com/BurntSushi/toml"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/retrospec/config"
	"github.com/teranos/retrospec/errors"
)

// ConfigCmd manages retrospec.toml
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit retrospec configuration",
	Long: `Show or edit retrospec configuration.

Settings come from defaults, then retrospec.toml (in this or a parent
directory, or --config), then RETROSPEC_* environment variables such as
RETROSPEC_LOGGER_LEVEL=debug.`,
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default retrospec.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile()
		if err := config.WriteDefault(path, configInitForce); err != nil {
			return err
		}
		pterm.Success.Printfln("wrote %s", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Path != "" {
			pterm.Info.Printfln("from %s", cfg.Path)
		}
		if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg); err != nil {
			return errors.Wrap(err, "failed to encode config")
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one key in retrospec.toml",
	Example: `  retrospec config set generate.parallelism 4
  retrospec config set output.dir modules/ntp`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile()
		if err := config.Set(path, args[0], args[1]); err != nil {
			return err
		}
		pterm.Success.Printfln("%s = %s (%s)", args[0], args[1], path)
		return nil
	},
}

// configFile is the file config subcommands write: the one that was
// loaded, or retrospec.toml in the working directory.
func configFile() string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return config.FileName
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Replace an existing file")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSetCmd)
}
