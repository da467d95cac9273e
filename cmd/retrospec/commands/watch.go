package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/retrospec/errors"
	"github.com/teranos/retrospec/logger"
	"github.com/teranos/retrospec/specgen"
	"github.com/teranos/retrospec/specgen/watch"
)

// WatchCmd regenerates specs whenever a dump changes
var WatchCmd = &cobra.Command{
	Use:   "watch [dump or directory...]",
	Short: "Regenerate specs when AST dumps change",
	Long: `Watch AST dumps and rewrite their spec files on every change.

Directories are watched with all their subdirectories, the same dumps
generate and check would find. Watch mode always overwrites, since it only
touches specs whose dump was just rewritten. Stop with Ctrl-C.

Examples:
  retrospec watch dumps/
  retrospec watch -o modules/ntp init.json`,
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().StringP("output", "o", "", "Module root to write specs below (default: output.dir)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir, _ = cmd.Flags().GetString("output")
	}
	if _, err := collectDumps(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(args, regenerate,
		watch.WithLogger(logger.ComponentLogger("watch")))
	if err != nil {
		return errors.Wrap(err, "failed to start watcher")
	}

	pterm.Info.Printfln("Watching %d path(s) for AST dump changes", len(args))
	return w.Run(ctx)
}

func regenerate(ctx context.Context, path string) error {
	result, err := generateDump(ctx, path)
	if skipDump(dumpFile{Path: path, Searched: true}, err) {
		return nil
	}
	if err != nil {
		return err
	}
	out, err := specgen.Write(result, cfg.Output.Dir, true)
	if err != nil {
		return err
	}
	for _, p := range out.Written {
		pterm.Success.Printfln("regenerated %s", p)
	}
	return nil
}
