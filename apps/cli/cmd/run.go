package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/curlwrap/curlwrap/packages/config"
	"github.com/curlwrap/curlwrap/packages/output"
	"github.com/curlwrap/curlwrap/packages/runner"
)

var runCmd = &cobra.Command{
	Use:   "run <suite.yaml>",
	Short: "Run a YAML suite of requests",
	Long: `Run the requests defined in a YAML suite file, in order, and
evaluate the expectations attached to each one.

Examples:
  curlwrap run smoke.yaml
  curlwrap run smoke.yaml --bail
  curlwrap run smoke.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runCommand,
}

const (
	// watchDebounceDelay coalesces bursts of file watch events into one
	// rerun; editors often fire several writes per save.
	watchDebounceDelay = 300 * time.Millisecond
)

var (
	runBailFlag    bool
	runWatchFlag   bool
	runVerboseFlag bool
	runNoColorFlag bool
	runConfigFlag  string
)

func init() {
	runCmd.Flags().BoolVar(&runBailFlag, "bail", false, "Stop at the first failed request")
	runCmd.Flags().BoolVarP(&runWatchFlag, "watch", "w", false, "Re-run the suite when the file changes")
	runCmd.Flags().BoolVarP(&runVerboseFlag, "verbose", "v", false, "Show passing checks too")
	runCmd.Flags().BoolVar(&runNoColorFlag, "no-color", getEnvBool("CURLWRAP_NO_COLOR", false), "Disable colored output (env: CURLWRAP_NO_COLOR)")
	runCmd.Flags().StringVar(&runConfigFlag, "config", getEnvString("CURLWRAP_CONFIG", ""), "Path to config file (env: CURLWRAP_CONFIG)")
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(runConfigFlag)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := newClient(cfg)
	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(runVerboseFlag || cfg.GetVerbose()),
		output.WithNoColor(runNoColorFlag || cfg.GetNoColor()),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	suitePath := args[0]

	runOnce := func() (*runner.Result, error) {
		suite, err := runner.LoadSuite(suitePath)
		if err != nil {
			return nil, err
		}
		return runner.New(client, runner.WithBail(runBailFlag)).Run(ctx, suite)
	}

	if runWatchFlag {
		return watchAndRun(ctx, cmd, suitePath, formatter, runOnce)
	}

	result, err := runOnce()
	if err != nil {
		return err
	}
	formatter.FormatSuiteResult(result)

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d requests failed", result.Failed, result.Failed+result.Passed)
	}
	return nil
}

// watchAndRun reruns the suite every time its file is written, until the
// context is cancelled. Suite errors are printed, not fatal: a suite
// that fails to load gets another chance on the next save.
func watchAndRun(ctx context.Context, cmd *cobra.Command, suitePath string, formatter *output.ConsoleFormatter, runOnce func() (*runner.Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save
	// and the watch on the old inode would silently die.
	if err := watcher.Add(filepath.Dir(suitePath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", suitePath, err)
	}

	rerun := func() {
		result, err := runOnce()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return
		}
		formatter.FormatSuiteResult(result)
	}

	rerun()
	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes...\n", suitePath)

	var debounce *time.Timer
	target := filepath.Clean(suitePath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounceDelay, rerun)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}
