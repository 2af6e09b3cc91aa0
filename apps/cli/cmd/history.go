package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curlwrap/curlwrap/packages/config"
	"github.com/curlwrap/curlwrap/packages/history"
	"github.com/curlwrap/curlwrap/packages/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or clear recorded requests",
	Long: `List past requests recorded by the request command.

Examples:
  curlwrap history
  curlwrap history --limit 10
  curlwrap history --clear`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

var (
	historyLimitFlag   int
	historyClearFlag   bool
	historyNoColorFlag bool
	historyConfigFlag  string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum entries to list (0 = all)")
	historyCmd.Flags().BoolVar(&historyClearFlag, "clear", false, "Delete all recorded entries")
	historyCmd.Flags().BoolVar(&historyNoColorFlag, "no-color", getEnvBool("CURLWRAP_NO_COLOR", false), "Disable colored output (env: CURLWRAP_NO_COLOR)")
	historyCmd.Flags().StringVar(&historyConfigFlag, "config", getEnvString("CURLWRAP_CONFIG", ""), "Path to config file (env: CURLWRAP_CONFIG)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(historyConfigFlag)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()

	if historyClearFlag {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
		return nil
	}

	entries, err := store.List(historyLimitFlag)
	if err != nil {
		return err
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithNoColor(historyNoColorFlag || cfg.GetNoColor()),
	)
	formatter.FormatHistory(entries)
	return nil
}
