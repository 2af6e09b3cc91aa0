package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/curlwrap/curlwrap/packages/bench"
	"github.com/curlwrap/curlwrap/packages/config"
	"github.com/curlwrap/curlwrap/packages/curl"
	"github.com/curlwrap/curlwrap/packages/output"
)

var benchCmd = &cobra.Command{
	Use:   "bench <url>",
	Short: "Fire one request repeatedly and report latency percentiles",
	Long: `Benchmark a URL by invoking curl repeatedly. Each sample spans a
whole curl process, so this measures the wrapper as deployed, not the
bare network round trip.

Examples:
  curlwrap bench https://example.com --requests 100
  curlwrap bench https://example.com --duration 30s --rate 10
  curlwrap bench https://api.example.com/things -X POST -d '{}' --requests 50 --concurrency 5`,
	Args: cobra.ExactArgs(1),
	RunE: benchCommand,
}

var (
	benchMethodFlag      string
	benchHeaderFlags     []string
	benchDataFlag        string
	benchRateFlag        float64
	benchDurationFlag    time.Duration
	benchRequestsFlag    int
	benchConcurrencyFlag int
	benchNoColorFlag     bool
	benchConfigFlag      string
)

func init() {
	benchCmd.Flags().StringVarP(&benchMethodFlag, "method", "X", "GET", "HTTP method")
	benchCmd.Flags().StringArrayVarP(&benchHeaderFlags, "header", "H", nil, "Header line, repeatable")
	benchCmd.Flags().StringVarP(&benchDataFlag, "data", "d", "", "Request body")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", 0, "Request rate per second (0 = unlimited)")
	benchCmd.Flags().DurationVar(&benchDurationFlag, "duration", 0, "Run for this long (e.g. 30s)")
	benchCmd.Flags().IntVarP(&benchRequestsFlag, "requests", "n", 0, "Total number of requests")
	benchCmd.Flags().IntVarP(&benchConcurrencyFlag, "concurrency", "c", 1, "Parallel curl processes")
	benchCmd.Flags().BoolVar(&benchNoColorFlag, "no-color", getEnvBool("CURLWRAP_NO_COLOR", false), "Disable colored output (env: CURLWRAP_NO_COLOR)")
	benchCmd.Flags().StringVar(&benchConfigFlag, "config", getEnvString("CURLWRAP_CONFIG", ""), "Path to config file (env: CURLWRAP_CONFIG)")
}

func benchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(benchConfigFlag)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	req := curl.NewRequest(benchMethodFlag, args[0]).SetHeaders(benchHeaderFlags...)
	if benchDataFlag != "" {
		req.SetBody(benchDataFlag)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bench.New(newClient(cfg), &bench.Config{
		Rate:        benchRateFlag,
		Concurrency: benchConcurrencyFlag,
		Duration:    benchDurationFlag,
		Requests:    benchRequestsFlag,
	})

	report, err := b.Run(ctx, req)
	if err != nil {
		return err
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithNoColor(benchNoColorFlag || cfg.GetNoColor()),
	)
	formatter.FormatBenchReport(report)
	return nil
}
