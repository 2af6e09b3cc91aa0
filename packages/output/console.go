package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/curlwrap/curlwrap/packages/bench"
	"github.com/curlwrap/curlwrap/packages/curl"
	"github.com/curlwrap/curlwrap/packages/history"
	"github.com/curlwrap/curlwrap/packages/runner"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// FormatResponse prints a parsed response: colored status line, headers
// when verbose, then the body.
func (f *ConsoleFormatter) FormatResponse(resp *curl.Response) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold("Status:"), f.statusText(resp))
	if f.verbose {
		fmt.Fprintf(f.writer, "%s %s\n", bold("Time:"), resp.Duration.Round(time.Millisecond))
		for _, h := range resp.Headers {
			fmt.Fprintf(f.writer, "%s\n", faint(h))
		}
	}
	if resp.Body != "" {
		fmt.Fprintf(f.writer, "%s\n", resp.Body)
	}
}

func (f *ConsoleFormatter) statusText(resp *curl.Response) string {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	switch {
	case resp.StatusCode == 0:
		return red("no response parsed")
	case resp.IsSuccess():
		return green(fmt.Sprintf("%d", resp.StatusCode))
	case resp.IsClientError():
		return yellow(fmt.Sprintf("%d", resp.StatusCode))
	case resp.IsServerError():
		return red(fmt.Sprintf("%d", resp.StatusCode))
	default:
		return fmt.Sprintf("%d", resp.StatusCode)
	}
}

// FormatSuiteResult prints per-request pass/fail lines and a summary.
func (f *ConsoleFormatter) FormatSuiteResult(result *runner.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Suite: "+result.Suite))

	for _, rr := range result.Results {
		if rr.Passed {
			fmt.Fprintf(f.writer, "  %s %s\n", green("✓"), rr.Name)
		} else {
			fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), rr.Name)
		}

		if rr.Err != nil {
			fmt.Fprintf(f.writer, "      %s\n", red(rr.Err.Error()))
			continue
		}

		for _, c := range rr.Checks {
			if c.Passed {
				if f.verbose {
					fmt.Fprintf(f.writer, "      %s %s\n", green("✓"), c.Name)
				}
			} else {
				fmt.Fprintf(f.writer, "      %s %s: %s\n", red("✗"), c.Name, c.Message)
			}
		}
	}

	summary := fmt.Sprintf("%d passed, %d failed (%s)",
		result.Passed, result.Failed, result.Duration.Round(time.Millisecond))
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "\n%s\n", red(summary))
	} else {
		fmt.Fprintf(f.writer, "\n%s\n", green(summary))
	}
}

// FormatBenchReport prints a benchmark summary table.
func (f *ConsoleFormatter) FormatBenchReport(report *bench.Report) {
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Benchmark"))
	fmt.Fprintf(f.writer, "  Requests:  %d (%.1f/s)\n", report.Total, report.RPS)
	if report.Errors > 0 {
		fmt.Fprintf(f.writer, "  Errors:    %s\n", red(fmt.Sprintf("%d", report.Errors)))
	} else {
		fmt.Fprintf(f.writer, "  Errors:    0\n")
	}
	fmt.Fprintf(f.writer, "  Duration:  %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(f.writer, "  Latency:   p50=%s p90=%s p95=%s p99=%s max=%s\n",
		report.P50.Round(100*time.Microsecond), report.P90.Round(100*time.Microsecond),
		report.P95.Round(100*time.Microsecond), report.P99.Round(100*time.Microsecond),
		report.Max.Round(100*time.Microsecond))
}

// FormatHistory prints recorded requests, newest first.
func (f *ConsoleFormatter) FormatHistory(entries []*history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(f.writer, "history is empty")
		return
	}

	faint := color.New(color.Faint).SprintFunc()
	for _, e := range entries {
		status := fmt.Sprintf("%d", e.StatusCode)
		if e.StatusCode == 0 {
			status = "-"
		}
		fmt.Fprintf(f.writer, "%s  %-6s %-4s %s (%dms)\n",
			faint(e.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			e.Method, status, e.URL, e.DurationMs)
	}
}
