package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/curlwrap/curlwrap/packages/config"
	"github.com/curlwrap/curlwrap/packages/curl"
	"github.com/curlwrap/curlwrap/packages/history"
	"github.com/curlwrap/curlwrap/packages/output"
)

var requestCmd = &cobra.Command{
	Use:     "request <url>",
	Aliases: []string{"req"},
	Short:   "Send a single HTTP request through curl",
	Long: `Send a single HTTP request by invoking the curl binary and parse
its output into status, headers and body.

Examples:
  curlwrap request https://httpbin.org/get
  curlwrap request https://httpbin.org/post -X POST -d '{"a":1}' -H "Content-Type: application/json"
  curlwrap request https://httpbin.org/redirect/3 --location
  curlwrap request https://httpbin.org/json --query slideshow.title
  curlwrap request https://example.com --proxy http://proxy.local:8080 --interface eth0`,
	Args: cobra.ExactArgs(1),
	RunE: requestCommand,
}

var (
	reqMethodFlag     string
	reqHeaderFlags    []string
	reqDataFlag       string
	reqProxyFlag      string
	reqLocationFlag   bool
	reqCompressedFlag bool
	reqInterfaceFlag  string
	reqTimeoutFlag    time.Duration
	reqCurlPathFlag   string
	reqQueryFlag      string
	reqVerboseFlag    bool
	reqNoColorFlag    bool
	reqNoHistoryFlag  bool
	reqConfigFlag     string
)

func init() {
	requestCmd.Flags().StringVarP(&reqMethodFlag, "method", "X", "GET", "HTTP method")
	requestCmd.Flags().StringArrayVarP(&reqHeaderFlags, "header", "H", nil, "Header line, repeatable (e.g. \"Accept: application/json\")")
	requestCmd.Flags().StringVarP(&reqDataFlag, "data", "d", "", "Request body")
	requestCmd.Flags().StringVar(&reqProxyFlag, "proxy", getEnvString("CURLWRAP_PROXY", ""), "Proxy URL (env: CURLWRAP_PROXY)")
	requestCmd.Flags().BoolVarP(&reqLocationFlag, "location", "L", false, "Follow redirects")
	requestCmd.Flags().BoolVar(&reqCompressedFlag, "compressed", false, "Request a compressed response")
	requestCmd.Flags().StringVar(&reqInterfaceFlag, "interface", "", "Network interface to bind to")
	requestCmd.Flags().DurationVar(&reqTimeoutFlag, "timeout", 0, "Request timeout (e.g. 10s)")
	requestCmd.Flags().StringVar(&reqCurlPathFlag, "curl-path", getEnvString("CURLWRAP_CURL_PATH", ""), "Path to the curl binary (env: CURLWRAP_CURL_PATH)")
	requestCmd.Flags().StringVarP(&reqQueryFlag, "query", "q", "", "Print only this gjson path of a JSON body")
	requestCmd.Flags().BoolVarP(&reqVerboseFlag, "verbose", "v", false, "Show response headers and timing")
	requestCmd.Flags().BoolVar(&reqNoColorFlag, "no-color", getEnvBool("CURLWRAP_NO_COLOR", false), "Disable colored output (env: CURLWRAP_NO_COLOR)")
	requestCmd.Flags().BoolVar(&reqNoHistoryFlag, "no-history", false, "Do not record this request in history")
	requestCmd.Flags().StringVar(&reqConfigFlag, "config", getEnvString("CURLWRAP_CONFIG", ""), "Path to config file (env: CURLWRAP_CONFIG)")
}

func requestCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(reqConfigFlag)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var overrides []curl.ClientOption
	if reqCurlPathFlag != "" {
		overrides = append(overrides, curl.WithCurlPath(reqCurlPathFlag))
	}
	client := newClient(cfg, overrides...)

	req := curl.NewRequest(reqMethodFlag, args[0]).
		SetHeaders(reqHeaderFlags...).
		SetProxy(reqProxyFlag).
		SetInterface(reqInterfaceFlag).
		SetTimeout(reqTimeoutFlag)
	if reqDataFlag != "" {
		req.SetBody(reqDataFlag)
	}
	if reqLocationFlag {
		req.SetFollowRedirects(true)
	}
	if reqCompressedFlag {
		req.SetCompressed(true)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resp, err := client.Do(ctx, req)
	if err != nil {
		return err
	}

	if !reqNoHistoryFlag && !cfg.GetNoHistory() {
		recordHistory(cmd, cfg, req, resp)
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(reqVerboseFlag || cfg.GetVerbose()),
		output.WithNoColor(reqNoColorFlag || cfg.GetNoColor()),
	)

	if reqQueryFlag != "" {
		value, ok := output.Query(resp.Body, reqQueryFlag)
		if !ok {
			return fmt.Errorf("query path %q not found in response body", reqQueryFlag)
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}

	formatter.FormatResponse(resp)

	if resp.StatusCode == 0 {
		return fmt.Errorf("curl output contained no parseable response")
	}
	return nil
}

// recordHistory logs the request, warning instead of failing: a broken
// history database should never block a response that already arrived.
func recordHistory(cmd *cobra.Command, cfg *config.Config, req *curl.Request, resp *curl.Response) {
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return
	}
	defer store.Close()

	err = store.Record(&history.Entry{
		Method:     req.Method,
		URL:        req.URL,
		StatusCode: resp.StatusCode,
		DurationMs: resp.DurationMs(),
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
}
