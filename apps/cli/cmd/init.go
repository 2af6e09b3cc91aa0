package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/curlwrap/curlwrap/packages/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a curlwrap project",
	Long: `Initialize curlwrap in the current directory.

This creates:
  - .curlwrap.config.json  - Configuration file with defaults
  - example.yaml           - Example request suite

Examples:
  curlwrap init
  curlwrap init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleSuite = `name: example
defaults:
  headers:
    User-Agent: curlwrap/1.0
requests:
  - name: fetch example.com
    method: GET
    url: https://example.com/
    expect:
      status: 200
      bodyContains: ["Example Domain"]

  - name: follow a redirect chain
    method: GET
    url: https://httpbin.org/redirect/2
    followRedirects: true
    expect:
      status: 200

  - name: json body checks
    method: GET
    url: https://httpbin.org/json
    expect:
      status: 200
      headerContains:
        Content-Type: application/json
      jsonPath:
        slideshow.title: Sample Slide Show
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, ".curlwrap.config.json")
	exampleFile := filepath.Join(cwd, "example.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.WriteFile(exampleFile, []byte(exampleSuite), 0644); err != nil {
		return fmt.Errorf("failed to write example suite: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFile)
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", exampleFile)
	fmt.Fprintf(cmd.OutOrStdout(), "\nTry it:\n  curlwrap run example.yaml\n")
	return nil
}
