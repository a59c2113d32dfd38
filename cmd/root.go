package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apicli/internal/config"
	"github.com/vedsharma/apicli/internal/format"
	httpclient "github.com/vedsharma/apicli/internal/http"
	"github.com/vedsharma/apicli/internal/logger"
	"github.com/vedsharma/apicli/internal/storage"
)

// cfg is resolved once per invocation before any subcommand runs
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "apicli",
	Short: "A CLI tool for building and sending HTTP requests",
	Long: `apicli is a command-line HTTP client, similar to Postman.

Build requests with params, headers, auth and bodies, import and export
cURL commands, track history, and organize requests into collections.

Examples:
  apicli get https://api.example.com/users -q page=2
  apicli post api.example.com/users -d '{"name": "John"}' --token $TOKEN
  apicli curl import "curl -X POST https://api.example.com/users -d 'a=1'"
  apicli history
  apicli collection list`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show response headers")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("proxy", false, "Send requests through the configured proxy")
	rootCmd.PersistentFlags().String("proxy-url", "", "Proxy base URL (implies --proxy)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to load config: %v", err))
	}
	cfg = loaded

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	if url, _ := cmd.Flags().GetString("proxy-url"); url != "" {
		cfg.ProxyURL = url
		cfg.Mode = config.ModeProxy
	}
	if useProxy, _ := cmd.Flags().GetBool("proxy"); useProxy {
		cfg.Mode = config.ModeProxy
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(fmt.Sprintf("Invalid config: %v", err))
	}

	logger.SetDebug(cfg.Debug)
	return nil
}

// openStore opens the configured storage or exits
func openStore(action string) *storage.Storage {
	store, err := storage.Open(cfg.DataDir, cfg.Storage)
	if err != nil {
		format.PrintError(fmt.Sprintf("%s: %v", action, err))
		os.Exit(1)
	}
	return store
}

// newExecutor returns the executor for the configured mode
func newExecutor() httpclient.Executor {
	if cfg.UseProxy() {
		return httpclient.NewProxyClient(cfg.ProxyURL, cfg.ProxyToken, cfg.Timeout)
	}
	return httpclient.NewClient(cfg.Timeout)
}

func exitWithError(msg string) {
	format.PrintError(msg)
	os.Exit(1)
}
