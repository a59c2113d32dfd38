package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/spf13/cobra"

	"github.com/vedsharma/apicli/internal/config"
	"github.com/vedsharma/apicli/internal/format"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved settings",
		Run:   runConfigShow,
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a setting to config.toml",
		Long: `Write a setting to config.toml in the data directory.

Keys: storage, mode, proxy_url, proxy_token, timeout, debug

Example:
  apicli config set mode proxy
  apicli config set proxy_url https://api.example.com`,
		Args: cobra.ExactArgs(2),
		Run:  runConfigSet,
	}

	configCmd.AddCommand(showCmd, setCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	token := ""
	if cfg.ProxyToken != "" {
		token = redacted
	}
	fmt.Printf("data_dir    = %s\n", cfg.DataDir)
	fmt.Printf("storage     = %s\n", cfg.Storage)
	fmt.Printf("mode        = %s\n", cfg.Mode)
	fmt.Printf("proxy_url   = %s\n", cfg.ProxyURL)
	fmt.Printf("proxy_token = %s\n", token)
	fmt.Printf("timeout     = %s\n", cfg.Timeout)
	fmt.Printf("debug       = %t\n", cfg.Debug)
}

func runConfigSet(cmd *cobra.Command, args []string) {
	key, value := strings.ToLower(args[0]), args[1]
	apply, err := configSetter(key, value)
	if err != nil {
		exitWithError(err.Error())
	}

	// persist only what config.toml already holds plus this change, so env
	// values and flag overrides stay out of the file
	next, err := config.LoadFile(cfg.DataDir)
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to read config: %v", err))
	}
	apply(&next)

	effective := cfg
	apply(&effective)
	if err := effective.Validate(); err != nil {
		exitWithError(fmt.Sprintf("Invalid config: %v", err))
	}
	if err := next.Save(); err != nil {
		exitWithError(fmt.Sprintf("Failed to save config: %v", err))
	}
	format.PrintSuccess(fmt.Sprintf("Set %s", key))
}

// configSetter parses value for key and returns the change to apply
func configSetter(key, value string) (func(*config.Config), error) {
	switch key {
	case "storage":
		return func(c *config.Config) { c.Storage = value }, nil
	case "mode":
		return func(c *config.Config) { c.Mode = value }, nil
	case "proxy_url":
		return func(c *config.Config) { c.ProxyURL = value }, nil
	case "proxy_token":
		return func(c *config.Config) { c.ProxyToken = value }, nil
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, errors.Errorf("Invalid timeout: %v", err)
		}
		return func(c *config.Config) { c.Timeout = d }, nil
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Errorf("Invalid debug value: %v", err)
		}
		return func(c *config.Config) { c.Debug = b }, nil
	}
	return nil, errors.Errorf("Unknown setting: %s", key)
}
