package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/vedsharma/apicli/internal/curl"
	"github.com/vedsharma/apicli/internal/format"
	"github.com/vedsharma/apicli/internal/model"
)

var (
	importSend bool
	exportCopy bool
)

func init() {
	curlCmd := &cobra.Command{
		Use:   "curl",
		Short: "Import and export cURL commands",
	}

	importCmd := &cobra.Command{
		Use:   "import <command|->",
		Short: "Load a request from a cURL command",
		Long: `Load a request from a cURL command. Pass "-" to read the command from stdin.

Examples:
  apicli curl import "curl -X POST https://api.example.com/users -H 'Content-Type: application/json' -d '{\"a\":1}'"
  pbpaste | apicli curl import - --send`,
		Args: cobra.MinimumNArgs(1),
		Run:  runCurlImport,
	}
	importCmd.Flags().BoolVar(&importSend, "send", false, "Send the imported request")
	addSendFlags(importCmd)

	exportCmd := &cobra.Command{
		Use:   "export <url>",
		Short: "Print the cURL command for a request",
		Long: `Print the cURL command for a request built from the usual request flags.

Example:
  apicli curl export https://api.example.com/users -X POST -d '{"name":"John"}' --token $TOKEN --copy`,
		Args: cobra.ExactArgs(1),
		Run:  runCurlExport,
	}
	exportCmd.Flags().StringVarP(&reqFlags.method, "request", "X", "GET", "HTTP method")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy the command to the clipboard")
	addRequestFlags(exportCmd)

	curlCmd.AddCommand(importCmd, exportCmd)
	rootCmd.AddCommand(curlCmd)
}

func runCurlImport(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	command := strings.Join(args, " ")
	if command == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitWithError(fmt.Sprintf("Failed to read stdin: %v", err))
		}
		command = string(raw)
	}

	imported, err := curl.Parse(command)
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to parse cURL command: %v", err))
	}
	d := imported.Descriptor()
	format.PrintDescriptor(d)

	if !importSend && reqFlags.collection == "" {
		return
	}

	store := openStore("Failed to open storage")
	defer store.Close()

	if reqFlags.collection != "" {
		saveRequestToCollection(store, reqFlags.collection, reqFlags.name, d)
	}
	if !importSend {
		return
	}

	fmt.Println()
	env := deliver(store, d, verbose)
	exitIfFailed(env)
}

func runCurlExport(cmd *cobra.Command, args []string) {
	method, ok := model.ParseMethod(reqFlags.method)
	if !ok {
		exitWithError(fmt.Sprintf("Unsupported method: %s", reqFlags.method))
	}

	store := openStore("Failed to open storage")
	defer store.Close()

	d, err := buildDescriptor(store, method, args[0], reqFlags)
	if err != nil {
		exitWithError(err.Error())
	}

	out, err := curl.Export(d)
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to export request: %v", err))
	}
	fmt.Println(out)

	if exportCopy {
		if err := clipboard.WriteAll(out); err != nil {
			exitWithError(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		}
		format.PrintSuccess("Copied to clipboard")
	}
}
