package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apicli/internal/compile"
)

func init() {
	formatCmd := &cobra.Command{
		Use:   "format-json [json|-]",
		Short: "Pretty-print JSON with two-space indentation",
		Long: `Pretty-print JSON with two-space indentation. Input that is not valid
JSON is printed unchanged. Reads stdin when no argument or "-" is given.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runFormatJSON,
	}
	rootCmd.AddCommand(formatCmd)
}

func runFormatJSON(cmd *cobra.Command, args []string) {
	var raw string
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitWithError(fmt.Sprintf("Failed to read stdin: %v", err))
		}
		raw = strings.TrimRight(string(data), "\n")
	} else {
		raw = args[0]
	}
	fmt.Println(compile.FormatJSON(raw))
}
