package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apicli/internal/format"
	"github.com/vedsharma/apicli/internal/history"
	"github.com/vedsharma/apicli/internal/model"
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View request history",
		Run:   runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "n", 10, "Number of requests to show")

	showCmd := &cobra.Command{
		Use:   "show <id or index>",
		Short: "Show full details of a request",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryShow,
	}

	resendCmd := &cobra.Command{
		Use:   "resend <id or index>",
		Short: "Send a request from history again",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryResend,
	}
	resendCmd.Flags().BoolVar(&reqFlags.noHistory, "no-history", false, "Don't save to history")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all history",
		Run:   runHistoryClear,
	}

	historyCmd.AddCommand(showCmd, resendCmd, clearCmd)
	rootCmd.AddCommand(historyCmd)
}

func loadHistoryRing() *history.Ring {
	store := openStore("Failed to load history")
	defer store.Close()

	entries, err := store.LoadHistory()
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to load history: %v", err))
	}
	ring := history.NewRing(history.DefaultCapacity)
	ring.Load(entries)
	return ring
}

// findHistoryEntry looks an entry up by 1-based index first, then by id or
// the short id prefix shown in the history table
func findHistoryEntry(ring *history.Ring, identifier string) (model.HistoryEntry, bool) {
	entries := ring.Entries()
	if index, err := strconv.Atoi(identifier); err == nil {
		if index > 0 && index <= len(entries) {
			return entries[index-1], true
		}
	}
	if e, ok := ring.Get(identifier); ok {
		return e, true
	}
	for _, e := range entries {
		if identifier != "" && strings.HasPrefix(e.ID, identifier) {
			return e, true
		}
	}
	return model.HistoryEntry{}, false
}

func runHistoryList(cmd *cobra.Command, args []string) {
	ring := loadHistoryRing()
	limit, _ := cmd.Flags().GetInt("limit")
	format.PrintHistoryTable(ring.Entries(), limit)
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	entry, ok := findHistoryEntry(loadHistoryRing(), args[0])
	if !ok {
		exitWithError(fmt.Sprintf("Request not found: %s", args[0]))
	}
	format.PrintHistoryEntry(entry)
}

func runHistoryResend(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	entry, ok := findHistoryEntry(loadHistoryRing(), args[0])
	if !ok {
		exitWithError(fmt.Sprintf("Request not found: %s", args[0]))
	}

	store := openStore("Failed to open storage")
	defer store.Close()

	env := deliver(store, restoreForSend(entry.Request), verbose)
	exitIfFailed(env)
}

func runHistoryClear(cmd *cobra.Command, args []string) {
	store := openStore("Failed to clear history")
	defer store.Close()

	if err := store.ClearHistory(); err != nil {
		exitWithError(fmt.Sprintf("Failed to clear history: %v", err))
	}

	format.PrintSuccess("History cleared")
}
