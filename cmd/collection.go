package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apicli/internal/format"
	"github.com/vedsharma/apicli/internal/model"
	"github.com/vedsharma/apicli/internal/storage"
)

func init() {
	collectionCmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Manage request collections",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all collections",
		Run:   runCollectionList,
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionCreate,
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show requests in a collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionShow,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionDelete,
	}

	addCmd := &cobra.Command{
		Use:   "add <collection> <name> <method> <url>",
		Short: "Add a request to a collection",
		Long: `Add a request to a collection without sending it.

Example:
  apicli collection add my-api "Get Users" GET https://api.example.com/users -q page=1`,
		Args: cobra.ExactArgs(4),
		Run:  runCollectionAdd,
	}
	addRequestFlags(addCmd)

	removeCmd := &cobra.Command{
		Use:   "remove-request <collection> <request>",
		Short: "Remove a saved request by name or id",
		Args:  cobra.ExactArgs(2),
		Run:   runCollectionRemoveRequest,
	}

	runCmd := &cobra.Command{
		Use:   "run <name> [request]",
		Short: "Run all requests in a collection, or just the named one",
		Args:  cobra.RangeArgs(1, 2),
		Run:   runCollectionRun,
	}
	runCmd.Flags().BoolVar(&reqFlags.noHistory, "no-history", false, "Don't save to history")

	collectionCmd.AddCommand(listCmd, createCmd, showCmd, deleteCmd, addCmd, removeCmd, runCmd)
	rootCmd.AddCommand(collectionCmd)
}

func mustGetCollection(store *storage.Storage, name string) *model.Collection {
	col, err := store.GetCollection(name)
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to load collection: %v", err))
	}
	if col == nil {
		exitWithError(fmt.Sprintf("Collection '%s' not found", name))
	}
	return col
}

func runCollectionList(cmd *cobra.Command, args []string) {
	store := openStore("Failed to load collections")
	defer store.Close()

	collections, err := store.LoadCollections()
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to load collections: %v", err))
	}

	format.PrintCollectionList(collections)
}

func runCollectionCreate(cmd *cobra.Command, args []string) {
	name := args[0]

	store := openStore("Failed to create collection")
	defer store.Close()

	if _, err := store.CreateCollection(name); err != nil {
		exitWithError(fmt.Sprintf("Failed to create collection: %v", err))
	}

	format.PrintSuccess(fmt.Sprintf("Collection '%s' created", name))
}

func runCollectionShow(cmd *cobra.Command, args []string) {
	store := openStore("Failed to load collection")
	defer store.Close()

	format.PrintCollectionRequests(mustGetCollection(store, args[0]))
}

func runCollectionDelete(cmd *cobra.Command, args []string) {
	name := args[0]

	store := openStore("Failed to delete collection")
	defer store.Close()

	if err := store.DeleteCollection(name); err != nil {
		exitWithError(fmt.Sprintf("Failed to delete collection: %v", err))
	}

	format.PrintSuccess(fmt.Sprintf("Collection '%s' deleted", name))
}

func runCollectionAdd(cmd *cobra.Command, args []string) {
	collectionName, requestName := args[0], args[1]

	method, ok := model.ParseMethod(args[2])
	if !ok {
		exitWithError(fmt.Sprintf("Unsupported method: %s", args[2]))
	}

	store := openStore("Failed to add request")
	defer store.Close()

	d, err := buildDescriptor(store, method, args[3], reqFlags)
	if err != nil {
		exitWithError(err.Error())
	}

	saveRequestToCollection(store, collectionName, requestName, d)
}

func runCollectionRemoveRequest(cmd *cobra.Command, args []string) {
	store := openStore("Failed to remove request")
	defer store.Close()

	if err := store.DeleteRequest(args[0], args[1]); err != nil {
		exitWithError(fmt.Sprintf("Failed to remove request: %v", err))
	}

	format.PrintSuccess(fmt.Sprintf("Request '%s' removed from collection '%s'", args[1], args[0]))
}

func runCollectionRun(cmd *cobra.Command, args []string) {
	name := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")

	store := openStore("Failed to load collection")
	defer store.Close()

	col := mustGetCollection(store, name)

	requests := col.Requests
	if len(args) == 2 {
		requests = nil
		for _, r := range col.Requests {
			if r.Name == args[1] || r.ID == args[1] {
				requests = append(requests, r)
			}
		}
		if len(requests) == 0 {
			exitWithError(fmt.Sprintf("Request '%s' not found in collection '%s'", args[1], name))
		}
	}

	if len(requests) == 0 {
		exitWithError(fmt.Sprintf("Collection '%s' is empty", name))
	}

	fmt.Printf("Running %d requests from collection '%s'\n\n", len(requests), col.Name)

	failed := 0
	for i, req := range requests {
		d := restoreForSend(req.Request.WithURL(resolveAlias(store, req.Request.URL)))
		fmt.Printf("[%d/%d] %s\n", i+1, len(requests), req.Name)

		env, err := executeRequest(d)
		if err != nil {
			format.PrintError(validationMessage(err))
			fmt.Println()
			failed++
			continue
		}
		format.PrintEnvelope(env, verbose)
		fmt.Println()

		if env.IsTransportError() {
			failed++
		}
		if !reqFlags.noHistory {
			recordHistory(store, d, env)
		}
	}

	if failed > 0 {
		format.PrintError(fmt.Sprintf("%d of %d requests failed", failed, len(requests)))
		os.Exit(1)
	}
	format.PrintSuccess(fmt.Sprintf("Completed running collection '%s'", col.Name))
}
