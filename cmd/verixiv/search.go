package main

import (
	"context"

	"github.com/spf13/cobra"
)

var searchTopK int

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchTopK, "top", "n", 10, "Maximum number of results")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the index for papers similar to a text",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	svcs, err := buildServices()
	if err != nil {
		outputError("%v", err)
		return err
	}
	defer svcs.close()

	matches, err := svcs.search.Search(context.Background(), args[0], searchTopK)
	if err != nil {
		outputError("search failed: %v", err)
		return err
	}

	return outputJSON(map[string]any{
		"results": matches,
		"total":   len(matches),
	})
}
