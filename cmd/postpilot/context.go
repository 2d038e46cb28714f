package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	contextQuery     string
	contextMaxChunks int
)

var contextCmd = &cobra.Command{
	Use:   "context [doc-id]",
	Short: "Print the generation context for an ingested document",
	Args:  cobra.ExactArgs(1),
	RunE:  runContext,
}

func init() {
	contextCmd.Flags().StringVarP(&contextQuery, "query", "q", "", "Topic to rank excerpts by; omit for document order")
	contextCmd.Flags().IntVar(&contextMaxChunks, "max-chunks", 0, "Maximum number of excerpts to include")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	docID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid document id %q: %w", args[0], err)
	}

	database, store, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	doc, err := database.GetDocument(cmd.Context(), docID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("no document with id %s", docID)
	}

	maxChunks := contextMaxChunks
	if maxChunks <= 0 {
		maxChunks = a.cfg.Processing.MaxChunks
	}

	fmt.Print(a.retriever(store).Context(cmd.Context(), docID, contextQuery, maxChunks))
	return nil
}
