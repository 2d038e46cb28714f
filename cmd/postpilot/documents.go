package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postpilot/cli/internal/db"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List ingested documents",
	RunE:  runDocuments,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, args []string) error {
	database, err := db.New(cmd.Context(), a.cfg.Database.ConnectionString, a.cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	docs, err := database.GetAllDocuments(cmd.Context())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents ingested yet")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %-40s  %4d chunks  %s\n",
			doc.ID, doc.Filename, doc.TotalChunks, doc.UploadedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
