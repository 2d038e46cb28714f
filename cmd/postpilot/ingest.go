package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/postpilot/cli/internal/documents"
)

var watchDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a PDF or Word document into the vector store",
	Long: `Extracts text from a PDF or Word document, splits it into overlapping
chunks, embeds them and stores them under a fresh document identifier.
With --watch, ingests supported files dropped into a directory instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&watchDir, "watch", "", "Watch a directory and ingest new files as they appear")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	database, store, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	splitter := documents.NewSplitter(a.cfg.Processing.ChunkSize, a.cfg.Processing.ChunkOverlap)
	proc := documents.NewProcessor(store, splitter, a.cfg.Processing.BatchSize, a.log)
	proc.OnProgress(func(written, total int) {
		fmt.Printf("Uploaded %d/%d chunks\n", written, total)
	})

	if watchDir != "" {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		watcher := documents.NewWatcher(proc, 500*time.Millisecond, a.log)
		if err := watcher.Watch(ctx, watchDir); err != nil && !errors.Is(err, ctx.Err()) {
			return err
		}
		return nil
	}

	if len(args) == 0 {
		return errors.New("a file path is required unless --watch is set")
	}

	res, err := proc.IngestFile(cmd.Context(), args[0])
	if errors.Is(err, documents.ErrUnsupportedFormat) {
		return fmt.Errorf("unsupported file type: only PDF and Word documents can be ingested")
	}
	if errors.Is(err, documents.ErrEmptyDocument) {
		return fmt.Errorf("no text could be extracted from %s", args[0])
	}
	if errors.Is(err, documents.ErrExtractionFailed) {
		return fmt.Errorf("could not read %s: the file may be corrupt or malformed", args[0])
	}
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %s: document %s (%d chunks)\n", res.Filename, res.DocumentID, res.TotalChunks)
	return nil
}
