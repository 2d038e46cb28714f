package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/postpilot/cli/internal/db"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no
	// registered parser. Nothing is persisted.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument is returned when extraction yields no chunks.
	// No document identifier is minted and nothing is persisted.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrExtractionFailed is returned when a registered parser cannot
	// read the file. The parser's fault is in the chain.
	ErrExtractionFailed = errors.New("failed to extract document text")
)

// Store is the persistence surface the processor writes through
type Store interface {
	CreateCollection(ctx context.Context, doc *db.Document) error
	AddChunks(ctx context.Context, chunks []*db.Chunk) error
}

// ProgressFunc is invoked after each persisted batch with the number of
// chunks written so far and the total to write.
type ProgressFunc func(written, total int)

// Result describes a completed ingestion. Chunks carries the raw split
// text so callers can build context before (or without) hitting the
// store again.
type Result struct {
	DocumentID  uuid.UUID
	Filename    string
	UploadedAt  time.Time
	TotalChunks int
	Chunks      []string
}

// Processor orchestrates extraction, chunking, embedding and batched
// persistence of uploaded documents.
type Processor struct {
	store     Store
	splitter  *Splitter
	parsers   map[string]Parser
	batchSize int
	progress  ProgressFunc
	log       *zap.Logger
}

// NewProcessor creates a document processor with the default parsers
// registered for PDF and Word documents.
func NewProcessor(store Store, splitter *Splitter, batchSize int, log *zap.Logger) *Processor {
	if batchSize <= 0 {
		batchSize = 20
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		store:    store,
		splitter: splitter,
		parsers: map[string]Parser{
			".pdf":  &PDFParser{},
			".docx": &WordParser{},
			".doc":  &WordParser{},
		},
		batchSize: batchSize,
		log:       log,
	}
}

// OnProgress registers a callback reporting batch persistence progress
func (p *Processor) OnProgress(fn ProgressFunc) {
	p.progress = fn
}

// IngestFile ingests a document from disk
func (p *Processor) IngestFile(ctx context.Context, path string) (*Result, error) {
	return p.ingest(ctx, path, filepath.Base(path))
}

// Ingest ingests an uploaded document held in memory. The payload is
// staged to a temporary file so the format parsers can read it.
func (p *Processor) Ingest(ctx context.Context, filename string, data []byte) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := p.parsers[ext]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	return p.ingest(ctx, tmp.Name(), filename)
}

func (p *Processor) ingest(ctx context.Context, path, filename string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	parser, ok := p.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	text, err := parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrExtractionFailed, filename, err)
	}

	chunks := p.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	docID := uuid.New()
	uploadedAt := time.Now().UTC()

	doc := &db.Document{
		ID:          docID,
		Filename:    filename,
		UploadedAt:  uploadedAt,
		TotalChunks: len(chunks),
	}
	if err := p.store.CreateCollection(ctx, doc); err != nil {
		p.log.Error("failed to create document collection",
			zap.String("document_id", docID.String()),
			zap.Error(err))
		return nil, err
	}

	for i := 0; i < len(chunks); i += p.batchSize {
		end := min(i+p.batchSize, len(chunks))

		batch := make([]*db.Chunk, 0, end-i)
		for j := i; j < end; j++ {
			batch = append(batch, &db.Chunk{
				ID:          uuid.New(),
				DocumentID:  docID,
				ChunkIndex:  j,
				Content:     chunks[j],
				Filename:    filename,
				UploadedAt:  uploadedAt,
				TotalChunks: len(chunks),
			})
		}

		if err := p.store.AddChunks(ctx, batch); err != nil {
			// No rollback: chunks already written stay in place and the
			// identifier is unusable until a caller-level cleanup runs.
			p.log.Error("aborting ingestion after batch failure",
				zap.String("document_id", docID.String()),
				zap.String("filename", filename),
				zap.Int("chunks_written", i),
				zap.Int("chunks_total", len(chunks)),
				zap.Error(err))
			return nil, err
		}

		if p.progress != nil {
			p.progress(end, len(chunks))
		}
	}

	p.log.Info("document ingested",
		zap.String("document_id", docID.String()),
		zap.String("filename", filename),
		zap.Int("chunks", len(chunks)))

	return &Result{
		DocumentID:  docID,
		Filename:    filename,
		UploadedAt:  uploadedAt,
		TotalChunks: len(chunks),
		Chunks:      chunks,
	}, nil
}
