package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Document represents one successfully ingested upload. A document is
// created exactly once; re-ingesting the same file mints a new one.
type Document struct {
	ID          uuid.UUID
	Filename    string
	UploadedAt  time.Time
	TotalChunks int
	CreatedAt   time.Time
}

// Chunk is one slice of a document's extracted text. The filename,
// upload timestamp and total-chunk count are denormalized onto every
// chunk so context formatting never needs a second lookup.
type Chunk struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID
	ChunkIndex  int
	Content     string
	Filename    string
	UploadedAt  time.Time
	TotalChunks int
	Embedding   *pgvector.Vector
	CreatedAt   time.Time
}

// ScoredChunk is a chunk annotated with a similarity score in [0,1].
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}
