package docstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/postpilot/cli/internal/db"
	"github.com/postpilot/cli/internal/embeddings"
)

// database is the subset of the db layer the store needs
type database interface {
	CreateDocument(ctx context.Context, doc *db.Document) error
	InsertChunksBatch(ctx context.Context, chunks []*db.Chunk) error
	SearchChunks(ctx context.Context, docID uuid.UUID, embedding *pgvector.Vector, limit int) ([]db.ScoredChunk, error)
	GetChunksByDocument(ctx context.Context, docID uuid.UUID) ([]*db.Chunk, error)
	CountChunks(ctx context.Context, docID uuid.UUID) (int, error)
}

// Store persists chunk collections, one namespace per document
// identifier. It owns the embedding step: content goes in as text and
// is vectorized with the injected embedder before it is written.
type Store struct {
	db       database
	embedder embeddings.Embedder
	log      *zap.Logger
}

// New creates a Store over the given database and embedder
func New(database database, embedder embeddings.Embedder, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		db:       database,
		embedder: embedder,
		log:      log,
	}
}

// CreateCollection opens the namespace for a document identifier,
// creating it if needed. Opening the same identifier twice is a no-op.
func (s *Store) CreateCollection(ctx context.Context, doc *db.Document) error {
	if err := s.db.CreateDocument(ctx, doc); err != nil {
		return storageErr("create collection", err)
	}
	return nil
}

// AddChunks embeds and writes one batch of chunks. If embedding fails
// for any chunk, the whole batch is rejected and nothing is written.
func (s *Store) AddChunks(ctx context.Context, chunks []*db.Chunk) error {
	for _, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return storageErr("embed chunk", err)
		}
		v := pgvector.NewVector(vec)
		chunk.Embedding = &v
	}

	if err := s.db.InsertChunksBatch(ctx, chunks); err != nil {
		return storageErr("write batch", err)
	}
	return nil
}

// Search embeds the query and returns the topK nearest chunks of the
// document by vector similarity, ordered by descending score.
func (s *Store) Search(ctx context.Context, docID uuid.UUID, query string, topK int) ([]db.ScoredChunk, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, storageErr("embed query", err)
	}

	v := pgvector.NewVector(vec)
	results, err := s.db.SearchChunks(ctx, docID, &v, topK)
	if err != nil {
		// A dimensionality mismatch between the query vector and the
		// stored collection also lands here.
		return nil, storageErr("similarity search", err)
	}
	return results, nil
}

// ListChunks returns every chunk in the document's collection
func (s *Store) ListChunks(ctx context.Context, docID uuid.UUID) ([]*db.Chunk, error) {
	chunks, err := s.db.GetChunksByDocument(ctx, docID)
	if err != nil {
		return nil, storageErr("list chunks", err)
	}
	return chunks, nil
}

// ChunkCount returns the size of the document's collection
func (s *Store) ChunkCount(ctx context.Context, docID uuid.UUID) (int, error) {
	count, err := s.db.CountChunks(ctx, docID)
	if err != nil {
		return 0, storageErr("count chunks", err)
	}
	return count, nil
}
