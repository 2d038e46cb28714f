package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// CreateDocument creates the document record that anchors a chunk
// namespace. Idempotent: opening the same identifier twice is a no-op.
func (db *DB) CreateDocument(ctx context.Context, doc *Document) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO documents (id, filename, uploaded_at, total_chunks)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		doc.ID, doc.Filename, doc.UploadedAt, doc.TotalChunks,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by its identifier
func (db *DB) GetDocument(ctx context.Context, docID uuid.UUID) (*Document, error) {
	var doc Document
	err := db.pool.QueryRow(ctx,
		`SELECT id, filename, uploaded_at, total_chunks, created_at
		 FROM documents WHERE id = $1`,
		docID,
	).Scan(&doc.ID, &doc.Filename, &doc.UploadedAt, &doc.TotalChunks, &doc.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// GetAllDocuments retrieves all documents, newest first
func (db *DB) GetAllDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, filename, uploaded_at, total_chunks, created_at
		 FROM documents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.UploadedAt, &doc.TotalChunks, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// InsertChunksBatch inserts multiple chunks in a single batch
func (db *DB) InsertChunksBatch(ctx context.Context, chunks []*Chunk) error {
	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(
			`INSERT INTO chunks (id, document_id, chunk_index, content, filename, uploaded_at, total_chunks, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			chunk.ID, chunk.DocumentID, chunk.ChunkIndex, chunk.Content,
			chunk.Filename, chunk.UploadedAt, chunk.TotalChunks, chunk.Embedding,
		)
	}
	br := db.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(chunks); i++ {
		_, err := br.Exec()
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	return nil
}

// SearchChunks finds the nearest chunks of one document by vector
// similarity. Score is 1 - cosine distance; ordering is descending
// score with ascending chunk index breaking ties so results are
// deterministic.
func (db *DB) SearchChunks(ctx context.Context, docID uuid.UUID, embedding *pgvector.Vector, limit int) ([]ScoredChunk, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, document_id, chunk_index, content, filename, uploaded_at, total_chunks, created_at,
		        1 - (embedding <=> $2) AS score
		 FROM chunks
		 WHERE document_id = $1 AND embedding IS NOT NULL
		 ORDER BY embedding <=> $2, chunk_index
		 LIMIT $3`,
		docID, embedding, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var results []ScoredChunk
	for rows.Next() {
		var sc ScoredChunk
		if err := rows.Scan(
			&sc.Chunk.ID, &sc.Chunk.DocumentID, &sc.Chunk.ChunkIndex, &sc.Chunk.Content,
			&sc.Chunk.Filename, &sc.Chunk.UploadedAt, &sc.Chunk.TotalChunks, &sc.Chunk.CreatedAt,
			&sc.Score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		results = append(results, sc)
	}
	return results, rows.Err()
}

// GetChunksByDocument retrieves every chunk of a document. Callers that
// need document order sort on ChunkIndex.
func (db *DB) GetChunksByDocument(ctx context.Context, docID uuid.UUID) ([]*Chunk, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, document_id, chunk_index, content, filename, uploaded_at, total_chunks, created_at
		 FROM chunks WHERE document_id = $1`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*Chunk
	for rows.Next() {
		var chunk Chunk
		if err := rows.Scan(
			&chunk.ID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.Content,
			&chunk.Filename, &chunk.UploadedAt, &chunk.TotalChunks, &chunk.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

// CountChunks returns the number of chunks stored for a document
func (db *DB) CountChunks(ctx context.Context, docID uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chunks WHERE document_id = $1`,
		docID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
