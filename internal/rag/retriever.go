package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/postpilot/cli/internal/db"
)

// Store is the document collection surface the retriever reads from
type Store interface {
	Search(ctx context.Context, docID uuid.UUID, query string, topK int) ([]db.ScoredChunk, error)
	ListChunks(ctx context.Context, docID uuid.UUID) ([]*db.Chunk, error)
	ChunkCount(ctx context.Context, docID uuid.UUID) (int, error)
}

// RetrievalError wraps any store fault raised during retrieval. The
// outer Context methods translate it into a human-readable sentence;
// Retrieve exposes it to callers that need to tell failure from an
// empty document.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("rag: %s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Retriever selects a relevance-ranked, deduplicated, length-bounded
// excerpt set from one document's collection and formats it as plain
// text generation context.
type Retriever struct {
	store     Store
	threshold float64
	overfetch int
	log       *zap.Logger
}

// NewRetriever creates a retriever. Threshold and overfetch fall back
// to 0.5 and 2x when unset; both exist as tunables, not hard laws.
func NewRetriever(store Store, threshold float64, overfetch int, log *zap.Logger) *Retriever {
	if threshold <= 0 {
		threshold = 0.5
	}
	if overfetch <= 0 {
		overfetch = 2
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Retriever{
		store:     store,
		threshold: threshold,
		overfetch: overfetch,
		log:       log,
	}
}

// Context returns formatted document context for generation. It never
// fails: store faults come back as a short sentence inside the context
// string, since that string is the only channel to the generation step.
func (r *Retriever) Context(ctx context.Context, docID uuid.UUID, query string, maxChunks int) string {
	excerpts, total, err := r.Retrieve(ctx, docID, query, maxChunks)
	if err != nil {
		r.log.Error("document retrieval failed",
			zap.String("document_id", docID.String()),
			zap.Error(err))
		return "There was an error retrieving the document content."
	}
	if total == 0 || len(excerpts) == 0 {
		return "No document content was extracted."
	}
	return formatContext(excerpts, total)
}

// ContextFromChunks formats raw chunks that were never stored, e.g.
// when the caller wants context straight after extraction. Chunks are
// taken in document order without scoring.
func (r *Retriever) ContextFromChunks(chunks []string, maxChunks int) string {
	if maxChunks <= 0 {
		maxChunks = 5
	}
	if len(chunks) == 0 {
		return "No document content was extracted."
	}

	shown := min(maxChunks, len(chunks))
	excerpts := make([]Excerpt, 0, shown)
	for i := 0; i < shown; i++ {
		excerpts = append(excerpts, Excerpt{Content: chunks[i], Index: i})
	}
	return formatContext(excerpts, len(chunks))
}

// Retrieve returns the selected excerpts and the collection size,
// with a typed error when a collaborator fails. A zero total with a nil
// error means the document genuinely has no content.
func (r *Retriever) Retrieve(ctx context.Context, docID uuid.UUID, query string, maxChunks int) ([]Excerpt, int, error) {
	if maxChunks <= 0 {
		maxChunks = 5
	}

	total, err := r.store.ChunkCount(ctx, docID)
	if err != nil {
		return nil, 0, &RetrievalError{Op: "count chunks", Err: err}
	}
	if total == 0 {
		return nil, 0, nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		excerpts, err := r.orderedExcerpts(ctx, docID, maxChunks, nil)
		if err != nil {
			return nil, 0, err
		}
		return excerpts, total, nil
	}

	// Bias the embedding toward topical similarity rather than pure
	// lexical similarity with the raw topic string.
	expanded := fmt.Sprintf("Information and facts about %s", query)

	results, err := r.store.Search(ctx, docID, expanded, maxChunks*r.overfetch)
	if err != nil {
		return nil, 0, &RetrievalError{Op: "similarity search", Err: err}
	}

	var selected []Excerpt
	for _, sc := range results {
		if sc.Score > r.threshold {
			selected = append(selected, Excerpt{
				Content: sc.Chunk.Content,
				Index:   sc.Chunk.ChunkIndex,
				Score:   sc.Score,
				Scored:  true,
			})
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Score != selected[j].Score {
			return selected[i].Score > selected[j].Score
		}
		return selected[i].Index < selected[j].Index
	})
	if len(selected) > maxChunks {
		selected = selected[:maxChunks]
	}

	if len(selected) < maxChunks {
		r.log.Debug("not enough relevant chunks, filling in index order",
			zap.String("document_id", docID.String()),
			zap.String("query", query),
			zap.Int("relevant", len(selected)))

		seen := make(map[int]bool, len(selected))
		for _, ex := range selected {
			seen[ex.Index] = true
		}

		fill, err := r.orderedExcerpts(ctx, docID, maxChunks, seen)
		if err != nil {
			return nil, 0, err
		}
		for _, ex := range fill {
			if len(selected) >= maxChunks {
				break
			}
			selected = append(selected, ex)
		}

		// Fallback-filled results interleave with the originally
		// selected ones in reading order, not score order.
		sort.Slice(selected, func(i, j int) bool {
			return selected[i].Index < selected[j].Index
		})
	}

	return selected, total, nil
}

// orderedExcerpts lists the document's chunks in index order, skipping
// any index in exclude, and returns at most limit of them.
func (r *Retriever) orderedExcerpts(ctx context.Context, docID uuid.UUID, limit int, exclude map[int]bool) ([]Excerpt, error) {
	chunks, err := r.store.ListChunks(ctx, docID)
	if err != nil {
		return nil, &RetrievalError{Op: "list chunks", Err: err}
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})

	var excerpts []Excerpt
	for _, chunk := range chunks {
		if len(excerpts) >= limit {
			break
		}
		if exclude[chunk.ChunkIndex] {
			continue
		}
		excerpts = append(excerpts, Excerpt{
			Content: chunk.Content,
			Index:   chunk.ChunkIndex,
		})
	}
	return excerpts, nil
}
