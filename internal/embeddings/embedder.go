package embeddings

import "context"

// Embedder converts text into a fixed-length vector. A collection must
// be written and queried with the same embedder for its entire lifetime;
// mixing models produces vectors of mismatched dimensionality that the
// store rejects.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
