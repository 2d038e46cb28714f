package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpilot/cli/internal/db"
)

type stubParser struct {
	text string
	err  error
}

func (p *stubParser) Parse(string) (string, error) { return p.text, p.err }

type fakeStore struct {
	docs        []*db.Document
	batches     [][]*db.Chunk
	failOnBatch int // 1-based, 0 means never fail
}

func (f *fakeStore) CreateCollection(_ context.Context, doc *db.Document) error {
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeStore) AddChunks(_ context.Context, chunks []*db.Chunk) error {
	if f.failOnBatch > 0 && len(f.batches)+1 == f.failOnBatch {
		return errors.New("write failed")
	}
	f.batches = append(f.batches, chunks)
	return nil
}

func (f *fakeStore) chunkCount() int {
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

// newStubProcessor wires a processor whose ".stub" parser returns text
// verbatim, so tests control the extracted content exactly.
func newStubProcessor(store Store, splitter *Splitter, batchSize int, text string) *Processor {
	p := NewProcessor(store, splitter, batchSize, nil)
	p.parsers[".stub"] = &stubParser{text: text}
	return p
}

func TestIngestUnsupportedFormat(t *testing.T) {
	store := &fakeStore{}
	p := NewProcessor(store, NewSplitter(100, 20), 2, nil)

	_, err := p.Ingest(context.Background(), "notes.txt", []byte("hello"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, store.docs)
	assert.Empty(t, store.batches)
}

func TestIngestEmptyDocument(t *testing.T) {
	store := &fakeStore{}
	p := newStubProcessor(store, NewSplitter(100, 20), 2, "   \n\t ")

	_, err := p.Ingest(context.Background(), "blank.stub", []byte("x"))
	require.ErrorIs(t, err, ErrEmptyDocument)
	assert.Empty(t, store.docs)
	assert.Empty(t, store.batches)
}

func TestIngestWritesBatches(t *testing.T) {
	// 20 characters with no separators split into five 4-char chunks.
	store := &fakeStore{}
	p := newStubProcessor(store, NewSplitter(4, 0), 2, "abcdefghijklmnopqrst")

	var progress [][2]int
	p.OnProgress(func(written, total int) {
		progress = append(progress, [2]int{written, total})
	})

	res, err := p.Ingest(context.Background(), "report.stub", []byte("x"))
	require.NoError(t, err)

	assert.Equal(t, "report.stub", res.Filename)
	assert.Equal(t, 5, res.TotalChunks)
	assert.Equal(t, []string{"abcd", "efgh", "ijkl", "mnop", "qrst"}, res.Chunks)

	require.Len(t, store.docs, 1)
	assert.Equal(t, res.DocumentID, store.docs[0].ID)
	assert.Equal(t, 5, store.docs[0].TotalChunks)

	require.Len(t, store.batches, 3)
	assert.Len(t, store.batches[0], 2)
	assert.Len(t, store.batches[1], 2)
	assert.Len(t, store.batches[2], 1)

	assert.Equal(t, [][2]int{{2, 5}, {4, 5}, {5, 5}}, progress)

	// Chunk indices are dense and every chunk carries the document
	// metadata.
	idx := 0
	for _, batch := range store.batches {
		for _, chunk := range batch {
			assert.Equal(t, idx, chunk.ChunkIndex)
			assert.Equal(t, res.DocumentID, chunk.DocumentID)
			assert.Equal(t, "report.stub", chunk.Filename)
			assert.Equal(t, 5, chunk.TotalChunks)
			assert.Equal(t, res.UploadedAt, chunk.UploadedAt)
			idx++
		}
	}
	assert.Equal(t, 5, idx)
}

func TestIngestAbortsOnBatchFailure(t *testing.T) {
	store := &fakeStore{failOnBatch: 2}
	p := newStubProcessor(store, NewSplitter(4, 0), 2, "abcdefghijklmnopqrst")

	var progressCalls int
	p.OnProgress(func(int, int) { progressCalls++ })

	_, err := p.Ingest(context.Background(), "report.stub", []byte("x"))
	require.Error(t, err)

	// The first batch stays written, nothing after the failure does.
	assert.Equal(t, 2, store.chunkCount())
	assert.Equal(t, 1, progressCalls)
}

func TestIngestMintsDistinctIdentifiers(t *testing.T) {
	store := &fakeStore{}
	p := newStubProcessor(store, NewSplitter(100, 20), 20, "same content every time")

	first, err := p.Ingest(context.Background(), "a.stub", []byte("x"))
	require.NoError(t, err)
	second, err := p.Ingest(context.Background(), "a.stub", []byte("x"))
	require.NoError(t, err)

	assert.NotEqual(t, first.DocumentID, second.DocumentID)
}

func TestIngestParserFailure(t *testing.T) {
	store := &fakeStore{}
	cause := errors.New("corrupt file")
	p := NewProcessor(store, NewSplitter(100, 20), 2, nil)
	p.parsers[".stub"] = &stubParser{err: cause}

	_, err := p.Ingest(context.Background(), "bad.stub", []byte("x"))
	require.ErrorIs(t, err, ErrExtractionFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "bad.stub")
	assert.Empty(t, store.docs)
	assert.Empty(t, store.batches)
}
