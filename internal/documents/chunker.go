package documents

import "strings"

// defaultSeparators orders split boundaries from coarse to fine:
// paragraph, line, sentence, word, then a hard character cut.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts raw text into overlapping chunks, preferring to break
// on the largest boundary available inside the size window.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// NewSplitter creates a splitter with the given chunk size and overlap
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Split cuts text into chunks. Empty or whitespace-only input yields no
// chunks and is not an error. Same input always yields the same chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return s.hardSplit(text)
	}

	// Separators stay attached to the preceding piece so rejoining is
	// lossless.
	parts := strings.SplitAfter(text, sep)

	var chunks []string
	var pending []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) <= s.chunkSize {
			pending = append(pending, part)
			continue
		}
		// Flush what fits, then descend into the oversized piece with
		// the finer separators.
		chunks = append(chunks, s.merge(pending)...)
		pending = nil
		chunks = append(chunks, s.split(part, rest)...)
	}
	return append(chunks, s.merge(pending)...)
}

// merge packs pieces into chunks of at most chunkSize characters,
// retaining a tail of up to chunkOverlap characters between consecutive
// chunks.
func (s *Splitter) merge(parts []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, part := range parts {
		if total+len(part) > s.chunkSize && total > 0 {
			if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
				chunks = append(chunks, c)
			}
			for total > s.chunkOverlap || (total > 0 && total+len(part) > s.chunkSize) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, part)
		total += len(part)
	}

	if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// hardSplit is the last resort for text with no usable boundary
func (s *Splitter) hardSplit(text string) []string {
	step := s.chunkSize - s.chunkOverlap
	var res []string

	pos := 0
	for {
		end := min(pos+s.chunkSize, len(text))
		if c := strings.TrimSpace(text[pos:end]); c != "" {
			res = append(res, c)
		}
		if end >= len(text) {
			break
		}
		pos += step
	}
	return res
}
