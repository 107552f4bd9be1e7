// Package chunk splits news records into overlapping fixed-size fragments,
// the unit indexed for retrieval.
package chunk

import "github.com/KissedByF1re/News-Assistant-AI/internal/corpus"

const (
	// DefaultSize bounds chunk content length in runes.
	DefaultSize = 200
	// DefaultOverlap is how many runes consecutive chunks share.
	DefaultOverlap = 20
)

// Chunk is one fragment of a record's text. Overlap holds the prefix shared
// with the previous chunk of the same record (empty for the first chunk).
// Source metadata is carried through unmodified.
type Chunk struct {
	Content         string
	Overlap         string
	SourceLink      string
	SourceTimestamp string
}

// Splitter performs deterministic sliding-window splits on rune boundaries.
type Splitter struct {
	Size    int
	Overlap int
}

// NewSplitter clamps size and overlap to sane values: a non-positive size
// falls back to the default, and overlap is kept strictly smaller than size
// so the window always advances.
func NewSplitter(size, overlap int) Splitter {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		overlap = size / 10
	}
	return Splitter{Size: size, Overlap: overlap}
}

// Split cuts a record's text into chunks of at most Size runes, each window
// starting Size-Overlap runes after the previous one. A record shorter than
// Size yields exactly one chunk with the full text. Calling Split twice on
// the same record produces identical results.
func (s Splitter) Split(rec corpus.NewsRecord) []Chunk {
	runes := []rune(rec.Text)
	if len(runes) == 0 {
		return nil
	}

	step := s.Size - s.Overlap
	chunks := make([]Chunk, 0, (len(runes)+step-1)/step)

	for start := 0; start < len(runes); start += step {
		end := start + s.Size
		if end > len(runes) {
			end = len(runes)
		}

		var overlap string
		if start > 0 {
			overlapEnd := start + s.Overlap
			if overlapEnd > len(runes) {
				overlapEnd = len(runes)
			}
			overlap = string(runes[start:overlapEnd])
		}

		chunks = append(chunks, Chunk{
			Content:         string(runes[start:end]),
			Overlap:         overlap,
			SourceLink:      rec.Link,
			SourceTimestamp: rec.Datetime,
		})

		if end == len(runes) {
			break
		}
	}
	return chunks
}

// SplitAll splits every record in corpus order.
func (s Splitter) SplitAll(records []corpus.NewsRecord) []Chunk {
	var chunks []Chunk
	for _, rec := range records {
		chunks = append(chunks, s.Split(rec)...)
	}
	return chunks
}
