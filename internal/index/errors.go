package index

import "fmt"

// EmptyCorpusError indicates an attempt to build an index over zero chunks.
// An index must never be built over an empty corpus.
type EmptyCorpusError struct {
	Path string
}

func (e *EmptyCorpusError) Error() string {
	return fmt.Sprintf("refusing to build index %s: no chunks to index", e.Path)
}

// IndexNotFoundError indicates the index directory does not exist. The
// caller must build the index first.
type IndexNotFoundError struct {
	Path string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index not found at %s", e.Path)
}
