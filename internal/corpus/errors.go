package corpus

import "fmt"

// MissingCorpusError indicates the corpus file does not exist yet. Callers
// building an index must scrape first.
type MissingCorpusError struct {
	Path string
}

func (e *MissingCorpusError) Error() string {
	return fmt.Sprintf("corpus file not found: %s", e.Path)
}

// SchemaError reports a corpus document that failed schema validation.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 0 {
		return "corpus document failed schema validation"
	}
	return fmt.Sprintf("corpus document failed schema validation: %s", e.Problems[0])
}
