package corpus

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed corpus_schema.json
var corpusSchema string

// validateDocument checks a raw corpus document against the embedded JSON
// Schema. Per-source artifacts and the merged corpus share the same shape.
func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(corpusSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate corpus document: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return &SchemaError{Problems: problems}
	}
	return nil
}
