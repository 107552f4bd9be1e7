// Package corpus persists the deduplicated collection of normalized news
// records and implements the append-only merge between scrape runs.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// NewsRecord is the durable unit of the corpus. Text is the identity: two
// records with identical text are the same record, and the corpus never
// holds both.
type NewsRecord struct {
	Text     string `json:"text"`
	Datetime string `json:"datetime"`
	Link     string `json:"link,omitempty"`
}

// Load reads a corpus file. The document is validated against the corpus
// schema before decoding so a corrupted or foreign file fails loudly instead
// of producing half-empty records.
func Load(path string) ([]NewsRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingCorpusError{Path: path}
		}
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}

	var records []NewsRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	return records, nil
}

// Save writes the corpus as a JSON array. The file is written to a temporary
// sibling first and renamed into place so readers never observe a torn file.
func Save(path string, records []NewsRecord) error {
	if records == nil {
		records = []NewsRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace corpus: %w", err)
	}
	return nil
}

// Merge returns existing records unchanged plus every incoming record whose
// text is not already present, in incoming order. Merging the same batch
// twice is a no-op the second time.
func Merge(existing, incoming []NewsRecord) []NewsRecord {
	seen := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		seen[rec.Text] = struct{}{}
	}

	merged := make([]NewsRecord, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	for _, rec := range incoming {
		if _, dup := seen[rec.Text]; dup {
			continue
		}
		seen[rec.Text] = struct{}{}
		merged = append(merged, rec)
	}
	return merged
}
