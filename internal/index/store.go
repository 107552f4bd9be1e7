// Package index builds, persists and queries the vector index over corpus
// chunks. The index lives in a directory holding a single SQLite file;
// presence of the directory is the signal that the index is already built.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/KissedByF1re/News-Assistant-AI/internal/chunk"
)

// DefaultTopK is the number of neighbors returned when the caller asks for
// a non-positive k.
const DefaultTopK = 5

// embedBatchSize caps one embedding round-trip; the Gemini batch endpoint
// rejects larger requests.
const embedBatchSize = 100

const dbFileName = "vectors.db"

// Embedder is the capability the store needs while building.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Scored pairs a chunk with its similarity to a query vector.
type Scored struct {
	Chunk chunk.Chunk
	Score float64
}

type row struct {
	chunk  chunk.Chunk
	vector []float32
}

// Store is a read-only view over a built index. Safe for concurrent Query
// calls; nothing mutates it after open.
type Store struct {
	path string
	rows []row
}

// Build embeds every chunk and persists the index under path. It fails with
// EmptyCorpusError when there is nothing to index.
func Build(ctx context.Context, path string, chunks []chunk.Chunk, embedder Embedder) (*Store, error) {
	if len(chunks) == 0 {
		return nil, &EmptyCorpusError{Path: path}
	}

	vectors, err := embedChunks(ctx, chunks, embedder)
	if err != nil {
		return nil, err
	}

	if err := persist(path, chunks, vectors); err != nil {
		// A half-written directory must not be mistaken for a built index.
		_ = os.RemoveAll(path)
		return nil, err
	}

	rows := make([]row, len(chunks))
	for i := range chunks {
		rows[i] = row{chunk: chunks[i], vector: vectors[i]}
	}
	return &Store{path: path, rows: rows}, nil
}

// Load opens a previously built index. It fails with IndexNotFoundError
// when the directory is absent.
func Load(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &IndexNotFoundError{Path: path}
	}

	db, err := sql.Open("sqlite3", filepath.Join(path, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	result, err := db.Query(`SELECT content, overlap, source_link, source_timestamp, embedding FROM chunks ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}
	defer func() { _ = result.Close() }()

	var rows []row
	for result.Next() {
		var r row
		var blob []byte
		if err := result.Scan(&r.chunk.Content, &r.chunk.Overlap, &r.chunk.SourceLink, &r.chunk.SourceTimestamp, &blob); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		if err := json.Unmarshal(blob, &r.vector); err != nil {
			return nil, fmt.Errorf("decode embedding: %w", err)
		}
		rows = append(rows, r)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("iterate index rows: %w", err)
	}

	return &Store{path: path, rows: rows}, nil
}

// GetOrBuild loads the index when its directory already exists and builds it
// otherwise. An existing directory is trusted even if the corpus has grown
// since the build; rebuilding after new scrapes is an explicit operation.
func GetOrBuild(ctx context.Context, path string, chunks []chunk.Chunk, embedder Embedder) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return Build(ctx, path, chunks, embedder)
}

// Query returns the k chunks most similar to the query vector, highest
// similarity first. Ties keep insertion order.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]Scored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = DefaultTopK
	}

	scored := make([]Scored, len(s.rows))
	for i, r := range s.rows {
		scored[i] = Scored{Chunk: r.chunk, Score: cosineSimilarity(vector, r.vector)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Len reports how many chunks the index holds.
func (s *Store) Len() int {
	return len(s.rows)
}

// Path returns the index directory.
func (s *Store) Path() string {
	return s.path
}

func embedChunks(ctx context.Context, chunks []chunk.Chunk, embedder Embedder) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		batch, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedded %d of %d chunks", len(vectors), len(chunks))
	}
	return vectors, nil
}

func persist(path string, chunks []chunk.Chunk, vectors [][]float32) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(path, dbFileName))
	if err != nil {
		return fmt.Errorf("open index database: %w", err)
	}
	defer func() { _ = db.Close() }()

	schema := `
	CREATE TABLE IF NOT EXISTS chunks (
		pos INTEGER PRIMARY KEY,
		content TEXT NOT NULL,
		overlap TEXT NOT NULL,
		source_link TEXT NOT NULL,
		source_timestamp TEXT NOT NULL,
		embedding BLOB NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create index schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin index transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO chunks (pos, content, overlap, source_link, source_timestamp, embedding) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare index insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range chunks {
		blob, err := json.Marshal(vectors[i])
		if err != nil {
			return fmt.Errorf("encode embedding: %w", err)
		}
		if _, err := stmt.Exec(i, c.Content, c.Overlap, c.SourceLink, c.SourceTimestamp, blob); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
