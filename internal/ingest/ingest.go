// Package ingest orchestrates a scrape run: fetch every configured source
// concurrently, normalize and deduplicate each batch, and merge the batches
// into the durable corpus without ever dropping previously stored records.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KissedByF1re/News-Assistant-AI/internal/corpus"
	"github.com/KissedByF1re/News-Assistant-AI/internal/normalize"
	"github.com/KissedByF1re/News-Assistant-AI/internal/scrape"
)

// Options configures one ingestion run.
type Options struct {
	// RawDir receives per-source artifacts while the run is in flight.
	RawDir string
	// CorpusPath is the merged corpus file.
	CorpusPath string
	Logger     *slog.Logger
}

// SourceResult records one source's outcome inside a run.
type SourceResult struct {
	Source  string
	Records int
	Err     error
}

// Report summarizes an ingestion run. Failed sources are reported, not
// fatal: whatever was fetched successfully still reaches the corpus.
type Report struct {
	RunID        uuid.UUID
	Sources      []SourceResult
	CorpusBefore int
	CorpusAfter  int
}

// Failed lists the names of sources whose fetch failed.
func (r *Report) Failed() []string {
	var failed []string
	for _, s := range r.Sources {
		if s.Err != nil {
			failed = append(failed, s.Source)
		}
	}
	return failed
}

// NormalizeAndDedupe cleans every raw post and collapses exact-text
// duplicates within the batch, keeping the first occurrence. Posts whose
// text cleans down to nothing are dropped.
func NormalizeAndDedupe(posts []scrape.RawPost, log *slog.Logger) []corpus.NewsRecord {
	seen := make(map[string]struct{}, len(posts))
	records := make([]corpus.NewsRecord, 0, len(posts))

	for _, post := range posts {
		text := normalize.CleanText(post.Text)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}

		records = append(records, corpus.NewsRecord{
			Text:     text,
			Datetime: normalize.FormatDate(post.Timestamp, log),
			Link:     post.Link,
		})
	}
	return records
}

// Run fetches all sources concurrently (one worker per source), waits for
// every worker to finish, merges the successful batches into the corpus in
// source order, persists it, and finally removes the per-source artifacts.
// A failing source is logged and reported; it never blocks the others.
func Run(ctx context.Context, sources []scrape.Source, opts Options) (*Report, error) {
	if len(sources) == 0 {
		return nil, errors.New("no sources configured")
	}

	log := opts.Logger
	report := &Report{
		RunID:   uuid.New(),
		Sources: make([]SourceResult, len(sources)),
	}

	batches := make([][]corpus.NewsRecord, len(sources))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			posts, err := src.Fetch(gCtx)
			if err != nil {
				if log != nil {
					log.Error("source fetch failed",
						slog.String("source", src.Name()),
						slog.Any("err", err))
				}
				mu.Lock()
				report.Sources[i] = SourceResult{Source: src.Name(), Err: err}
				mu.Unlock()
				// Isolation: a failed source must not cancel its siblings.
				return nil
			}

			records := NormalizeAndDedupe(posts, log)

			if err := corpus.Save(rawArtifactPath(opts.RawDir, src.Name()), records); err != nil {
				if log != nil {
					log.Warn("could not write raw artifact",
						slog.String("source", src.Name()),
						slog.Any("err", err))
				}
			}

			mu.Lock()
			batches[i] = records
			report.Sources[i] = SourceResult{Source: src.Name(), Records: len(records)}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	succeeded := 0
	for _, batch := range batches {
		if batch != nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		return report, errors.New("every source fetch failed")
	}

	// Merge barrier: single-threaded from here on.
	existing, err := corpus.Load(opts.CorpusPath)
	if err != nil {
		var missing *corpus.MissingCorpusError
		if !errors.As(err, &missing) {
			return report, fmt.Errorf("load corpus: %w", err)
		}
		existing = nil
	}
	report.CorpusBefore = len(existing)

	merged := existing
	for _, batch := range batches {
		merged = corpus.Merge(merged, batch)
	}
	report.CorpusAfter = len(merged)

	if err := corpus.Save(opts.CorpusPath, merged); err != nil {
		return report, fmt.Errorf("persist corpus: %w", err)
	}

	// Artifacts are only cleaned up once the merge landed.
	for _, src := range sources {
		_ = os.Remove(rawArtifactPath(opts.RawDir, src.Name()))
	}

	if log != nil {
		log.Info("ingestion run finished",
			slog.String("run_id", report.RunID.String()),
			slog.Int("corpus_before", report.CorpusBefore),
			slog.Int("corpus_after", report.CorpusAfter),
			slog.Any("failed_sources", report.Failed()))
	}
	return report, nil
}

func rawArtifactPath(rawDir, source string) string {
	return filepath.Join(rawDir, source+"_news.json")
}
