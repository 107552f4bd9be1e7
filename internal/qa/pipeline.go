// Package qa answers free-text questions over the indexed corpus with a
// fixed two-stage pipeline: retrieve the most similar chunks, then generate
// a grounded answer with source links.
package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/KissedByF1re/News-Assistant-AI/internal/index"
	"github.com/KissedByF1re/News-Assistant-AI/internal/prompts"
)

// Embedder turns a question into a query vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces an answer for a fully substituted prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is what a single question produces. Links holds the deduplicated
// source links of the retrieved chunks; order is not guaranteed meaningful.
type Result struct {
	Answer string   `json:"answer"`
	Links  []string `json:"links"`
}

// Pipeline holds the read-only handles a question needs. It is constructed
// once at startup and carries no per-request state, so a single Pipeline
// serves concurrent questions without locking.
type Pipeline struct {
	store     *index.Store
	embedder  Embedder
	generator Generator
	topK      int
	template  string
}

// New wires a Pipeline. topK falls back to the index default when
// non-positive.
func New(store *index.Store, embedder Embedder, generator Generator, topK int) *Pipeline {
	if topK <= 0 {
		topK = index.DefaultTopK
	}
	return &Pipeline{
		store:     store,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
		template:  prompts.MustGet("qa.json", "answer_with_context"),
	}
}

// state carries the retrieved chunks between the two stages.
type state struct {
	question  string
	retrieved []index.Scored
}

// AnswerQuestion runs retrieve then generate for one question and returns
// the answer plus its deduplicated source links.
func (p *Pipeline) AnswerQuestion(ctx context.Context, question string) (*Result, error) {
	st, err := p.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	answer, err := p.generate(ctx, st)
	if err != nil {
		return nil, err
	}

	return &Result{Answer: answer, Links: collectLinks(st.retrieved)}, nil
}

func (p *Pipeline) retrieve(ctx context.Context, question string) (state, error) {
	vector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return state{}, fmt.Errorf("embed question: %w", err)
	}

	scored, err := p.store.Query(ctx, vector, p.topK)
	if err != nil {
		return state{}, fmt.Errorf("query index: %w", err)
	}

	return state{question: question, retrieved: scored}, nil
}

// generate builds the prompt from the retrieved chunks in retrieval order
// and calls the generation capability. Zero retrieved chunks still go to
// generation with empty context; the prompt instructs the model to admit it
// does not know.
func (p *Pipeline) generate(ctx context.Context, st state) (string, error) {
	contents := make([]string, 0, len(st.retrieved))
	for _, s := range st.retrieved {
		contents = append(contents, s.Chunk.Content)
	}

	prompt := prompts.Format(p.template, map[string]string{
		"context":  strings.Join(contents, "\n\n"),
		"question": st.question,
	})

	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// collectLinks gathers the set of non-empty source links, first occurrence
// order, duplicates collapsed.
func collectLinks(retrieved []index.Scored) []string {
	seen := make(map[string]struct{}, len(retrieved))
	links := make([]string, 0, len(retrieved))
	for _, s := range retrieved {
		link := s.Chunk.SourceLink
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}
