package qa

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KissedByF1re/News-Assistant-AI/internal/chunk"
	"github.com/KissedByF1re/News-Assistant-AI/internal/index"
	"github.com/KissedByF1re/News-Assistant-AI/internal/llm"
)

type fakeCapabilities struct {
	vectors    map[string][]float32
	embedErr   error
	genErr     error
	lastPrompt string
	answer     string
}

func (f *fakeCapabilities) Embed(_ context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0}, nil
}

func (f *fakeCapabilities) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeCapabilities) Generate(_ context.Context, prompt string) (string, error) {
	if f.genErr != nil {
		return "", f.genErr
	}
	f.lastPrompt = prompt
	if f.answer == "" {
		return "generated answer", nil
	}
	return f.answer, nil
}

func buildStore(t *testing.T, caps *fakeCapabilities, chunks []chunk.Chunk) *index.Store {
	t.Helper()
	store, err := index.Build(context.Background(), filepath.Join(t.TempDir(), "idx"), chunks, caps)
	require.NoError(t, err)
	return store
}

func TestAnswerQuestion(t *testing.T) {
	caps := &fakeCapabilities{vectors: map[string][]float32{
		"fire news":        {1, 0},
		"weather news":     {0, 1},
		"what burned down": {1, 0},
	}}
	store := buildStore(t, caps, []chunk.Chunk{
		{Content: "fire news", SourceLink: "https://t.me/rian_ru/1"},
		{Content: "weather news", SourceLink: "https://t.me/mash/7"},
	})

	p := New(store, caps, caps, 1)
	result, err := p.AnswerQuestion(context.Background(), "what burned down")
	require.NoError(t, err)

	assert.Equal(t, "generated answer", result.Answer)
	assert.Equal(t, []string{"https://t.me/rian_ru/1"}, result.Links)
	assert.Contains(t, caps.lastPrompt, "fire news")
	assert.Contains(t, caps.lastPrompt, "what burned down")
	assert.NotContains(t, caps.lastPrompt, "{{.")
}

func TestAnswerQuestionDeduplicatesLinks(t *testing.T) {
	caps := &fakeCapabilities{}
	store := buildStore(t, caps, []chunk.Chunk{
		{Content: "part one", SourceLink: "https://t.me/rian_ru/9"},
		{Content: "part two", SourceLink: "https://t.me/rian_ru/9"},
	})

	p := New(store, caps, caps, 5)
	result, err := p.AnswerQuestion(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://t.me/rian_ru/9"}, result.Links)
}

func TestAnswerQuestionSkipsEmptyLinks(t *testing.T) {
	caps := &fakeCapabilities{}
	store := buildStore(t, caps, []chunk.Chunk{
		{Content: "linked", SourceLink: "https://t.me/mash/1"},
		{Content: "unlinked"},
	})

	p := New(store, caps, caps, 5)
	result, err := p.AnswerQuestion(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://t.me/mash/1"}, result.Links)
}

func TestAnswerQuestionEmbeddingFailure(t *testing.T) {
	builder := &fakeCapabilities{}
	store := buildStore(t, builder, []chunk.Chunk{{Content: "c"}})

	caps := &fakeCapabilities{embedErr: &llm.EmbeddingUnavailableError{Message: "down"}}
	p := New(store, caps, caps, 5)

	_, err := p.AnswerQuestion(context.Background(), "q")

	var unavailable *llm.EmbeddingUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestAnswerQuestionGenerationFailure(t *testing.T) {
	caps := &fakeCapabilities{genErr: &llm.GenerationUnavailableError{Message: "down"}}
	store := buildStore(t, caps, []chunk.Chunk{{Content: "c"}})

	p := New(store, caps, caps, 5)
	_, err := p.AnswerQuestion(context.Background(), "q")

	var unavailable *llm.GenerationUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestGenerateWithEmptyRetrieval(t *testing.T) {
	caps := &fakeCapabilities{}
	p := &Pipeline{
		generator: caps,
		template:  "Context:\n{{.context}}\n\nQuestion: {{.question}}",
	}

	answer, err := p.generate(context.Background(), state{question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "generated answer", answer)
	assert.True(t, strings.HasPrefix(caps.lastPrompt, "Context:\n\n"))
}
