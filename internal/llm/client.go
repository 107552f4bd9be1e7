// Package llm wraps the Gemini API behind the two narrow capabilities the
// pipeline needs: text generation and text embedding.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// DefaultGenerationModel answers questions over retrieved context.
	DefaultGenerationModel = "gemini-2.5-flash"
	// DefaultEmbeddingModel turns chunk and question text into vectors.
	DefaultEmbeddingModel = "text-embedding-004"
)

// Client exposes the generation and embedding capabilities over one Gemini
// connection.
type Client struct {
	client          *genai.Client
	generationModel string
	embeddingModel  string
}

// Option customizes a Client.
type Option func(*Client)

// WithGenerationModel overrides the generation model name.
func WithGenerationModel(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.generationModel = name
		}
	}
}

// WithEmbeddingModel overrides the embedding model name.
func WithEmbeddingModel(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.embeddingModel = name
		}
	}
}

// NewClient creates a Gemini-backed client. The API key is required; it is
// the only credential this system holds.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	inner, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	c := &Client{
		client:          inner,
		generationModel: DefaultGenerationModel,
		embeddingModel:  DefaultEmbeddingModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate produces an answer for a fully substituted prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.generationModel)
	model.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationUnavailableError{Message: "generate content", Cause: err}
	}
	return extractText(resp)
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(c.embeddingModel)

	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &EmbeddingUnavailableError{Message: "embed content", Cause: err}
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, &EmbeddingUnavailableError{Message: "empty embedding in response"}
	}
	return resp.Embedding.Values, nil
}

// EmbedBatch embeds texts in one round-trip, preserving order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	em := c.client.EmbeddingModel(c.embeddingModel)
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, &EmbeddingUnavailableError{Message: "batch embed contents", Cause: err}
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, &EmbeddingUnavailableError{
			Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings)),
		}
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, &EmbeddingUnavailableError{Message: fmt.Sprintf("empty embedding at position %d", i)}
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &GenerationUnavailableError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &GenerationUnavailableError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", &GenerationUnavailableError{Message: "no text parts in response"}
	}
	return strings.Join(parts, ""), nil
}
