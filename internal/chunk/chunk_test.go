package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KissedByF1re/News-Assistant-AI/internal/corpus"
)

func record(text string) corpus.NewsRecord {
	return corpus.NewsRecord{
		Text:     text,
		Datetime: "01-05-2024 12:00:00",
		Link:     "https://t.me/rian_ru/42",
	}
}

func TestSplitShortRecordYieldsOneChunk(t *testing.T) {
	s := NewSplitter(200, 20)

	chunks := s.Split(record("Fire in Moscow"))

	require.Len(t, chunks, 1)
	assert.Equal(t, "Fire in Moscow", chunks[0].Content)
	assert.Empty(t, chunks[0].Overlap)
	assert.Equal(t, "https://t.me/rian_ru/42", chunks[0].SourceLink)
	assert.Equal(t, "01-05-2024 12:00:00", chunks[0].SourceTimestamp)
}

func TestSplitLongRecord(t *testing.T) {
	text := strings.Repeat("a", 180) + strings.Repeat("b", 180) + strings.Repeat("c", 90)
	require.Len(t, text, 450)

	s := NewSplitter(200, 20)
	chunks := s.Split(record(text))

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), 200)
	}

	// Each chunk starts with the tail of the previous one.
	first := []rune(chunks[0].Content)
	second := []rune(chunks[1].Content)
	assert.Equal(t, string(first[len(first)-20:]), string(second[:20]))
	assert.Equal(t, string(second[:20]), chunks[1].Overlap)
}

func TestSplitDeterministic(t *testing.T) {
	rec := record(strings.Repeat("новость дня ", 60))

	s := NewSplitter(200, 20)
	assert.Equal(t, s.Split(rec), s.Split(rec))
}

func TestSplitCoverage(t *testing.T) {
	// Stripping each chunk's overlap prefix and concatenating restores the
	// original text.
	texts := []string{
		strings.Repeat("x", 199),
		strings.Repeat("y", 200),
		strings.Repeat("z", 201),
		strings.Repeat("сообщение ", 55),
	}

	s := NewSplitter(200, 20)
	for _, text := range texts {
		var rebuilt strings.Builder
		for _, c := range s.Split(record(text)) {
			rebuilt.WriteString(strings.TrimPrefix(c.Content, c.Overlap))
		}
		assert.Equal(t, text, rebuilt.String())
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(200, 20)
	assert.Nil(t, s.Split(corpus.NewsRecord{}))
}

func TestNewSplitterClampsBadValues(t *testing.T) {
	s := NewSplitter(0, -1)
	assert.Equal(t, DefaultSize, s.Size)
	assert.Equal(t, DefaultOverlap, s.Overlap)

	s = NewSplitter(50, 60)
	assert.Less(t, s.Overlap, s.Size)
}

func TestSplitAllPreservesOrder(t *testing.T) {
	s := NewSplitter(200, 20)
	records := []corpus.NewsRecord{
		{Text: "first", Datetime: "d1"},
		{Text: "second", Datetime: "d2"},
	}

	chunks := s.SplitAll(records)

	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Content)
	assert.Equal(t, "second", chunks[1].Content)
}
