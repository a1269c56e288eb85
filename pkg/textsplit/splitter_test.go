package textsplit

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyInput(t *testing.T) {
	s := NewSplitter(512, 50)
	assert.Nil(t, s.Split(""))
}

func TestSplitShortInput(t *testing.T) {
	s := NewSplitter(512, 50)
	chunks := s.Split("just a short note")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short note", chunks[0])
}

func TestSplitRespectsChunkSize(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "paragraphs",
			text: strings.Repeat("First paragraph about networks.\n\nSecond paragraph about routing tables and switches.\n\n", 20),
		},
		{
			name: "single long line",
			text: strings.Repeat("word ", 500),
		},
		{
			name: "no separators at all",
			text: strings.Repeat("x", 1000),
		},
		{
			name: "unicode content",
			text: strings.Repeat("数学の勉強ノート。", 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSplitter(100, 20)
			chunks := s.Split(tt.text)
			require.NotEmpty(t, chunks)
			for i, chunk := range chunks {
				assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 100, "chunk %d too long", i)
				assert.NotEmpty(t, chunk)
			}
		})
	}
}

func TestSplitWithoutOverlapReconstructsInput(t *testing.T) {
	text := strings.Repeat("Lecture three covered sorting algorithms.\n\nQuicksort averages n log n.\n", 30)
	s := NewSplitter(120, 0)

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitOverlapCarriesTrailingText(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon. ", 40)
	s := NewSplitter(100, 30)

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	// Each chunk after the first starts with text already seen at the
	// end of its predecessor.
	for i := 1; i < len(chunks); i++ {
		head := chunks[i][:10]
		assert.Contains(t, chunks[i-1], head, "chunk %d does not overlap its predecessor", i)
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Cell membranes regulate transport.\nOsmosis moves water.\n\n", 25)
	s := NewSplitter(150, 40)

	first := s.Split(text)
	second := s.Split(text)
	assert.Equal(t, first, second)
}

func TestNewSplitterClampsInvalidConfig(t *testing.T) {
	s := NewSplitter(0, -5)
	assert.Equal(t, 512, s.ChunkSize())
	assert.Equal(t, 0, s.Overlap())

	// Overlap >= chunk size would never make progress.
	s = NewSplitter(100, 100)
	assert.Equal(t, 0, s.Overlap())
}
