package splitters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragbot/internal/rag/schema"
)

func repeatToLength(unit string, length int) string {
	s := strings.Repeat(unit, length/len(unit)+1)
	return s[:length]
}

func TestSplitTextShortInput(t *testing.T) {
	s := NewRecursiveCharacterSplitter(1000, 50)

	spans := s.SplitText("a short paragraph that fits in one chunk.")

	require.Len(t, spans, 1)
	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, "a short paragraph that fits in one chunk.", spans[0].Text)
}

func TestSplitTextEmptyInput(t *testing.T) {
	s := NewRecursiveCharacterSplitter(1000, 50)
	assert.Empty(t, s.SplitText(""))
}

func TestSplitTextPrefersParagraphBreaks(t *testing.T) {
	s := NewRecursiveCharacterSplitter(40, 0)

	first := "First paragraph with some words."
	second := "Second paragraph with more words."
	spans := s.SplitText(first + "\n\n" + second)

	require.Len(t, spans, 2)
	assert.Equal(t, first, spans[0].Text)
	assert.Equal(t, second, spans[1].Text)
	assert.Equal(t, len(first)+2, spans[1].Start)
}

func TestSplitTextOffsetsIndexIntoBuffer(t *testing.T) {
	s := NewRecursiveCharacterSplitter(80, 20)
	buf := repeatToLength("The quick brown fox jumps over the lazy dog. ", 600)

	spans := s.SplitText(buf)
	require.NotEmpty(t, spans)

	for _, span := range spans {
		require.LessOrEqual(t, span.Start+len(span.Text), len(buf))
		assert.Equal(t, buf[span.Start:span.Start+len(span.Text)], span.Text)
		assert.LessOrEqual(t, len(span.Text), 80)
	}
}

func TestSplitTextChunksOverlap(t *testing.T) {
	s := NewRecursiveCharacterSplitter(100, 30)
	// Word-only input so every split unit is far smaller than the overlap
	// budget; the shared tail can then fall short of ChunkOverlap by at most
	// one unit of separator rounding.
	buf := repeatToLength("alpha beta gamma epsilon ", 500)
	longestUnit := len("epsilon ")

	spans := s.SplitText(buf)
	require.Greater(t, len(spans), 1)

	for i := 1; i < len(spans); i++ {
		prevEnd := spans[i-1].Start + len(spans[i-1].Text)
		overlap := prevEnd - spans[i].Start
		assert.GreaterOrEqual(t, overlap, s.ChunkOverlap-longestUnit,
			"chunk %d shares too little with its predecessor", i)
		assert.LessOrEqual(t, overlap, s.ChunkOverlap,
			"chunk %d overlaps beyond the budget", i)
		assert.Equal(t,
			spans[i-1].Text[len(spans[i-1].Text)-overlap:],
			spans[i].Text[:overlap],
			"chunk %d shared tail mismatch", i)
	}
}

func TestSplitTextIsIdempotent(t *testing.T) {
	s := NewRecursiveCharacterSplitter(120, 40)
	buf := repeatToLength("one two three four five six seven. ", 900)

	first := s.SplitText(buf)
	second := s.SplitText(buf)

	assert.Equal(t, first, second)
}

func TestSplitTextOversizedUnitKeptWhole(t *testing.T) {
	s := NewRecursiveCharacterSplitter(10, 0)

	// No separator occurs; the span cannot be cut further.
	spans := s.SplitText("abcdefghijklmnopqrstuvwxyz")

	require.Len(t, spans, 1)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", spans[0].Text)
}

func TestPageSplitterTwoPageAttribution(t *testing.T) {
	ps := NewPageSplitter(1000, 50)

	pages := []schema.Page{
		{Number: 1, Text: repeatToLength("Lorem ipsum dolor sit amet. ", 1200)},
		{Number: 2, Text: repeatToLength("Consectetur adipiscing elit. ", 300)},
	}

	chunks := ps.Split(pages, "doc.pdf")
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		if c.StartOffset >= 1200 {
			assert.Equal(t, 2, c.Page, "chunk at %d", c.StartOffset)
		} else {
			assert.Equal(t, 1, c.Page, "chunk at %d", c.StartOffset)
		}
		assert.Equal(t, "doc.pdf", c.Source)
	}
}

func TestPageSplitterSecondPageChunksAttributed(t *testing.T) {
	ps := NewPageSplitter(200, 20)

	pages := []schema.Page{
		{Number: 1, Text: repeatToLength("Lorem ipsum dolor sit amet. ", 1200)},
		{Number: 2, Text: repeatToLength("Consectetur adipiscing elit. ", 300)},
	}

	chunks := ps.Split(pages, "doc.pdf")

	var sawPageTwo bool
	for _, c := range chunks {
		if c.StartOffset >= 1200 {
			sawPageTwo = true
			assert.Equal(t, 2, c.Page)
		}
	}
	assert.True(t, sawPageTwo, "expected at least one chunk starting on page 2")
}

func TestPageSplitterBoundaryStartBelongsToStartingPage(t *testing.T) {
	ps := NewPageSplitter(10, 0)

	// Page 1 ends exactly where page 2 begins; the paragraph break makes
	// the split land on the boundary.
	pages := []schema.Page{
		{Number: 1, Text: "page one\n\n"},
		{Number: 2, Text: "page two"},
	}

	chunks := ps.Split(pages, "doc.pdf")
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 2, chunks[1].Page)
	assert.Equal(t, 10, chunks[1].StartOffset)
}

func TestPageSplitterEmptyPagesDoNotCorruptAttribution(t *testing.T) {
	ps := NewPageSplitter(10, 0)

	pages := []schema.Page{
		{Number: 1, Text: "alpha\n\n"},
		{Number: 2, Text: ""},
		{Number: 3, Text: ""},
		{Number: 4, Text: "beta"},
	}

	chunks := ps.Split(pages, "doc.pdf")
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].Page)
	// Pages 2 and 3 contribute zero-length ranges at the same offset as
	// page 4; the text there belongs to page 4.
	assert.Equal(t, 4, chunks[1].Page)
}

func TestPageSplitterIdempotent(t *testing.T) {
	ps := NewPageSplitter(200, 40)
	pages := []schema.Page{
		{Number: 1, Text: repeatToLength("Sentence number one here. ", 500)},
		{Number: 2, Text: repeatToLength("Sentence number two here. ", 500)},
	}

	a := ps.Split(pages, "doc.pdf")
	b := ps.Split(pages, "doc.pdf")

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Content, b[i].Content)
		assert.Equal(t, a[i].Page, b[i].Page)
		assert.Equal(t, a[i].StartOffset, b[i].StartOffset)
	}
}

func TestPageSplitterNoPages(t *testing.T) {
	ps := NewPageSplitter(1000, 50)
	assert.Nil(t, ps.Split(nil, "doc.pdf"))
}
