// Package splitters cuts document text into overlapping retrieval chunks.
package splitters

import "strings"

// DefaultSeparators is the preference-ordered separator list: paragraph
// break, line break, sentence terminator, then whitespace. Higher-priority
// separators are tried first so chunks break mid-sentence as rarely as
// possible.
var DefaultSeparators = []string{"\n\n\n", "\n\n", ".", " "}

// TextSpan is one chunk of text together with its starting character offset
// in the original buffer.
type TextSpan struct {
	Text  string
	Start int
}

// RecursiveCharacterSplitter splits text on a preference-ordered separator
// list, falling through to lower-priority separators only for spans that
// still exceed ChunkSize, then merges adjacent splits into chunks of at most
// ChunkSize characters overlapping by up to ChunkOverlap.
type RecursiveCharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// NewRecursiveCharacterSplitter creates a splitter with the default
// separator list.
func NewRecursiveCharacterSplitter(chunkSize, chunkOverlap int) *RecursiveCharacterSplitter {
	return &RecursiveCharacterSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   DefaultSeparators,
	}
}

// piece is a maximal split unit: a half-open offset range into the buffer
// that no higher-priority separator could cut below ChunkSize.
type piece struct {
	start int
	end   int
}

// SplitText splits buf into overlapping spans. Span offsets index into buf
// exactly; span text is the corresponding buf slice, so separators between
// merged units are preserved verbatim.
func (s *RecursiveCharacterSplitter) SplitText(buf string) []TextSpan {
	pieces := s.splitRecursive(buf, 0, s.Separators)
	return s.merge(buf, pieces)
}

// splitRecursive cuts text on the first separator from seps that occurs in
// it, recursing with the remaining separators for any part still larger
// than ChunkSize. base is text's offset in the original buffer.
func (s *RecursiveCharacterSplitter) splitRecursive(text string, base int, seps []string) []piece {
	if text == "" {
		return nil
	}
	if len(text) <= s.ChunkSize {
		return []piece{{start: base, end: base + len(text)}}
	}

	sepIdx := -1
	for i, sep := range seps {
		if strings.Contains(text, sep) {
			sepIdx = i
			break
		}
	}
	if sepIdx < 0 {
		// No separator left to try; keep the oversized span whole.
		return []piece{{start: base, end: base + len(text)}}
	}

	sep := seps[sepIdx]
	var pieces []piece
	offset := 0
	for _, part := range strings.Split(text, sep) {
		if part != "" {
			if len(part) > s.ChunkSize {
				pieces = append(pieces, s.splitRecursive(part, base+offset, seps[sepIdx+1:])...)
			} else {
				pieces = append(pieces, piece{start: base + offset, end: base + offset + len(part)})
			}
		}
		offset += len(part) + len(sep)
	}
	return pieces
}

// merge greedily combines consecutive pieces into spans of at most
// ChunkSize characters. When a span is emitted, trailing pieces totalling at
// most ChunkOverlap characters are retained as the head of the next span.
// Each piece is consumed exactly once, so merging always terminates.
func (s *RecursiveCharacterSplitter) merge(buf string, pieces []piece) []TextSpan {
	var spans []TextSpan
	var window []piece

	emit := func() {
		if len(window) == 0 {
			return
		}
		start := window[0].start
		end := window[len(window)-1].end
		spans = append(spans, TextSpan{Text: buf[start:end], Start: start})
	}

	for _, p := range pieces {
		if len(window) > 0 && p.end-window[0].start > s.ChunkSize {
			emit()
			// Drop pieces from the front until the retained tail fits the
			// overlap budget and the incoming piece fits the chunk size.
			for len(window) > 0 &&
				(window[len(window)-1].end-window[0].start > s.ChunkOverlap ||
					p.end-window[0].start > s.ChunkSize) {
				window = window[1:]
			}
		}
		window = append(window, p)
	}
	emit()

	return spans
}
