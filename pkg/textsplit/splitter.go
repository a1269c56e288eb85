// Package textsplit splits long text into overlapping chunks sized for
// embedding. Splitting is recursive: paragraph breaks first, then line
// breaks, then sentence boundaries, then spaces, then raw characters,
// using the first separator whose pieces fit the target size.
package textsplit

import (
	"strings"
	"unicode/utf8"
)

var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

type Splitter struct {
	chunkSize int // max chunk length in characters
	overlap   int // trailing characters carried into the next chunk
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = 0 // fallback, mirrors an invalid configuration to "no overlap"
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

func (s *Splitter) ChunkSize() int { return s.chunkSize }
func (s *Splitter) Overlap() int   { return s.overlap }

// Split returns an ordered sequence of chunks. Identical input and
// configuration always yield an identical sequence; empty input yields
// no chunks.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	pieces := s.splitRecursive(text, defaultSeparators)
	return s.merge(pieces)
}

// splitRecursive breaks text into pieces no longer than chunkSize. Each
// piece retains its trailing separator so concatenating all pieces
// reconstructs the input exactly.
func (s *Splitter) splitRecursive(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		return []string{text}
	}

	sep, rest := pickSeparator(text, separators)

	var parts []string
	if sep == "" {
		parts = splitRunes(text, s.chunkSize)
	} else {
		parts = strings.SplitAfter(text, sep)
	}

	var out []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) > s.chunkSize {
			out = append(out, s.splitRecursive(p, rest)...)
		} else {
			out = append(out, p)
		}
	}
	return out
}

// pickSeparator returns the first separator present in text along with
// the separators left to try on oversized parts. The empty separator
// always matches.
func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// splitRunes slices text into runs of at most size runes.
func splitRunes(text string, size int) []string {
	runes := []rune(text)
	var parts []string
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[i:end]))
	}
	return parts
}

// merge recombines small pieces into chunks up to chunkSize, keeping the
// trailing pieces totaling at most overlap characters as the start of
// the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, ""))
	}

	for _, p := range pieces {
		pLen := utf8.RuneCountInString(p)
		if total+pLen > s.chunkSize && len(current) > 0 {
			flush()
			// Drop leading pieces until what remains fits as overlap
			// and leaves room for the incoming piece.
			for len(current) > 0 && (total > s.overlap || total+pLen > s.chunkSize) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += pLen
	}
	flush()

	return chunks
}
