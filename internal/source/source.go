/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package source unifies the three candidate-password producers —
// Wordlist, Incremental and Pattern — behind one contract. It owns the
// resumable cursor state the search driver checkpoints through
// statestore.
package source

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Dellle/pdfcrack-mp/internal/pattern"
)

// MaxCandidateLength is the longest candidate any source will ever
// produce; longer wordlist entries are truncated to this length rather
// than skipped (see DESIGN.md's resolution of the wordlist open
// question).
const MaxCandidateLength = 32

// Source is the common contract every password producer satisfies.
// Wordlist and Incremental are sequential (Next only); Pattern also
// supports indexable random access via At.
type Source interface {
	// Next advances one step and returns the next candidate, or
	// ok == false once the source is exhausted.
	Next() (candidate []byte, ok bool)

	// Count returns the total number of candidates for bounded sources
	// (Pattern, Incremental), or ok == false for Wordlist.
	Count() (n uint64, ok bool)

	// Save persists cursor state so a later Load call resumes at the
	// same position.
	Save(w io.Writer) error

	// Load restores cursor state previously written by Save.
	Load(r io.Reader) error
}

// Indexable is implemented only by the Pattern source: random access by
// index, safe for concurrent use from multiple worker goroutines.
type Indexable interface {
	Source
	At(i uint64) (candidate []byte, ok bool)
}

// --- Pattern --------------------------------------------------------

// PatternSource wraps a compiled pattern.Pattern with a sequential
// cursor, while also exposing thread-safe random access for the striped
// parallel search driver.
type PatternSource struct {
	pat    *pattern.Pattern
	cursor uint64
}

// NewPattern compiles src and returns a PatternSource over it.
func NewPattern(src string) (*PatternSource, error) {
	p, err := pattern.Compile(src)
	if err != nil {
		return nil, err
	}
	return &PatternSource{pat: p}, nil
}

// Next is equivalent to At(cursor), then advances the cursor.
func (s *PatternSource) Next() ([]byte, bool) {
	c, ok := s.pat.At(s.cursor)
	if !ok {
		return nil, false
	}
	s.cursor++
	return c, true
}

// At is safe to call concurrently from any number of goroutines; it
// never mutates s.
func (s *PatternSource) At(i uint64) ([]byte, bool) {
	return s.pat.At(i)
}

// Count returns the pattern's total candidate count.
func (s *PatternSource) Count() (uint64, bool) {
	return s.pat.Count(), true
}

// Save writes the source pattern string and the current cursor.
func (s *PatternSource) Save(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Pattern: %s\nCursor: %d\n", s.pat.Source(), s.cursor)
	return err
}

// Load restores a PatternSource previously written by Save. r must
// begin at the "Pattern:" line.
func (s *PatternSource) Load(r io.Reader) error {
	var src string
	var cursor uint64
	if _, err := fmt.Fscanf(r, "Pattern: %s\nCursor: %d\n", &src, &cursor); err != nil {
		return fmt.Errorf("source: malformed pattern state: %w", err)
	}
	p, err := pattern.Compile(src)
	if err != nil {
		return err
	}
	s.pat = p
	s.cursor = cursor
	return nil
}

// --- Incremental ------------------------------------------------------

// IncrementalSource enumerates every string over charset with length in
// [minLen, maxLen], ordered first by length then lexicographically by
// charset index, matching the original tool's incremental mode.
type IncrementalSource struct {
	charset      []byte
	minLen       int
	maxLen       int
	curLen       int
	digits       []int // current word, expressed as indices into charset, most-significant first
	exhausted    bool
	producedOnce bool
}

// NewIncremental builds an IncrementalSource over charset with lengths
// in [minLen, maxLen].
func NewIncremental(charset []byte, minLen, maxLen int) (*IncrementalSource, error) {
	if len(charset) == 0 {
		return nil, fmt.Errorf("source: empty incremental charset")
	}
	if minLen < 1 || maxLen < minLen || maxLen > MaxCandidateLength {
		return nil, fmt.Errorf("source: incremental length bounds [%d,%d] invalid", minLen, maxLen)
	}
	return &IncrementalSource{
		charset: append([]byte(nil), charset...),
		minLen:  minLen,
		maxLen:  maxLen,
		curLen:  minLen,
		digits:  make([]int, minLen),
	}, nil
}

// Next returns the next candidate in lexicographic order, advancing the
// internal odometer and growing curLen when the current length's space
// is exhausted.
func (s *IncrementalSource) Next() ([]byte, bool) {
	if s.exhausted {
		return nil, false
	}
	if !s.producedOnce {
		s.producedOnce = true
		return s.render(), true
	}
	if s.advance() {
		return s.render(), true
	}
	s.exhausted = true
	return nil, false
}

// render materializes s.digits against s.charset.
func (s *IncrementalSource) render() []byte {
	out := make([]byte, len(s.digits))
	for i, d := range s.digits {
		out[i] = s.charset[d]
	}
	return out
}

// advance increments the odometer (least-significant digit first,
// i.e. the rightmost character), carrying as needed; when the current
// length overflows, it grows curLen and resets the odometer, unless
// curLen has already reached maxLen.
func (s *IncrementalSource) advance() bool {
	base := len(s.charset)
	for i := len(s.digits) - 1; i >= 0; i-- {
		s.digits[i]++
		if s.digits[i] < base {
			return true
		}
		s.digits[i] = 0
	}
	// Overflowed every digit: grow the word length.
	if s.curLen >= s.maxLen {
		return false
	}
	s.curLen++
	s.digits = make([]int, s.curLen)
	return true
}

// Count returns the total number of candidates across all lengths
// [minLen, maxLen].
func (s *IncrementalSource) Count() (uint64, bool) {
	base := uint64(len(s.charset))
	var total uint64
	for l := s.minLen; l <= s.maxLen; l++ {
		total += ipow(base, l)
	}
	return total, true
}

func ipow(base uint64, exp int) uint64 {
	result := uint64(1)
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

// Save writes the charset, length bounds and odometer state.
func (s *IncrementalSource) Save(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Charset(%d): % X\n", len(s.charset), s.charset); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "MinLen: %d\nMaxLen: %d\nCurLen: %d\nProducedOnce: %d\n",
		s.minLen, s.maxLen, s.curLen, boolToInt(s.producedOnce)); err != nil {
		return err
	}
	for _, d := range s.digits {
		if _, err := fmt.Fprintf(w, "%d ", d); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Load restores an IncrementalSource previously written by Save.
func (s *IncrementalSource) Load(r io.Reader) error {
	var n int
	if _, err := fmt.Fscanf(r, "Charset(%d):", &n); err != nil {
		return fmt.Errorf("source: malformed incremental state: %w", err)
	}
	charset := make([]byte, n)
	for i := range charset {
		var b int
		if _, err := fmt.Fscanf(r, " %X", &b); err != nil {
			return fmt.Errorf("source: malformed incremental charset byte %d: %w", i, err)
		}
		charset[i] = byte(b)
	}
	var producedOnce int
	if _, err := fmt.Fscanf(r, "\nMinLen: %d\nMaxLen: %d\nCurLen: %d\nProducedOnce: %d\n",
		&s.minLen, &s.maxLen, &s.curLen, &producedOnce); err != nil {
		return fmt.Errorf("source: malformed incremental bounds: %w", err)
	}
	s.charset = charset
	s.producedOnce = producedOnce != 0
	s.digits = make([]int, s.curLen)
	for i := range s.digits {
		if _, err := fmt.Fscanf(r, "%d ", &s.digits[i]); err != nil {
			return fmt.Errorf("source: malformed incremental digit %d: %w", i, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --- Wordlist ---------------------------------------------------------

// WordlistSource streams candidates one per line from an underlying
// reader, decoding each line tolerantly as either valid UTF-8 (folded
// down to ISO-Latin-1) or raw Latin-1 bytes, and truncating any entry
// longer than MaxCandidateLength.
type WordlistSource struct {
	scanner *bufio.Scanner
	lineNo  uint64
	done    bool
}

// NewWordlist wraps r (typically an *os.File) as a WordlistSource.
func NewWordlist(r io.Reader) *WordlistSource {
	return &WordlistSource{scanner: bufio.NewScanner(r)}
}

// Next returns the next line's candidate bytes, or ok == false at EOF.
func (s *WordlistSource) Next() ([]byte, bool) {
	if s.done {
		return nil, false
	}
	if !s.scanner.Scan() {
		s.done = true
		return nil, false
	}
	s.lineNo++
	return decodeLatin1Tolerant(s.scanner.Bytes()), true
}

// decodeLatin1Tolerant folds a UTF-8 line down to ISO-Latin-1 bytes. A
// UTF-8 line holding any rune outside the Latin-1 range cannot be folded
// and is passed through as its raw UTF-8 bytes; a line that is not valid
// UTF-8 is assumed to already be raw Latin-1 and is passed through
// unchanged. The result is truncated to MaxCandidateLength.
func decodeLatin1Tolerant(line []byte) []byte {
	var out []byte
	if utf8.Valid(line) {
		enc := charmap.ISO8859_1.NewEncoder()
		converted, err := enc.Bytes(line)
		if err != nil {
			out = append([]byte(nil), line...)
		} else {
			out = converted
		}
	} else {
		out = append([]byte(nil), line...)
	}
	if len(out) > MaxCandidateLength {
		out = out[:MaxCandidateLength]
	}
	return out
}

// Count is unbounded for a wordlist; the second return is always false.
func (s *WordlistSource) Count() (uint64, bool) { return 0, false }

// Save writes the number of lines consumed so far.
func (s *WordlistSource) Save(w io.Writer) error {
	_, err := fmt.Fprintf(w, "WordlistLine: %d\n", s.lineNo)
	return err
}

// Load restores the line counter and reads past that many lines of the
// underlying reader, so the next Next call returns the line after the
// saved position. WordlistSource does not record the wordlist's path:
// callers re-open the file and call Load on a fresh WordlistSource over
// it.
func (s *WordlistSource) Load(r io.Reader) error {
	var n uint64
	if _, err := fmt.Fscanf(r, "WordlistLine: %d\n", &n); err != nil {
		return fmt.Errorf("source: malformed wordlist state: %w", err)
	}
	s.lineNo = n
	for i := uint64(0); i < n && s.scanner.Scan(); i++ {
	}
	return nil
}
