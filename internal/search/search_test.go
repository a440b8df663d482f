/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package search

import (
	"crypto/rc4"
	"encoding/binary"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/internal/crypto"
	"github.com/Dellle/pdfcrack-mp/internal/source"
)

func rc4xor(t *testing.T, key, src []byte) []byte {
	t.Helper()
	c, err := rc4.NewCipher(key)
	require.NoError(t, err)
	out := make([]byte, len(src))
	c.XORKeyStream(out, src)
	return out
}

func rev2Fixture(t *testing.T, userPw string) *pdfcrack.EncData {
	t.Helper()
	fileID := []byte("fixture-file-id-")
	perm := int32(-1)
	padded := pdfcrack.PadCandidate([]byte(userPw))
	oString := make([]byte, 32)

	buf := append(append([]byte(nil), padded[:]...), oString...)
	var permLE [4]byte
	binary.LittleEndian.PutUint32(permLE[:], uint32(perm))
	buf = append(buf, permLE[:]...)
	buf = append(buf, fileID...)
	key := crypto.MD5(buf)
	uString := rc4xor(t, key[:5], pdfcrack.Pad[:])

	return &pdfcrack.EncData{
		Revision:        2,
		Permissions:     perm,
		Length:          40,
		EncryptMetaData: true,
		FileID:          fileID,
		OString:         oString,
		UString:         uString,
		SHandler:        "Standard",
	}
}

func TestRunSequential_WordlistFindsThirdCandidate(t *testing.T) {
	enc := rev2Fixture(t, "test")
	ctx, err := NewSearchContext(enc, 2, false, true, nil)
	require.NoError(t, err)

	wl := source.NewWordlist(strings.NewReader("foo\nbar\ntest\nbaz\n"))
	outcome := ctx.Run(wl, true, nil)

	require.Equal(t, pdfcrack.StatusFound, outcome.Status)
	assert.Equal(t, "test", string(outcome.Password))
	assert.EqualValues(t, 3, ctx.NrProcessed())
}

func TestRunSequential_PermutationRecoversCase(t *testing.T) {
	enc := rev2Fixture(t, "Abc")
	ctx, err := NewSearchContext(enc, 2, true, true, nil)
	require.NoError(t, err)

	wl := source.NewWordlist(strings.NewReader("abc\n"))
	outcome := ctx.Run(wl, true, nil)

	require.Equal(t, pdfcrack.StatusFound, outcome.Status)
	assert.Equal(t, "Abc", string(outcome.Password))
}

func TestRunSequential_NotFoundExhausted(t *testing.T) {
	enc := rev2Fixture(t, "correct-horse")
	ctx, err := NewSearchContext(enc, 2, false, true, nil)
	require.NoError(t, err)

	wl := source.NewWordlist(strings.NewReader("one\ntwo\nthree\n"))
	outcome := ctx.Run(wl, true, nil)

	assert.Equal(t, pdfcrack.StatusExhausted, outcome.Status)
	assert.EqualValues(t, 3, ctx.NrProcessed())
}

// stubIndexable is a minimal hand-rolled source.Indexable that reports a
// fixed match string at two specific indices, tracking which indices
// were ever evaluated so the test can assert the second stripe was
// never visited once the first stripe's match stopped the driver.
type stubIndexable struct {
	total   uint64
	matches map[uint64]bool

	mu       sync.Mutex
	visited  map[uint64]bool
}

func (s *stubIndexable) At(i uint64) ([]byte, bool) {
	if i >= s.total {
		return nil, false
	}
	s.mu.Lock()
	s.visited[i] = true
	s.mu.Unlock()
	if s.matches[i] {
		return []byte("MATCH"), true
	}
	return []byte("x"), true
}

func (s *stubIndexable) Next() ([]byte, bool)      { return nil, false }
func (s *stubIndexable) Count() (uint64, bool)     { return s.total, true }
func (s *stubIndexable) Save(w io.Writer) error    { return nil }
func (s *stubIndexable) Load(r io.Reader) error    { return nil }

func TestRunStriped_EarlierStripeWins(t *testing.T) {
	enc := rev2Fixture(t, "unused")
	ctx, err := NewSearchContext(enc, 4, false, true, nil)
	require.NoError(t, err)

	idx := &stubIndexable{
		total:   2 * StripeSize,
		matches: map[uint64]bool{4: true, 17504: true},
		visited: make(map[uint64]bool),
	}

	verify := func(cand []byte, ws *pdfcrack.EncKeyWorkspace) (bool, []byte, pdfcrack.Which) {
		return string(cand) == "MATCH", cand, pdfcrack.WhichUser
	}

	outcome := ctx.runStriped(idx, verify)

	require.Equal(t, pdfcrack.StatusFound, outcome.Status)
	assert.Equal(t, "MATCH", string(outcome.Password))

	idx.mu.Lock()
	_, visited17504 := idx.visited[17504]
	idx.mu.Unlock()
	assert.False(t, visited17504, "index in the later stripe should never be evaluated once the earlier stripe found a match")
}

func TestTogglePermutation(t *testing.T) {
	out, changed := togglePermutation([]byte("abc"))
	require.True(t, changed)
	assert.Equal(t, "Abc", string(out))

	_, changed = togglePermutation([]byte("ABC"))
	assert.False(t, changed)

	_, changed = togglePermutation(nil)
	assert.False(t, changed)
}
