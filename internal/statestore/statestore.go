/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package statestore implements the StateStore component: serializing an
// in-progress search to a resumable state file and reconstructing it on
// load. Save/Load mirror the original tool's saveState/loadState split —
// the document's encryption parameters and the search's own flags are
// read and written here, while the trailing cursor position is always
// delegated to the PasswordSource that produced it (pw_saveState /
// pw_loadState in the original), since only that source knows how to
// interpret its own bytes.
package statestore

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/internal/source"
)

// SourceKind identifies which PasswordSource variant produced the
// trailing bytes of a state file, so a caller can construct the right
// concrete type before handing those bytes to its Load method.
type SourceKind int

const (
	// KindUnknown means the state file had no recognizable source
	// footer (for example, an owner-only search with an empty source).
	KindUnknown SourceKind = iota
	KindPattern
	KindIncremental
	KindWordlist
)

func (k SourceKind) String() string {
	switch k {
	case KindPattern:
		return "pattern"
	case KindIncremental:
		return "incremental"
	case KindWordlist:
		return "wordlist"
	default:
		return "unknown"
	}
}

// State is everything a resumed run needs besides the source cursor
// itself: the document's encryption parameters and the process-wide
// search flags the original tool tracks as globals (workWithUser,
// whether the user password is already known going into an owner
// search, and whether case permutation is enabled).
type State struct {
	Enc               *pdfcrack.EncData
	WorkWithUser      bool
	KnownUserPassword []byte // 32 padded bytes, nil when not known
	Permutate         bool

	// SourceKind and SourceState describe the trailing, source-specific
	// footer verbatim; the caller re-opens whatever file the original
	// source read from (a wordlist has no path recorded here) and feeds
	// SourceState to that source's own Load.
	SourceKind  SourceKind
	SourceState []byte
}

// Save writes st's header fields and then src's footer, in the exact
// field order the original state-file format uses: PDF version, R/V/P/L,
// metadata flag, file ID, security handler name, O- and U-strings, the
// User/UserPw/Permutate flags, the known user password if any, and
// finally whatever src.Save writes.
func Save(w io.Writer, st *State, src source.Source) error {
	e := st.Enc

	if _, err := fmt.Fprintf(w, "PDF: %d.%d\nR: %d\nV: %d\nP: %d\nL: %d\nMetaData: %d\nFileID(%d):",
		e.VersionMajor, e.VersionMinor, e.Revision, e.Version, e.Permissions, e.Length,
		boolToInt(e.EncryptMetaData), len(e.FileID)); err != nil {
		return err
	}
	if err := writeInts(w, e.FileID); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nFilter(%d): %s", len(e.SHandler), e.SHandler); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "\nO:"); err != nil {
		return err
	}
	if err := writeInts(w, e.OString); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\nU:"); err != nil {
		return err
	}
	if err := writeInts(w, e.UString); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nUser: %d\nUserPw: %d\nPermutate: %d\n",
		boolToInt(st.WorkWithUser), boolToInt(st.KnownUserPassword != nil), boolToInt(st.Permutate)); err != nil {
		return err
	}

	if st.KnownUserPassword != nil {
		if err := writeInts(w, st.KnownUserPassword); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if src == nil {
		return nil
	}
	return src.Save(w)
}

func writeInts(w io.Writer, bs []byte) error {
	for _, b := range bs {
		if _, err := fmt.Fprintf(w, " %d", b); err != nil {
			return err
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

// Load reads a state file written by Save. It validates revision,
// file-ID length and security handler exactly as the original tool's
// loadState does, then sniffs the first bytes of the trailing footer to
// classify which PasswordSource variant produced it (see SourceKind's
// doc comment) without attempting to construct that source itself.
func Load(r io.Reader) (*State, error) {
	br := bufio.NewReader(r)
	e := &pdfcrack.EncData{}
	var metaInt, fileIDLen int

	if _, err := fmt.Fscanf(br, "PDF: %d.%d\nR: %d\nV: %d\nP: %d\nL: %d\nMetaData: %d\nFileID(%d):",
		&e.VersionMajor, &e.VersionMinor, &e.Revision, &e.Version, &e.Permissions, &e.Length,
		&metaInt, &fileIDLen); err != nil {
		return nil, pdfcrack.NewStateError("malformed state header", err)
	}
	if e.Revision < 2 || e.Revision > 5 {
		return nil, pdfcrack.NewStateError(fmt.Sprintf("unsupported revision %d", e.Revision), nil)
	}
	if fileIDLen > 256 {
		return nil, pdfcrack.NewStateError("file identifier too long", nil)
	}
	e.EncryptMetaData = metaInt != 0

	fileID, err := readInts(br, fileIDLen)
	if err != nil {
		return nil, pdfcrack.NewStateError("malformed file identifier", err)
	}
	e.FileID = fileID

	var filterLen int
	if _, err := fmt.Fscanf(br, "\nFilter(%d): ", &filterLen); err != nil {
		return nil, pdfcrack.NewStateError("malformed filter header", err)
	}
	if filterLen <= 0 || filterLen > 256 {
		return nil, pdfcrack.NewStateError("filter name length out of range", nil)
	}
	handler := make([]byte, filterLen)
	if _, err := io.ReadFull(br, handler); err != nil {
		return nil, pdfcrack.NewStateError("malformed filter name", err)
	}
	e.SHandler = string(handler)
	if e.SHandler != "Standard" {
		return nil, pdfcrack.NewStateError("unsupported security handler "+e.SHandler, nil)
	}

	strLen := 32
	if e.Revision == 5 {
		strLen = 48
	}

	if err := consumeLiteral(br, "\nO:"); err != nil {
		return nil, pdfcrack.NewStateError("malformed O-string header", err)
	}
	oString, err := readInts(br, strLen)
	if err != nil {
		return nil, pdfcrack.NewStateError("malformed O-string", err)
	}
	e.OString = oString

	if err := consumeLiteral(br, "\nU:"); err != nil {
		return nil, pdfcrack.NewStateError("malformed U-string header", err)
	}
	uString, err := readInts(br, strLen)
	if err != nil {
		return nil, pdfcrack.NewStateError("malformed U-string", err)
	}
	e.UString = uString

	var userInt, userPwInt, permInt int
	if _, err := fmt.Fscanf(br, "\nUser: %d\nUserPw: %d\nPermutate: %d\n",
		&userInt, &userPwInt, &permInt); err != nil {
		return nil, pdfcrack.NewStateError("malformed search flags", err)
	}

	st := &State{
		Enc:          e,
		WorkWithUser: userInt != 0,
		Permutate:    permInt != 0,
	}

	if userPwInt != 0 {
		pw, err := readInts(br, 32)
		if err != nil {
			return nil, pdfcrack.NewStateError("malformed known user password", err)
		}
		if _, err := br.ReadByte(); err != nil && err != io.EOF { // trailing '\n'
			return nil, pdfcrack.NewStateError("malformed known user password", err)
		}
		st.KnownUserPassword = pw
	}

	footer, err := io.ReadAll(br)
	if err != nil {
		return nil, pdfcrack.NewStateError("malformed source footer", err)
	}
	st.SourceKind, st.SourceState = sniffSourceKind(footer)

	return st, nil
}

func readInts(br *bufio.Reader, n int) ([]byte, error) {
	out := make([]byte, n)
	for i := range out {
		var v int
		if _, err := fmt.Fscanf(br, " %d", &v); err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

func consumeLiteral(br *bufio.Reader, lit string) error {
	buf := make([]byte, len(lit))
	if _, err := io.ReadFull(br, buf); err != nil {
		return err
	}
	if string(buf) != lit {
		return fmt.Errorf("statestore: expected %q, got %q", lit, buf)
	}
	return nil
}

func sniffSourceKind(footer []byte) (SourceKind, []byte) {
	trimmed := bytes.TrimLeft(footer, "\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte("Pattern:")):
		return KindPattern, trimmed
	case bytes.HasPrefix(trimmed, []byte("Charset(")):
		return KindIncremental, trimmed
	case bytes.HasPrefix(trimmed, []byte("WordlistLine:")):
		return KindWordlist, trimmed
	default:
		return KindUnknown, trimmed
	}
}
