/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdfcrack

import (
	"bytes"
	"encoding/binary"

	icrypto "github.com/Dellle/pdfcrack-mp/internal/crypto"
)

// Candidate is a byte string of length 1..=32 drawn from ISO-Latin-1.
type Candidate []byte

// Pad is the fixed 32-byte padding string Algorithm 3.2 appends to a
// password shorter than 32 bytes, taken verbatim from PDF Reference
// v1.7 §7.6.3.3.
var Pad = [32]byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41,
	0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80,
	0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

// PadCandidate right-pads cand to 32 bytes using the leading bytes of
// Pad, as required before any revision-2/3 cryptographic step. If cand
// is already 32 bytes or longer, the first 32 bytes are returned
// unchanged.
func PadCandidate(cand []byte) [32]byte {
	var out [32]byte
	n := copy(out[:], cand)
	if n < 32 {
		copy(out[n:], Pad[:32-n])
	}
	return out
}

// EncData is the immutable encryption dictionary extracted from a PDF
// document, supplied by the external PDF parser this package consumes
// but does not implement.
type EncData struct {
	Revision        int
	Version         int
	VersionMajor    int
	VersionMinor    int
	Permissions     int32
	Length          int // key length in bits
	EncryptMetaData bool
	FileID          []byte
	OString         []byte // 32 bytes (rev 2/3) or 48 bytes (rev 5)
	UString         []byte // 32 bytes (rev 2/3) or 48 bytes (rev 5)
	SHandler        string // must be "Standard"
}

// FileIDLen returns len(FileID), kept as a method for parity with the
// explicit file_id_len field the state-file format serializes.
func (e *EncData) FileIDLen() int { return len(e.FileID) }

// Validate reports a *ConfigError if e cannot be handled by this
// package: an unsupported revision, an oversized file identifier, or a
// security handler other than "Standard".
func (e *EncData) Validate() error {
	switch e.Revision {
	case 2, 3, 5:
	default:
		return NewConfigError("unsupported revision", nil)
	}
	if len(e.FileID) > 256 {
		return NewConfigError("file identifier too long", nil)
	}
	if e.SHandler != "Standard" {
		return NewConfigError("unsupported security handler "+e.SHandler, nil)
	}
	return nil
}

// EncKeyWorkspace is the mutable scratch buffer revisions 2 and 3 build
// the RC4 encryption key from. Its layout is fixed at construction and
// never changes except in the first 32 bytes (the candidate slot)
// during per-candidate testing.
type EncKeyWorkspace struct {
	buf    []byte
	ekwlen int
}

// NewEncKeyWorkspace lays out a workspace for enc: bytes [0,32) reserved
// for the padded candidate, [32,64) the owner string, [64,68) the
// little-endian permissions, [68, 68+len(FileID)) the file id, and (for
// revision >= 3 with metadata encryption disabled) four trailing 0xFF
// bytes.
func NewEncKeyWorkspace(enc *EncData) *EncKeyWorkspace {
	n := 68 + len(enc.FileID)
	trailer := enc.Revision >= 3 && !enc.EncryptMetaData
	if trailer {
		n += 4
	}
	buf := make([]byte, n)
	copy(buf[32:64], enc.OString)
	binary.LittleEndian.PutUint32(buf[64:68], uint32(enc.Permissions))
	copy(buf[68:], enc.FileID)
	if trailer {
		off := 68 + len(enc.FileID)
		buf[off], buf[off+1], buf[off+2], buf[off+3] = 0xFF, 0xFF, 0xFF, 0xFF
	}
	return &EncKeyWorkspace{buf: buf, ekwlen: n}
}

// Clone returns an independent copy of ws, suitable for handing to a
// worker thread that must mutate its own candidate slot without
// disturbing the canonical template.
func (ws *EncKeyWorkspace) Clone() *EncKeyWorkspace {
	buf := make([]byte, len(ws.buf))
	copy(buf, ws.buf)
	return &EncKeyWorkspace{buf: buf, ekwlen: ws.ekwlen}
}

// SetCandidate splices the 32-byte padded form of cand into the
// workspace's candidate slot.
func (ws *EncKeyWorkspace) SetCandidate(cand []byte) {
	padded := PadCandidate(cand)
	copy(ws.buf[0:32], padded[:])
}

// Len returns ekwlen, the total workspace length fed to md5 at key
// derivation.
func (ws *EncKeyWorkspace) Len() int { return ws.ekwlen }

// Bytes returns the full workspace buffer. Callers must not retain the
// slice past the next SetCandidate call.
func (ws *EncKeyWorkspace) Bytes() []byte { return ws.buf }

// Rev3TestKey is the 16-byte value derived once per document as
// md5(pad || file_id), used as the fixed target in revision-3
// user-password verification.
type Rev3TestKey [16]byte

// NewRev3TestKey computes the Rev3TestKey for enc.
func NewRev3TestKey(enc *EncData) Rev3TestKey {
	buf := make([]byte, 0, 32+len(enc.FileID))
	buf = append(buf, Pad[:]...)
	buf = append(buf, enc.FileID...)
	return Rev3TestKey(icrypto.MD5(buf))
}

// Which identifies whether a recovered password matched the user or
// owner predicate.
type Which int

const (
	// WhichUser marks a match against the user-password predicate.
	WhichUser Which = iota
	// WhichOwner marks a match against the owner-password predicate.
	WhichOwner
)

func (w Which) String() string {
	if w == WhichOwner {
		return "owner"
	}
	return "user"
}

// Outcome is the terminal result of a SearchDriver run.
type Outcome struct {
	Status   OutcomeStatus
	Password []byte
	Which    Which
	Err      error
}

// OutcomeStatus classifies an Outcome.
type OutcomeStatus int

const (
	// StatusFound means Password holds a verified match.
	StatusFound OutcomeStatus = iota
	// StatusExhausted means the search space was consumed with no match.
	StatusExhausted
	// StatusCancelled means the run was stopped cooperatively before
	// exhausting the search space.
	StatusCancelled
	// StatusError means initialization or I/O failed; Err holds the cause.
	StatusError
)

// ExitCode maps an Outcome to the CLI's documented exit codes: 0 when
// found, 1 when not found (exhausted or cancelled), 2 on error.
func (o Outcome) ExitCode() int {
	switch o.Status {
	case StatusFound:
		return 0
	case StatusError:
		return 2
	default:
		return 1
	}
}

// StripPadding searches recovered (a 32-byte candidate user pad
// recovered from an owner-password match) for the first index at which
// the remaining bytes equal the corresponding prefix of Pad, and
// returns the bytes before that index — the original, unpadded
// candidate the owner-password test started from.
func StripPadding(recovered []byte) []byte {
	for i := 0; i <= len(recovered); i++ {
		if bytes.Equal(recovered[i:], Pad[:len(recovered)-i]) {
			return recovered[:i]
		}
	}
	return recovered
}
