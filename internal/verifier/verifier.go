/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package verifier implements the user- and owner-password predicates
// of the PDF 1.7 Standard Security Handler (Algorithms 3.2 through
// 3.11) for revisions 2, 3 and 5, grounded on the alg2/alg2a/alg2b/
// alg3Key/alg4/alg5/alg6/alg7/alg11/alg12/alg13 functions of
// unidoc-unipdf's pdf/core/crypt.go, re-expressed against this
// module's own EncData/EncKeyWorkspace rather than a PDF object graph.
package verifier

import (
	"bytes"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/internal/crypto"
)

// Verifier answers the user- and owner-password predicates for one
// document. It holds no mutable state beyond what its constructor
// computes once, so a single Verifier is shared read-only across
// worker goroutines; each caller supplies its own EncKeyWorkspace.
type Verifier struct {
	enc      *pdfcrack.EncData
	rev3Key  pdfcrack.Rev3TestKey
	keyBytes int // key length in bytes (L), set for revisions 3 and 5, used by revision 3
}

// New builds a Verifier for enc. It returns the *pdfcrack.ConfigError
// from enc.Validate for an unsupported document, and a
// *pdfcrack.CryptoInitError if enc declares a revision-3 or revision-5
// key length that is not a positive whole number of bytes.
func New(enc *pdfcrack.EncData) (*Verifier, error) {
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	v := &Verifier{enc: enc}
	if enc.Revision >= 3 {
		if enc.Length%8 != 0 || enc.Length <= 0 {
			return nil, pdfcrack.NewCryptoInitError("key length is not a whole number of bytes", nil)
		}
		v.keyBytes = enc.Length / 8
		v.rev3Key = pdfcrack.NewRev3TestKey(enc)
	}
	return v, nil
}

// IsUserPassword reports whether cand is the document's user password.
func (v *Verifier) IsUserPassword(cand []byte, ws *pdfcrack.EncKeyWorkspace) bool {
	switch v.enc.Revision {
	case 2:
		return v.isUserPasswordRev2(cand, ws)
	case 3:
		return v.isUserPasswordRev3(cand, ws)
	case 5:
		return v.isUserPasswordRev5(cand)
	default:
		return false
	}
}

// IsOwnerPassword reports whether cand is the document's owner
// password. When a match is found, recovered holds the padded user
// password derived from the owner side (32 bytes for revisions 2/3; the
// raw candidate bytes for revision 5, which needs no padding).
//
// knownUserPad, when non-nil, is an already-recovered padded user
// password; revisions 2/3 then compare the owner-derived candidate pad
// against it directly instead of re-running the full user-password
// predicate against u_string.
func (v *Verifier) IsOwnerPassword(cand []byte, ws *pdfcrack.EncKeyWorkspace, knownUserPad []byte) (ok bool, recovered []byte) {
	switch v.enc.Revision {
	case 2:
		return v.isOwnerPasswordRev2(cand, ws, knownUserPad)
	case 3:
		return v.isOwnerPasswordRev3(cand, ws, knownUserPad)
	case 5:
		return v.isOwnerPasswordRev5(cand)
	default:
		return false, nil
	}
}

// --- Revision 2 (40-bit RC4), Algorithm 3.4/3.5 --------------------------

func (v *Verifier) isUserPasswordRev2(cand []byte, ws *pdfcrack.EncKeyWorkspace) bool {
	ws.SetCandidate(cand)
	key := md5Key(ws.Bytes()[:ws.Len()], 5)
	return crypto.RC4Match40b(key, v.enc.UString, pdfcrack.Pad[:16])
}

func (v *Verifier) isOwnerPasswordRev2(cand []byte, ws *pdfcrack.EncKeyWorkspace, knownUserPad []byte) (bool, []byte) {
	ws.SetCandidate(cand)
	key := md5Key(ws.Bytes()[:32], 5)

	candidateUserPad := make([]byte, 32)
	if err := crypto.RC4Decrypt(key, v.enc.OString, 32, candidateUserPad); err != nil {
		return false, nil
	}

	if knownUserPad != nil {
		return bytes.Equal(candidateUserPad, knownUserPad), candidateUserPad
	}

	ws.SetCandidate(candidateUserPad)
	if v.isUserPasswordRev2(candidateUserPad, ws) {
		return true, candidateUserPad
	}
	return false, nil
}

// --- Revision 3 (128-bit RC4, iterated), Algorithm 3.6/3.7 ---------------

func (v *Verifier) isUserPasswordRev3(cand []byte, ws *pdfcrack.EncKeyWorkspace) bool {
	ws.SetCandidate(cand)
	key := md5Key50(ws.Bytes()[:ws.Len()], v.keyBytes)
	return rc4Rev3Reversed(key, v.enc.UString[:16], v.rev3Key)
}

func (v *Verifier) isOwnerPasswordRev3(cand []byte, ws *pdfcrack.EncKeyWorkspace, knownUserPad []byte) (bool, []byte) {
	ws.SetCandidate(cand)
	key := md5Key50(ws.Bytes()[:32], v.keyBytes)

	candidateUserPad := iteratedRC4Reverse(key, v.enc.OString[:32])

	if knownUserPad != nil {
		return bytes.Equal(candidateUserPad, knownUserPad), candidateUserPad
	}

	ws.SetCandidate(candidateUserPad)
	if v.isUserPasswordRev3(candidateUserPad, ws) {
		return true, candidateUserPad
	}
	return false, nil
}

// rc4Rev3Reversed runs the 20-round reversed-RC4 schedule of Algorithm
// 3.6 over the first 3 bytes of uString16 and compares against
// testKey[:3] before committing to the full 16-byte reversal, mirroring
// the original tool's partial-then-full optimization: the 3-byte
// reversal is cheap and rejects the overwhelming majority of wrong
// candidates without ever touching the remaining 13 bytes.
func rc4Rev3Reversed(key []byte, uString16 []byte, testKey pdfcrack.Rev3TestKey) bool {
	prefix := append([]byte(nil), uString16[:3]...)
	iteratedRC4ReverseInto(key, prefix)
	if !bytes.Equal(prefix, testKey[:3]) {
		return false
	}

	full := append([]byte(nil), uString16...)
	iteratedRC4ReverseInto(key, full)
	return bytes.Equal(full, testKey[:])
}

// iteratedRC4Reverse returns a fresh copy of data with the 20-round
// reversed-RC4 schedule applied.
func iteratedRC4Reverse(key []byte, data []byte) []byte {
	out := append([]byte(nil), data...)
	iteratedRC4ReverseInto(key, out)
	return out
}

// iteratedRC4ReverseInto applies, in place, the inverse of Algorithm
// 3.5's forward iteration: for i = 19 downto 0, XOR every byte of key
// with i and RC4-decrypt data under that derived key. RC4 being a pure
// keystream XOR, "decrypt" and "encrypt" are the same operation; running
// the 20 rounds from i=19 down to i=0 undoes a forward encryption that
// ran from i=0 up to i=19.
func iteratedRC4ReverseInto(key []byte, data []byte) {
	tmpkey := make([]byte, len(key))
	for i := 19; i >= 0; i-- {
		for j := range key {
			tmpkey[j] = key[j] ^ byte(i)
		}
		crypto.RC4Decrypt(tmpkey, data, len(data), data)
	}
}

// --- Revision 5 (SHA-256), Algorithm 2.A -----------------------------

func (v *Verifier) isUserPasswordRev5(cand []byte) bool {
	salt := v.enc.UString[32:40]
	buf := append(append([]byte(nil), cand...), salt...)
	digest := crypto.SHA256Fast(buf)
	return bytes.Equal(digest[:], v.enc.UString[:32])
}

func (v *Verifier) isOwnerPasswordRev5(cand []byte) (bool, []byte) {
	salt := v.enc.OString[32:40]
	buf := append(append([]byte(nil), cand...), salt...)
	buf = append(buf, v.enc.UString[:48]...)
	digest := crypto.SHA256(buf)
	if bytes.Equal(digest[:], v.enc.OString[:32]) {
		return true, append([]byte(nil), cand...)
	}
	return false, nil
}

// md5Key returns the first n bytes of md5(buf), Algorithm 3.2's
// revision-2 key derivation.
func md5Key(buf []byte, n int) []byte {
	sum := crypto.MD5(buf)
	return sum[:n]
}

// md5Key50 returns the first n bytes of md5_50(md5(buf), n), Algorithm
// 3.2's revision-3+ key derivation with the 50-round strengthening step.
func md5Key50(buf []byte, n int) []byte {
	sum := crypto.MD5(buf)
	return crypto.MD5Sum50(sum[:], n)[:n]
}
