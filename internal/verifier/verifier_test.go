/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package verifier

import (
	"crypto/rc4"
	"encoding/binary"
	"testing"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/internal/crypto"
	"github.com/stretchr/testify/require"
)

// buildRev2Fixture constructs a self-consistent EncData for a chosen
// user/owner password pair by running the forward half of Algorithm
// 3.3/3.4 directly against the standard library's RC4, independent of
// the Verifier implementation under test.
func buildRev2Fixture(t *testing.T, userPw, ownerPw string) *pdfcrack.EncData {
	t.Helper()

	fileID := []byte("0123456789ABCDEF")
	perm := int32(-44)

	paddedUser := pdfcrack.PadCandidate([]byte(userPw))
	paddedOwner := pdfcrack.PadCandidate([]byte(ownerPw))

	ownerKeyFull := crypto.MD5(paddedOwner[:])
	ownerKey := ownerKeyFull[:5]
	oString := rc4XOR(t, ownerKey, paddedUser[:])

	buf := make([]byte, 0, 32+32+4+len(fileID))
	buf = append(buf, paddedUser[:]...)
	buf = append(buf, oString...)
	var permLE [4]byte
	binary.LittleEndian.PutUint32(permLE[:], uint32(perm))
	buf = append(buf, permLE[:]...)
	buf = append(buf, fileID...)
	userKeyFull := crypto.MD5(buf)
	userKey := userKeyFull[:5]
	uString := rc4XOR(t, userKey, pdfcrack.Pad[:])

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

func rc4XOR(t *testing.T, key, src []byte) []byte {
	t.Helper()
	c, err := rc4.NewCipher(key)
	require.NoError(t, err)
	out := make([]byte, len(src))
	c.XORKeyStream(out, src)
	return out
}

func iteratedRC4Forward(t *testing.T, key, data []byte) []byte {
	t.Helper()
	out := append([]byte(nil), data...)
	tmpkey := make([]byte, len(key))
	for i := 0; i < 20; i++ {
		for j := range key {
			tmpkey[j] = key[j] ^ byte(i)
		}
		out = rc4XOR(t, tmpkey, out)
	}
	return out
}

func buildRev3Fixture(t *testing.T, userPw, ownerPw string, keyBits int) *pdfcrack.EncData {
	t.Helper()

	fileID := []byte("FEDCBA9876543210")
	perm := int32(-3904)
	keyBytes := keyBits / 8

	paddedUser := pdfcrack.PadCandidate([]byte(userPw))
	paddedOwner := pdfcrack.PadCandidate([]byte(ownerPw))

	ownerMD5 := crypto.MD5(paddedOwner[:])
	ownerKey := crypto.MD5Sum50(ownerMD5[:], keyBytes)[:keyBytes]
	oString := iteratedRC4Forward(t, ownerKey, paddedUser[:])

	buf := make([]byte, 0, 32+32+4+len(fileID))
	buf = append(buf, paddedUser[:]...)
	buf = append(buf, oString...)
	var permLE [4]byte
	binary.LittleEndian.PutUint32(permLE[:], uint32(perm))
	buf = append(buf, permLE[:]...)
	buf = append(buf, fileID...)
	userMD5 := crypto.MD5(buf)
	userKey := crypto.MD5Sum50(userMD5[:], keyBytes)[:keyBytes]

	enc := &pdfcrack.EncData{
		Revision:        3,
		Permissions:     perm,
		Length:          keyBits,
		EncryptMetaData: true,
		FileID:          fileID,
		OString:         oString,
		SHandler:        "Standard",
	}
	rev3Key := pdfcrack.NewRev3TestKey(enc)
	u16 := iteratedRC4Forward(t, userKey, rev3Key[:])
	enc.UString = append(u16, make([]byte, 16)...)
	return enc
}

func TestIsUserPasswordRev2(t *testing.T) {
	enc := buildRev2Fixture(t, "test", "ownersecret")
	v, err := New(enc)
	require.NoError(t, err)

	ws := pdfcrack.NewEncKeyWorkspace(enc)
	require.True(t, v.IsUserPassword([]byte("test"), ws))
	require.False(t, v.IsUserPassword([]byte("wrong"), ws))
}

func TestIsOwnerPasswordRev2(t *testing.T) {
	enc := buildRev2Fixture(t, "test", "ownersecret")
	v, err := New(enc)
	require.NoError(t, err)

	ws := pdfcrack.NewEncKeyWorkspace(enc)
	ok, recovered := v.IsOwnerPassword([]byte("ownersecret"), ws, nil)
	require.True(t, ok)
	require.True(t, v.IsUserPassword(pdfcrack.StripPadding(recovered), pdfcrack.NewEncKeyWorkspace(enc)))

	ok, _ = v.IsOwnerPassword([]byte("wrong"), ws, nil)
	require.False(t, ok)
}

func TestIsUserPasswordRev3(t *testing.T) {
	enc := buildRev3Fixture(t, "Abc", "owner123", 128)
	v, err := New(enc)
	require.NoError(t, err)

	ws := pdfcrack.NewEncKeyWorkspace(enc)
	require.True(t, v.IsUserPassword([]byte("Abc"), ws))
	require.False(t, v.IsUserPassword([]byte("abc"), ws))
}

func TestIsOwnerPasswordRev3(t *testing.T) {
	enc := buildRev3Fixture(t, "Abc", "owner123", 128)
	v, err := New(enc)
	require.NoError(t, err)

	ws := pdfcrack.NewEncKeyWorkspace(enc)
	ok, recovered := v.IsOwnerPassword([]byte("owner123"), ws, nil)
	require.True(t, ok)
	require.Equal(t, pdfcrack.PadCandidate([]byte("Abc"))[:], recovered)
}

func TestIsUserPasswordRev5(t *testing.T) {
	pw := []byte("P@ssw0rd!")
	salt := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	digest := crypto.SHA256(append(append([]byte(nil), pw...), salt...))

	uString := append(append([]byte(nil), digest[:]...), salt...)
	uString = append(uString, make([]byte, 8)...)

	enc := &pdfcrack.EncData{
		Revision: 5,
		Length:   256,
		FileID:   []byte("id"),
		UString:  uString,
		OString:  make([]byte, 48),
		SHandler: "Standard",
	}
	v, err := New(enc)
	require.NoError(t, err)

	require.True(t, v.IsUserPassword(pw, nil))
	require.False(t, v.IsUserPassword([]byte("wrong password"), nil))
}

func TestIsOwnerPasswordRev5(t *testing.T) {
	ownerPw := []byte("OwnerPass1")
	oSalt := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	uFull := make([]byte, 48)
	copy(uFull[40:], []byte{1, 1, 1, 1, 1, 1, 1, 1})

	buf := append(append([]byte(nil), ownerPw...), oSalt...)
	buf = append(buf, uFull...)
	digest := crypto.SHA256(buf)

	oString := append(append([]byte(nil), digest[:]...), oSalt...)
	oString = append(oString, make([]byte, 8)...)

	enc := &pdfcrack.EncData{
		Revision: 5,
		Length:   256,
		FileID:   []byte("id"),
		OString:  oString,
		UString:  uFull,
		SHandler: "Standard",
	}
	v, err := New(enc)
	require.NoError(t, err)

	ok, recovered := v.IsOwnerPassword(ownerPw, nil, nil)
	require.True(t, ok)
	require.Equal(t, ownerPw, recovered)
}
