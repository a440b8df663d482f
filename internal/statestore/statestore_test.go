/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package statestore

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/internal/source"
)

func sampleEnc() *pdfcrack.EncData {
	return &pdfcrack.EncData{
		Revision:        3,
		Version:         2,
		VersionMajor:    1,
		VersionMinor:    6,
		Permissions:     -44,
		Length:          128,
		EncryptMetaData: true,
		FileID:          []byte("0123456789ABCDEF"),
		OString:         bytes.Repeat([]byte{0x11}, 32),
		UString:         bytes.Repeat([]byte{0x22}, 32),
		SHandler:        "Standard",
	}
}

func TestSaveLoad_PatternSourceRoundTrip(t *testing.T) {
	src, err := source.NewPattern("[:digit:]{1,3}")
	require.NoError(t, err)
	src.Next()
	src.Next()

	st := &State{Enc: sampleEnc(), WorkWithUser: true, Permutate: true}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, st, src))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(st.Enc, loaded.Enc); diff != "" {
		t.Errorf("EncData round-trip mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, loaded.WorkWithUser)
	assert.True(t, loaded.Permutate)
	assert.Nil(t, loaded.KnownUserPassword)
	assert.Equal(t, KindPattern, loaded.SourceKind)

	restored := &source.PatternSource{}
	require.NoError(t, restored.Load(bytes.NewReader(loaded.SourceState)))

	want, ok := src.Next()
	require.True(t, ok)
	got, ok := restored.Next()
	require.True(t, ok)
	assert.Equal(t, string(want), string(got))
}

func TestSaveLoad_IncrementalSourceRoundTrip(t *testing.T) {
	src, err := source.NewIncremental([]byte("xyz"), 1, 3)
	require.NoError(t, err)
	src.Next()
	src.Next()

	st := &State{Enc: sampleEnc(), WorkWithUser: false}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, st, src))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, KindIncremental, loaded.SourceKind)

	restored := &source.IncrementalSource{}
	require.NoError(t, restored.Load(bytes.NewReader(loaded.SourceState)))

	want, ok := src.Next()
	require.True(t, ok)
	got, ok := restored.Next()
	require.True(t, ok)
	assert.Equal(t, string(want), string(got))
}

func TestSaveLoad_WordlistSourceRoundTrip(t *testing.T) {
	data := "one\ntwo\nthree\n"
	src := source.NewWordlist(bytes.NewBufferString(data))
	src.Next()

	st := &State{Enc: sampleEnc(), WorkWithUser: true}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, st, src))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, KindWordlist, loaded.SourceKind)

	resumed := source.NewWordlist(bytes.NewBufferString(data))
	require.NoError(t, resumed.Load(bytes.NewReader(loaded.SourceState)))

	got, ok := resumed.Next()
	require.True(t, ok)
	assert.Equal(t, "two", string(got))
}

func TestSaveLoad_KnownUserPassword(t *testing.T) {
	known := make([]byte, 32)
	copy(known, []byte("secret"))

	enc := sampleEnc()
	st := &State{Enc: enc, WorkWithUser: false, KnownUserPassword: known}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, st, nil))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, known, loaded.KnownUserPassword)
	assert.Equal(t, KindUnknown, loaded.SourceKind)
}

func TestLoad_RejectsUnsupportedRevision(t *testing.T) {
	enc := sampleEnc()
	enc.Revision = 6
	st := &State{Enc: enc}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, st, nil))

	_, err := Load(&buf)
	require.Error(t, err)
}

func TestLoad_RejectsNonStandardHandler(t *testing.T) {
	enc := sampleEnc()
	enc.SHandler = "AESV3"
	st := &State{Enc: enc}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, st, nil))

	_, err := Load(&buf)
	require.Error(t, err)
}

func TestLoad_RejectsOversizedFileID(t *testing.T) {
	var buf bytes.Buffer
	_, err := buf.WriteString("PDF: 1.6\nR: 3\nV: 2\nP: -44\nL: 128\nMetaData: 1\nFileID(300):")
	require.NoError(t, err)

	_, err = Load(&buf)
	require.Error(t, err)
}
