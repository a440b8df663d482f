/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package commands

import (
	"bytes"
	"io"
	"os"
	"testing"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/internal/statestore"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestReportOutcome_Found(t *testing.T) {
	out := captureStdout(t, func() {
		reportOutcome(pdfcrack.Outcome{
			Status:   pdfcrack.StatusFound,
			Which:    pdfcrack.WhichUser,
			Password: []byte("hunter2"),
		})
	})
	if !bytes.Contains([]byte(out), []byte(`"hunter2"`)) {
		t.Errorf("reportOutcome(found) = %q, want it to mention the recovered password", out)
	}
}

func TestReportOutcome_Exhausted(t *testing.T) {
	out := captureStdout(t, func() {
		reportOutcome(pdfcrack.Outcome{Status: pdfcrack.StatusExhausted})
	})
	if !bytes.Contains([]byte(out), []byte("exhausted")) {
		t.Errorf("reportOutcome(exhausted) = %q, want it to mention exhaustion", out)
	}
}

func TestRebuildSource_UnknownKindErrors(t *testing.T) {
	_, err := rebuildSource(&statestore.State{SourceKind: statestore.KindUnknown})
	if err == nil {
		t.Fatal("rebuildSource with KindUnknown: want error, got nil")
	}
}

func TestRebuildSource_WordlistRequiresFlag(t *testing.T) {
	oldPath := resumeWordlistPath
	resumeWordlistPath = ""
	defer func() { resumeWordlistPath = oldPath }()

	_, err := rebuildSource(&statestore.State{SourceKind: statestore.KindWordlist})
	if err == nil {
		t.Fatal("rebuildSource(wordlist) without --wordlist: want error, got nil")
	}
}

func TestRebuildSource_Pattern(t *testing.T) {
	var footer bytes.Buffer
	footer.WriteString("Pattern: [:digit:]{3,3}\nCursor: 5\n")

	src, err := rebuildSource(&statestore.State{
		SourceKind:  statestore.KindPattern,
		SourceState: footer.Bytes(),
	})
	if err != nil {
		t.Fatalf("rebuildSource(pattern): %v", err)
	}
	c, ok := src.Next()
	if !ok {
		t.Fatal("resumed pattern source exhausted immediately")
	}
	if string(c) != "005" {
		t.Errorf("resumed pattern source Next() = %q, want %q", c, "005")
	}
}
