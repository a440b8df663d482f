/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package pdfmeta turns a PDF file on disk into the EncData this module's
// core operates on: something has to read a real cross-reference table
// and encryption dictionary, and pdfcpu is a parser built for exactly
// that.
package pdfmeta

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
)

// FromFile opens path with pdfcpu's relaxed validation mode (the
// document is presumed encrypted and therefore unparseable beyond its
// trailer and encryption dictionary) and extracts an EncData describing
// its Standard Security Handler.
//
// ErrNotEncrypted is returned when the document has no
// encryption dictionary at all — there is nothing to crack.
func FromFile(path string) (*pdfcrack.EncData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pdfcrack.NewConfigError(fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()
	return FromReadSeeker(f)
}

// ErrNotEncrypted is returned when a document has no encryption
// dictionary.
var ErrNotEncrypted = pdfcrack.NewConfigError("document is not encrypted", nil)

// readSeeker is the subset of *os.File that api.ReadContext requires;
// declared here only so FromReadSeeker's signature doesn't leak pdfcpu's
// own io aliasing.
type readSeeker interface {
	Read(p []byte) (n int, err error)
	Seek(offset int64, whence int) (int64, error)
}

// FromReadSeeker extracts an EncData from an already-open PDF stream.
func FromReadSeeker(rs readSeeker) (*pdfcrack.EncData, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, pdfcrack.NewConfigError("parse PDF structure", err)
	}

	if ctx.E == nil {
		return nil, ErrNotEncrypted
	}

	major, minor, err := splitVersion(ctx.HeaderVersion.String())
	if err != nil {
		return nil, pdfcrack.NewConfigError("parse PDF header version", err)
	}

	e := &pdfcrack.EncData{
		Revision:        ctx.E.R,
		Version:         ctx.E.V,
		VersionMajor:    major,
		VersionMinor:    minor,
		Permissions:     int32(ctx.E.P),
		Length:          ctx.E.L,
		EncryptMetaData: ctx.E.Emd,
		FileID:          append([]byte(nil), ctx.E.ID...),
		OString:         append([]byte(nil), ctx.E.O...),
		UString:         append([]byte(nil), ctx.E.U...),
		SHandler:        "Standard",
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// splitVersion parses a pdfcpu header version string ("1.6", "2.0")
// into its major/minor components; the state-file format stores these
// as separate integers rather than a version.Version.
func splitVersion(v string) (major, minor int, err error) {
	parts := strings.SplitN(v, ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("pdfmeta: malformed PDF version %q", v)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("pdfmeta: malformed PDF major version %q: %w", v, err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("pdfmeta: malformed PDF minor version %q: %w", v, err)
	}
	return major, minor, nil
}
