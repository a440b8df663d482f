/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Command pdfcrack recovers a missing user or owner password from an
// encrypted PDF's Standard Security Handler.
//
// Usage:
//
//	pdfcrack wordlist FILE.pdf WORDLIST.txt
//	pdfcrack incremental FILE.pdf --charset abc --min 1 --max 4
//	pdfcrack pattern FILE.pdf "[:upper:]{1,1}[:lower:]{5,5}[:digit:]{2,2}"
//	pdfcrack resume STATE.txt --wordlist WORDLIST.txt
//
// Use "pdfcrack [command] --help" for flags specific to each source.
package main

import (
	"os"

	"github.com/Dellle/pdfcrack-mp/cmd/pdfcrack/commands"
)

func main() {
	os.Exit(commands.Execute())
}
