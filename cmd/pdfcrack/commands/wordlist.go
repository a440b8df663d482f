/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/internal/source"
)

var wordlistCmd = &cobra.Command{
	Use:   "wordlist FILE.pdf WORDLIST.txt",
	Short: "Try each line of a wordlist as a candidate password",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		lastExitCode = runWordlist(args[0], args[1])
		return nil
	},
}

func runWordlist(pdfPath, wordlistPath string) int {
	enc, err := loadEncData(pdfPath)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}

	f, err := os.Open(wordlistPath)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}
	defer f.Close()

	return runSearch(enc, source.NewWordlist(f))
}
