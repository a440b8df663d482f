/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/internal/source"
)

var patternCmd = &cobra.Command{
	Use:   "pattern FILE.pdf PATTERN",
	Short: "Search a password pattern like \"[:upper:]{1,1}[:lower:]{5,5}[:digit:]{2,2}\"",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		lastExitCode = runPattern(args[0], args[1])
		return nil
	},
}

func runPattern(pdfPath, pattern string) int {
	enc, err := loadEncData(pdfPath)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}

	src, err := source.NewPattern(pattern)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}

	return runSearch(enc, src)
}
