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

var (
	incCharset string
	incMin     int
	incMax     int
)

var incrementalCmd = &cobra.Command{
	Use:   "incremental FILE.pdf",
	Short: "Enumerate every string over a charset within a length range",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		lastExitCode = runIncremental(args[0])
		return nil
	},
}

func init() {
	incrementalCmd.Flags().StringVar(&incCharset, "charset", "abcdefghijklmnopqrstuvwxyz", "character set to draw candidates from")
	incrementalCmd.Flags().IntVar(&incMin, "min", 1, "minimum candidate length")
	incrementalCmd.Flags().IntVar(&incMax, "max", 4, "maximum candidate length")
}

func runIncremental(pdfPath string) int {
	enc, err := loadEncData(pdfPath)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}

	src, err := source.NewIncremental([]byte(incCharset), incMin, incMax)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}

	return runSearch(enc, src)
}
