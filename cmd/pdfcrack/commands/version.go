/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package commands

import (
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Dellle/pdfcrack-mp/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the engine version, release date, and a fresh run identifier.`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("pdfcrack-mp %s\n", common.Version)
		fmt.Printf("  Released:   %s\n", common.ReleasedAt.Format("2006-01-02"))
		fmt.Printf("  Go:         %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Printf("  Run ID:     %s\n", uuid.New())
	},
}
