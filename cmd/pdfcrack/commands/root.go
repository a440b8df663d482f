/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package commands implements the pdfcrack CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dellle/pdfcrack-mp/common"
)

var (
	// Global flags, shared by every password-source subcommand.
	numThreads   int
	searchOwner  bool
	promptKnown  bool
	permutate    bool
	quiet        bool
	savePath     string
	verboseLevel int

	// lastExitCode carries the Outcome-derived exit code out of whichever
	// RunE actually ran, since cobra itself only distinguishes
	// error/no-error.
	lastExitCode int
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "pdfcrack",
	Short: "Recover a missing password from an encrypted PDF",
	Long: `pdfcrack recovers a missing user or owner password protecting a
PDF document's Standard Security Handler (revisions 2, 3 and 5).

Examples:
  pdfcrack wordlist secret.pdf rockyou.txt
  pdfcrack incremental secret.pdf --charset abcdefghij --min 1 --max 6
  pdfcrack pattern secret.pdf "[:upper:]{1,1}[:lower:]{5,5}[:digit:]{2,2}"
  pdfcrack resume state.txt --wordlist rockyou.txt`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code: 0 on
// a recovered password, 1 when the search space was exhausted or
// cancelled, 2 on any initialization or I/O error, via
// pdfcrack.Outcome.ExitCode.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		return 2
	}
	return lastExitCode
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&numThreads, "threads", "t", 0, "worker goroutines for pattern search (0 = default)")
	rootCmd.PersistentFlags().BoolVar(&searchOwner, "owner", false, "recover the owner password instead of the user password")
	rootCmd.PersistentFlags().BoolVar(&promptKnown, "known-user-password", false, "prompt for an already-known user password to speed up an owner search")
	rootCmd.PersistentFlags().BoolVar(&permutate, "permutate", false, "also retry each candidate with its first letter uppercased")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress reporting")
	rootCmd.PersistentFlags().StringVar(&savePath, "save", "", "write a resumable state file here if the run is interrupted (wordlist/incremental only)")
	rootCmd.PersistentFlags().IntVarP(&verboseLevel, "verbose", "v", int(common.LogLevelWarning), "log verbosity, 0 (error) through 5 (trace)")

	rootCmd.AddCommand(wordlistCmd)
	rootCmd.AddCommand(incrementalCmd)
	rootCmd.AddCommand(patternCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(versionCmd)
}
