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
	"github.com/Dellle/pdfcrack-mp/common"
	"github.com/Dellle/pdfcrack-mp/internal/source"
	"github.com/Dellle/pdfcrack-mp/internal/statestore"
)

var resumeWordlistPath string

var resumeCmd = &cobra.Command{
	Use:   "resume STATE.txt",
	Short: "Continue a search from a state file written by an interrupted run",
	Long: `Continue a search from a state file.

The state file already carries everything a previous run knew about the
document, so only the state file itself is needed — except for a
wordlist search, which must be pointed back at its original wordlist
file with --wordlist so the cursor can be replayed forward to the saved
line.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		lastExitCode = runResume(args[0])
		return nil
	},
}

func init() {
	resumeCmd.Flags().StringVar(&resumeWordlistPath, "wordlist", "", "original wordlist path (required when resuming a wordlist search)")
}

func runResume(statePath string) int {
	common.SetLogger(common.NewConsoleLogger(common.LogLevel(verboseLevel)))

	f, err := os.Open(statePath)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}
	defer f.Close()

	st, err := statestore.Load(f)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}

	src, err := rebuildSource(st)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}

	searchOwner = !st.WorkWithUser
	permutate = st.Permutate

	return runResumedSearch(st.Enc, src, st.KnownUserPassword)
}

func rebuildSource(st *statestore.State) (source.Source, error) {
	switch st.SourceKind {
	case statestore.KindPattern:
		src := &source.PatternSource{}
		if err := src.Load(bytesReader(st.SourceState)); err != nil {
			return nil, err
		}
		return src, nil
	case statestore.KindIncremental:
		src := &source.IncrementalSource{}
		if err := src.Load(bytesReader(st.SourceState)); err != nil {
			return nil, err
		}
		return src, nil
	case statestore.KindWordlist:
		if resumeWordlistPath == "" {
			return nil, pdfcrack.NewStateError("resuming a wordlist search requires --wordlist", nil)
		}
		f, err := os.Open(resumeWordlistPath)
		if err != nil {
			return nil, err
		}
		src := source.NewWordlist(f)
		if err := src.Load(bytesReader(st.SourceState)); err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, pdfcrack.NewStateError("state file has no recognizable source footer", nil)
	}
}

// runResumedSearch is runSearch minus the --known-user-password prompt:
// a resumed owner search already carries its known password, if any,
// straight from the state file.
func runResumedSearch(enc *pdfcrack.EncData, src source.Source, knownUserPw []byte) int {
	ctx, err := newSearchContextWithFlags(enc)
	if err != nil {
		fmt.Println(err)
		return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
	}

	stop := installInterruptHandler(ctx, enc, src)
	defer stop()

	outcome := ctx.Run(src, !searchOwner, knownUserPw)
	reportOutcome(outcome)
	return outcome.ExitCode()
}
