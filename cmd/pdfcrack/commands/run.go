/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package commands

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/common"
	"github.com/Dellle/pdfcrack-mp/internal/search"
	"github.com/Dellle/pdfcrack-mp/internal/source"
	"github.com/Dellle/pdfcrack-mp/internal/statestore"
	"github.com/Dellle/pdfcrack-mp/pdfmeta"
)

// bytesReader wraps a state footer for source.Source.Load calls.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// newSearchContextWithFlags builds a SearchContext from enc using the
// globally parsed CLI flags, for callers (such as resume) that don't
// also need the --known-user-password prompt runSearch performs.
func newSearchContextWithFlags(enc *pdfcrack.EncData) (*search.SearchContext, error) {
	return search.NewSearchContext(enc, numThreads, permutate, quiet, progressFunc)
}

// loadEncData opens pdfPath and extracts its encryption dictionary,
// setting up the console logger at the level the --verbose flag chose.
func loadEncData(pdfPath string) (*pdfcrack.EncData, error) {
	common.SetLogger(common.NewConsoleLogger(common.LogLevel(verboseLevel)))
	return pdfmeta.FromFile(pdfPath)
}

// promptKnownUserPassword reads a password from the controlling terminal
// without echoing it, for --known-user-password.
func promptKnownUserPassword() ([]byte, error) {
	fmt.Print("known user password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, pdfcrack.NewConfigError("read known user password", err)
	}
	return pw, nil
}

// runSearch wires enc, the chosen src and the global CLI flags into a
// SearchContext, installs a SIGINT handler that cooperatively cancels
// the run and — for sequential sources, when --save was given — writes
// a resumable state file, then drives the search to completion and
// reports the Outcome.
func runSearch(enc *pdfcrack.EncData, src source.Source) int {
	var knownUserPw []byte
	if promptKnown {
		pw, err := promptKnownUserPassword()
		if err != nil {
			fmt.Println(err)
			return pdfcrack.Outcome{Status: pdfcrack.StatusError}.ExitCode()
		}
		padded := pdfcrack.PadCandidate(pw)
		knownUserPw = padded[:]
	}

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

func progressFunc(processed, total uint64, haveTotal bool) {
	if haveTotal {
		fmt.Printf("\r%d/%d candidates tested", processed, total)
		return
	}
	fmt.Printf("\r%d candidates tested", processed)
}

func reportOutcome(o pdfcrack.Outcome) {
	switch o.Status {
	case pdfcrack.StatusFound:
		fmt.Printf("\n%s password found: %q\n", o.Which, string(o.Password))
	case pdfcrack.StatusExhausted:
		fmt.Println("\nsearch space exhausted, password not found")
	case pdfcrack.StatusCancelled:
		fmt.Println("\nsearch cancelled")
	case pdfcrack.StatusError:
		fmt.Printf("\nerror: %v\n", o.Err)
	}
}

// installInterruptHandler cancels ctx on SIGINT and, if savePath is set,
// checkpoints enc/src to it. Returns a function that stops listening.
func installInterruptHandler(ctx *search.SearchContext, enc *pdfcrack.EncData, src source.Source) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			ctx.Cancel()
			if savePath != "" {
				if err := saveState(enc, src); err != nil {
					fmt.Printf("\nfailed to save state: %v\n", err)
				} else {
					fmt.Printf("\nstate saved to %s\n", savePath)
				}
			}
		case <-done:
		}
	}()

	return func() {
		close(done)
		signal.Stop(sigCh)
	}
}

func saveState(enc *pdfcrack.EncData, src source.Source) error {
	f, err := os.Create(savePath)
	if err != nil {
		return err
	}
	defer f.Close()

	st := &statestore.State{
		Enc:          enc,
		WorkWithUser: !searchOwner,
		Permutate:    permutate,
	}
	return statestore.Save(f, st, src)
}
