/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdfcrack

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigError reports an unsupported revision, bad key length, malformed
// pattern, or a wordlist that could not be opened. Initialization aborts
// before any worker is spawned.
type ConfigError struct {
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("pdfcrack: config error: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("pdfcrack: config error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.cause }

// NewConfigError wraps cause (which may be nil) as a *ConfigError with a
// stack trace captured at the call site.
func NewConfigError(reason string, cause error) error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &ConfigError{Reason: reason, cause: cause}
}

// StateError reports a corrupt or incompatible resume-state file. Load
// aborts with no side effects.
type StateError struct {
	Reason string
	cause  error
}

func (e *StateError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("pdfcrack: state error: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("pdfcrack: state error: %s", e.Reason)
}

func (e *StateError) Unwrap() error { return e.cause }

// NewStateError wraps cause (which may be nil) as a *StateError with a
// stack trace captured at the call site.
func NewStateError(reason string, cause error) error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &StateError{Reason: reason, cause: cause}
}

// CryptoInitError reports that RC4 key-size setup failed during
// initialization. Fatal: the driver never starts.
type CryptoInitError struct {
	Reason string
	cause  error
}

func (e *CryptoInitError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("pdfcrack: crypto init error: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("pdfcrack: crypto init error: %s", e.Reason)
}

func (e *CryptoInitError) Unwrap() error { return e.cause }

// NewCryptoInitError wraps cause (which may be nil) as a *CryptoInitError
// with a stack trace captured at the call site.
func NewCryptoInitError(reason string, cause error) error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &CryptoInitError{Reason: reason, cause: cause}
}

// ErrNotFound reports that the search space was exhausted without a
// match. It is informational, not a failure: the driver ran to
// completion correctly.
var ErrNotFound = errors.New("pdfcrack: password not found: search space exhausted")
