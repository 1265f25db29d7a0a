package main

import (
	"errors"
	"strings"

	"github.com/JonMunkholm/sheet2db/internal/core"
)

// Process exit codes.
const (
	exitFailure    = 1
	exitUsage      = 2
	exitValidation = 3 // the workbook cannot be imported as-is
	exitDatabase   = 4
	exitInternal   = 5
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeFor picks the exit code for an error returned by a command.
func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	switch code := core.MapError(err).Code; {
	case errors.Is(err, core.ErrInvariant):
		return exitInternal
	case core.IsInputError(err), strings.HasPrefix(code, "WB"):
		return exitValidation
	case strings.HasPrefix(code, "DB"):
		return exitDatabase
	default:
		return exitFailure
	}
}

// describeError renders err for the terminal: the coded user message, then
// the technical detail when it adds something.
func describeError(err error) string {
	if !core.IsUserFacing(err) {
		return err.Error()
	}
	out := core.FormatUserError(err)
	if detail := err.Error(); detail != core.MapError(err).Message {
		out += "\n  " + detail
	}
	return out
}
