package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ErrClosed is returned by operations on a script whose state has been
// released.
var ErrClosed = errors.New("script closed")

// SyntaxError reports that a chunk failed to parse. It is returned by New,
// Compile, Exec and Eval; a script that fails to parse never runs.
type SyntaxError struct {
	Script string
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Script, e.Msg)
}

// RuntimeError reports a failure inside a running chunk: an undefined
// function, a callback that returned or raised an error, a marshaling
// mismatch, or a failing require.
type RuntimeError struct {
	Script string
	Msg    string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Script, e.Msg)
}

// wrapError converts an interpreter error into the script error taxonomy.
// Load failures become SyntaxError, everything else RuntimeError.
func (s *Script) wrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return &RuntimeError{Script: s.name, Msg: err.Error()}
	}
	msg := apiErr.Object.String()
	if apiErr.Type == lua.ApiErrorSyntax {
		return &SyntaxError{Script: s.name, Msg: msg}
	}
	return &RuntimeError{Script: s.name, Msg: msg}
}
