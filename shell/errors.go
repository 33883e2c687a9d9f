/* errors.go
 * Contains the command error taxonomy returned by the dispatcher
 */

package shell

import (
	"errors"
	"fmt"
)

// Sentinel kinds for CommandError. Match them with errors.Is
var (
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownCommand  = errors.New("unknown command")
)

// CommandError is a recoverable dispatch failure. The stack is never modified when one is returned.
type CommandError struct {
	Kind error  // one of the sentinels above
	Verb string // verb being dispatched, may be empty
	Msg  string
	Err  error // underlying collaborator error, if any
}

func (e *CommandError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Verb != "" {
		msg = fmt.Sprintf("%s: %s", e.Verb, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is reports whether target is this error's kind
func (e *CommandError) Is(target error) bool {
	return target == e.Kind
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// AsCommandError attempts to unwrap an error into a CommandError
func AsCommandError(err error) (*CommandError, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr, true
	}
	return nil, false
}

func missingArgument(verb, what string) error {
	return &CommandError{Kind: ErrMissingArgument, Verb: verb, Msg: fmt.Sprintf("missing %s", what)}
}

func invalidInput(verb, format string, args ...any) error {
	return &CommandError{Kind: ErrInvalidInput, Verb: verb, Msg: fmt.Sprintf(format, args...)}
}

func unknownCommand(verb, suggestion string) error {
	msg := "unknown command"
	if suggestion != "" {
		msg = fmt.Sprintf("unknown command, did you mean %q?", suggestion)
	}
	return &CommandError{Kind: ErrUnknownCommand, Verb: verb, Msg: msg}
}
