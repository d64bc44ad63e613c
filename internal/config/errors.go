package config

import "fmt"

// ConflictError reports two mutually exclusive options that were both set.
// The pair is reported in the order the validator checks them, regardless of
// the order the user supplied them in.
type ConflictError struct {
	A, B string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("--%s and --%s must not be given together", e.A, e.B)
}

// RemovedError reports an option that is no longer supported.
type RemovedError struct {
	Option string
	Hint   string
}

func (e *RemovedError) Error() string {
	msg := fmt.Sprintf("--%s is no longer supported", e.Option)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

// UsageError reports a malformed invocation that is not a flag conflict,
// such as a missing or superfluous input file.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}
