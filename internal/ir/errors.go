package ir

import "fmt"

// InvariantViolation is panicked, never returned, when code discovers that a
// structural invariant of the IR has been broken — a malformed block
// nesting, an out-of-range Variable, a parameter of the wrong concrete type
// for its Op. These conditions mean a bug upstream (a miswritten mutator, a
// builder that forgot to close a block), not a data condition any caller
// could sensibly recover from; sampling failures and external-input errors
// use comma-ok returns and wrapped errors instead (see internal/codec for
// the latter).
type InvariantViolation struct {
	Reason string
	Detail string
}

func (e InvariantViolation) Error() string {
	if e.Detail == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Require panics with an InvariantViolation if cond is false.
func Require(cond bool, reason string, detail string) {
	if !cond {
		panic(InvariantViolation{Reason: reason, Detail: detail})
	}
}
