package lambdawrap

import "fmt"

// InvalidArgumentError reports a malformed constructor or Wrap
// argument. These are raised once, at setup time, and indicate a
// programming error rather than a runtime condition.
type InvalidArgumentError struct {
	// Name is the name of the offending parameter.
	Name string
	// Position is the zero-based position of the parameter in the
	// original call signature.
	Position int
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s at position %d", e.Name, e.Position)
}

const unhandledErrorPrefix = "[Error] Unhandled error executing lambda. Details: "

// UnhandledHandlerError is delivered to the invocation callback when
// the user handler panics. The message format is fixed because
// downstream consumers match on it.
type UnhandledHandlerError struct {
	// Cause is the recovered error when the handler failed with one.
	// Nil when the handler panicked with a non-error value.
	Cause error
	// Detail is the description of the failure. Either the cause
	// message or the string form of the recovered value.
	Detail string
}

func (e UnhandledHandlerError) Error() string {
	return unhandledErrorPrefix + e.Detail
}

func (e UnhandledHandlerError) Unwrap() error {
	return e.Cause
}

// failure is the tagged outcome of a recovered handler panic. The
// shape is decided exactly once, at the recover boundary, so the
// rest of the guard never inspects the recovered value again.
type failure struct {
	cause  error
	detail string
}

func recoveredFailure(r interface{}) failure {
	if err, ok := r.(error); ok {
		return failure{cause: err, detail: err.Error()}
	}
	return failure{detail: fmt.Sprint(r)}
}
