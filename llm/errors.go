package llm

import "errors"

// Every error leaving a request attempt is wrapped as transient or fatal so
// the retry loop never has to guess: transient failures are retried and fall
// through to the next endpoint, fatal ones abort the whole chain.

// TransientError wraps a failure worth retrying: network errors, rate
// limits, server-side 5xx responses.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// FatalError wraps a failure no retry can recover: malformed requests, auth
// problems, unknown providers.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// NewTransientError marks err as retryable.
func NewTransientError(err error) error {
	return &TransientError{Err: err}
}

// NewFatalError marks err as non-retryable.
func NewFatalError(err error) error {
	return &FatalError{Err: err}
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsFatal reports whether err is (or wraps) a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
