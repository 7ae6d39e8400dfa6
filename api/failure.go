// failure.go defines the error taxonomy for server interactions.
//
// Every error returned by Client is a *Failure so callers can
// switch on the kind without string matching. Precondition is
// produced by the UI layer for local guard violations; the client
// itself never emits it.
package api

import "fmt"

// FailureKind classifies how a request failed.
type FailureKind int

const (
	// FailTransport: network error, or a non-2xx status whose body
	// could not be decoded.
	FailTransport FailureKind = iota

	// FailDecode: the response body was not valid JSON for the
	// expected envelope.
	FailDecode

	// FailReported: the server answered with success=false and a
	// human-readable message.
	FailReported

	// FailPrecondition: a local guard failed; no request was made.
	FailPrecondition
)

// Failure is the single error type for all failed actions.
type Failure struct {
	Kind    FailureKind
	Message string // human-readable, safe to show to the user
	Details string // developer-facing detail (stack text, raw body), log only
	Err     error  // underlying cause, if any
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Transport wraps a network-level error.
func Transport(err error) *Failure {
	return &Failure{
		Kind:    FailTransport,
		Message: "Could not reach the server: " + err.Error(),
		Err:     err,
	}
}

// TransportStatus reports a non-2xx response with an undecodable body.
func TransportStatus(status int, body string) *Failure {
	return &Failure{
		Kind:    FailTransport,
		Message: fmt.Sprintf("Server returned HTTP %d", status),
		Details: body,
	}
}

// Decode reports an unparsable response body.
func Decode(raw string, err error) *Failure {
	return &Failure{
		Kind:    FailDecode,
		Message: "Failed to parse server response",
		Details: fmt.Sprintf("parse error: %v\nraw body: %s", err, raw),
		Err:     err,
	}
}

// Reported wraps a failure the server signalled in its payload.
func Reported(message, details string) *Failure {
	if message == "" {
		message = "The server reported an unspecified error"
	}
	return &Failure{
		Kind:    FailReported,
		Message: message,
		Details: details,
	}
}

// Precondition reports a local guard violation.
func Precondition(message string) *Failure {
	return &Failure{
		Kind:    FailPrecondition,
		Message: message,
	}
}

// AsFailure coerces an error into a *Failure. Errors from other
// sources become transport failures.
func AsFailure(err error) *Failure {
	if f, ok := err.(*Failure); ok {
		return f
	}
	return Transport(err)
}
