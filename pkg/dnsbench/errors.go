package dnsbench

import (
	"errors"
	"fmt"
)

// ErrProbeFailed is returned by Benchmark.Probe when the nameserver did not answer the probe query.
var ErrProbeFailed = errors.New("nameserver or domain is not valid")

var errEmptyResponse = errors.New("empty response")

// FailureKind classifies why a single query failed.
type FailureKind int

const (
	// FailureSocketCreate means UDP socket could not be opened.
	FailureSocketCreate FailureKind = iota + 1
	// FailureInvalidAddress means nameserver is not IPv4 address.
	FailureInvalidAddress
	// FailureSend means query could not be written to the socket.
	FailureSend
	// FailureTimeout means no response arrived before the timeout.
	FailureTimeout
	// FailureReceive means response could not be read or was empty.
	FailureReceive
	// FailureNoAnswer means response carried no answer record although one was required.
	FailureNoAnswer
)

// FailureKinds lists all failure kinds in the order they can happen during a query.
var FailureKinds = []FailureKind{
	FailureSocketCreate,
	FailureInvalidAddress,
	FailureSend,
	FailureTimeout,
	FailureReceive,
	FailureNoAnswer,
}

func (k FailureKind) String() string {
	switch k {
	case FailureSocketCreate:
		return "socket-create-error"
	case FailureInvalidAddress:
		return "invalid-address"
	case FailureSend:
		return "send-error"
	case FailureTimeout:
		return "timeout"
	case FailureReceive:
		return "receive-error"
	case FailureNoAnswer:
		return "no-answer-in-response"
	default:
		return fmt.Sprintf("unknown-failure(%d)", int(k))
	}
}

// MarshalText allows failure kinds to be used as JSON object keys.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// QueryError is the error returned by Transport for a failed query.
type QueryError struct {
	Kind FailureKind
	Err  error
}

func (e *QueryError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// FailureKindOf returns failure kind of the query error, the second value is false
// when err does not wrap QueryError.
func FailureKindOf(err error) (FailureKind, bool) {
	var qerr *QueryError
	if errors.As(err, &qerr) {
		return qerr.Kind, true
	}
	return 0, false
}

// failureKind is FailureKindOf for errors returned by third party transports, which are
// treated as receive errors.
func failureKind(err error) FailureKind {
	if kind, ok := FailureKindOf(err); ok {
		return kind
	}
	return FailureReceive
}
