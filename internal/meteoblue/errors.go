package meteoblue

import "fmt"

// RetrievalError reports a failed round-trip to the provider: transport
// errors, timeouts, an open circuit, or a non-2xx status. Status is zero
// when no HTTP response was received.
type RetrievalError struct {
	Status int
	Err    error
}

func (e *RetrievalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("meteoblue: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("meteoblue: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// MalformedResponseError reports a payload that could not be parsed into
// the expected shape.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meteoblue: malformed response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("meteoblue: malformed response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
