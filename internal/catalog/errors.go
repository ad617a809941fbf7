package catalog

import (
	"errors"
	"fmt"

	"go.klb.dev/nowplaying/internal/message"
)

// ErrNotFound is returned when the catalog has no such track. It is a normal
// outcome, not a failure.
var ErrNotFound = errors.New("track not found")

// APIError is a logical error returned by a reachable catalog service.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog returned an error: (%d) %s", e.Code, e.Message)
}

// TransportError wraps network failures: DNS, refused connections,
// timeouts and cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("an error occurred trying to send the request: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Classify maps a LookupTrack error to a result kind. A nil error is Found.
// Anything unrecognised is reported as a transport error. Validation errors
// are handled before a lookup and never reach Classify.
func Classify(err error) message.Kind {
	var apiErr *APIError
	switch {
	case err == nil:
		return message.KindFound
	case errors.Is(err, ErrNotFound):
		return message.KindNotFound
	case errors.As(err, &apiErr):
		return message.KindAPIError
	default:
		return message.KindTransportError
	}
}
