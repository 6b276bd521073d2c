package lookup

import "fmt"

// Kind classifies a failed lookup.
type Kind int

// Failure kinds.
const (
	KindTimeout Kind = iota + 1
	KindNetwork
	KindHTTP
	KindUnexpected
)

// String returns the metric/log label for the kind.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Failure describes why a lookup produced no payload.
type Failure struct {
	Kind       Kind
	StatusCode int // set for KindHTTP only
	Message    string
}

func (f *Failure) Error() string {
	if f.Kind == KindHTTP {
		return fmt.Sprintf("lookup %s error (status=%d): %s", f.Kind, f.StatusCode, f.Message)
	}
	return fmt.Sprintf("lookup %s error: %s", f.Kind, f.Message)
}

// Result is either a payload (possibly nil, meaning "nothing found") or a Failure.
// The zero Result is a success with no payload.
type Result struct {
	payload Payload
	failure *Failure
}

// Success wraps a payload. A nil payload means the provider returned nothing.
func Success(p Payload) Result {
	return Result{payload: p}
}

// Fail wraps a failure.
func Fail(f *Failure) Result {
	return Result{failure: f}
}

// Payload returns the payload and true when the lookup succeeded.
func (r Result) Payload() (Payload, bool) {
	if r.failure != nil {
		return nil, false
	}
	return r.payload, true
}

// Failure returns the failure and true when the lookup failed.
func (r Result) Failure() (*Failure, bool) {
	return r.failure, r.failure != nil
}

// Outcome is the metric label for the result: "success", "empty" or the failure kind.
func (r Result) Outcome() string {
	if r.failure != nil {
		return r.failure.Kind.String()
	}
	if r.payload == nil || r.payload.Empty() {
		return "empty"
	}
	return "success"
}
