// Package workflow drives each feature's backend request through an explicit
// idle → pending → success/error state machine.
package workflow

// Status is the lifecycle position of a workflow.
type Status string

// Workflow statuses.
const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// GenericFailure is shown when a failure carries no message at all.
const GenericFailure = "Something went wrong"

// State is a workflow's observable state. Data is non-nil exactly when
// Status is success; Err is non-empty exactly when Status is error.
type State[T any] struct {
	Status Status
	Data   *T
	Err    string
}

// Idle returns the initial state.
func Idle[T any]() State[T] {
	return State[T]{Status: StatusIdle}
}

// Start returns the pending state. Any previous data or error is dropped.
func Start[T any]() State[T] {
	return State[T]{Status: StatusPending}
}

// Succeed returns the success state holding data.
func Succeed[T any](data T) State[T] {
	return State[T]{Status: StatusSuccess, Data: &data}
}

// Fail returns the error state. An empty message becomes GenericFailure.
func Fail[T any](message string) State[T] {
	if message == "" {
		message = GenericFailure
	}
	return State[T]{Status: StatusError, Err: message}
}

// Valid reports whether s satisfies the data/error invariants.
func (s State[T]) Valid() bool {
	switch s.Status {
	case StatusIdle, StatusPending:
		return s.Data == nil && s.Err == ""
	case StatusSuccess:
		return s.Data != nil && s.Err == ""
	case StatusError:
		return s.Data == nil && s.Err != ""
	default:
		return false
	}
}

// IsPending reports whether a request is in flight.
func (s State[T]) IsPending() bool { return s.Status == StatusPending }
