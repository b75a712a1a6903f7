package store

import "fmt"

// Event is a structured error event reported through an asynchronous
// operation's completion callback. It identifies the failed operation and
// its subject and carries a human-readable diagnostic.
type Event struct {
	// Op is the operation that failed: "open", "close", "loadDF", "saveDF".
	Op string
	// Series is the series the operation addressed, 0 for document
	// operations.
	Series uint32
	// Name is the series path or document name, when known.
	Name string
	// Msg is the human-readable diagnostic.
	Msg string
}

// Errorf constructs an Event with a formatted diagnostic.
func Errorf(op string, series uint32, name, format string, args ...any) *Event {
	return &Event{
		Op:     op,
		Series: series,
		Name:   name,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface so an Event can be logged or
// wrapped like any other error.
func (e *Event) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("store %s %q: %s", e.Op, e.Name, e.Msg)
	}

	return fmt.Sprintf("store %s series %d: %s", e.Op, e.Series, e.Msg)
}

// Status tags the outcome of an asynchronous store operation.
type Status uint8

const (
	// StatusOK marks a successful operation, with or without a payload.
	StatusOK Status = iota
	// StatusNotFound marks "no data": the operation ran but its subject
	// does not exist. Reserved for genuine absence, never for faults.
	StatusNotFound
	// StatusError marks a failed operation; the Result carries an Event.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNotFound:
		return "NotFound"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Result is the three-way tagged outcome of an asynchronous operation:
// success, not-found, or a structured error event.
type Result struct {
	// Status tags the outcome.
	Status Status
	// Event carries the diagnostic when Status is StatusError, nil
	// otherwise.
	Event *Event
}

// OK constructs a success Result.
func OK() Result {
	return Result{Status: StatusOK}
}

// NotFound constructs a not-found Result.
func NotFound() Result {
	return Result{Status: StatusNotFound}
}

// Fail constructs an error Result carrying ev.
func Fail(ev *Event) Result {
	return Result{Status: StatusError, Event: ev}
}

// IsOK reports whether the operation succeeded.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// IsNotFound reports whether the operation found no data.
func (r Result) IsNotFound() bool {
	return r.Status == StatusNotFound
}

// IsError reports whether the operation failed.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// Err returns the Event as an error, or nil unless Status is StatusError.
func (r Result) Err() error {
	if r.Status != StatusError || r.Event == nil {
		return nil
	}

	return r.Event
}

// OpenResult is the typed success payload of Open: the tagged outcome plus
// the block index at which appends should resume.
type OpenResult struct {
	Result

	// BlockOffset is the index of the next block to append: 0 for a
	// brand-new series, the last persisted index plus one when resuming.
	// Meaningful only when Status is StatusOK.
	BlockOffset uint32
}

// OpenOK constructs a successful OpenResult with the given resume offset.
func OpenOK(blockOffset uint32) OpenResult {
	return OpenResult{Result: OK(), BlockOffset: blockOffset}
}

// OpenFail constructs a failed OpenResult carrying ev.
func OpenFail(ev *Event) OpenResult {
	return OpenResult{Result: Fail(ev)}
}

// OpenFn is the completion callback of Open. It is invoked exactly once,
// on the store's dispatcher goroutine, and must not block.
type OpenFn func(OpenResult)

// CompleteFn is the completion callback of Close, LoadDF and SaveDF. It is
// invoked exactly once, on the store's dispatcher goroutine, and must not
// block.
type CompleteFn func(Result)
