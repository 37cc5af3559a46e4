package todo

import (
	"errors"
	"fmt"
)

// ErrIO is matched by failures opening, reading, writing or flushing a list file.
var ErrIO = errors.New("i/o error")

// ErrFormat is matched when a list file holds values the decoder refuses.
var ErrFormat = errors.New("malformed list file")

// ErrIndex indicates the caller referenced an item index outside the list bounds.
var ErrIndex = errors.New("item index out of range")

// ErrCapacity is matched when the list cannot grow to hold another item.
var ErrCapacity = errors.New("list capacity exhausted")

// Error carries the kind of failure, the operation that raised it and a
// message suitable for showing to the user.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ioError(op, msg string, err error) *Error {
	return &Error{Kind: ErrIO, Op: op, Msg: msg, Err: err}
}

func formatError(op, msg string) *Error {
	return &Error{Kind: ErrFormat, Op: op, Msg: msg}
}

func indexError(op string, index, count int) *Error {
	return &Error{
		Kind: ErrIndex,
		Op:   op,
		Msg:  fmt.Sprintf("no item at index %d (list has %d)", index, count),
	}
}

// ResultStatus is the coarse outcome shown to the user.
type ResultStatus uint8

const (
	ResultOK ResultStatus = iota
	ResultError
)

func (s ResultStatus) String() string {
	if s == ResultOK {
		return "OK"
	}
	return "ERROR"
}

// Result is the status/message pair front ends surface after a mutation.
type Result struct {
	Status  ResultStatus
	Message string
}

// ResultOf folds err into a Result. okMsg is used when err is nil.
func ResultOf(err error, okMsg string) Result {
	if err == nil {
		return Result{Status: ResultOK, Message: okMsg}
	}
	var te *Error
	if errors.As(err, &te) {
		return Result{Status: ResultError, Message: te.Msg}
	}
	return Result{Status: ResultError, Message: err.Error()}
}
