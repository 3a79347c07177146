package lctr

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind int

const (
	InvalidParameter ErrorKind = iota + 1
	UnsupportedFeature
	ResourceExhausted
	OffsetSearchExhausted
	ProcedureCollision
)

var errorKindStrings = map[ErrorKind]string{
	InvalidParameter:      "invalid parameter",
	UnsupportedFeature:    "unsupported feature",
	ResourceExhausted:     "resource exhausted",
	OffsetSearchExhausted: "offset search exhausted",
	ProcedureCollision:    "procedure collision",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// Status maps the kind onto the status code sent to the peer and the host.
func (k ErrorKind) Status() uint8 {
	switch k {
	case InvalidParameter:
		return StatusInvalidLLParameters
	case UnsupportedFeature:
		return StatusUnsupportedFeature
	case ResourceExhausted:
		return StatusLimitedResources
	case ProcedureCollision:
		return StatusLLProcedureCollision
	default:
		return StatusUnspecified
	}
}

// Error is the typed failure returned by admission and placement.
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.msg)
}

func (e *Error) Status() uint8 {
	return e.Kind.Status()
}

func newError(k ErrorKind, format string, args ...interface{}) error {
	return &Error{Kind: k, msg: fmt.Sprintf(format, args...)}
}

func invalidParam(format string, args ...interface{}) error {
	return newError(InvalidParameter, format, args...)
}

// KindOf returns the kind of a (possibly wrapped) *Error, or 0.
func KindOf(err error) ErrorKind {
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Kind
	}
	return 0
}

// StatusOf maps err onto a status code; unknown errors are unspecified.
func StatusOf(err error) uint8 {
	if err == nil {
		return StatusSuccess
	}
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Status()
	}
	return StatusUnspecified
}
