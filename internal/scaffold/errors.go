package scaffold

import (
	"errors"
	"fmt"
)

// Code classifies a generation error.
type Code string

const (
	CodeTemplateNotFound     Code = "TEMPLATE_NOT_FOUND"
	CodeUnmappedFieldType    Code = "UNMAPPED_FIELD_TYPE"
	CodeAmbiguousImportBlock Code = "AMBIGUOUS_IMPORT_BLOCK"
	CodeAmbiguousAnchor      Code = "AMBIGUOUS_ANCHOR"
	CodeMarkerMissing        Code = "MARKER_MISSING"
	CodeIOFailure            Code = "IO_FAILURE"
	CodeLocked               Code = "LOCKED"
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"
)

// Error is a classified error raised while generating or merging an artifact.
type Error struct {
	Code Code   // classification
	Op   string // operation that failed, e.g. "merge_import"
	Msg  string
	Err  error // underlying error, may be nil
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error with a formatted message.
func NewError(code Code, op, format string, args ...any) error {
	return &Error{Code: code, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// WrapError classifies an underlying error.
func WrapError(code Code, op string, err error, format string, args ...any) error {
	return &Error{Code: code, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the code of the first classified error in the chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if err != nil && errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
