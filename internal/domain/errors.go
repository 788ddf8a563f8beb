package domain

import (
	"errors"
	"fmt"
)

// Controller call rejections. These are returned to the caller instead of a
// SubmissionResult; the form is left untouched.
var (
	ErrBusy            = errors.New("a submission is already in progress")
	ErrNotEditing      = errors.New("form is not open for editing")
	ErrUnknownCategory = errors.New("unknown report category")
)

// ValidationError reports a required field left empty. It is detected
// locally and never reaches the network.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields are empty: %v", e.Fields)
}

// RequestError reports a transport failure or a non-2xx response.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ResponseParseError reports a card creation response without a usable id.
type ResponseParseError struct {
	Body string
	Err  error
}

func (e *ResponseParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse card response: %v", e.Err)
	}
	return "card response has no id"
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

// IsRequestError reports whether err is, or wraps, a RequestError.
func IsRequestError(err error) bool {
	var requestErr *RequestError
	return errors.As(err, &requestErr)
}

// IsResponseParseError reports whether err is, or wraps, a ResponseParseError.
func IsResponseParseError(err error) bool {
	var parseErr *ResponseParseError
	return errors.As(err, &parseErr)
}
