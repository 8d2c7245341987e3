package activityclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response is read for diagnostics.
const maxErrorBody = 4096

// TransportError is returned when no usable response was obtained: the
// request failed, the body could not be read, or it was not valid JSON.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError is returned when the backend answered but the answer
// indicates failure: a non-2xx status, or a document of the wrong shape.
type ApplicationError struct {
	StatusCode int
	// Detail is the backend's explanation, empty when none was given.
	Detail string
	Err    error
}

func (e *ApplicationError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("backend status %d: %v", e.StatusCode, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("backend status %d: %s", e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("backend status %d", e.StatusCode)
	}
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// newApplicationError builds an ApplicationError from a failed response,
// picking up the detail field when the body carries one.
func newApplicationError(resp *http.Response) *ApplicationError {
	appErr := &ApplicationError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return appErr
	}
	var body signupResponse
	if err := decodeJSON(bytes.NewReader(data), &body); err == nil {
		appErr.Detail = body.Detail
	}
	return appErr
}
