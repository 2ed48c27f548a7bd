package domain

import "net/http"

// StatusUnprocessable is a non-standard status code that existing
// voice-assistant integrations depend on for validation failures.
const StatusUnprocessable = 433

// RequestError is a caller fault that API surfaces translate into the
// shared error envelope.
type RequestError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Errors  []any  `json:"errors,omitempty"`
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

func BadRequest(code, message string) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func NotFound(code, message string) *RequestError {
	return &RequestError{Status: http.StatusNotFound, Code: code, Message: message}
}

func MethodNotAllowed(code, message string) *RequestError {
	return &RequestError{Status: http.StatusMethodNotAllowed, Code: code, Message: message}
}

func Unprocessable(code, message string, errs []any) *RequestError {
	return &RequestError{Status: StatusUnprocessable, Code: code, Message: message, Errors: errs}
}
