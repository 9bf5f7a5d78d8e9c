package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Failure taxonomy. Recognition and rasterization failures are contained at
// the page/item level; camera-access failure is terminal for its run only.
var (
	ErrRecognition    = errors.New("recognition failed")
	ErrRasterization  = errors.New("rasterization failed")
	ErrCameraAccess   = errors.New("camera access denied")
	ErrDictionaryLoad = errors.New("dictionary load failed")
	ErrBusy           = errors.New("a batch is already running")
	ErrInvalidInput   = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
