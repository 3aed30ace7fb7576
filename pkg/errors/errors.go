package errors

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	ERROR_CODE_PREFIX = "STOREFRONT-E2E"

	// Setup occurs when the browser session or page could not be acquired for a scenario
	ErrorSetup       ServiceErrorCode = 1
	ErrorSetupReason string           = "Failed to set up scenario"

	// Step occurs when a step's action or assertion failed
	ErrorStep       ServiceErrorCode = 2
	ErrorStepReason string           = "Step failed"

	// DiagnosticCapture occurs when the failure screenshot could not be captured or attached
	ErrorDiagnosticCapture       ServiceErrorCode = 3
	ErrorDiagnosticCaptureReason string           = "Failed to capture failure diagnostics"

	// Teardown occurs when the browser session could not be released
	ErrorTeardown       ServiceErrorCode = 4
	ErrorTeardownReason string           = "Failed to tear down scenario"

	// NotInitialized occurs when the scenario context is used before a successful setup
	ErrorNotInitialized       ServiceErrorCode = 5
	ErrorNotInitializedReason string           = "Scenario context is not initialized"

	// Timeout occurs when a hook exceeds its time budget
	ErrorTimeout       ServiceErrorCode = 6
	ErrorTimeoutReason string           = "Hook exceeded its timeout"

	// Validation occurs when configuration fails validation
	ErrorValidation       ServiceErrorCode = 8
	ErrorValidationReason string           = "General validation failure"

	// General occurs when an error fails to match any other error code
	ErrorGeneral       ServiceErrorCode = 9
	ErrorGeneralReason string           = "Unspecified error"

	// Preflight occurs when the storefront under test cannot be reached before the run
	ErrorPreflight       ServiceErrorCode = 10
	ErrorPreflightReason string           = "Storefront is not reachable"

	// UnknownPage occurs when a page object is requested for an unregistered page identifier
	ErrorUnknownPage       ServiceErrorCode = 11
	ErrorUnknownPageReason string           = "Unknown page identifier"
)

type ServiceErrorCode int

type ServiceErrors []ServiceError

// stackTracer is implemented by errors created or wrapped with github.com/pkg/errors
type stackTracer interface {
	StackTrace() errors.StackTrace
}

func Find(code ServiceErrorCode) (bool, *ServiceError) {
	for _, err := range Errors() {
		if err.Code == code {
			return true, &err
		}
	}
	return false, nil
}

// Errors lists every known error. Absorbed errors are logged at their origin and never surfaced
// to the step-execution engine.
func Errors() ServiceErrors {
	return ServiceErrors{
		ServiceError{ErrorSetup, ErrorSetupReason, false, nil},
		ServiceError{ErrorStep, ErrorStepReason, false, nil},
		ServiceError{ErrorDiagnosticCapture, ErrorDiagnosticCaptureReason, true, nil},
		ServiceError{ErrorTeardown, ErrorTeardownReason, true, nil},
		ServiceError{ErrorNotInitialized, ErrorNotInitializedReason, false, nil},
		ServiceError{ErrorTimeout, ErrorTimeoutReason, false, nil},
		ServiceError{ErrorValidation, ErrorValidationReason, false, nil},
		ServiceError{ErrorGeneral, ErrorGeneralReason, false, nil},
		ServiceError{ErrorPreflight, ErrorPreflightReason, false, nil},
		ServiceError{ErrorUnknownPage, ErrorUnknownPageReason, false, nil},
	}
}

func ToServiceError(err error) *ServiceError {
	var convertedErr *ServiceError
	if errors.As(err, &convertedErr) {
		return convertedErr
	}
	return NewWithCause(ErrorGeneral, err, err.Error())
}

type ServiceError struct {
	// Code is the numeric and distinct ID for the error
	Code ServiceErrorCode
	// Reason is the context-specific reason the error was generated
	Reason string
	// Absorbed errors are logged where they happen and never change a scenario's verdict
	Absorbed bool
	// cause is the underlying error, if any, with a stack trace attached
	cause error
}

// Reason can be a string with format verbs, which will be replace by the specified values
func New(code ServiceErrorCode, reason string, values ...interface{}) *ServiceError {
	return NewWithCause(code, nil, reason, values...)
}

// NewWithCause creates a ServiceError wrapping cause. A cause without a stack trace gets one.
func NewWithCause(code ServiceErrorCode, cause error, reason string, values ...interface{}) *ServiceError {
	// If the code isn't defined, use the general error code
	var err *ServiceError
	exists, err := Find(code)
	if !exists {
		glog.Errorf("Undefined error code used: %d", code)
		err = &ServiceError{ErrorGeneral, ErrorGeneralReason, false, nil}
	}

	// If the reason is unspecified, use the default
	if reason != "" {
		err.Reason = fmt.Sprintf(reason, values...)
	}

	if cause != nil {
		if _, ok := cause.(stackTracer); !ok {
			cause = errors.WithStack(cause)
		}
		err.cause = cause
	}

	return err
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", CodeStr(e.Code), e.Reason)
}

func (e *ServiceError) AsError() error {
	return fmt.Errorf("%s", e.Error())
}

// Unwrap returns the cause so errors.Is / errors.As reach the underlying failure.
func (e *ServiceError) Unwrap() error {
	return e.cause
}

// StackTrace returns the stack of the cause, when there is one.
func (e *ServiceError) StackTrace() errors.StackTrace {
	if st, ok := e.cause.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

func (e *ServiceError) IsSetup() bool {
	return e.Code == ErrorSetup
}

func (e *ServiceError) IsStep() bool {
	return e.Code == ErrorStep
}

func (e *ServiceError) IsDiagnosticCapture() bool {
	return e.Code == ErrorDiagnosticCapture
}

func (e *ServiceError) IsTeardown() bool {
	return e.Code == ErrorTeardown
}

func (e *ServiceError) IsNotInitialized() bool {
	return e.Code == ErrorNotInitialized
}

func (e *ServiceError) IsTimeout() bool {
	return e.Code == ErrorTimeout
}

func CodeStr(code ServiceErrorCode) string {
	return fmt.Sprintf("%s-%d", ERROR_CODE_PREFIX, code)
}

// HasCode reports whether err is, or wraps, a ServiceError with the given code.
func HasCode(err error, code ServiceErrorCode) bool {
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		return false
	}
	return serviceErr.Code == code
}

func Setup(cause error, reason string, values ...interface{}) *ServiceError {
	return NewWithCause(ErrorSetup, cause, reason, values...)
}

func Step(cause error, reason string, values ...interface{}) *ServiceError {
	return NewWithCause(ErrorStep, cause, reason, values...)
}

func DiagnosticCapture(cause error, reason string, values ...interface{}) *ServiceError {
	return NewWithCause(ErrorDiagnosticCapture, cause, reason, values...)
}

func Teardown(cause error, reason string, values ...interface{}) *ServiceError {
	return NewWithCause(ErrorTeardown, cause, reason, values...)
}

func NotInitialized(reason string, values ...interface{}) *ServiceError {
	return New(ErrorNotInitialized, reason, values...)
}

func Timeout(reason string, values ...interface{}) *ServiceError {
	return New(ErrorTimeout, reason, values...)
}

func Validation(reason string, values ...interface{}) *ServiceError {
	return New(ErrorValidation, reason, values...)
}

func GeneralError(reason string, values ...interface{}) *ServiceError {
	return New(ErrorGeneral, reason, values...)
}

func Preflight(cause error, reason string, values ...interface{}) *ServiceError {
	return NewWithCause(ErrorPreflight, cause, reason, values...)
}

func UnknownPage(reason string, values ...interface{}) *ServiceError {
	return New(ErrorUnknownPage, reason, values...)
}
