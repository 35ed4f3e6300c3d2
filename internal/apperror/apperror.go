// Package apperror defines the error taxonomy shared by the workflow engine and its callers.
//
// Every error carries a Kind (validation, conflict, not_found, store) and a stable Code.
// errors.Is matches on Code, so sentinel values keep working after context has been added.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the coarse error category a caller maps to a user-facing outcome.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindStore      Kind = "store"
)

// Code is a machine-readable error code.
type Code string

const (
	// Validation codes
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeForbiddenRole      Code = "FORBIDDEN_ROLE"
	CodeEmptyFeedback      Code = "EMPTY_FEEDBACK"
	CodeUnansweredQuestion Code = "UNANSWERED_QUESTION"
	CodeInvalidAnswer      Code = "INVALID_ANSWER"

	// Conflict codes
	CodeDuplicateApplication       Code = "DUPLICATE_APPLICATION"
	CodeProjectUnavailable         Code = "PROJECT_UNAVAILABLE"
	CodeAlreadyDecided             Code = "ALREADY_DECIDED"
	CodeProjectAlreadyAssigned     Code = "PROJECT_ALREADY_ASSIGNED"
	CodeNotAssigned                Code = "NOT_ASSIGNED"
	CodeDuplicatePendingSubmission Code = "DUPLICATE_PENDING_SUBMISSION"
	CodeAlreadyReviewed            Code = "ALREADY_REVIEWED"
	CodeDuplicateEmail             Code = "DUPLICATE_EMAIL"
	CodeAttemptLimitReached        Code = "ATTEMPT_LIMIT_REACHED"
	CodeProjectNotCompletable      Code = "PROJECT_NOT_COMPLETABLE"

	// Lookup and persistence codes
	CodeNotFound     Code = "NOT_FOUND"
	CodeStoreFailure Code = "STORE_FAILURE"
)

var (
	ErrInvalidInput       = New(KindValidation, CodeInvalidInput, "invalid input")
	ErrForbiddenRole      = New(KindValidation, CodeForbiddenRole, "operation not permitted for role")
	ErrEmptyFeedback      = New(KindValidation, CodeEmptyFeedback, "feedback must not be empty")
	ErrUnansweredQuestion = New(KindValidation, CodeUnansweredQuestion, "every question must be answered")
	ErrInvalidAnswer      = New(KindValidation, CodeInvalidAnswer, "answers do not match the test")

	ErrDuplicateApplication       = New(KindConflict, CodeDuplicateApplication, "an open application already exists for this student and project")
	ErrProjectUnavailable         = New(KindConflict, CodeProjectUnavailable, "project is not available")
	ErrAlreadyDecided             = New(KindConflict, CodeAlreadyDecided, "application has already been decided")
	ErrProjectAlreadyAssigned     = New(KindConflict, CodeProjectAlreadyAssigned, "project is already assigned")
	ErrNotAssigned                = New(KindConflict, CodeNotAssigned, "no assignment exists")
	ErrDuplicatePendingSubmission = New(KindConflict, CodeDuplicatePendingSubmission, "a pending submission already exists for this student and project")
	ErrAlreadyReviewed            = New(KindConflict, CodeAlreadyReviewed, "submission has already been reviewed")
	ErrDuplicateEmail             = New(KindConflict, CodeDuplicateEmail, "email is already registered")
	ErrAttemptLimitReached        = New(KindConflict, CodeAttemptLimitReached, "test attempt limit reached")
	ErrProjectNotCompletable      = New(KindConflict, CodeProjectNotCompletable, "project cannot be completed")

	ErrNotFound = New(KindNotFound, CodeNotFound, "not found")
	ErrStore    = New(KindStore, CodeStoreFailure, "store failure")
)

// Error is the concrete error type returned by the engine.
type Error struct {
	Kind    Kind
	Code    Code
	Op      string
	Message string
	Err     error
}

// New builds an error of the given kind and code.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(strings.ToLower(string(e.Code)))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Withf returns a copy of e whose message is extended with the formatted detail.
func (e *Error) Withf(format string, args ...any) *Error {
	clone := *e
	clone.Message = e.Message + ": " + fmt.Sprintf(format, args...)
	return &clone
}

// Wrap returns a copy of e that carries cause.
func (e *Error) Wrap(cause error) *Error {
	clone := *e
	clone.Err = cause
	return &clone
}

// NotFound reports a missing entity.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", entity, id)}
}

// Invalid reports malformed caller input.
func Invalid(message string, cause error) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidInput, Message: message, Err: cause}
}

// Store reports a persistence failure. Store errors are never retried by the engine.
func Store(op string, cause error) *Error {
	return &Error{Kind: KindStore, Code: CodeStoreFailure, Op: op, Message: "store failure", Err: cause}
}

// WithOp adds request context to err without changing its kind or code.
func WithOp(err error, op string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	clone := *appErr
	if clone.Op == "" {
		clone.Op = op
	} else if !strings.HasPrefix(clone.Op, op) {
		clone.Op = op + ": " + clone.Op
	}
	return &clone
}

// KindOf returns the taxonomy member of err. Unclassified errors count as store failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// CodeOf returns the code of err, or CodeStoreFailure for unclassified errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStoreFailure
}
