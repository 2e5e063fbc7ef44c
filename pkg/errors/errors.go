package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrStudentNotFound     = errors.New("student not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrRequestNotFound     = errors.New("auth request not found")
	ErrRoundNotFound       = errors.New("round not found")

	ErrDeadlinePassed       = errors.New("deadline has passed")
	ErrDuplicateApplication = errors.New("already applied to this job")
	ErrRosterEmpty          = errors.New("roster matched no students")
	ErrTokenInvalid         = errors.New("job token invalid or expired")
	ErrRequestNotPending    = errors.New("auth request already handled")
	ErrMailAlreadySent      = errors.New("round mail already sent")
	ErrNotificationFailed   = errors.New("notification dispatch failed")
)

// ValidationError reports a single bad input field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

// EligibilityError carries the names of the criteria the student failed,
// so the client can show which thresholds were missed.
type EligibilityError struct {
	Failing []string
}

func (e EligibilityError) Error() string {
	return "not eligible for this job: " + strings.Join(e.Failing, ", ")
}

// IncompleteProfileError lists the documents missing from the student's
// profile. Kept distinct from EligibilityError so the client can route
// the student to profile completion instead of an eligibility message.
type IncompleteProfileError struct {
	Missing []string
}

func (e IncompleteProfileError) Error() string {
	return "profile incomplete, missing: " + strings.Join(e.Missing, ", ")
}

// RosterParseError aborts a round upload before anything is persisted.
type RosterParseError struct {
	Err error
}

func (e RosterParseError) Error() string {
	return "failed to parse roster: " + e.Err.Error()
}

func (e RosterParseError) Unwrap() error {
	return e.Err
}
