// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// Organization-related errors
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrOrganizationSuspended = errors.New("organization is suspended")
	ErrInvalidPlan           = errors.New("invalid plan")
	ErrEmployeeLimitReached  = errors.New("employee limit reached for current plan")
	ErrStorageLimitReached   = errors.New("storage limit reached for current plan")
	ErrFeatureNotAvailable   = errors.New("feature not available on current plan")
	ErrInvalidWorkDay        = errors.New("work days must be between 1 (Monday) and 7 (Sunday)")

	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is not active")

	// Invitation-related errors
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrInvitationExpired    = errors.New("invitation has expired")
	ErrInvitationInvalid    = errors.New("invitation is no longer valid")
	ErrDuplicateInvitation  = errors.New("an active invitation already exists for this email")
	ErrInvitationNotPending = errors.New("invitation is not pending")

	// Attendance-related errors
	ErrAlreadyClockedIn  = errors.New("already clocked in for today")
	ErrAlreadyClockedOut = errors.New("already clocked out for today")
	ErrNotClockedIn      = errors.New("not clocked in")
	ErrNotWorkDay        = errors.New("not a working day")

	// Department-related errors
	ErrDepartmentNotFound = errors.New("department not found")

	// Task-related errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrInvalidTransition = errors.New("invalid status transition")

	// Meeting-related errors
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrMeetingEndsTooSoon = errors.New("meeting must end after it starts")

	// Leave-related errors
	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrLeaveNotPending  = errors.New("leave request is not pending")
	ErrInvalidLeaveSpan = errors.New("leave must end on or after its start date")
)
