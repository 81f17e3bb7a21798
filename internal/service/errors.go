package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes; anything else surfaces as an internal error.
var (
	ErrIDRequired = errors.New("id is required")
	ErrReaderNil  = errors.New("reader is nil")

	// ErrValidation wraps input problems; the wrapped message says which.
	ErrValidation = errors.New("invalid input")

	ErrNotFound         = errors.New("document not found")
	ErrNotEditable      = errors.New("document can only be edited while pending")
	ErrNotResubmittable = errors.New("only rejected documents can be resubmitted")
	ErrNotReviewable    = errors.New("document is not awaiting review")
	ErrFeedbackRequired = errors.New("feedback is required to reject")
	ErrInvalidVerdict   = errors.New("verdict must be approved or rejected")
	ErrForbidden        = errors.New("operation not allowed for this role")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name is already in use")

	ErrNotMentor          = errors.New("user is not a mentor")
	ErrNotStudent         = errors.New("user is not a student")
	ErrAssignmentExists   = errors.New("mentor is already assigned to this student")
	ErrAssignmentNotFound = errors.New("assignment not found")
)
