package domain

import "errors"

// Validation errors: caused by user input, surfaced verbatim on the
// submitting form without aborting the session.
var (
	ErrMissingFields    = errors.New("required fields are missing")
	ErrDuplicateSerial  = errors.New("an asset with this serial number already exists")
	ErrBadDateOrder     = errors.New("start date must be before the expected return date")
	ErrReturnInFuture   = errors.New("return date cannot be in the future")
	ErrMissingReason    = errors.New("a cancellation reason is required")
	ErrAssetUnavailable = errors.New("asset is not available for loan")
	ErrOpenLoanExists   = errors.New("asset has an open loan and cannot be deleted")
	ErrLoanNotActive    = errors.New("loan is not active")
)

// Lookup and auth errors.
var (
	ErrAssetNotFound      = errors.New("asset not found")
	ErrLoanNotFound       = errors.New("loan not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrForbidden          = errors.New("access forbidden")
)

var validationErrors = []error{
	ErrMissingFields,
	ErrDuplicateSerial,
	ErrBadDateOrder,
	ErrReturnInFuture,
	ErrMissingReason,
	ErrAssetUnavailable,
	ErrOpenLoanExists,
	ErrLoanNotActive,
}

// IsValidation reports whether err is a user-correctable input error rather
// than a persistence or authorization failure.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
