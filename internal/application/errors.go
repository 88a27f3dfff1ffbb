package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrMemberNotFound is returned when no member record matches the submitted phone number.
	ErrMemberNotFound = errors.New("application: member not found")
	// ErrNoActiveCode is returned when no meeting code is stored or the stored code has expired.
	ErrNoActiveCode = errors.New("application: no active meeting code")
	// ErrInvalidCode is returned when the submitted code differs from the active meeting code.
	ErrInvalidCode = errors.New("application: invalid meeting code")
	// ErrInvalidCredentials is returned when the admin password does not verify.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned for admin tokens past their expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrRateLimited is returned when a client exceeds the admin login attempt budget.
	ErrRateLimited = errors.New("application: too many attempts")
	// ErrInvalidTransition is returned when a flow event is not allowed from the current step.
	ErrInvalidTransition = errors.New("application: invalid flow transition")
	// ErrInvalidFlowState is returned for a flow state token that fails verification or names an unknown step.
	ErrInvalidFlowState = errors.New("application: invalid flow state")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
