package domain

import "errors"

// Repository-level sentinels. Services translate these into the typed
// errors below or into null results, depending on the contract.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")
)

// ValidationError reports malformed or conflicting input. Recoverable by
// the caller correcting the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Extensions satisfies gqlerrors.ExtendedError so the API layer can attach
// a machine-readable code without inspecting the error type.
func (e *ValidationError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "VALIDATION_ERROR"}
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// AuthenticationError reports that an identity could not be established.
// Messages are login-attempt-specific, never field-specific, so a failed
// attempt cannot be used to enumerate accounts.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

func (e *AuthenticationError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "UNAUTHENTICATED"}
}

// NewAuthenticationError builds an AuthenticationError with the given message.
func NewAuthenticationError(msg string) *AuthenticationError {
	return &AuthenticationError{Message: msg}
}

// AuthorizationError reports that an identity was established (or required)
// but lacks the privilege for the operation.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func (e *AuthorizationError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "FORBIDDEN"}
}

// NewAuthorizationError builds an AuthorizationError with the given message.
func NewAuthorizationError(msg string) *AuthorizationError {
	return &AuthorizationError{Message: msg}
}

// Canonical messages shared between services and tests.
const (
	MsgNoUserFound      = "No user found with this login credentials."
	MsgInvalidPassword  = "Invalid password."
	MsgNotAuthenticated = "Not authenticated as user."
	MsgNotAdmin         = "Not authorized as admin."
	MsgNotOwner         = "Not authorized as owner or admin."
	MsgInvalidEmail     = "No valid email address provided."
	MsgUsernameTaken    = "Username is already taken."
	MsgEmailTaken       = "Email is already taken."
	MsgPasswordLength   = "Password must be between 7 and 42 characters."
	MsgEmptyMessage     = "Message text must not be empty."
	MsgTooManyAttempts  = "Too many sign-in attempts. Try again later."
)
