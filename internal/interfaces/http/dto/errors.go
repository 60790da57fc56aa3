package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
)

// Authentication and authorization error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Domain error codes appear here directly; anything unknown falls
// back to 500 so a missing mapping fails loudly in monitoring.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:  http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,
	"INVALID_INPUT":  http.StatusBadRequest,
	"INVALID_STATE":  http.StatusUnprocessableEntity,

	// Identity
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"EMAIL_TAKEN":         http.StatusConflict,
	"ACCOUNT_SUSPENDED":   http.StatusForbidden,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_NAME":        http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"INVALID_ROLE":        http.StatusBadRequest,
	"INVALID_PLAN":        http.StatusBadRequest,
	"INVALID_INVITE":      http.StatusUnprocessableEntity,
	"LAST_ADMIN":          http.StatusUnprocessableEntity,

	// Workspace context: the client must select a workspace and retry;
	// 428 tells it apart from a permissions failure.
	"WORKSPACE_REQUIRED": http.StatusPreconditionRequired,

	// Billing
	"LIMIT_REACHED":         http.StatusForbidden,
	"TRIAL_EXPIRED":         http.StatusForbidden,
	"INVALID_RESOURCE_TYPE": http.StatusBadRequest,
	"USER_NOT_FOUND":        http.StatusNotFound,

	// Affiliate
	"ALREADY_APPLIED":       http.StatusConflict,
	"CODE_TAKEN":            http.StatusConflict,
	"INVALID_CODE":          http.StatusBadRequest,
	"INVALID_REFERRAL_CODE": http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
