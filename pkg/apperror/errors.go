package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err is (or wraps) an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsBusiness reports whether err is a domain rejection rather than an
// infrastructure failure. Plain errors and SYS_* codes are not business errors.
func IsBusiness(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return !strings.HasPrefix(appErr.Code, "SYS_")
}

// Error codes referenced outside this package.
const (
	CodeInvalidAmount            = "PAY_002"
	CodeNotFound                 = "PAY_004"
	CodeRefundExceedsOriginal    = "PAY_007"
	CodeInvalidTransition        = "PAY_010"
	CodeMissingPayoutEligibility = "SETTLE_001"
	CodeMissingPaymentMethod     = "SETTLE_002"
	CodeTooLateToCancel          = "BOOK_001"
	CodeAlreadyCancelled         = "BOOK_002"
	CodeForceCancelRequired      = "BOOK_003"
	CodeAlreadyResolved          = "FIN_002"
	CodeInternal                 = "SYS_001"
)

// ---- Payments & Ledger (PAY) ----

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "Invalid amount", http.StatusBadRequest)
}

func ErrDuplicateTransaction() *AppError {
	return New("PAY_003", "Duplicate transaction", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidRefund() *AppError {
	return New("PAY_006", "Original transaction not eligible for refund", http.StatusBadRequest)
}

func ErrRefundAmountExceedsOriginal() *AppError {
	return New(CodeRefundExceedsOriginal, "Refund amount exceeds original transaction amount", http.StatusBadRequest)
}

func ErrInvalidTransaction(message string) *AppError {
	return New("PAY_008", message, http.StatusBadRequest)
}

func ErrInvalidTransition(from, to string) *AppError {
	return New(CodeInvalidTransition, fmt.Sprintf("Invalid transition from %s to %s", from, to), http.StatusConflict)
}

// ---- Settlement workflow (SETTLE) ----

func ErrMissingPayoutEligibility() *AppError {
	return New(CodeMissingPayoutEligibility, "Transaction has no payout eligibility time", http.StatusUnprocessableEntity)
}

func ErrMissingPaymentMethod() *AppError {
	return New(CodeMissingPaymentMethod, "Teacher has no default active payment method", http.StatusUnprocessableEntity)
}

// ---- Bookings & cancellations (BOOK) ----

func ErrTooLateToCancel(windowHours int) *AppError {
	return New(CodeTooLateToCancel,
		fmt.Sprintf("Cannot cancel within %d hours of the scheduled class time", windowHours),
		http.StatusUnprocessableEntity)
}

func ErrAlreadyCancelled() *AppError {
	return New(CodeAlreadyCancelled, "Booking is already cancelled", http.StatusConflict)
}

func ErrForceCancelRequired(blocking int, windowHours int) *AppError {
	return New(CodeForceCancelRequired,
		fmt.Sprintf("%d class(es) start within %d hours and will not be refunded; confirm with force_cancel", blocking, windowHours),
		http.StatusConflict)
}

// ---- Unsettled finance (FIN) ----

func ErrAlreadyResolved() *AppError {
	return New(CodeAlreadyResolved, "Unsettled finance record is already resolved", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidSignature() *AppError {
	return New("AUTH_002", "Invalid gateway signature", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_005", "Insufficient role for this operation", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

func ErrPayloadTooLarge(limit int64) *AppError {
	return New("SYS_003", fmt.Sprintf("Request body exceeds %d bytes", limit), http.StatusRequestEntityTooLarge)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a PAY_002-style validation error.
func Validation(message string) *AppError {
	return New(CodeInvalidAmount, message, http.StatusBadRequest)
}
