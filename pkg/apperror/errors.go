package apperror

import (
	"fmt"
)

// Kind classifies an error by cause rather than by record kind.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_FAILED"
	KindDuplicate    Kind = "DUPLICATE_RECORD"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindPrecondition Kind = "PRECONDITION_FAILED"
	KindInternal     Kind = "INTERNAL"
)

// AppError is a structured error carrying a failure kind and a stable code.
type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped internal error (not exposed to callers)
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
func New(kind Kind, code string, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(kind Kind, code string, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ---- Merchant Registry (MER) ----

func ErrMerchantAlreadyRegistered() *AppError {
	return New(KindDuplicate, "MER_001", "Merchant is already registered")
}

func ErrInvalidMerchantDetails(reason string) *AppError {
	return New(KindValidation, "MER_002", fmt.Sprintf("Invalid merchant details: %s", reason))
}

func ErrMerchantNotFound() *AppError {
	return New(KindNotFound, "MER_003", "Merchant not found")
}

// ErrUnauthorizedMerchantAccess is returned when the caller is not the owner
// of the referenced merchant.
func ErrUnauthorizedMerchantAccess() *AppError {
	return New(KindUnauthorized, "MER_004", "Unauthorized access to merchant data")
}

// ErrMerchantInactive is returned when a referenced merchant exists but has
// been deactivated.
func ErrMerchantInactive() *AppError {
	return New(KindPrecondition, "MER_005", "Merchant is not active")
}

// ---- Payment Ledger (PAY) ----

func ErrPaymentAlreadyExists() *AppError {
	return New(KindDuplicate, "PAY_001", "Payment transaction already exists")
}

func ErrInvalidPaymentDetails(reason string) *AppError {
	return New(KindValidation, "PAY_002", fmt.Sprintf("Invalid payment transaction details: %s", reason))
}

func ErrPaymentLimitReached() *AppError {
	return New(KindValidation, "PAY_003", "Payment amount exceeds transaction limit")
}

func ErrPaymentNotFound() *AppError {
	return New(KindNotFound, "PAY_004", "Payment transaction not found")
}

// ---- Subscription Catalog (PLAN) ----

func ErrPlanAlreadyExists() *AppError {
	return New(KindDuplicate, "PLAN_001", "Subscription plan already exists")
}

func ErrInvalidPlanDetails(reason string) *AppError {
	return New(KindValidation, "PLAN_002", fmt.Sprintf("Invalid subscription plan details: %s", reason))
}

func ErrInvalidBillingCycle() *AppError {
	return New(KindValidation, "PLAN_003", "Invalid billing cycle specified")
}

func ErrPlanNotFound() *AppError {
	return New(KindNotFound, "PLAN_004", "Subscription plan not found")
}

func ErrUnauthorizedPlanAccess() *AppError {
	return New(KindUnauthorized, "PLAN_005", "Unauthorized access to subscription plan")
}

func ErrInactivePlan() *AppError {
	return New(KindPrecondition, "PLAN_006", "Subscription plan is inactive")
}

func ErrUnsupportedTokens(reason string) *AppError {
	return New(KindValidation, "PLAN_007", fmt.Sprintf("Unsupported token list: %s", reason))
}

// ---- Subscription Enrollment (SUB) ----

func ErrSubscriptionAlreadyExists() *AppError {
	return New(KindDuplicate, "SUB_001", "Subscription already exists for this plan and subscriber")
}

func ErrSubscriptionNotFound() *AppError {
	return New(KindNotFound, "SUB_002", "Subscription not found")
}

func ErrUnauthorizedSubscriptionAccess() *AppError {
	return New(KindUnauthorized, "SUB_003", "Unauthorized access to subscription")
}

func ErrSubscriptionAlreadyCanceled() *AppError {
	return New(KindPrecondition, "SUB_004", "Subscription is already canceled")
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(KindInternal, "SYS_001", "Internal storage error", err)
}
