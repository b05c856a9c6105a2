package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidation          = errors.New("validation failed")
	ErrClientNotFound      = errors.New("client not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrLoanAlreadySettled  = errors.New("loan is already settled")
	ErrClientHasActiveLoan = errors.New("client has active loans")
	ErrClientAlreadyExists = errors.New("client already exists")
	ErrConcurrencyConflict = errors.New("concurrent modification detected")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeClientNotFound      = "CLIENT_NOT_FOUND"
	ErrCodeLoanNotFound        = "LOAN_NOT_FOUND"
	ErrCodePaymentNotFound     = "PAYMENT_NOT_FOUND"
	ErrCodeLoanAlreadySettled  = "LOAN_ALREADY_SETTLED"
	ErrCodeClientHasActiveLoan = "CLIENT_HAS_ACTIVE_LOANS"
	ErrCodeClientAlreadyExists = "CLIENT_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapClientNotFound(clientID string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("Client with ID %s not found", clientID),
		ErrClientNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapLoanAlreadySettled(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadySettled,
		fmt.Sprintf("Loan with ID %s is already settled", loanID),
		ErrLoanAlreadySettled,
	)
}

func WrapClientHasActiveLoans(clientID string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientHasActiveLoan,
		fmt.Sprintf("Client with ID %s still has open loans", clientID),
		ErrClientHasActiveLoan,
	)
}

func WrapClientAlreadyExists(cpf string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientAlreadyExists,
		fmt.Sprintf("A client with CPF %s already exists", cpf),
		ErrClientAlreadyExists,
	)
}

func WrapConcurrencyConflict(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeConcurrencyConflict,
		fmt.Sprintf("Loan with ID %s was modified concurrently, retry the operation", loanID),
		ErrConcurrencyConflict,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
