package runtime

import (
	"errors"
	"fmt"

	"github.com/roach88/soltweet/internal/program"
)

// TxErrorCode categorizes transaction failures.
type TxErrorCode string

const (
	// ErrCodeSignatureFailure indicates a missing or invalid signature.
	ErrCodeSignatureFailure TxErrorCode = "SIGNATURE_FAILURE"

	// ErrCodeMissingSigner indicates an account being created did not sign.
	ErrCodeMissingSigner TxErrorCode = "MISSING_REQUIRED_SIGNATURE"

	// ErrCodeAccountInUse indicates an account to be created already exists.
	ErrCodeAccountInUse TxErrorCode = "ACCOUNT_IN_USE"

	// ErrCodeAccountNotFound indicates the payer has never been funded.
	ErrCodeAccountNotFound TxErrorCode = "ACCOUNT_NOT_FOUND"

	// ErrCodeInvalidAccountForFee indicates the payer is not a plain
	// system-owned wallet.
	ErrCodeInvalidAccountForFee TxErrorCode = "INVALID_ACCOUNT_FOR_FEE"

	// ErrCodeInsufficientFunds indicates the payer cannot cover rent.
	ErrCodeInsufficientFunds TxErrorCode = "INSUFFICIENT_FUNDS"

	// ErrCodeUnknownProgram indicates an instruction targets an unknown program.
	ErrCodeUnknownProgram TxErrorCode = "UNKNOWN_PROGRAM"

	// ErrCodeInvalidAccountIndex indicates an instruction references a
	// key outside the message's account list.
	ErrCodeInvalidAccountIndex TxErrorCode = "INVALID_ACCOUNT_INDEX"

	// ErrCodeMalformedTransaction indicates the wire bytes did not decode.
	ErrCodeMalformedTransaction TxErrorCode = "MALFORMED_TRANSACTION"

	// ErrCodeProgramError indicates the program rejected an instruction.
	ErrCodeProgramError TxErrorCode = "PROGRAM_ERROR"
)

// TxError is a transaction failure. The whole transaction was rolled back.
type TxError struct {
	// Code identifies the error category.
	Code TxErrorCode

	// Message is a human-readable description.
	Message string

	// Instruction is the index of the failing instruction, or -1 when the
	// failure is not tied to one.
	Instruction int

	// Err is the underlying cause, e.g. a *program.Error.
	Err error
}

func (e *TxError) Error() string {
	if e.Instruction >= 0 {
		return fmt.Sprintf("%s: instruction %d: %s", e.Code, e.Instruction, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// ReceiptCode is the error code recorded on the receipt: the program
// error name for program failures, the TxErrorCode otherwise.
func (e *TxError) ReceiptCode() string {
	if pe, ok := program.AsError(e.Err); ok {
		return pe.Name
	}
	return string(e.Code)
}

func newTxError(code TxErrorCode, instruction int, format string, args ...any) *TxError {
	return &TxError{Code: code, Instruction: instruction, Message: fmt.Sprintf(format, args...)}
}

func newProgramError(instruction int, err error) *TxError {
	msg := err.Error()
	if pe, ok := program.AsError(err); ok {
		msg = pe.Msg
	}
	return &TxError{Code: ErrCodeProgramError, Instruction: instruction, Message: msg, Err: err}
}

// IsTxError reports whether err carries the given code.
// Uses errors.As to handle wrapped errors.
func IsTxError(err error, code TxErrorCode) bool {
	var te *TxError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// IsAccountInUse returns true if the transaction tried to create an
// account that already exists.
func IsAccountInUse(err error) bool {
	return IsTxError(err, ErrCodeAccountInUse)
}

// IsInsufficientFunds returns true if the payer could not cover rent.
func IsInsufficientFunds(err error) bool {
	return IsTxError(err, ErrCodeInsufficientFunds)
}

// IsSignatureFailure returns true if signature verification failed.
func IsSignatureFailure(err error) bool {
	return IsTxError(err, ErrCodeSignatureFailure)
}
