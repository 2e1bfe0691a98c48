package program

import (
	"errors"
	"fmt"
)

// Error is a numbered program error.
//
// Codes below 6000 are account and instruction constraint failures raised
// before the handler runs. Codes from 6000 up are the program's own
// validation errors.
type Error struct {
	Code uint32
	Name string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

// Instruction and account constraint errors.
var (
	ErrInstructionMissing = &Error{
		Code: 100, Name: "InstructionMissing",
		Msg: "8 byte instruction identifier not provided",
	}
	ErrInstructionFallbackNotFound = &Error{
		Code: 101, Name: "InstructionFallbackNotFound",
		Msg: "Fallback functions are not supported",
	}
	ErrInstructionDidNotDeserialize = &Error{
		Code: 102, Name: "InstructionDidNotDeserialize",
		Msg: "The program could not deserialize the given instruction",
	}
	ErrConstraintMut = &Error{
		Code: 2000, Name: "ConstraintMut",
		Msg: "A mut constraint was violated",
	}
	ErrAccountDiscriminatorAlreadySet = &Error{
		Code: 3000, Name: "AccountDiscriminatorAlreadySet",
		Msg: "The account discriminator was already set on this account",
	}
	ErrAccountDidNotSerialize = &Error{
		Code: 3004, Name: "AccountDidNotSerialize",
		Msg: "Failed to serialize the account",
	}
	ErrAccountNotEnoughKeys = &Error{
		Code: 3005, Name: "AccountNotEnoughKeys",
		Msg: "Not enough account keys given to the instruction",
	}
	ErrInvalidProgramID = &Error{
		Code: 3008, Name: "InvalidProgramId",
		Msg: "Program ID was not as expected",
	}
	ErrAccountNotSigner = &Error{
		Code: 3010, Name: "AccountNotSigner",
		Msg: "The given account did not sign",
	}
)

// Validation errors returned by send_tweet.
var (
	ErrTopicTooLong = &Error{
		Code: 6000, Name: "TopicTooLong",
		Msg: "The provided topic should be 50 characters long maximum.",
	}
	ErrContentTooLong = &Error{
		Code: 6001, Name: "ContentTooLong",
		Msg: "The provided content should be 280 characters long maximum.",
	}
)

var registry = map[string]*Error{}

func init() {
	for _, e := range []*Error{
		ErrInstructionMissing,
		ErrInstructionFallbackNotFound,
		ErrInstructionDidNotDeserialize,
		ErrConstraintMut,
		ErrAccountDiscriminatorAlreadySet,
		ErrAccountDidNotSerialize,
		ErrAccountNotEnoughKeys,
		ErrInvalidProgramID,
		ErrAccountNotSigner,
		ErrTopicTooLong,
		ErrContentTooLong,
	} {
		registry[e.Name] = e
	}
}

// ErrorByName looks up a program error by its name, e.g. "TopicTooLong".
func ErrorByName(name string) (*Error, bool) {
	e, ok := registry[name]
	return e, ok
}

// AsError extracts the program error from err, if any.
// Uses errors.As to handle wrapped errors.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
