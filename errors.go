package lasr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrBuilderConsumed indicates Build was called on a builder that already built.
	ErrBuilderConsumed = errors.New("lasr: builder already consumed")

	// ErrProgramBusy indicates Start was called while a handler was still running.
	ErrProgramBusy = errors.New("lasr: program is already executing a call")

	// ErrInvalidCall indicates the call record text could not be decoded.
	ErrInvalidCall = errors.New("lasr: invalid call record")

	// ErrNoOutputs indicates a handler returned neither outputs nor an error.
	ErrNoOutputs = errors.New("lasr: handler returned no outputs")

	// ErrNegativeValue indicates a negative integer was given to the codec.
	ErrNegativeValue = errors.New("lasr: negative values have no canonical form")
)

// InvalidAddressError indicates a string is not a 0x-prefixed 40-digit hex address.
type InvalidAddressError struct {
	Raw string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("lasr: invalid address %q", e.Raw)
}

// UnknownFieldError indicates a field name outside the entity kind's enumeration.
type UnknownFieldError struct {
	Kind  EntityKind
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("lasr: unknown %s field %q", e.Kind, e.Field)
}

// InvalidActionError indicates an action that is not legal for the given field.
type InvalidActionError struct {
	Kind   EntityKind
	Field  string
	Action string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("lasr: action %q is not valid for %s field %q", e.Action, e.Kind, e.Field)
}

// MalformedInsertError indicates an insert value without a "key:value" separator.
type MalformedInsertError struct {
	Field string
	Value string
}

func (e *MalformedInsertError) Error() string {
	return fmt.Sprintf("lasr: insert on %q expects \"key:value\", got %q", e.Field, e.Value)
}

// MalformedExtendError indicates an extend value that is not the expected JSON shape.
type MalformedExtendError struct {
	Field    string
	Expected string
	Value    string
}

func (e *MalformedExtendError) Error() string {
	return fmt.Sprintf("lasr: extend on %q expects a JSON %s, got %q", e.Field, e.Expected, e.Value)
}

// MissingRequiredFieldError indicates Build was called before a required setter.
// Record is the builder's record name, such as "create" or "tokenDistribution".
type MissingRequiredFieldError struct {
	Record string
	Field  string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("lasr: %s is missing required field %q", e.Record, e.Field)
}

// EmptyUpdateError indicates an update instruction built without any update.
type EmptyUpdateError struct{}

func (e *EmptyUpdateError) Error() string {
	return "lasr: update instruction requires at least one update"
}

// AmbiguousTransferError indicates that both or neither of amount and token ids were set.
type AmbiguousTransferError struct {
	Record      string
	HasAmount   bool
	HasTokenIDs bool
}

func (e *AmbiguousTransferError) Error() string {
	if e.HasAmount && e.HasTokenIDs {
		return fmt.Sprintf("lasr: %s sets both amount and token ids", e.Record)
	}
	return fmt.Sprintf("lasr: %s sets neither amount nor token ids", e.Record)
}

// EncodingError indicates a value that cannot be put into canonical hex form.
type EncodingError struct {
	Input string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("lasr: cannot encode %q: %v", e.Input, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// OverflowError indicates a value wider than 256 bits.
type OverflowError struct {
	Input string
	Bits  int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("lasr: value %s does not fit in 256 bits (needs %d)", e.Input, e.Bits)
}

// UnknownMethodError indicates the call names an op the program does not register.
type UnknownMethodError struct {
	Op string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("lasr: unknown method %q", e.Op)
}

// MissingInputError indicates a handler could not find a transaction input it needs.
type MissingInputError struct {
	Op    string
	Input string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("lasr: op %q requires input %q", e.Op, e.Input)
}
