package lasr

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Transaction is the transaction that triggered a call.
type Transaction struct {
	TransactionType string `json:"transactionType,omitempty"`
	From            string `json:"from"`
	To              string `json:"to,omitempty"`
	ProgramID       string `json:"programId"`
	Op              string `json:"op,omitempty"`
	// TransactionInputs is handler-defined text, usually JSON.
	TransactionInputs string `json:"transactionInputs,omitempty"`
	// Value is a decimal amount in whole units.
	Value string `json:"value,omitempty"`
	Nonce string `json:"nonce,omitempty"`
	Hash  string `json:"hash,omitempty"`
}

// Call is one incoming call from the runtime.
type Call struct {
	Version     int             `json:"version,omitempty"`
	Op          string          `json:"op"`
	Transaction Transaction     `json:"transaction"`
	AccountInfo json.RawMessage `json:"accountInfo,omitempty"`

	codec *AmountCodec
}

// DecodeCall parses a call record. The op may be given at the top level or
// inside the transaction.
func DecodeCall(data []byte) (*Call, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidCall)
	}
	var c Call
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCall, err)
	}
	if c.Operation() == "" {
		return nil, fmt.Errorf("%w: missing op", ErrInvalidCall)
	}
	return &c, nil
}

// Operation returns the op the call names.
func (c *Call) Operation() string {
	if c.Op != "" {
		return c.Op
	}
	return c.Transaction.Op
}

// Caller returns the address that sent the transaction.
func (c *Call) Caller() (Address, error) {
	return ParseAddress(c.Transaction.From)
}

// ProgramAddress returns the address of the program being called.
func (c *Call) ProgramAddress() (Address, error) {
	return ParseAddress(c.Transaction.ProgramID)
}

// Input reads a value from the transaction inputs with a gjson path.
// A missing value or non-JSON inputs yield a Result whose Exists is false.
func (c *Call) Input(path string) gjson.Result {
	return gjson.Get(c.Transaction.TransactionInputs, path)
}

// RequireInput is like Input but fails with MissingInputError when the
// value is absent.
func (c *Call) RequireInput(path string) (gjson.Result, error) {
	r := c.Input(path)
	if !r.Exists() {
		return r, &MissingInputError{Op: c.Operation(), Input: path}
	}
	return r, nil
}

// InputOr returns the input at path as a string, or def when absent.
func (c *Call) InputOr(path, def string) string {
	if r := c.Input(path); r.Exists() {
		return r.String()
	}
	return def
}

// InputStrings returns the elements of the array at path as strings.
// A scalar is returned as a one-element slice.
func (c *Call) InputStrings(path string) []string {
	r := c.Input(path)
	if !r.Exists() {
		return nil
	}
	elems := r.Array()
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.String())
	}
	return out
}

// FieldUpdateRequests reads an array of {field, action, value} objects at
// path. Object and array values are passed on as their JSON text.
func (c *Call) FieldUpdateRequests(path string) []FieldUpdateRequest {
	elems := c.Input(path).Array()
	requests := make([]FieldUpdateRequest, 0, len(elems))
	for _, elem := range elems {
		value := elem.Get("value")
		text := value.String()
		if value.IsObject() || value.IsArray() {
			text = value.Raw
		}
		requests = append(requests, FieldUpdateRequest{
			Field:  elem.Get("field").String(),
			Action: elem.Get("action").String(),
			Value:  text,
		})
	}
	return requests
}

// HasValue reports whether the transaction carries a value.
func (c *Call) HasValue() bool {
	return c.Transaction.Value != ""
}

// Codec returns the amount codec of the program handling the call.
func (c *Call) Codec() *AmountCodec {
	if c.codec == nil {
		return defaultCodec
	}
	return c.codec
}
