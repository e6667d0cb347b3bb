package lasr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNilInstruction indicates a nil entry in an instruction list.
var ErrNilInstruction = errors.New("lasr: nil instruction")

// AccountContext is the part of the call echoed back so the runtime can
// correlate a result with the call that produced it.
type AccountContext struct {
	Caller        string          `json:"caller"`
	ProgramID     string          `json:"programId"`
	TransactionID string          `json:"transactionId,omitempty"`
	AccountInfo   json.RawMessage `json:"accountInfo,omitempty"`
}

// Outputs is the result of one call: instructions in execution order plus
// the call's account context.
type Outputs struct {
	context      AccountContext
	instructions []Instruction
}

// NewOutputs assembles the result for call. The instruction order is kept
// as given; it is the order the runtime executes them in.
func NewOutputs(call *Call, instructions ...Instruction) (*Outputs, error) {
	if call == nil {
		return nil, fmt.Errorf("%w: nil call", ErrInvalidCall)
	}
	for i, inst := range instructions {
		if inst == nil {
			return nil, fmt.Errorf("%w at index %d", ErrNilInstruction, i)
		}
	}
	ctx := AccountContext{
		Caller:        call.Transaction.From,
		ProgramID:     call.Transaction.ProgramID,
		TransactionID: call.Transaction.Hash,
	}
	if len(call.AccountInfo) > 0 {
		ctx.AccountInfo = append(json.RawMessage{}, call.AccountInfo...)
	}
	return &Outputs{
		context:      ctx,
		instructions: append([]Instruction{}, instructions...),
	}, nil
}

// AccountContext returns the echoed call context.
func (o *Outputs) AccountContext() AccountContext {
	ctx := o.context
	if ctx.AccountInfo != nil {
		ctx.AccountInfo = append(json.RawMessage{}, ctx.AccountInfo...)
	}
	return ctx
}

// Instructions returns a copy of the instruction list.
func (o *Outputs) Instructions() []Instruction {
	return append([]Instruction{}, o.instructions...)
}

// Len returns the number of instructions.
func (o *Outputs) Len() int {
	return len(o.instructions)
}

// InstructionAt returns the instruction at the given index, or nil.
func (o *Outputs) InstructionAt(i int) Instruction {
	if i < 0 || i >= len(o.instructions) {
		return nil
	}
	return o.instructions[i]
}

// MarshalJSON implements json.Marshaler.
func (o *Outputs) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AccountContext AccountContext `json:"accountContext"`
		Instructions   []Instruction  `json:"instructions"`
	}{o.context, o.instructions})
}

// CanonicalForm renders the outputs as the text returned to the runtime.
func (o *Outputs) CanonicalForm() ([]byte, error) {
	return json.Marshal(o)
}
