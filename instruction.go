package lasr

import (
	"encoding/json"
	"fmt"
)

// InstructionKind identifies the state change an instruction describes.
type InstructionKind uint8

const (
	InstructionCreate InstructionKind = iota
	InstructionUpdate
	InstructionTransfer
	InstructionBurn
)

func (k InstructionKind) String() string {
	switch k {
	case InstructionCreate:
		return "create"
	case InstructionUpdate:
		return "update"
	case InstructionTransfer:
		return "transfer"
	case InstructionBurn:
		return "burn"
	default:
		return fmt.Sprintf("InstructionKind(%d)", uint8(k))
	}
}

// Instruction is one atomic state change for the runtime to apply.
// This is a sealed interface - only the builders in this package produce
// instructions, and an instruction is never modified after Build.
type Instruction interface {
	json.Marshaler

	// isInstruction is unexported to seal the interface.
	isInstruction()

	// Kind returns the instruction kind.
	Kind() InstructionKind
}

// marshalTagged renders body under the instruction's kind, e.g. {"burn": {...}}.
func marshalTagged(kind InstructionKind, body any) ([]byte, error) {
	return json.Marshal(map[string]any{kind.String(): body})
}

// TokenDistribution is an initial allocation embedded in a Create
// instruction, with token field updates applied to the receiver's holding.
type TokenDistribution struct {
	programID    AddressOrNamespace
	to           AddressOrNamespace
	amount       string
	updateFields []TokenUpdateField
}

// ProgramID returns the program whose tokens are distributed.
func (d *TokenDistribution) ProgramID() AddressOrNamespace { return d.programID }

// To returns the receiver.
func (d *TokenDistribution) To() AddressOrNamespace { return d.to }

// Amount returns the canonical hex amount.
func (d *TokenDistribution) Amount() string { return d.amount }

// UpdateFields returns a copy of the token updates applied with the distribution.
func (d *TokenDistribution) UpdateFields() []TokenUpdateField {
	return append([]TokenUpdateField{}, d.updateFields...)
}

// MarshalJSON implements json.Marshaler.
func (d *TokenDistribution) MarshalJSON() ([]byte, error) {
	updates := d.updateFields
	if updates == nil {
		updates = []TokenUpdateField{}
	}
	return json.Marshal(struct {
		ProgramID    AddressOrNamespace `json:"programId"`
		To           AddressOrNamespace `json:"to"`
		Amount       string             `json:"amount"`
		UpdateFields []TokenUpdateField `json:"updateFields"`
	}{d.programID, d.to, d.amount, updates})
}

// CreateInstruction creates a program, optionally distributing an initial supply.
type CreateInstruction struct {
	programNamespace  AddressOrNamespace
	programID         AddressOrNamespace
	programOwner      Address
	totalSupply       string
	initializedSupply string
	distribution      *TokenDistribution
}

func (*CreateInstruction) isInstruction() {}

// Kind returns InstructionCreate.
func (*CreateInstruction) Kind() InstructionKind { return InstructionCreate }

// ProgramNamespace returns the namespace the program is created under.
func (c *CreateInstruction) ProgramNamespace() AddressOrNamespace { return c.programNamespace }

// ProgramID returns the created program.
func (c *CreateInstruction) ProgramID() AddressOrNamespace { return c.programID }

// ProgramOwner returns the owner of the created program.
func (c *CreateInstruction) ProgramOwner() Address { return c.programOwner }

// TotalSupply returns the canonical hex total supply, if set.
func (c *CreateInstruction) TotalSupply() (string, bool) {
	return c.totalSupply, c.totalSupply != ""
}

// InitializedSupply returns the canonical hex initialized supply, if set.
func (c *CreateInstruction) InitializedSupply() (string, bool) {
	return c.initializedSupply, c.initializedSupply != ""
}

// Distribution returns the embedded distribution, or nil.
func (c *CreateInstruction) Distribution() *TokenDistribution { return c.distribution }

// MarshalJSON implements json.Marshaler.
func (c *CreateInstruction) MarshalJSON() ([]byte, error) {
	distribution := []*TokenDistribution{}
	if c.distribution != nil {
		distribution = append(distribution, c.distribution)
	}
	return marshalTagged(InstructionCreate, struct {
		ProgramNamespace  AddressOrNamespace   `json:"programNamespace"`
		ProgramID         AddressOrNamespace   `json:"programId"`
		ProgramOwner      Address              `json:"programOwner"`
		TotalSupply       string               `json:"totalSupply,omitempty"`
		InitializedSupply string               `json:"initializedSupply,omitempty"`
		Distribution      []*TokenDistribution `json:"distribution"`
	}{c.programNamespace, c.programID, c.programOwner, c.totalSupply, c.initializedSupply, distribution})
}

// UpdateInstruction applies one or more token or program updates.
type UpdateInstruction struct {
	updates []TokenOrProgramUpdate
}

func (*UpdateInstruction) isInstruction() {}

// Kind returns InstructionUpdate.
func (*UpdateInstruction) Kind() InstructionKind { return InstructionUpdate }

// Updates returns a copy of the updates in application order.
func (u *UpdateInstruction) Updates() []TokenOrProgramUpdate {
	return append([]TokenOrProgramUpdate{}, u.updates...)
}

// MarshalJSON implements json.Marshaler.
func (u *UpdateInstruction) MarshalJSON() ([]byte, error) {
	return marshalTagged(InstructionUpdate, struct {
		Updates []TokenOrProgramUpdate `json:"updates"`
	}{u.updates})
}

// TransferInstruction moves a fungible amount or a set of token ids.
// Exactly one of Amount and TokenIDs is set.
type TransferInstruction struct {
	tokenAddress Address
	from         AddressOrNamespace
	to           AddressOrNamespace
	amount       string
	tokenIDs     []string
}

func (*TransferInstruction) isInstruction() {}

// Kind returns InstructionTransfer.
func (*TransferInstruction) Kind() InstructionKind { return InstructionTransfer }

// TokenAddress returns the transferred token.
func (t *TransferInstruction) TokenAddress() Address { return t.tokenAddress }

// From returns the sender.
func (t *TransferInstruction) From() AddressOrNamespace { return t.from }

// To returns the receiver.
func (t *TransferInstruction) To() AddressOrNamespace { return t.to }

// Amount returns the canonical hex amount, if this is a fungible transfer.
func (t *TransferInstruction) Amount() (string, bool) { return t.amount, t.amount != "" }

// TokenIDs returns a copy of the transferred ids, if this is a non-fungible transfer.
func (t *TransferInstruction) TokenIDs() []string {
	return append([]string(nil), t.tokenIDs...)
}

// MarshalJSON implements json.Marshaler.
func (t *TransferInstruction) MarshalJSON() ([]byte, error) {
	return marshalTagged(InstructionTransfer, struct {
		TokenAddress Address            `json:"tokenAddress"`
		From         AddressOrNamespace `json:"from"`
		To           AddressOrNamespace `json:"to"`
		Amount       string             `json:"amount,omitempty"`
		TokenIDs     []string           `json:"tokenIds,omitempty"`
	}{t.tokenAddress, t.from, t.to, t.amount, t.tokenIDs})
}

// BurnInstruction destroys a fungible amount or a set of token ids.
// Exactly one of Amount and TokenIDs is set.
type BurnInstruction struct {
	caller          Address
	programID       AddressOrNamespace
	tokenAddress    Address
	burnFromAddress AddressOrNamespace
	amount          string
	tokenIDs        []string
}

func (*BurnInstruction) isInstruction() {}

// Kind returns InstructionBurn.
func (*BurnInstruction) Kind() InstructionKind { return InstructionBurn }

// Caller returns the account that requested the burn.
func (b *BurnInstruction) Caller() Address { return b.caller }

// ProgramID returns the program executing the burn.
func (b *BurnInstruction) ProgramID() AddressOrNamespace { return b.programID }

// TokenAddress returns the burned token.
func (b *BurnInstruction) TokenAddress() Address { return b.tokenAddress }

// BurnFromAddress returns the holder the tokens are burned from.
func (b *BurnInstruction) BurnFromAddress() AddressOrNamespace { return b.burnFromAddress }

// Amount returns the canonical hex amount, if this is a fungible burn.
func (b *BurnInstruction) Amount() (string, bool) { return b.amount, b.amount != "" }

// TokenIDs returns a copy of the burned ids, if this is a non-fungible burn.
func (b *BurnInstruction) TokenIDs() []string {
	return append([]string(nil), b.tokenIDs...)
}

// MarshalJSON implements json.Marshaler.
func (b *BurnInstruction) MarshalJSON() ([]byte, error) {
	return marshalTagged(InstructionBurn, struct {
		Caller          Address            `json:"caller"`
		ProgramID       AddressOrNamespace `json:"programId"`
		TokenAddress    Address            `json:"tokenAddress"`
		BurnFromAddress AddressOrNamespace `json:"burnFromAddress"`
		Amount          string             `json:"amount,omitempty"`
		TokenIDs        []string           `json:"tokenIds,omitempty"`
	}{b.caller, b.programID, b.tokenAddress, b.burnFromAddress, b.amount, b.tokenIDs})
}
