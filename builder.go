package lasr

import (
	"fmt"
)

// Record names used in builder errors.
const (
	recordCreate       = "create"
	recordUpdate       = "update"
	recordTransfer     = "transfer"
	recordBurn         = "burn"
	recordDistribution = "tokenDistribution"
)

// amountSlot holds an amount that has already been through the codec.
// A failed encoding is kept until the setter is called again.
type amountSlot struct {
	hex string
	err error
}

func (s *amountSlot) assign(codec *AmountCodec, input string) {
	s.hex, s.err = codec.ToCanonicalHex(input)
}

func (s *amountSlot) isSet() bool {
	return s.hex != "" || s.err != nil
}

// idsSlot holds token ids that have already been canonicalized.
type idsSlot struct {
	ids []string
	err error
}

func (s *idsSlot) assign(ids []string) {
	s.ids, s.err = nil, nil
	for _, id := range ids {
		hex, err := IDToCanonicalHex(id)
		if err != nil {
			s.ids, s.err = nil, err
			return
		}
		s.ids = append(s.ids, hex)
	}
}

func (s *idsSlot) isSet() bool {
	return len(s.ids) > 0 || s.err != nil
}

// requirement is a required builder field and whether it has been set.
type requirement struct {
	field string
	set   bool
}

// checkRequired fails with the first unset requirement, in order.
func checkRequired(record string, reqs ...requirement) error {
	for _, r := range reqs {
		if !r.set {
			return &MissingRequiredFieldError{Record: record, Field: r.field}
		}
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// checkExclusive enforces that exactly one of amount and ids is set.
func checkExclusive(record string, amount *amountSlot, ids *idsSlot) error {
	hasAmount, hasIDs := amount.isSet(), ids.isSet()
	if hasAmount == hasIDs {
		return &AmbiguousTransferError{Record: record, HasAmount: hasAmount, HasTokenIDs: hasIDs}
	}
	return firstError(amount.err, ids.err)
}

// CreateInstructionBuilder assembles a CreateInstruction.
//
// Required: ProgramID, ProgramOwner, ProgramNamespace.
// Optional: TotalSupply, InitializedSupply, Distribution.
//
// A builder is single-use: after a successful Build, further calls to Build
// return ErrBuilderConsumed. A failed Build leaves the builder usable.
type CreateInstructionBuilder struct {
	codec    *AmountCodec
	consumed bool

	programNamespace  *AddressOrNamespace
	programID         *AddressOrNamespace
	programOwner      *Address
	totalSupply       amountSlot
	initializedSupply amountSlot
	distribution      *TokenDistribution
}

// NewCreateInstructionBuilder creates a builder using the default codec.
func NewCreateInstructionBuilder() *CreateInstructionBuilder {
	return &CreateInstructionBuilder{codec: defaultCodec}
}

// Codec sets the codec used by later amount setters.
func (b *CreateInstructionBuilder) Codec(codec *AmountCodec) *CreateInstructionBuilder {
	if codec != nil {
		b.codec = codec
	}
	return b
}

// ProgramNamespace sets the namespace the program is created under.
func (b *CreateInstructionBuilder) ProgramNamespace(ns AddressOrNamespace) *CreateInstructionBuilder {
	b.programNamespace = &ns
	return b
}

// ProgramID sets the program being created.
func (b *CreateInstructionBuilder) ProgramID(id AddressOrNamespace) *CreateInstructionBuilder {
	b.programID = &id
	return b
}

// ProgramOwner sets the owner of the program.
func (b *CreateInstructionBuilder) ProgramOwner(owner Address) *CreateInstructionBuilder {
	b.programOwner = &owner
	return b
}

// TotalSupply sets the total supply. The amount is canonicalized immediately;
// an encoding failure is reported by Build.
func (b *CreateInstructionBuilder) TotalSupply(amount string) *CreateInstructionBuilder {
	b.totalSupply.assign(b.codec, amount)
	return b
}

// InitializedSupply sets the supply minted at creation.
func (b *CreateInstructionBuilder) InitializedSupply(amount string) *CreateInstructionBuilder {
	b.initializedSupply.assign(b.codec, amount)
	return b
}

// Distribution embeds an initial distribution. Setting it again replaces it.
func (b *CreateInstructionBuilder) Distribution(d *TokenDistribution) *CreateInstructionBuilder {
	b.distribution = d
	return b
}

// Build validates the builder and returns the instruction.
func (b *CreateInstructionBuilder) Build() (*CreateInstruction, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	err := checkRequired(recordCreate,
		requirement{"programId", b.programID != nil},
		requirement{"programOwner", b.programOwner != nil},
		requirement{"programNamespace", b.programNamespace != nil},
	)
	if err == nil {
		err = firstError(b.totalSupply.err, b.initializedSupply.err)
	}
	if err != nil {
		return nil, err
	}
	b.consumed = true
	return &CreateInstruction{
		programNamespace:  *b.programNamespace,
		programID:         *b.programID,
		programOwner:      *b.programOwner,
		totalSupply:       b.totalSupply.hex,
		initializedSupply: b.initializedSupply.hex,
		distribution:      b.distribution,
	}, nil
}

// UpdateInstructionBuilder assembles an UpdateInstruction from one or more
// token or program updates, applied in the order they were added.
type UpdateInstructionBuilder struct {
	consumed bool
	updates  []TokenOrProgramUpdate
}

// NewUpdateInstructionBuilder creates an empty builder.
func NewUpdateInstructionBuilder() *UpdateInstructionBuilder {
	return &UpdateInstructionBuilder{}
}

// AddUpdate appends an update.
func (b *UpdateInstructionBuilder) AddUpdate(u TokenOrProgramUpdate) *UpdateInstructionBuilder {
	b.updates = append(b.updates, u)
	return b
}

// AddTokenUpdate appends a token update.
func (b *UpdateInstructionBuilder) AddTokenUpdate(u *TokenUpdate) *UpdateInstructionBuilder {
	return b.AddUpdate(TokenUpdateOf(u))
}

// AddProgramUpdate appends a program update.
func (b *UpdateInstructionBuilder) AddProgramUpdate(u *ProgramUpdate) *UpdateInstructionBuilder {
	return b.AddUpdate(ProgramUpdateOf(u))
}

// Build validates the builder and returns the instruction. It fails with
// EmptyUpdateError if no update was added.
func (b *UpdateInstructionBuilder) Build() (*UpdateInstruction, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	if len(b.updates) == 0 {
		return nil, &EmptyUpdateError{}
	}
	for i, u := range b.updates {
		if !u.valid() {
			return nil, &MissingRequiredFieldError{Record: recordUpdate, Field: fmt.Sprintf("updates[%d]", i)}
		}
		if j := u.firstInvalidField(); j >= 0 {
			return nil, &MissingRequiredFieldError{Record: recordUpdate, Field: fmt.Sprintf("updates[%d].updates[%d].action", i, j)}
		}
	}
	b.consumed = true
	return &UpdateInstruction{
		updates: append([]TokenOrProgramUpdate{}, b.updates...),
	}, nil
}

// TransferInstructionBuilder assembles a TransferInstruction.
//
// Required: From, To, TokenAddress, and exactly one of Amount (fungible) or
// a non-empty TokenIDs (non-fungible).
type TransferInstructionBuilder struct {
	codec    *AmountCodec
	consumed bool

	tokenAddress *Address
	from         *AddressOrNamespace
	to           *AddressOrNamespace
	amount       amountSlot
	tokenIDs     idsSlot
}

// NewTransferInstructionBuilder creates a builder using the default codec.
func NewTransferInstructionBuilder() *TransferInstructionBuilder {
	return &TransferInstructionBuilder{codec: defaultCodec}
}

// Codec sets the codec used by later amount setters.
func (b *TransferInstructionBuilder) Codec(codec *AmountCodec) *TransferInstructionBuilder {
	if codec != nil {
		b.codec = codec
	}
	return b
}

// TokenAddress sets the transferred token.
func (b *TransferInstructionBuilder) TokenAddress(token Address) *TransferInstructionBuilder {
	b.tokenAddress = &token
	return b
}

// From sets the sender.
func (b *TransferInstructionBuilder) From(from AddressOrNamespace) *TransferInstructionBuilder {
	b.from = &from
	return b
}

// To sets the receiver.
func (b *TransferInstructionBuilder) To(to AddressOrNamespace) *TransferInstructionBuilder {
	b.to = &to
	return b
}

// Amount sets the fungible amount.
func (b *TransferInstructionBuilder) Amount(amount string) *TransferInstructionBuilder {
	b.amount.assign(b.codec, amount)
	return b
}

// TokenIDs sets the non-fungible ids, replacing any earlier ids. Each id is
// canonicalized with IDToCanonicalHex.
func (b *TransferInstructionBuilder) TokenIDs(ids ...string) *TransferInstructionBuilder {
	b.tokenIDs.assign(ids)
	return b
}

// Build validates the builder and returns the instruction.
func (b *TransferInstructionBuilder) Build() (*TransferInstruction, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	err := checkRequired(recordTransfer,
		requirement{"from", b.from != nil},
		requirement{"to", b.to != nil},
		requirement{"tokenAddress", b.tokenAddress != nil},
	)
	if err == nil {
		err = checkExclusive(recordTransfer, &b.amount, &b.tokenIDs)
	}
	if err != nil {
		return nil, err
	}
	b.consumed = true
	return &TransferInstruction{
		tokenAddress: *b.tokenAddress,
		from:         *b.from,
		to:           *b.to,
		amount:       b.amount.hex,
		tokenIDs:     append([]string(nil), b.tokenIDs.ids...),
	}, nil
}

// BurnInstructionBuilder assembles a BurnInstruction.
//
// Required: ProgramID, Caller, TokenAddress, BurnFromAddress, and exactly
// one of Amount or a non-empty TokenIDs.
type BurnInstructionBuilder struct {
	codec    *AmountCodec
	consumed bool

	caller          *Address
	programID       *AddressOrNamespace
	tokenAddress    *Address
	burnFromAddress *AddressOrNamespace
	amount          amountSlot
	tokenIDs        idsSlot
}

// NewBurnInstructionBuilder creates a builder using the default codec.
func NewBurnInstructionBuilder() *BurnInstructionBuilder {
	return &BurnInstructionBuilder{codec: defaultCodec}
}

// Codec sets the codec used by later amount setters.
func (b *BurnInstructionBuilder) Codec(codec *AmountCodec) *BurnInstructionBuilder {
	if codec != nil {
		b.codec = codec
	}
	return b
}

// ProgramID sets the program executing the burn.
func (b *BurnInstructionBuilder) ProgramID(id AddressOrNamespace) *BurnInstructionBuilder {
	b.programID = &id
	return b
}

// Caller sets the account requesting the burn.
func (b *BurnInstructionBuilder) Caller(caller Address) *BurnInstructionBuilder {
	b.caller = &caller
	return b
}

// TokenAddress sets the burned token.
func (b *BurnInstructionBuilder) TokenAddress(token Address) *BurnInstructionBuilder {
	b.tokenAddress = &token
	return b
}

// BurnFromAddress sets the holder the tokens are burned from.
func (b *BurnInstructionBuilder) BurnFromAddress(from AddressOrNamespace) *BurnInstructionBuilder {
	b.burnFromAddress = &from
	return b
}

// Amount sets the fungible amount.
func (b *BurnInstructionBuilder) Amount(amount string) *BurnInstructionBuilder {
	b.amount.assign(b.codec, amount)
	return b
}

// TokenIDs sets the non-fungible ids, replacing any earlier ids.
func (b *BurnInstructionBuilder) TokenIDs(ids ...string) *BurnInstructionBuilder {
	b.tokenIDs.assign(ids)
	return b
}

// Build validates the builder and returns the instruction.
func (b *BurnInstructionBuilder) Build() (*BurnInstruction, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	err := checkRequired(recordBurn,
		requirement{"programId", b.programID != nil},
		requirement{"caller", b.caller != nil},
		requirement{"tokenAddress", b.tokenAddress != nil},
		requirement{"burnFromAddress", b.burnFromAddress != nil},
	)
	if err == nil {
		err = checkExclusive(recordBurn, &b.amount, &b.tokenIDs)
	}
	if err != nil {
		return nil, err
	}
	b.consumed = true
	return &BurnInstruction{
		caller:          *b.caller,
		programID:       *b.programID,
		tokenAddress:    *b.tokenAddress,
		burnFromAddress: *b.burnFromAddress,
		amount:          b.amount.hex,
		tokenIDs:        append([]string(nil), b.tokenIDs.ids...),
	}, nil
}

// TokenDistributionBuilder assembles a TokenDistribution for a Create
// instruction.
//
// Required: ProgramID, Amount, To. Optional: UpdateFields.
type TokenDistributionBuilder struct {
	codec    *AmountCodec
	consumed bool

	programID    *AddressOrNamespace
	to           *AddressOrNamespace
	amount       amountSlot
	updateFields []TokenUpdateField
}

// NewTokenDistributionBuilder creates a builder using the default codec.
func NewTokenDistributionBuilder() *TokenDistributionBuilder {
	return &TokenDistributionBuilder{codec: defaultCodec}
}

// Codec sets the codec used by later amount setters.
func (b *TokenDistributionBuilder) Codec(codec *AmountCodec) *TokenDistributionBuilder {
	if codec != nil {
		b.codec = codec
	}
	return b
}

// ProgramID sets the program whose tokens are distributed.
func (b *TokenDistributionBuilder) ProgramID(id AddressOrNamespace) *TokenDistributionBuilder {
	b.programID = &id
	return b
}

// To sets the receiver.
func (b *TokenDistributionBuilder) To(to AddressOrNamespace) *TokenDistributionBuilder {
	b.to = &to
	return b
}

// Amount sets the distributed amount.
func (b *TokenDistributionBuilder) Amount(amount string) *TokenDistributionBuilder {
	b.amount.assign(b.codec, amount)
	return b
}

// UpdateFields appends token updates applied to the receiver's holding.
func (b *TokenDistributionBuilder) UpdateFields(fields ...TokenUpdateField) *TokenDistributionBuilder {
	b.updateFields = append(b.updateFields, fields...)
	return b
}

// Build validates the builder and returns the distribution.
func (b *TokenDistributionBuilder) Build() (*TokenDistribution, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	err := checkRequired(recordDistribution,
		requirement{"programId", b.programID != nil},
		requirement{"amount", b.amount.isSet()},
		requirement{"to", b.to != nil},
	)
	if err == nil {
		err = b.amount.err
	}
	if err != nil {
		return nil, err
	}
	for i, f := range b.updateFields {
		if !f.valid() {
			return nil, &MissingRequiredFieldError{Record: recordDistribution, Field: fmt.Sprintf("updateFields[%d].action", i)}
		}
	}
	b.consumed = true
	return &TokenDistribution{
		programID:    *b.programID,
		to:           *b.to,
		amount:       b.amount.hex,
		updateFields: append([]TokenUpdateField{}, b.updateFields...),
	}, nil
}
