// Package fungible is a fungible token program: create a token with an
// initial supply, mint against a payment, and burn, transfer and annotate
// holdings.
package fungible

import (
	"errors"
	"fmt"
	"math/big"

	lasr "github.com/branched-services/go-lasr"
)

// Ops registered by the program.
const (
	OpCreate   = "create"
	OpMint     = "mint"
	OpBurn     = "burn"
	OpTransfer = "transfer"
	OpUpdate   = "update"
)

// ErrUnknownTarget indicates an update target other than "program" or "token".
var ErrUnknownTarget = errors.New("fungible: unknown update target")

// NativeToken is the address of the runtime's native coin, used to pay for mints.
var NativeToken = lasr.Address{}

// New creates the fungible token program.
func New(opts ...lasr.ProgramOption) *lasr.Program {
	opts = append([]lasr.ProgramOption{lasr.WithName("fungible")}, opts...)
	return lasr.NewProgram(lasr.Methods{
		OpCreate:   create,
		OpMint:     mint,
		OpBurn:     burn,
		OpTransfer: transfer,
		OpUpdate:   update,
	}, opts...)
}

// parties resolves the caller and the called program.
func parties(call *lasr.Call) (caller, program lasr.Address, err error) {
	if caller, err = call.Caller(); err != nil {
		return
	}
	program, err = call.ProgramAddress()
	return
}

// create registers the token.
//
// Inputs: name, symbol, initializedSupply (default 0), totalSupply (default
// initializedSupply), to (default caller).
func create(call *lasr.Call) (*lasr.Outputs, error) {
	caller, program, err := parties(call)
	if err != nil {
		return nil, err
	}
	name, err := call.RequireInput("name")
	if err != nil {
		return nil, err
	}
	symbol, err := call.RequireInput("symbol")
	if err != nil {
		return nil, err
	}
	initialized := call.InputOr("initializedSupply", "0")
	total := call.InputOr("totalSupply", initialized)

	receiver := lasr.AtAddress(caller)
	if to := call.Input("to"); to.Exists() {
		if receiver, err = lasr.ParseAddressOrNamespace(to.String()); err != nil {
			return nil, err
		}
	}

	codec := call.Codec()
	totalHex, err := codec.ToCanonicalHex(total)
	if err != nil {
		return nil, err
	}
	metadata := lasr.NewExtend(map[string]string{
		"name":        name.String(),
		"symbol":      symbol.String(),
		"totalSupply": totalHex,
	})
	tokenMetadata, err := lasr.NewTokenUpdateField(lasr.TokenMetadata, metadata)
	if err != nil {
		return nil, err
	}
	programMetadata, err := lasr.NewProgramUpdateField(lasr.ProgramMetadata, metadata)
	if err != nil {
		return nil, err
	}

	distribution, err := lasr.NewTokenDistributionBuilder().
		Codec(codec).
		ProgramID(lasr.AtAddress(program)).
		To(receiver).
		Amount(initialized).
		UpdateFields(tokenMetadata).
		Build()
	if err != nil {
		return nil, err
	}
	createInst, err := lasr.NewCreateInstructionBuilder().
		Codec(codec).
		ProgramNamespace(lasr.This()).
		ProgramID(lasr.AtAddress(program)).
		ProgramOwner(caller).
		TotalSupply(totalHex).
		InitializedSupply(initialized).
		Distribution(distribution).
		Build()
	if err != nil {
		return nil, err
	}
	updateInst, err := lasr.NewUpdateInstructionBuilder().
		AddProgramUpdate(lasr.NewProgramUpdate(lasr.AtAddress(program), programMetadata)).
		Build()
	if err != nil {
		return nil, err
	}
	return lasr.NewOutputs(call, createInst, updateInst)
}

// mint pays the transaction value to the program and sends value * price
// tokens from the program's own holding to the caller.
//
// Inputs: price (default 1).
func mint(call *lasr.Call) (*lasr.Outputs, error) {
	caller, program, err := parties(call)
	if err != nil {
		return nil, err
	}
	if !call.HasValue() {
		return nil, &lasr.MissingInputError{Op: OpMint, Input: "value"}
	}
	codec := call.Codec()
	paid, err := codec.ToScaledInteger(call.Transaction.Value)
	if err != nil {
		return nil, err
	}
	price, err := codec.ToScaledInteger(call.InputOr("price", "1"))
	if err != nil {
		return nil, err
	}
	minted, err := lasr.IntegerToCanonicalHex(mulScaled(paid, price, codec.Decimals()))
	if err != nil {
		return nil, err
	}

	payment, err := lasr.NewTransferInstructionBuilder().
		Codec(codec).
		TokenAddress(NativeToken).
		From(lasr.AtAddress(caller)).
		To(lasr.AtAddress(program)).
		Amount(call.Transaction.Value).
		Build()
	if err != nil {
		return nil, err
	}
	payout, err := lasr.NewTransferInstructionBuilder().
		Codec(codec).
		TokenAddress(program).
		From(lasr.This()).
		To(lasr.AtAddress(caller)).
		Amount(minted).
		Build()
	if err != nil {
		return nil, err
	}
	return lasr.NewOutputs(call, payment, payout)
}

// mulScaled multiplies two fixed-point integers with the given precision.
func mulScaled(a, b *big.Int, decimals int32) *big.Int {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, unit)
}

// burn destroys the transaction value from the caller's holding.
func burn(call *lasr.Call) (*lasr.Outputs, error) {
	caller, program, err := parties(call)
	if err != nil {
		return nil, err
	}
	if !call.HasValue() {
		return nil, &lasr.MissingInputError{Op: OpBurn, Input: "value"}
	}
	burnInst, err := lasr.NewBurnInstructionBuilder().
		Codec(call.Codec()).
		ProgramID(lasr.AtAddress(program)).
		Caller(caller).
		TokenAddress(program).
		BurnFromAddress(lasr.AtAddress(caller)).
		Amount(call.Transaction.Value).
		Build()
	if err != nil {
		return nil, err
	}
	return lasr.NewOutputs(call, burnInst)
}

// transfer sends tokens from the caller.
//
// Inputs: to, amount.
func transfer(call *lasr.Call) (*lasr.Outputs, error) {
	caller, program, err := parties(call)
	if err != nil {
		return nil, err
	}
	toInput, err := call.RequireInput("to")
	if err != nil {
		return nil, err
	}
	to, err := lasr.ParseAddressOrNamespace(toInput.String())
	if err != nil {
		return nil, err
	}
	amount, err := call.RequireInput("amount")
	if err != nil {
		return nil, err
	}
	transferInst, err := lasr.NewTransferInstructionBuilder().
		Codec(call.Codec()).
		TokenAddress(program).
		From(lasr.AtAddress(caller)).
		To(to).
		Amount(amount.String()).
		Build()
	if err != nil {
		return nil, err
	}
	return lasr.NewOutputs(call, transferInst)
}

// update applies caller-entered field updates to the program account or to
// the caller's token holding.
//
// Inputs: target ("program" or "token", default "token"), updates (array of
// {field, action, value}).
func update(call *lasr.Call) (*lasr.Outputs, error) {
	caller, program, err := parties(call)
	if err != nil {
		return nil, err
	}
	if _, err := call.RequireInput("updates"); err != nil {
		return nil, err
	}
	requests := call.FieldUpdateRequests("updates")

	builder := lasr.NewUpdateInstructionBuilder()
	switch target := call.InputOr("target", "token"); target {
	case "program":
		fields := make([]lasr.ProgramUpdateField, 0, len(requests))
		for _, req := range requests {
			f, err := lasr.BuildProgramUpdateField(req)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		builder.AddProgramUpdate(lasr.NewProgramUpdate(lasr.AtAddress(program), fields...))
	case "token":
		fields := make([]lasr.TokenUpdateField, 0, len(requests))
		for _, req := range requests {
			f, err := lasr.BuildTokenUpdateField(req)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		builder.AddTokenUpdate(lasr.NewTokenUpdate(lasr.AtAddress(caller), lasr.AtAddress(program), fields...))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	updateInst, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return lasr.NewOutputs(call, updateInst)
}
