// Package nonfungible is a non-fungible token program. Tokens are tracked
// by id in the tokenIds field of each holder's token entry.
package nonfungible

import (
	"encoding/json"

	lasr "github.com/branched-services/go-lasr"
	"github.com/tidwall/gjson"
)

// Ops registered by the program.
const (
	OpCreate   = "create"
	OpMint     = "mint"
	OpTransfer = "transfer"
	OpBurn     = "burn"
)

// New creates the non-fungible token program.
func New(opts ...lasr.ProgramOption) *lasr.Program {
	opts = append([]lasr.ProgramOption{lasr.WithName("nonfungible")}, opts...)
	return lasr.NewProgram(lasr.Methods{
		OpCreate:   create,
		OpMint:     mint,
		OpTransfer: transfer,
		OpBurn:     burn,
	}, opts...)
}

func parties(call *lasr.Call) (caller, program lasr.Address, err error) {
	if caller, err = call.Caller(); err != nil {
		return
	}
	program, err = call.ProgramAddress()
	return
}

// requireIDs reads a non-empty tokenIds input.
func requireIDs(call *lasr.Call) ([]string, error) {
	ids := call.InputStrings("tokenIds")
	if len(ids) == 0 {
		return nil, &lasr.MissingInputError{Op: call.Operation(), Input: "tokenIds"}
	}
	return ids, nil
}

// receiver reads the optional "to" input, defaulting to the caller.
func receiver(call *lasr.Call, caller lasr.Address) (lasr.AddressOrNamespace, error) {
	to := call.Input("to")
	if !to.Exists() {
		return lasr.AtAddress(caller), nil
	}
	return lasr.ParseAddressOrNamespace(to.String())
}

func jsonString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// create registers the collection with the caller as owner.
//
// Inputs: name, symbol, and any extra metadata under "metadata".
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

	// Extra metadata goes in first so name and symbol cannot be overridden.
	entries := make(map[string]json.RawMessage)
	call.Input("metadata").ForEach(func(k, v gjson.Result) bool {
		entries[k.String()] = json.RawMessage(v.Raw)
		return true
	})
	entries["name"] = jsonString(name.String())
	entries["symbol"] = jsonString(symbol.String())
	extend, err := lasr.NewExtendJSON(entries)
	if err != nil {
		return nil, err
	}
	metadata, err := lasr.NewProgramUpdateField(lasr.ProgramMetadata, extend)
	if err != nil {
		return nil, err
	}

	createInst, err := lasr.NewCreateInstructionBuilder().
		ProgramNamespace(lasr.This()).
		ProgramID(lasr.AtAddress(program)).
		ProgramOwner(caller).
		Build()
	if err != nil {
		return nil, err
	}
	updateInst, err := lasr.NewUpdateInstructionBuilder().
		AddProgramUpdate(lasr.NewProgramUpdate(lasr.AtAddress(program), metadata)).
		Build()
	if err != nil {
		return nil, err
	}
	return lasr.NewOutputs(call, createInst, updateInst)
}

// mint adds new ids to the receiver's holding. A single id is pushed; a
// batch is appended with one extend.
//
// Inputs: tokenIds, to (default caller).
func mint(call *lasr.Call) (*lasr.Outputs, error) {
	caller, program, err := parties(call)
	if err != nil {
		return nil, err
	}
	ids, err := requireIDs(call)
	if err != nil {
		return nil, err
	}
	to, err := receiver(call, caller)
	if err != nil {
		return nil, err
	}

	req := lasr.FieldUpdateRequest{Field: "tokenIds", Action: "push", Value: ids[0]}
	if len(ids) > 1 {
		req.Action, req.Value = "extend", call.Input("tokenIds").Raw
	}
	field, err := lasr.BuildTokenUpdateField(req)
	if err != nil {
		return nil, err
	}
	updateInst, err := lasr.NewUpdateInstructionBuilder().
		AddTokenUpdate(lasr.NewTokenUpdate(to, lasr.AtAddress(program), field)).
		Build()
	if err != nil {
		return nil, err
	}
	return lasr.NewOutputs(call, updateInst)
}

// transfer moves ids from the caller.
//
// Inputs: tokenIds, to.
func transfer(call *lasr.Call) (*lasr.Outputs, error) {
	caller, program, err := parties(call)
	if err != nil {
		return nil, err
	}
	ids, err := requireIDs(call)
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
	transferInst, err := lasr.NewTransferInstructionBuilder().
		TokenAddress(program).
		From(lasr.AtAddress(caller)).
		To(to).
		TokenIDs(ids...).
		Build()
	if err != nil {
		return nil, err
	}
	return lasr.NewOutputs(call, transferInst)
}

// burn destroys ids held by the caller.
//
// Inputs: tokenIds.
func burn(call *lasr.Call) (*lasr.Outputs, error) {
	caller, program, err := parties(call)
	if err != nil {
		return nil, err
	}
	ids, err := requireIDs(call)
	if err != nil {
		return nil, err
	}
	burnInst, err := lasr.NewBurnInstructionBuilder().
		ProgramID(lasr.AtAddress(program)).
		Caller(caller).
		TokenAddress(program).
		BurnFromAddress(lasr.AtAddress(caller)).
		TokenIDs(ids...).
		Build()
	if err != nil {
		return nil, err
	}
	return lasr.NewOutputs(call, burnInst)
}
