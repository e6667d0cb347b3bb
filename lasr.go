// Package lasr builds the instructions a program returns to its runtime.
//
// A program receives a Call describing a transaction, decides what state
// changes it wants, and answers with Outputs: an ordered list of immutable
// instructions plus the call's account context. The runtime applies the
// instructions; this package only describes them.
//
// # Basic Usage
//
// Register handlers by op name and start the program on each call:
//
//	program := lasr.NewProgram(lasr.Methods{
//	    "burn": func(call *lasr.Call) (*lasr.Outputs, error) {
//	        caller, err := call.Caller()
//	        if err != nil {
//	            return nil, err
//	        }
//	        token, err := call.ProgramAddress()
//	        if err != nil {
//	            return nil, err
//	        }
//	        burn, err := lasr.NewBurnInstructionBuilder().
//	            ProgramID(lasr.AtAddress(token)).
//	            Caller(caller).
//	            TokenAddress(token).
//	            BurnFromAddress(lasr.AtAddress(caller)).
//	            Amount(call.Transaction.Value).
//	            Build()
//	        if err != nil {
//	            return nil, err
//	        }
//	        return lasr.NewOutputs(call, burn)
//	    },
//	})
//
//	out, err := program.Start(call)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := out.CanonicalForm()
//
// # Instructions
//
// There are four instruction kinds, each produced by its own single-use
// builder:
//
//   - Create: a new program, with optional supplies and an initial
//     TokenDistribution
//   - Update: ordered token or program field updates
//   - Transfer: a fungible amount or a set of token ids between accounts
//   - Burn: destroys a fungible amount or a set of token ids
//
// Builders check required fields in Build and fail with
// MissingRequiredFieldError instead of producing a partial record.
//
// # Field Updates
//
// Tokens and programs expose a closed set of fields, each accepting a fixed
// set of actions (insert, extend, remove, revoke, push, pop). Updates are
// built either from typed payloads (NewTokenUpdateField) or from caller
// text (BuildTokenUpdateField), and illegal field/action pairs are rejected.
//
// # Amounts
//
// Every amount is stored as canonical hex: 0x followed by 64 lowercase hex
// digits. Decimal input is a fixed-point value with 18 fractional digits by
// default, so "2.5" becomes 2.5 * 10^18. Hex input is taken as the raw
// integer. Negative and wider-than-256-bit values are rejected.
package lasr
