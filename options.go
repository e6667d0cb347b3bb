package lasr

import (
	"github.com/ethereum/go-ethereum/log"
)

// ProgramOption configures a Program.
type ProgramOption func(*Program)

// CodecOption configures an AmountCodec.
type CodecOption func(*AmountCodec)

// WithDecimals sets the fixed-point precision of decimal amounts.
// Default is 18 (DefaultDecimals). Values are clamped to 0..MaxDecimals.
func WithDecimals(decimals int32) CodecOption {
	return func(c *AmountCodec) {
		switch {
		case decimals < 0:
			decimals = 0
		case decimals > MaxDecimals:
			decimals = MaxDecimals
		}
		c.decimals = decimals
	}
}

// WithName sets the program name used in log context.
func WithName(name string) ProgramOption {
	return func(p *Program) {
		p.name = name
	}
}

// WithLogger sets the logger the program reports dispatch events to.
// Default is the go-ethereum root logger.
func WithLogger(logger log.Logger) ProgramOption {
	return func(p *Program) {
		if logger != nil {
			p.log = logger
		}
	}
}

// WithCodec sets the amount codec handed to handlers through the Call.
// Default is the 18-decimal codec.
func WithCodec(codec *AmountCodec) ProgramOption {
	return func(p *Program) {
		if codec != nil {
			p.codec = codec
		}
	}
}
