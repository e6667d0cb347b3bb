package lasr

import (
	"errors"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Canonical encoding constants.
const (
	// CanonicalHexDigits is the number of hex digits after the 0x prefix.
	CanonicalHexDigits = 64

	// CanonicalHexLength is the full length of a canonical hex string.
	CanonicalHexLength = 2 + CanonicalHexDigits

	// CanonicalBits is the width of every canonical value.
	CanonicalBits = 256

	// DefaultDecimals is the fixed-point precision of decimal amounts.
	DefaultDecimals = 18

	// MaxDecimals is the largest precision that still leaves room for an
	// integer digit in 256 bits.
	MaxDecimals = 77

	// maxCanonicalDigits is the decimal digit count of 2^256-1.
	maxCanonicalDigits = 78
)

var (
	errNotHex     = errors.New("not a hex number")
	errNotDecimal = errors.New("not a decimal number")
	errNotInteger = errors.New("not an integer")
	errNilValue   = errors.New("nil value")
)

// AmountCodec converts human-entered amounts to and from canonical hex.
//
// Decimal input is treated as a fixed-point number with Decimals fractional
// digits and scaled up before encoding. Hex input is taken as the raw
// integer and only padded.
type AmountCodec struct {
	decimals int32
}

// NewAmountCodec creates a codec with the given options.
func NewAmountCodec(opts ...CodecOption) *AmountCodec {
	c := &AmountCodec{decimals: DefaultDecimals}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCodec = NewAmountCodec()

// DefaultCodec returns the shared 18-decimal codec used by the package-level functions.
func DefaultCodec() *AmountCodec {
	return defaultCodec
}

// Decimals returns the fixed-point precision of the codec.
func (c *AmountCodec) Decimals() int32 {
	return c.decimals
}

// ToCanonicalHex encodes an amount as 0x followed by 64 lowercase hex digits.
// Strings starting with 0x are padded as-is; anything else is parsed as a
// decimal and scaled by 10^Decimals, rounding to the nearest integer.
func (c *AmountCodec) ToCanonicalHex(input string) (string, error) {
	v, err := c.ToScaledInteger(input)
	if err != nil {
		return "", err
	}
	return integerToCanonicalHex(v, input)
}

// ToScaledInteger returns the integer an amount encodes to, for arithmetic.
func (c *AmountCodec) ToScaledInteger(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if has0xPrefix(input) {
		return parseHexDigits(input)
	}
	d, err := decimal.NewFromString(input)
	if err != nil {
		return nil, &EncodingError{Input: input, Err: errNotDecimal}
	}
	// Bound the magnitude before scaling; the exponent can be up to 2^31.
	digits := significantDigits(input)
	if digits == 0 {
		return new(big.Int), nil
	}
	magnitude := int64(digits) + int64(d.Exponent()) + int64(c.decimals)
	switch {
	case magnitude > maxCanonicalDigits:
		return nil, &OverflowError{Input: input, Bits: minBits(magnitude)}
	case magnitude < 0:
		// Below 0.1 after scaling, which rounds to zero.
		return new(big.Int), nil
	}
	return d.Shift(c.decimals).Round(0).BigInt(), nil
}

// Format renders a canonical hex amount back as a decimal string, scaled
// down by 10^Decimals. Trailing fractional zeros are dropped.
func (c *AmountCodec) Format(hex string) (string, error) {
	v, err := CanonicalHexToInteger(hex)
	if err != nil {
		return "", err
	}
	return decimal.NewFromBigInt(v, -c.decimals).String(), nil
}

// ToCanonicalHex encodes an amount with the default 18-decimal codec.
func ToCanonicalHex(input string) (string, error) {
	return defaultCodec.ToCanonicalHex(input)
}

// ToCanonicalScaledInteger returns the scaled integer of an amount with the
// default 18-decimal codec.
func ToCanonicalScaledInteger(input string) (*big.Int, error) {
	return defaultCodec.ToScaledInteger(input)
}

// FormatCanonicalHex renders a canonical hex amount as an 18-decimal string.
func FormatCanonicalHex(hex string) (string, error) {
	return defaultCodec.Format(hex)
}

// IntegerToCanonicalHex renders a non-negative integer as canonical hex.
// Negative values fail with EncodingError, values wider than 256 bits with
// OverflowError.
func IntegerToCanonicalHex(v *big.Int) (string, error) {
	if v == nil {
		return "", &EncodingError{Input: "<nil>", Err: errNilValue}
	}
	return integerToCanonicalHex(v, v.String())
}

// CanonicalHexToInteger parses a 0x-prefixed hex string of at most 256 bits.
func CanonicalHexToInteger(hex string) (*big.Int, error) {
	hex = strings.TrimSpace(hex)
	if !has0xPrefix(hex) {
		return nil, &EncodingError{Input: hex, Err: errNotHex}
	}
	v, err := parseHexDigits(hex)
	if err != nil {
		return nil, err
	}
	if v.BitLen() > CanonicalBits {
		return nil, &OverflowError{Input: hex, Bits: v.BitLen()}
	}
	return v, nil
}

// IDToCanonicalHex encodes an identifier such as a token id. Unlike amounts,
// decimal ids are plain integers and are never scaled.
func IDToCanonicalHex(id string) (string, error) {
	id = strings.TrimSpace(id)
	if has0xPrefix(id) {
		v, err := parseHexDigits(id)
		if err != nil {
			return "", err
		}
		return integerToCanonicalHex(v, id)
	}
	v, ok := new(big.Int).SetString(id, 10)
	if !ok {
		return "", &EncodingError{Input: id, Err: errNotInteger}
	}
	return integerToCanonicalHex(v, id)
}

// IsCanonicalHex reports whether s is exactly 0x followed by 64 lowercase hex digits.
func IsCanonicalHex(s string) bool {
	if len(s) != CanonicalHexLength || s[:2] != "0x" {
		return false
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// integerToCanonicalHex bounds v to 256 bits and renders it as 32 bytes.
// input is the caller-facing form of v used in error messages.
func integerToCanonicalHex(v *big.Int, input string) (string, error) {
	if v.Sign() < 0 {
		return "", &EncodingError{Input: input, Err: ErrNegativeValue}
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return "", &OverflowError{Input: input, Bits: v.BitLen()}
	}
	word := u.Bytes32()
	return hexutil.Encode(word[:]), nil
}

// parseHexDigits parses the digits after a 0x prefix. An empty digit string
// is zero. Signs and separators are rejected.
func parseHexDigits(s string) (*big.Int, error) {
	digits := s[2:]
	for i := 0; i < len(digits); i++ {
		if !isHexCharacter(digits[i]) {
			return nil, &EncodingError{Input: s, Err: errNotHex}
		}
	}
	if digits == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, &EncodingError{Input: s, Err: errNotHex}
	}
	return v, nil
}

// significantDigits counts the mantissa digits of a decimal string after
// leading zeros, which is the digit count of its unscaled coefficient.
func significantDigits(s string) int {
	n, leading := 0, true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == 'e' || c == 'E' {
			break
		}
		if c < '0' || c > '9' {
			continue
		}
		if leading && c == '0' {
			continue
		}
		leading = false
		n++
	}
	return n
}

// minBits is a lower bound on the bit length of an integer with the given
// number of decimal digits.
func minBits(digits int64) int {
	return int(float64(digits-1)*math.Log2(10)) + 1
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
