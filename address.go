package lasr

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressLength is the size of an address in bytes.
const AddressLength = common.AddressLength

// NamespaceThis is the namespace the runtime resolves to the invoking program.
const NamespaceThis = "this"

// Address is a 20-byte account or program identity.
type Address common.Address

// ParseAddress validates raw as 0x followed by exactly 40 hex digits.
func ParseAddress(raw string) (Address, error) {
	if len(raw) != 2+2*AddressLength || !has0xPrefix(raw) || !common.IsHexAddress(raw) {
		return Address{}, &InvalidAddressError{Raw: raw}
	}
	return Address(common.HexToAddress(raw)), nil
}

// MustAddress is like ParseAddress but panics on error.
// Use only with compile-time constant values.
func MustAddress(raw string) Address {
	a, err := ParseAddress(raw)
	if err != nil {
		panic(err)
	}
	return a
}

// Hex returns the lowercase 0x-prefixed form of the address.
func (a Address) Hex() string {
	return hexutil.Encode(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// Common returns the address as a go-ethereum address.
func (a Address) Common() common.Address {
	return common.Address(a)
}

// IsZero returns true for the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// TargetKind discriminates the two forms of AddressOrNamespace.
type TargetKind uint8

const (
	// TargetAddress is a concrete address.
	TargetAddress TargetKind = iota

	// TargetNamespace is a symbolic name resolved by the runtime.
	TargetNamespace
)

func (k TargetKind) String() string {
	switch k {
	case TargetAddress:
		return "address"
	case TargetNamespace:
		return "namespace"
	default:
		return fmt.Sprintf("TargetKind(%d)", uint8(k))
	}
}

// AddressOrNamespace is either a concrete Address or a namespace such as
// "this". The zero value is the zero address.
type AddressOrNamespace struct {
	kind      TargetKind
	address   Address
	namespace string
}

// AtAddress wraps a concrete address.
func AtAddress(a Address) AddressOrNamespace {
	return AddressOrNamespace{kind: TargetAddress, address: a}
}

// InNamespace wraps a namespace name. The name is not validated; resolving
// it is up to the runtime.
func InNamespace(name string) AddressOrNamespace {
	return AddressOrNamespace{kind: TargetNamespace, namespace: name}
}

// This is the namespace of the invoking program.
func This() AddressOrNamespace {
	return InNamespace(NamespaceThis)
}

// ParseAddressOrNamespace wraps raw as an address when it looks like one and
// as a namespace otherwise. A 0x-prefixed string that is not a valid address
// fails with InvalidAddressError.
func ParseAddressOrNamespace(raw string) (AddressOrNamespace, error) {
	if !has0xPrefix(raw) {
		return InNamespace(raw), nil
	}
	a, err := ParseAddress(raw)
	if err != nil {
		return AddressOrNamespace{}, err
	}
	return AtAddress(a), nil
}

// Kind returns the discriminant.
func (t AddressOrNamespace) Kind() TargetKind {
	return t.kind
}

// Address returns the wrapped address and true if this is an address target.
func (t AddressOrNamespace) Address() (Address, bool) {
	return t.address, t.kind == TargetAddress
}

// Namespace returns the namespace name and true if this is a namespace target.
func (t AddressOrNamespace) Namespace() (string, bool) {
	return t.namespace, t.kind == TargetNamespace
}

// String implements fmt.Stringer.
func (t AddressOrNamespace) String() string {
	if t.kind == TargetNamespace {
		return t.namespace
	}
	return t.address.Hex()
}

// addressOrNamespaceJSON is the tagged wire form; exactly one field is set.
type addressOrNamespaceJSON struct {
	Address   *Address `json:"address,omitempty"`
	Namespace *string  `json:"namespace,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t AddressOrNamespace) MarshalJSON() ([]byte, error) {
	if t.kind == TargetNamespace {
		return json.Marshal(addressOrNamespaceJSON{Namespace: &t.namespace})
	}
	return json.Marshal(addressOrNamespaceJSON{Address: &t.address})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *AddressOrNamespace) UnmarshalJSON(data []byte) error {
	var raw addressOrNamespaceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Address != nil && raw.Namespace == nil:
		*t = AtAddress(*raw.Address)
	case raw.Namespace != nil && raw.Address == nil:
		*t = InNamespace(*raw.Namespace)
	default:
		return fmt.Errorf("lasr: address or namespace must set exactly one of them: %s", data)
	}
	return nil
}
