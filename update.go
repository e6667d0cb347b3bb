package lasr

import (
	"encoding/json"
	"fmt"
)

// TokenUpdate is an ordered list of mutations to the token held by account.
// Later updates to the same field supersede earlier ones when the runtime
// applies them. An empty list is a legal no-op.
type TokenUpdate struct {
	account AddressOrNamespace
	token   AddressOrNamespace
	updates []TokenUpdateField
}

// NewTokenUpdate wraps the updates for account's holding of token.
func NewTokenUpdate(account, token AddressOrNamespace, updates ...TokenUpdateField) *TokenUpdate {
	return &TokenUpdate{
		account: account,
		token:   token,
		updates: append([]TokenUpdateField{}, updates...),
	}
}

// Account returns the account holding the token.
func (u *TokenUpdate) Account() AddressOrNamespace {
	return u.account
}

// Token returns the token being updated.
func (u *TokenUpdate) Token() AddressOrNamespace {
	return u.token
}

// Updates returns a copy of the ordered field updates.
func (u *TokenUpdate) Updates() []TokenUpdateField {
	return append([]TokenUpdateField{}, u.updates...)
}

// Len returns the number of field updates.
func (u *TokenUpdate) Len() int {
	return len(u.updates)
}

// MarshalJSON implements json.Marshaler.
func (u *TokenUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Account AddressOrNamespace `json:"account"`
		Token   AddressOrNamespace `json:"token"`
		Updates []TokenUpdateField `json:"updates"`
	}{u.account, u.token, u.updates})
}

// ProgramUpdate is an ordered list of mutations to a program account.
type ProgramUpdate struct {
	account AddressOrNamespace
	updates []ProgramUpdateField
}

// NewProgramUpdate wraps the updates for the program at account.
func NewProgramUpdate(account AddressOrNamespace, updates ...ProgramUpdateField) *ProgramUpdate {
	return &ProgramUpdate{
		account: account,
		updates: append([]ProgramUpdateField{}, updates...),
	}
}

// Account returns the program account.
func (u *ProgramUpdate) Account() AddressOrNamespace {
	return u.account
}

// Updates returns a copy of the ordered field updates.
func (u *ProgramUpdate) Updates() []ProgramUpdateField {
	return append([]ProgramUpdateField{}, u.updates...)
}

// Len returns the number of field updates.
func (u *ProgramUpdate) Len() int {
	return len(u.updates)
}

// MarshalJSON implements json.Marshaler.
func (u *ProgramUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Account AddressOrNamespace   `json:"account"`
		Updates []ProgramUpdateField `json:"updates"`
	}{u.account, u.updates})
}

// UpdateKind tags which aggregate a TokenOrProgramUpdate carries.
type UpdateKind uint8

const (
	// UpdateToken carries a TokenUpdate.
	UpdateToken UpdateKind = iota

	// UpdateProgram carries a ProgramUpdate.
	UpdateProgram
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateToken:
		return "tokenUpdate"
	case UpdateProgram:
		return "programUpdate"
	default:
		return fmt.Sprintf("UpdateKind(%d)", uint8(k))
	}
}

// TokenOrProgramUpdate is either a TokenUpdate or a ProgramUpdate.
type TokenOrProgramUpdate struct {
	kind    UpdateKind
	token   *TokenUpdate
	program *ProgramUpdate
}

// TokenUpdateOf tags a token update.
func TokenUpdateOf(u *TokenUpdate) TokenOrProgramUpdate {
	return TokenOrProgramUpdate{kind: UpdateToken, token: u}
}

// ProgramUpdateOf tags a program update.
func ProgramUpdateOf(u *ProgramUpdate) TokenOrProgramUpdate {
	return TokenOrProgramUpdate{kind: UpdateProgram, program: u}
}

// Kind returns the discriminant.
func (u TokenOrProgramUpdate) Kind() UpdateKind {
	return u.kind
}

// TokenUpdate returns the token update and true if Kind is UpdateToken.
func (u TokenOrProgramUpdate) TokenUpdate() (*TokenUpdate, bool) {
	return u.token, u.kind == UpdateToken && u.token != nil
}

// ProgramUpdate returns the program update and true if Kind is UpdateProgram.
func (u TokenOrProgramUpdate) ProgramUpdate() (*ProgramUpdate, bool) {
	return u.program, u.kind == UpdateProgram && u.program != nil
}

// valid reports whether the tagged payload is present.
func (u TokenOrProgramUpdate) valid() bool {
	if u.kind == UpdateToken {
		return u.token != nil
	}
	return u.kind == UpdateProgram && u.program != nil
}

// firstInvalidField returns the index of the first field update without an
// action, or -1.
func (u TokenOrProgramUpdate) firstInvalidField() int {
	if u.kind == UpdateProgram {
		for i, f := range u.program.updates {
			if !f.valid() {
				return i
			}
		}
		return -1
	}
	for i, f := range u.token.updates {
		if !f.valid() {
			return i
		}
	}
	return -1
}

// MarshalJSON implements json.Marshaler.
func (u TokenOrProgramUpdate) MarshalJSON() ([]byte, error) {
	if u.kind == UpdateProgram {
		return json.Marshal(map[string]*ProgramUpdate{u.kind.String(): u.program})
	}
	return json.Marshal(map[string]*TokenUpdate{u.kind.String(): u.token})
}
