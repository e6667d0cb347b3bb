package lasr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// EntityKind is the kind of entity a field belongs to.
type EntityKind uint8

const (
	// TokenEntity is a token held by an account.
	TokenEntity EntityKind = iota

	// ProgramEntity is a program account.
	ProgramEntity
)

func (k EntityKind) String() string {
	switch k {
	case TokenEntity:
		return "token"
	case ProgramEntity:
		return "program"
	default:
		return fmt.Sprintf("EntityKind(%d)", uint8(k))
	}
}

// Action names a mutation applied to a field.
type Action uint8

const (
	ActionInsert Action = iota
	ActionExtend
	ActionRemove
	ActionRevoke
	ActionPush
	ActionPop
)

var actionNames = [...]string{
	ActionInsert: "insert",
	ActionExtend: "extend",
	ActionRemove: "remove",
	ActionRevoke: "revoke",
	ActionPush:   "push",
	ActionPop:    "pop",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction returns the action with the given wire name.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// TokenField is a mutable slot of a token.
type TokenField uint8

const (
	TokenApprovals TokenField = iota
	TokenBalance
	TokenData
	TokenMetadata
	TokenOwnerID
	TokenProgramID
	TokenStatus
	TokenTokenIDs
)

var tokenFieldNames = [...]string{
	TokenApprovals: "approvals",
	TokenBalance:   "balance",
	TokenData:      "data",
	TokenMetadata:  "metadata",
	TokenOwnerID:   "ownerId",
	TokenProgramID: "programId",
	TokenStatus:    "status",
	TokenTokenIDs:  "tokenIds",
}

func (f TokenField) String() string {
	if int(f) < len(tokenFieldNames) {
		return tokenFieldNames[f]
	}
	return fmt.Sprintf("TokenField(%d)", uint8(f))
}

// ParseTokenField returns the token field with the given wire name.
func ParseTokenField(name string) (TokenField, error) {
	for i, n := range tokenFieldNames {
		if n == name {
			return TokenField(i), nil
		}
	}
	return 0, &UnknownFieldError{Kind: TokenEntity, Field: name}
}

// ProgramField is a mutable slot of a program account.
type ProgramField uint8

const (
	ProgramBalance ProgramField = iota
	ProgramData
	ProgramMetadata
	ProgramOwnerID
	ProgramStatus
)

var programFieldNames = [...]string{
	ProgramBalance:  "balance",
	ProgramData:     "data",
	ProgramMetadata: "metadata",
	ProgramOwnerID:  "ownerId",
	ProgramStatus:   "status",
}

func (f ProgramField) String() string {
	if int(f) < len(programFieldNames) {
		return programFieldNames[f]
	}
	return fmt.Sprintf("ProgramField(%d)", uint8(f))
}

// ParseProgramField returns the program field with the given wire name.
func ParseProgramField(name string) (ProgramField, error) {
	for i, n := range programFieldNames {
		if n == name {
			return ProgramField(i), nil
		}
	}
	return 0, &UnknownFieldError{Kind: ProgramEntity, Field: name}
}

// Legal actions per field. Fields without an entry (balance, ownerId,
// programId, status) are maintained by the runtime and accept none.
var (
	keyValueActions = []Action{ActionInsert, ActionExtend, ActionRemove}

	tokenActions = map[TokenField][]Action{
		TokenApprovals: {ActionInsert, ActionExtend, ActionRemove, ActionRevoke},
		TokenData:      keyValueActions,
		TokenMetadata:  keyValueActions,
		TokenTokenIDs:  {ActionPush, ActionPop, ActionExtend, ActionRemove},
	}

	programActions = map[ProgramField][]Action{
		ProgramData:     keyValueActions,
		ProgramMetadata: keyValueActions,
	}
)

// Allows reports whether action is legal on the field.
func (f TokenField) Allows(action Action) bool {
	return containsAction(tokenActions[f], action)
}

// Allows reports whether action is legal on the field.
func (f ProgramField) Allows(action Action) bool {
	return containsAction(programActions[f], action)
}

func containsAction(actions []Action, action Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// ActionVariant is the payload of a field mutation.
// This is a sealed interface - only types within this package can implement it.
type ActionVariant interface {
	// isActionVariant is unexported to seal the interface.
	isActionVariant()

	// Action returns the action the payload belongs to.
	Action() Action

	// payload returns the value written under the action's wire name.
	payload() any
}

// Insert sets Key to Value.
type Insert struct {
	Key   string
	Value string
}

func (Insert) isActionVariant() {}
func (Insert) Action() Action { return ActionInsert }
func (v Insert) payload() any { return [2]string{v.Key, v.Value} }

// Extend merges a set of entries. Each value is kept as the JSON the
// caller supplied, so numbers, objects and null reach the runtime as is.
type Extend struct {
	entries map[string]json.RawMessage
}

// NewExtend builds an Extend payload whose values are all strings.
func NewExtend(entries map[string]string) Extend {
	raw := make(map[string]json.RawMessage, len(entries))
	for k, v := range entries {
		raw[k] = quoteJSON(v)
	}
	return Extend{entries: raw}
}

// NewExtendJSON copies entries into an Extend payload. Values must be
// valid JSON; MalformedExtendError names a key that is not.
func NewExtendJSON(entries map[string]json.RawMessage) (Extend, error) {
	raw := make(map[string]json.RawMessage, len(entries))
	for k, v := range entries {
		if !gjson.ValidBytes(v) {
			return Extend{}, &MalformedExtendError{Field: k, Expected: "value", Value: string(v)}
		}
		raw[k] = append(json.RawMessage{}, v...)
	}
	return Extend{entries: raw}, nil
}

func (Extend) isActionVariant() {}
func (Extend) Action() Action { return ActionExtend }
func (v Extend) payload() any { return v.entries }

// Entries returns a copy of the merged entries.
func (v Extend) Entries() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(v.entries))
	for k, raw := range v.entries {
		out[k] = append(json.RawMessage{}, raw...)
	}
	return out
}

// String returns the entry under key when it is a JSON string.
func (v Extend) String(key string) (string, bool) {
	r := gjson.ParseBytes(v.entries[key])
	return r.Str, r.Type == gjson.String
}

// ExtendIDs appends token ids. Only legal on tokenIds.
type ExtendIDs struct {
	ids []string
}

// NewExtendIDs copies ids into an ExtendIDs payload. Ids are expected in
// canonical hex; see IDToCanonicalHex.
func NewExtendIDs(ids ...string) ExtendIDs {
	return ExtendIDs{ids: append([]string{}, ids...)}
}

func (ExtendIDs) isActionVariant() {}
func (ExtendIDs) Action() Action { return ActionExtend }
func (v ExtendIDs) payload() any { return v.ids }

// IDs returns a copy of the appended ids.
func (v ExtendIDs) IDs() []string {
	return append([]string{}, v.ids...)
}

// Remove deletes Key (or a token id on tokenIds).
type Remove struct {
	Key string
}

func (Remove) isActionVariant() {}
func (Remove) Action() Action { return ActionRemove }
func (v Remove) payload() any { return v.Key }

// Revoke withdraws the approval granted to Key. Only legal on approvals.
type Revoke struct {
	Key string
}

func (Revoke) isActionVariant() {}
func (Revoke) Action() Action { return ActionRevoke }
func (v Revoke) payload() any { return v.Key }

// Push appends a token id. Only legal on tokenIds.
type Push struct {
	ID string
}

func (Push) isActionVariant() {}
func (Push) Action() Action { return ActionPush }
func (v Push) payload() any { return v.ID }

// Pop removes the last token id. Only legal on tokenIds.
type Pop struct{}

func (Pop) isActionVariant() {}
func (Pop) Action() Action { return ActionPop }
func (Pop) payload() any { return nil }

func quoteJSON(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// marshalVariant renders v as {"<action>": payload}.
func marshalVariant(v ActionVariant) ([]byte, error) {
	if v == nil {
		return nil, errNoAction
	}
	return json.Marshal(map[string]any{v.Action().String(): v.payload()})
}

// errNoAction is returned when marshaling a zero-value update field.
var errNoAction = errors.New("lasr: update field has no action")

// TokenUpdateField is one mutation of a token field.
type TokenUpdateField struct {
	field  TokenField
	action ActionVariant
}

// NewTokenUpdateField pairs a token field with an action payload. The pair
// must be in the field's legal table and, for extend, the payload must
// match the field (ExtendIDs on tokenIds, Extend elsewhere).
func NewTokenUpdateField(field TokenField, action ActionVariant) (TokenUpdateField, error) {
	if action == nil || !field.Allows(action.Action()) || !variantFits(field == TokenTokenIDs, action) {
		return TokenUpdateField{}, &InvalidActionError{Kind: TokenEntity, Field: field.String(), Action: variantName(action)}
	}
	return TokenUpdateField{field: field, action: action}, nil
}

// MustTokenUpdateField is like NewTokenUpdateField but panics on error.
func MustTokenUpdateField(field TokenField, action ActionVariant) TokenUpdateField {
	u, err := NewTokenUpdateField(field, action)
	if err != nil {
		panic(err)
	}
	return u
}

// Field returns the mutated field.
func (u TokenUpdateField) Field() TokenField {
	return u.field
}

// Action returns the action payload.
func (u TokenUpdateField) Action() ActionVariant {
	return u.action
}

func (u TokenUpdateField) valid() bool {
	return u.action != nil
}

// MarshalJSON implements json.Marshaler.
func (u TokenUpdateField) MarshalJSON() ([]byte, error) {
	return marshalUpdateField(u.field.String(), u.action)
}

// ProgramUpdateField is one mutation of a program field.
type ProgramUpdateField struct {
	field  ProgramField
	action ActionVariant
}

// NewProgramUpdateField pairs a program field with an action payload.
func NewProgramUpdateField(field ProgramField, action ActionVariant) (ProgramUpdateField, error) {
	if action == nil || !field.Allows(action.Action()) || !variantFits(false, action) {
		return ProgramUpdateField{}, &InvalidActionError{Kind: ProgramEntity, Field: field.String(), Action: variantName(action)}
	}
	return ProgramUpdateField{field: field, action: action}, nil
}

// MustProgramUpdateField is like NewProgramUpdateField but panics on error.
func MustProgramUpdateField(field ProgramField, action ActionVariant) ProgramUpdateField {
	u, err := NewProgramUpdateField(field, action)
	if err != nil {
		panic(err)
	}
	return u
}

// Field returns the mutated field.
func (u ProgramUpdateField) Field() ProgramField {
	return u.field
}

// Action returns the action payload.
func (u ProgramUpdateField) Action() ActionVariant {
	return u.action
}

func (u ProgramUpdateField) valid() bool {
	return u.action != nil
}

// MarshalJSON implements json.Marshaler.
func (u ProgramUpdateField) MarshalJSON() ([]byte, error) {
	return marshalUpdateField(u.field.String(), u.action)
}

func marshalUpdateField(field string, action ActionVariant) ([]byte, error) {
	raw, err := marshalVariant(action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Field  string          `json:"field"`
		Action json.RawMessage `json:"action"`
	}{field, raw})
}

// variantFits checks the extend payload shape against the field family.
func variantFits(idField bool, action ActionVariant) bool {
	switch action.(type) {
	case ExtendIDs:
		return idField
	case Extend:
		return !idField
	default:
		return true
	}
}

func variantName(action ActionVariant) string {
	if action == nil {
		return "<nil>"
	}
	return action.Action().String()
}

// FieldUpdateRequest is a field mutation as entered by a caller.
type FieldUpdateRequest struct {
	Field  string `json:"field"`
	Action string `json:"action"`
	Value  string `json:"value"`
}

// BuildTokenUpdateField turns a request into a TokenUpdateField.
//
// The field name is resolved first (UnknownFieldError), then the action is
// checked against the field's legal table (InvalidActionError), then the
// value is parsed for the action:
//   - insert: "key:value", split on the first colon (MalformedInsertError)
//   - extend: a JSON object, or a JSON array of ids on tokenIds
//   - remove, revoke: the bare key (a token id on tokenIds)
//   - push: a token id
//   - pop: value is ignored
func BuildTokenUpdateField(req FieldUpdateRequest) (TokenUpdateField, error) {
	field, err := ParseTokenField(req.Field)
	if err != nil {
		return TokenUpdateField{}, err
	}
	action, ok := ParseAction(req.Action)
	if !ok || !field.Allows(action) {
		return TokenUpdateField{}, &InvalidActionError{Kind: TokenEntity, Field: req.Field, Action: req.Action}
	}
	variant, err := parseVariant(req.Field, field == TokenTokenIDs, action, req.Value)
	if err != nil {
		return TokenUpdateField{}, err
	}
	return NewTokenUpdateField(field, variant)
}

// BuildProgramUpdateField turns a request into a ProgramUpdateField, with
// the same rules as BuildTokenUpdateField.
func BuildProgramUpdateField(req FieldUpdateRequest) (ProgramUpdateField, error) {
	field, err := ParseProgramField(req.Field)
	if err != nil {
		return ProgramUpdateField{}, err
	}
	action, ok := ParseAction(req.Action)
	if !ok || !field.Allows(action) {
		return ProgramUpdateField{}, &InvalidActionError{Kind: ProgramEntity, Field: req.Field, Action: req.Action}
	}
	variant, err := parseVariant(req.Field, false, action, req.Value)
	if err != nil {
		return ProgramUpdateField{}, err
	}
	return NewProgramUpdateField(field, variant)
}

// parseVariant builds the payload for an action already known to be legal.
func parseVariant(field string, idField bool, action Action, value string) (ActionVariant, error) {
	switch action {
	case ActionInsert:
		key, val, found := strings.Cut(value, ":")
		if !found {
			return nil, &MalformedInsertError{Field: field, Value: value}
		}
		return Insert{Key: key, Value: val}, nil

	case ActionExtend:
		if idField {
			return parseExtendIDs(field, value)
		}
		return parseExtendEntries(field, value)

	case ActionRemove:
		if idField {
			id, err := IDToCanonicalHex(value)
			if err != nil {
				return nil, err
			}
			return Remove{Key: id}, nil
		}
		return Remove{Key: value}, nil

	case ActionRevoke:
		return Revoke{Key: value}, nil

	case ActionPush:
		id, err := IDToCanonicalHex(value)
		if err != nil {
			return nil, err
		}
		return Push{ID: id}, nil

	case ActionPop:
		return Pop{}, nil

	default:
		return nil, &InvalidActionError{Field: field, Action: action.String()}
	}
}

func parseExtendEntries(field, value string) (ActionVariant, error) {
	if !gjson.Valid(value) {
		return nil, &MalformedExtendError{Field: field, Expected: "object", Value: value}
	}
	obj := gjson.Parse(value)
	if !obj.IsObject() {
		return nil, &MalformedExtendError{Field: field, Expected: "object", Value: value}
	}
	entries := make(map[string]json.RawMessage)
	obj.ForEach(func(k, v gjson.Result) bool {
		entries[k.String()] = json.RawMessage(v.Raw)
		return true
	})
	return Extend{entries: entries}, nil
}

func parseExtendIDs(field, value string) (ActionVariant, error) {
	if !gjson.Valid(value) {
		return nil, &MalformedExtendError{Field: field, Expected: "array", Value: value}
	}
	arr := gjson.Parse(value)
	if !arr.IsArray() {
		return nil, &MalformedExtendError{Field: field, Expected: "array", Value: value}
	}
	elems := arr.Array()
	ids := make([]string, 0, len(elems))
	for _, elem := range elems {
		id, err := IDToCanonicalHex(elem.String())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ExtendIDs{ids: ids}, nil
}
