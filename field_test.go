package lasr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allActions = []Action{ActionInsert, ActionExtend, ActionRemove, ActionRevoke, ActionPush, ActionPop}

// sampleValue returns a well-formed value for action on a field.
func sampleValue(action Action, idField bool) string {
	switch action {
	case ActionInsert:
		return "key:value"
	case ActionExtend:
		if idField {
			return `["1","2"]`
		}
		return `{"key":"value"}`
	case ActionRemove, ActionPush:
		if idField {
			return "1"
		}
		return "key"
	case ActionRevoke:
		return "0x1111111111111111111111111111111111111111"
	default:
		return ""
	}
}

func TestTokenFieldLegality(t *testing.T) {
	legal := map[TokenField][]Action{
		TokenApprovals: {ActionInsert, ActionExtend, ActionRemove, ActionRevoke},
		TokenData:      {ActionInsert, ActionExtend, ActionRemove},
		TokenMetadata:  {ActionInsert, ActionExtend, ActionRemove},
		TokenTokenIDs:  {ActionPush, ActionPop, ActionExtend, ActionRemove},
	}

	for field := TokenApprovals; field <= TokenTokenIDs; field++ {
		for _, action := range allActions {
			want := containsAction(legal[field], action)
			t.Run(field.String()+"/"+action.String(), func(t *testing.T) {
				assert.Equal(t, want, field.Allows(action))

				u, err := BuildTokenUpdateField(FieldUpdateRequest{
					Field:  field.String(),
					Action: action.String(),
					Value:  sampleValue(action, field == TokenTokenIDs),
				})
				if !want {
					var actErr *InvalidActionError
					require.ErrorAs(t, err, &actErr)
					assert.Equal(t, TokenEntity, actErr.Kind)
					assert.Equal(t, field.String(), actErr.Field)
					assert.Equal(t, action.String(), actErr.Action)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, field, u.Field())
				assert.Equal(t, action, u.Action().Action())
			})
		}
	}
}

func TestProgramFieldLegality(t *testing.T) {
	legal := map[ProgramField][]Action{
		ProgramData:     {ActionInsert, ActionExtend, ActionRemove},
		ProgramMetadata: {ActionInsert, ActionExtend, ActionRemove},
	}

	for field := ProgramBalance; field <= ProgramStatus; field++ {
		for _, action := range allActions {
			want := containsAction(legal[field], action)
			t.Run(field.String()+"/"+action.String(), func(t *testing.T) {
				assert.Equal(t, want, field.Allows(action))

				_, err := BuildProgramUpdateField(FieldUpdateRequest{
					Field:  field.String(),
					Action: action.String(),
					Value:  sampleValue(action, false),
				})
				if !want {
					var actErr *InvalidActionError
					require.ErrorAs(t, err, &actErr)
					assert.Equal(t, ProgramEntity, actErr.Kind)
					return
				}
				require.NoError(t, err)
			})
		}
	}
}

func TestBuildTokenUpdateFieldPayloads(t *testing.T) {
	tests := []struct {
		name string
		req  FieldUpdateRequest
		want string
	}{
		{
			name: "insert splits on first colon",
			req:  FieldUpdateRequest{Field: "data", Action: "insert", Value: "url:https://example.com"},
			want: `{"field":"data","action":{"insert":["url","https://example.com"]}}`,
		},
		{
			name: "insert with empty value",
			req:  FieldUpdateRequest{Field: "metadata", Action: "insert", Value: "note:"},
			want: `{"field":"metadata","action":{"insert":["note",""]}}`,
		},
		{
			name: "extend object",
			req:  FieldUpdateRequest{Field: "metadata", Action: "extend", Value: `{"symbol":"DEMO","decimals":18}`},
			want: `{"field":"metadata","action":{"extend":{"symbol":"DEMO","decimals":18}}}`,
		},
		{
			name: "extend keeps member types",
			req:  FieldUpdateRequest{Field: "data", Action: "extend", Value: `{"n":1,"nested":{"a":true},"z":null,"list":[1,"2"]}`},
			want: `{"field":"data","action":{"extend":{"n":1,"nested":{"a":true},"z":null,"list":[1,"2"]}}}`,
		},
		{
			name: "extend ids",
			req:  FieldUpdateRequest{Field: "tokenIds", Action: "extend", Value: `["1", "0x2"]`},
			want: `{"field":"tokenIds","action":{"extend":["` + pad64("1") + `","` + pad64("2") + `"]}}`,
		},
		{
			name: "remove key",
			req:  FieldUpdateRequest{Field: "approvals", Action: "remove", Value: "0x1111111111111111111111111111111111111111"},
			want: `{"field":"approvals","action":{"remove":"0x1111111111111111111111111111111111111111"}}`,
		},
		{
			name: "remove id",
			req:  FieldUpdateRequest{Field: "tokenIds", Action: "remove", Value: "10"},
			want: `{"field":"tokenIds","action":{"remove":"` + pad64("a") + `"}}`,
		},
		{
			name: "revoke",
			req:  FieldUpdateRequest{Field: "approvals", Action: "revoke", Value: "spender"},
			want: `{"field":"approvals","action":{"revoke":"spender"}}`,
		},
		{
			name: "push",
			req:  FieldUpdateRequest{Field: "tokenIds", Action: "push", Value: "7"},
			want: `{"field":"tokenIds","action":{"push":"` + pad64("7") + `"}}`,
		},
		{
			name: "pop ignores value",
			req:  FieldUpdateRequest{Field: "tokenIds", Action: "pop", Value: "whatever"},
			want: `{"field":"tokenIds","action":{"pop":null}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := BuildTokenUpdateField(tt.req)
			require.NoError(t, err)
			data, err := json.Marshal(u)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestBuildUpdateFieldErrors(t *testing.T) {
	t.Run("unknown token field", func(t *testing.T) {
		_, err := BuildTokenUpdateField(FieldUpdateRequest{Field: "color", Action: "insert", Value: "a:b"})
		var fieldErr *UnknownFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, TokenEntity, fieldErr.Kind)
		assert.Equal(t, "color", fieldErr.Field)
	})

	t.Run("tokenIds is not a program field", func(t *testing.T) {
		_, err := BuildProgramUpdateField(FieldUpdateRequest{Field: "tokenIds", Action: "push", Value: "1"})
		var fieldErr *UnknownFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, ProgramEntity, fieldErr.Kind)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := BuildTokenUpdateField(FieldUpdateRequest{Field: "data", Action: "upsert", Value: "a:b"})
		var actErr *InvalidActionError
		require.ErrorAs(t, err, &actErr)
		assert.Equal(t, "upsert", actErr.Action)
	})

	t.Run("unknown field is reported before bad action", func(t *testing.T) {
		_, err := BuildTokenUpdateField(FieldUpdateRequest{Field: "color", Action: "upsert"})
		var fieldErr *UnknownFieldError
		assert.ErrorAs(t, err, &fieldErr)
	})

	t.Run("insert without colon", func(t *testing.T) {
		_, err := BuildProgramUpdateField(FieldUpdateRequest{Field: "data", Action: "insert", Value: "novalue"})
		var insErr *MalformedInsertError
		require.ErrorAs(t, err, &insErr)
		assert.Equal(t, "novalue", insErr.Value)
	})

	t.Run("extend with invalid JSON", func(t *testing.T) {
		_, err := BuildTokenUpdateField(FieldUpdateRequest{Field: "metadata", Action: "extend", Value: `{"a":`})
		var extErr *MalformedExtendError
		require.ErrorAs(t, err, &extErr)
		assert.Equal(t, "object", extErr.Expected)
	})

	t.Run("extend with an array on a key-value field", func(t *testing.T) {
		_, err := BuildTokenUpdateField(FieldUpdateRequest{Field: "data", Action: "extend", Value: `["a"]`})
		var extErr *MalformedExtendError
		require.ErrorAs(t, err, &extErr)
	})

	t.Run("extend with an object on tokenIds", func(t *testing.T) {
		_, err := BuildTokenUpdateField(FieldUpdateRequest{Field: "tokenIds", Action: "extend", Value: `{"a":"1"}`})
		var extErr *MalformedExtendError
		require.ErrorAs(t, err, &extErr)
		assert.Equal(t, "array", extErr.Expected)
	})

	t.Run("push with a bad id", func(t *testing.T) {
		_, err := BuildTokenUpdateField(FieldUpdateRequest{Field: "tokenIds", Action: "push", Value: "one"})
		var encErr *EncodingError
		require.ErrorAs(t, err, &encErr)
	})
}

func TestNewUpdateFieldChecksPayload(t *testing.T) {
	t.Run("Extend on tokenIds", func(t *testing.T) {
		_, err := NewTokenUpdateField(TokenTokenIDs, NewExtend(map[string]string{"a": "b"}))
		var actErr *InvalidActionError
		assert.ErrorAs(t, err, &actErr)
	})

	t.Run("ExtendIDs on metadata", func(t *testing.T) {
		_, err := NewTokenUpdateField(TokenMetadata, NewExtendIDs(pad64("1")))
		var actErr *InvalidActionError
		assert.ErrorAs(t, err, &actErr)
	})

	t.Run("ExtendIDs on a program field", func(t *testing.T) {
		_, err := NewProgramUpdateField(ProgramData, NewExtendIDs(pad64("1")))
		var actErr *InvalidActionError
		assert.ErrorAs(t, err, &actErr)
	})

	t.Run("nil payload", func(t *testing.T) {
		_, err := NewTokenUpdateField(TokenData, nil)
		var actErr *InvalidActionError
		require.ErrorAs(t, err, &actErr)
		assert.Equal(t, "<nil>", actErr.Action)
	})

	t.Run("must panics", func(t *testing.T) {
		assert.Panics(t, func() { MustProgramUpdateField(ProgramStatus, Insert{Key: "a", Value: "b"}) })
		assert.NotPanics(t, func() { MustTokenUpdateField(TokenTokenIDs, Pop{}) })
	})
}

func TestExtendCopiesEntries(t *testing.T) {
	entries := map[string]string{"a": "1"}
	ext := NewExtend(entries)
	entries["a"] = "2"
	v, ok := ext.String("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	got := ext.Entries()
	got["b"] = json.RawMessage(`3`)
	assert.Len(t, ext.Entries(), 1)

	ids := []string{pad64("1")}
	extIDs := NewExtendIDs(ids...)
	ids[0] = pad64("2")
	assert.Equal(t, []string{pad64("1")}, extIDs.IDs())
}

func TestNewExtendJSON(t *testing.T) {
	raw := json.RawMessage(`{"a":[1,2]}`)
	ext, err := NewExtendJSON(map[string]json.RawMessage{"obj": raw, "name": json.RawMessage(`"demo"`)})
	require.NoError(t, err)

	raw[2] = 'b'
	assert.JSONEq(t, `{"a":[1,2]}`, string(ext.Entries()["obj"]))
	name, ok := ext.String("name")
	assert.True(t, ok)
	assert.Equal(t, "demo", name)
	_, ok = ext.String("obj")
	assert.False(t, ok)
	_, ok = ext.String("missing")
	assert.False(t, ok)

	_, err = NewExtendJSON(map[string]json.RawMessage{"bad": json.RawMessage(`{"a":`)})
	var extErr *MalformedExtendError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "bad", extErr.Field)
}

func TestZeroUpdateFieldDoesNotMarshal(t *testing.T) {
	_, err := json.Marshal(TokenUpdateField{})
	assert.Error(t, err)
	_, err = json.Marshal(ProgramUpdateField{})
	assert.Error(t, err)
	assert.False(t, TokenUpdateField{}.valid())
	assert.True(t, MustTokenUpdateField(TokenTokenIDs, Pop{}).valid())
}

func TestParseNames(t *testing.T) {
	for _, name := range []string{"insert", "extend", "remove", "revoke", "push", "pop"} {
		a, ok := ParseAction(name)
		require.True(t, ok, name)
		assert.Equal(t, name, a.String())
	}
	_, ok := ParseAction("Insert")
	assert.False(t, ok)

	f, err := ParseTokenField("ownerId")
	require.NoError(t, err)
	assert.Equal(t, TokenOwnerID, f)

	pf, err := ParseProgramField("metadata")
	require.NoError(t, err)
	assert.Equal(t, ProgramMetadata, pf)
}
