package lasr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestCreateInstructionJSON(t *testing.T) {
	dist, err := NewTokenDistributionBuilder().
		ProgramID(AtAddress(testToken)).
		To(AtAddress(testOwner)).
		Amount("1").
		Build()
	require.NoError(t, err)

	t.Run("with distribution", func(t *testing.T) {
		inst, err := NewCreateInstructionBuilder().
			ProgramNamespace(This()).
			ProgramID(AtAddress(testToken)).
			ProgramOwner(testOwner).
			TotalSupply("2").
			InitializedSupply("1").
			Distribution(dist).
			Build()
		require.NoError(t, err)

		want := `{"create":{
			"programNamespace":{"namespace":"this"},
			"programId":{"address":"0x2222222222222222222222222222222222222222"},
			"programOwner":"0x1111111111111111111111111111111111111111",
			"totalSupply":"` + pad64("1bc16d674ec80000") + `",
			"initializedSupply":"` + pad64("de0b6b3a7640000") + `",
			"distribution":[{
				"programId":{"address":"0x2222222222222222222222222222222222222222"},
				"to":{"address":"0x1111111111111111111111111111111111111111"},
				"amount":"` + pad64("de0b6b3a7640000") + `",
				"updateFields":[]
			}]
		}}`
		assert.JSONEq(t, want, marshal(t, inst))
	})

	t.Run("without supplies", func(t *testing.T) {
		inst, err := NewCreateInstructionBuilder().
			ProgramNamespace(This()).
			ProgramID(This()).
			ProgramOwner(testOwner).
			Build()
		require.NoError(t, err)

		want := `{"create":{
			"programNamespace":{"namespace":"this"},
			"programId":{"namespace":"this"},
			"programOwner":"0x1111111111111111111111111111111111111111",
			"distribution":[]
		}}`
		assert.JSONEq(t, want, marshal(t, inst))
	})
}

func TestUpdateInstructionJSON(t *testing.T) {
	inst, err := NewUpdateInstructionBuilder().
		AddTokenUpdate(NewTokenUpdate(AtAddress(testOwner), AtAddress(testToken),
			MustTokenUpdateField(TokenTokenIDs, Push{ID: pad64("1")}))).
		AddProgramUpdate(NewProgramUpdate(This(),
			MustProgramUpdateField(ProgramData, Insert{Key: "phase", Value: "launched"}))).
		Build()
	require.NoError(t, err)

	want := `{"update":{"updates":[
		{"tokenUpdate":{
			"account":{"address":"0x1111111111111111111111111111111111111111"},
			"token":{"address":"0x2222222222222222222222222222222222222222"},
			"updates":[{"field":"tokenIds","action":{"push":"` + pad64("1") + `"}}]
		}},
		{"programUpdate":{
			"account":{"namespace":"this"},
			"updates":[{"field":"data","action":{"insert":["phase","launched"]}}]
		}}
	]}}`
	assert.JSONEq(t, want, marshal(t, inst))
}

func TestTransferInstructionJSON(t *testing.T) {
	t.Run("amount", func(t *testing.T) {
		inst, err := NewTransferInstructionBuilder().
			TokenAddress(testToken).
			From(AtAddress(testOwner)).
			To(InNamespace("vault")).
			Amount("1").
			Build()
		require.NoError(t, err)

		want := `{"transfer":{
			"tokenAddress":"0x2222222222222222222222222222222222222222",
			"from":{"address":"0x1111111111111111111111111111111111111111"},
			"to":{"namespace":"vault"},
			"amount":"` + pad64("de0b6b3a7640000") + `"
		}}`
		assert.JSONEq(t, want, marshal(t, inst))
	})

	t.Run("token ids", func(t *testing.T) {
		inst, err := NewTransferInstructionBuilder().
			TokenAddress(testToken).
			From(AtAddress(testOwner)).
			To(AtAddress(testReceive)).
			TokenIDs("3").
			Build()
		require.NoError(t, err)

		want := `{"transfer":{
			"tokenAddress":"0x2222222222222222222222222222222222222222",
			"from":{"address":"0x1111111111111111111111111111111111111111"},
			"to":{"address":"0x3333333333333333333333333333333333333333"},
			"tokenIds":["` + pad64("3") + `"]
		}}`
		assert.JSONEq(t, want, marshal(t, inst))
	})
}

func TestBurnInstructionJSON(t *testing.T) {
	inst, err := NewBurnInstructionBuilder().
		ProgramID(AtAddress(testToken)).
		Caller(testOwner).
		TokenAddress(testToken).
		BurnFromAddress(AtAddress(testOwner)).
		Amount("2.5").
		Build()
	require.NoError(t, err)

	want := `{"burn":{
		"caller":"0x1111111111111111111111111111111111111111",
		"programId":{"address":"0x2222222222222222222222222222222222222222"},
		"tokenAddress":"0x2222222222222222222222222222222222222222",
		"burnFromAddress":{"address":"0x1111111111111111111111111111111111111111"},
		"amount":"` + pad64("22b1c8c1227a0000") + `"
	}}`
	assert.JSONEq(t, want, marshal(t, inst))
}

func TestInstructionKinds(t *testing.T) {
	tests := []struct {
		inst Instruction
		want string
	}{
		{&CreateInstruction{}, "create"},
		{&UpdateInstruction{}, "update"},
		{&TransferInstruction{}, "transfer"},
		{&BurnInstruction{}, "burn"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inst.Kind().String())
		})
	}
}
