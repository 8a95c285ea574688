package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(Venue{Name: "Hall", ContactEmail: "a@b.co"}))
	})

	t.Run("Field names follow json tags", func(t *testing.T) {
		err := ValidateStruct(Venue{ContactEmail: "not-an-email"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"This field is required."}, verr.Fields["name"])
		assert.Equal(t, []string{"Enter a valid email address."}, verr.Fields["contact_email"])
	})
}

func TestValidationError(t *testing.T) {
	var empty *ValidationError
	assert.NoError(t, empty.OrNil())

	v := NewValidationError("b", "second")
	v.Add("a", "first")
	v.Add("", "whole record")
	assert.Equal(t, "validation failed: whole record, a: first, b: second", v.Error())
	assert.True(t, IsValidationError(v))
}

func TestField(t *testing.T) {
	type payload struct {
		A Field[int] `json:"a,omitzero"`
		B Field[int] `json:"b,omitzero"`
		C Field[int] `json:"c,omitzero"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"a":3,"b":null}`), &p))
	assert.True(t, p.A.Present())
	assert.Equal(t, 3, *p.A.Ptr())
	assert.True(t, p.B.Set)
	assert.True(t, p.B.Null)
	assert.Nil(t, p.B.Ptr())
	assert.False(t, p.C.Set)

	out, err := json.Marshal(payload{A: Some(1), B: Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":null}`, string(out))
}

func TestModules(t *testing.T) {
	m := DefaultModules()
	assert.True(t, m.Enabled(ModuleEvents))
	assert.True(t, m.Enabled(ModuleRentals))
	assert.False(t, m.Enabled(ModuleSales))

	snap := m.Snapshot()
	assert.Len(t, snap, len(AllModules))
	assert.False(t, snap[ModuleManufacturing])

	custom := NewModules(map[Module]bool{ModuleEvents: false})
	assert.False(t, custom.Enabled(ModuleEvents))
}
