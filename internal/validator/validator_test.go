package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listQuery struct {
	Status string `json:"status" validate:"is-application-status"`
}

type bulkRequest struct {
	Action string `json:"action" validate:"required,is-bulk-action"`
	IDs    []uint `json:"ids" validate:"required,min=1"`
}

func TestValidator_CustomRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&listQuery{}))
	assert.NoError(t, v.Validate(&listQuery{Status: "approved"}))

	err := v.Validate(&listQuery{Status: "archived"})
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "status")

	assert.NoError(t, v.Validate(&bulkRequest{Action: "delete", IDs: []uint{1}}))

	err = v.Validate(&bulkRequest{Action: "promote"})
	require.Error(t, err)
	vErr = err.(*ValidationError)
	assert.Contains(t, vErr.Errors, "action")
	assert.Contains(t, vErr.Errors, "ids")
}

func TestValidator_IsEmail(t *testing.T) {
	v := New()

	assert.True(t, v.IsEmail("ada@example.edu"))
	assert.False(t, v.IsEmail("not-an-email"))
	assert.False(t, v.IsEmail(""))
	assert.False(t, v.IsEmail("a@"))
}
