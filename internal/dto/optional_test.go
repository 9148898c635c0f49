package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesOmittedFromProvided(t *testing.T) {
	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"full_name":"Alice A.","email":null}`), &req))

	name, ok := req.FullName.Get()
	assert.True(t, ok)
	assert.Equal(t, "Alice A.", name)

	assert.False(t, req.Email.Set)
	assert.True(t, req.Email.Null)
	assert.False(t, req.Username.Set)
	assert.False(t, req.Username.Null)
	assert.Nil(t, req.Password.Ptr())
}

func TestOptionalKeepsExplicitZeroValues(t *testing.T) {
	var req UpdateSessionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"is_active":false,"title":""}`), &req))

	active, ok := req.IsActive.Get()
	assert.True(t, ok)
	assert.False(t, active)
	assert.True(t, req.Title.Set)
	assert.Equal(t, "", *req.Title.Ptr())
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var req UpdateSessionRequest
	assert.Error(t, json.Unmarshal([]byte(`{"is_active":"yes"}`), &req))
}

func TestOptionalValueAfterNullClearsNullMark(t *testing.T) {
	var o Optional[string]
	require.NoError(t, json.Unmarshal([]byte(`null`), &o))
	assert.True(t, o.Null)

	require.NoError(t, json.Unmarshal([]byte(`"Alice"`), &o))
	assert.True(t, o.Set)
	assert.False(t, o.Null)
}
