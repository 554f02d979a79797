package user

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/user/model"
)

func strPtr(s string) *string { return &s }

func TestCreateUserRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr bool
	}{
		{"valid", CreateUserRequest{Username: "alice", Email: "alice@example.com", Password: "secret"}, false},
		{"missing username", CreateUserRequest{Email: "alice@example.com", Password: "secret"}, true},
		{"missing email", CreateUserRequest{Username: "alice", Password: "secret"}, true},
		{"invalid email", CreateUserRequest{Username: "alice", Email: "not-an-email", Password: "secret"}, true},
		{"missing password", CreateUserRequest{Username: "alice", Email: "alice@example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateUserRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateUserRequest
		wantErr bool
	}{
		{"all absent is valid", UpdateUserRequest{}, false},
		{"username only", UpdateUserRequest{Username: strPtr("bob")}, false},
		{"empty username rejected", UpdateUserRequest{Username: strPtr("")}, true},
		{"invalid email rejected", UpdateUserRequest{Email: strPtr("nope")}, true},
		{"empty password rejected", UpdateUserRequest{Password: strPtr("")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateUserRequestToPatch(t *testing.T) {
	req := UpdateUserRequest{Username: strPtr("bob"), Email: nil, Password: strPtr("new")}
	patch := req.ToPatch()

	require.NotNil(t, patch.Username)
	assert.Equal(t, "bob", *patch.Username)
	assert.Nil(t, patch.Email)
	require.NotNil(t, patch.Password)
	assert.False(t, patch.IsEmpty())

	assert.True(t, UpdateUserRequest{}.ToPatch().IsEmpty())
}

// The DTO has no password field at all, so no serialization path can
// leak the stored credential.
func TestUserDTOOmitsPassword(t *testing.T) {
	u := &model.User{
		ID:        1,
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "hunter2",
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(NewUserDTO(u))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.NotContains(t, decoded, "password")
	assert.Equal(t, "alice", decoded["username"])
}

func TestNewUserDTOsEmptySliceNotNil(t *testing.T) {
	dtos := NewUserDTOs(nil)
	assert.NotNil(t, dtos)
	assert.Len(t, dtos, 0)
}
