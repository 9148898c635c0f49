package service

import (
	"context"
	"encoding/json"
	"testing"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUpdateProfileAppliesOnlyProvidedFields(t *testing.T) {
	store := newMemStore()
	factory := &memFactory{store: store}
	auth := NewAuthService(factory, stubTokens{}, nil, newTestLogger())
	users := NewUserService(factory, newTestLogger())

	alice := registerAlice(t, auth)

	var req dto.UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"full_name":"Alice A."}`), &req))

	res, err := users.UpdateProfile(context.Background(), alice.User.Id, &req)
	require.NoError(t, err)

	require.NotNil(t, res.FullName)
	assert.Equal(t, "Alice A.", *res.FullName)
	assert.Equal(t, "alice@example.com", res.Email)
	assert.Equal(t, "alice", res.Username)

	stored := store.users[alice.User.Id]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	store := newMemStore()
	factory := &memFactory{store: store}
	auth := NewAuthService(factory, stubTokens{}, nil, newTestLogger())
	users := NewUserService(factory, newTestLogger())

	alice := registerAlice(t, auth)

	_, err := users.UpdateProfile(context.Background(), alice.User.Id, &dto.UpdateProfileRequest{
		Password: dto.Some("new-password-1"),
	})
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), &dto.LoginRequest{EmailOrUsername: "alice", Password: "new-password-1"})
	assert.NoError(t, err)
	_, err = auth.Login(context.Background(), &dto.LoginRequest{EmailOrUsername: "alice", Password: "password123"})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestUpdateProfileConflicts(t *testing.T) {
	store := newMemStore()
	factory := &memFactory{store: store}
	auth := NewAuthService(factory, stubTokens{}, nil, newTestLogger())
	users := NewUserService(factory, newTestLogger())

	alice := registerAlice(t, auth)
	_, err := auth.Register(context.Background(), &dto.RegisterRequest{
		Email: "bob@example.com", Username: "bob", Password: "password123",
	})
	require.NoError(t, err)

	_, err = users.UpdateProfile(context.Background(), alice.User.Id, &dto.UpdateProfileRequest{
		Email: dto.Some("bob@example.com"),
	})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = users.UpdateProfile(context.Background(), alice.User.Id, &dto.UpdateProfileRequest{
		Username: dto.Some("bob"),
	})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	// Re-submitting one's own values is not a conflict.
	res, err := users.UpdateProfile(context.Background(), alice.User.Id, &dto.UpdateProfileRequest{
		Email:    dto.Some("alice@example.com"),
		Username: dto.Some("alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)
}

func TestGetProfileHidesPasswordHash(t *testing.T) {
	store := newMemStore()
	factory := &memFactory{store: store}
	auth := NewAuthService(factory, stubTokens{}, nil, newTestLogger())
	users := NewUserService(factory, newTestLogger())

	alice := registerAlice(t, auth)
	user, err := auth.Authenticate(context.Background(), alice.AccessToken)
	require.NoError(t, err)

	raw, err := json.Marshal(users.GetProfile(user))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), user.PasswordHash)
}

func TestUpdateProfileNullClearsFullName(t *testing.T) {
	store := newMemStore()
	factory := &memFactory{store: store}
	auth := NewAuthService(factory, stubTokens{}, nil, newTestLogger())
	users := NewUserService(factory, newTestLogger())

	alice := registerAlice(t, auth)
	_, err := users.UpdateProfile(context.Background(), alice.User.Id, &dto.UpdateProfileRequest{
		FullName: dto.Some("Alice A."),
	})
	require.NoError(t, err)

	var req dto.UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"full_name":null,"email":null}`), &req))

	res, err := users.UpdateProfile(context.Background(), alice.User.Id, &req)
	require.NoError(t, err)
	assert.Nil(t, res.FullName)
	assert.Equal(t, "alice@example.com", res.Email)
	assert.Nil(t, store.users[alice.User.Id].FullName)
}

func TestUpdateProfileRaceOnUsernameReportsUsername(t *testing.T) {
	store := newMemStore()
	factory := &memFactory{store: store}
	auth := NewAuthService(factory, stubTokens{}, nil, newTestLogger())
	users := NewUserService(factory, newTestLogger())

	alice := registerAlice(t, auth)
	store.beforeUserWrite = func(all map[uuid.UUID]entity.User) {
		store.beforeUserWrite = nil
		racer := uuid.New()
		all[racer] = entity.User{Id: racer, Email: "racer@example.com", Username: "alicia", IsActive: true}
	}

	_, err := users.UpdateProfile(context.Background(), alice.User.Id, &dto.UpdateProfileRequest{
		Username: dto.Some("alicia"),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, msgUsernameTaken, err.Error())
	assert.Equal(t, "alice", store.users[alice.User.Id].Username)
}
