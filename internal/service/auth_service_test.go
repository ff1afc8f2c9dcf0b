package service_test

import (
	"testing"

	"socialapp/internal/service"
	"socialapp/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIssuesValidToken(t *testing.T) {
	env := newTestEnv(t)

	auth := registerUser(t, env, "alice")
	assert.NotEmpty(t, auth.User.ID)
	assert.Equal(t, "alice", auth.User.Username)
	assert.Equal(t, "user", auth.User.Role)
	assert.NotEmpty(t, auth.Token)

	claims, err := util.ValidateToken(auth.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@test.com", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice")

	_, err := env.auth.Register(service.RegisterRequest{
		Username: "different",
		Email:    "alice@test.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice")

	_, err := env.auth.Register(service.RegisterRequest{
		Username: "alice",
		Email:    "different@test.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	registered := registerUser(t, env, "alice")

	auth, err := env.auth.Login(service.LoginRequest{
		Email:    "alice@test.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, auth.User.ID)
	assert.NotEmpty(t, auth.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice")

	// Wrong password and unknown email come back identical
	_, err := env.auth.Login(service.LoginRequest{
		Email:    "alice@test.com",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	assert.EqualError(t, err, "unauthorized: invalid credentials")

	_, err = env.auth.Login(service.LoginRequest{
		Email:    "nobody@test.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	assert.EqualError(t, err, "unauthorized: invalid credentials")
}

func TestGetMe(t *testing.T) {
	env := newTestEnv(t)
	auth := registerUser(t, env, "alice")

	me, err := env.auth.GetMe(auth.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = env.auth.GetMe("does-not-exist")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	auth := registerUser(t, env, "alice")

	user, err := env.auth.GetUser(auth.User.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, user.ID)
	assert.Equal(t, "alice", user.Username)

	// Unknown profiles are a plain not-found, unlike GetMe's unauthorized
	_, err = env.auth.GetUser("does-not-exist")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetUserByUsername(t *testing.T) {
	env := newTestEnv(t)
	auth := registerUser(t, env, "alice")

	user, err := env.auth.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, user.ID)

	_, err = env.auth.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
