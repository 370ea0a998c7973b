package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	users, _ := newTestServices(t)

	user, err := users.Register("alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash, "register must not return the hash")

	got, err := users.AuthenticateUser("alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Empty(t, got.PasswordHash)
}

func TestRegisterTrimsUsername(t *testing.T) {
	users, _ := newTestServices(t)

	user, err := users.Register("  bob  ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
}

func TestRegisterValidation(t *testing.T) {
	users, _ := newTestServices(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"missing username", "", "secret1"},
		{"missing password", "alice", ""},
		{"whitespace username", "   ", "secret1"},
		{"short password", "alice", "12345"},
		{"long username", strings.Repeat("a", 41), "secret1"},
		{"long multibyte username", strings.Repeat("ü", 41), "secret1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := users.Register(tc.username, tc.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterUsernameLengthCountsRunes(t *testing.T) {
	users, _ := newTestServices(t)

	// 40 runes but 80 bytes; the limit is characters, not bytes.
	name := strings.Repeat("ü", 40)
	user, err := users.Register(name, "secret1")
	require.NoError(t, err)
	assert.Equal(t, name, user.Username)
}

func TestRegisterConflict(t *testing.T) {
	users, _ := newTestServices(t)

	_, err := users.Register("alice", "secret1")
	require.NoError(t, err)

	_, err = users.Register("alice", "another-secret")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthenticateFailures(t *testing.T) {
	users, _ := newTestServices(t)

	_, err := users.Register("alice", "secret1")
	require.NoError(t, err)

	_, err = users.AuthenticateUser("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = users.AuthenticateUser("nobody", "secret1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetUserByIDNotFound(t *testing.T) {
	users, _ := newTestServices(t)

	_, err := users.GetUserByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
