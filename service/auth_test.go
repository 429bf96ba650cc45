package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuth(t *testing.T) (AuthService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewAuthService(repo, "token-secret"), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuth(t)

	user, token, err := svc.Register(context.Background(), "Viewer@Example.com", "Viewer", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "viewer@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", user.PasswordHash, "password must never be stored in the clear")

	loggedIn, loginToken, err := svc.Login(context.Background(), "viewer@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.True(t, svc.ValidateToken(user.ID.String(), loginToken))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupAuth(t)
	_, _, err := svc.Register(context.Background(), "viewer@example.com", "Viewer", "correct horse")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "viewer@example.com", "battery staple")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := setupAuth(t)
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupAuth(t)
	_, _, err := svc.Register(context.Background(), "viewer@example.com", "Viewer", "correct horse")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "viewer@example.com", "Other", "different pass")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestGoogleLoginUpsertsByEmail(t *testing.T) {
	svc, repo := setupAuth(t)

	first, _, err := svc.GoogleLogin(context.Background(), "viewer@example.com", "Viewer", "google-123")
	require.NoError(t, err)
	assert.Len(t, repo.users, 1)

	second, _, err := svc.GoogleLogin(context.Background(), "viewer@example.com", "Viewer", "google-123")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.users, 1)
}

func TestGoogleLoginHasNoPassword(t *testing.T) {
	svc, _ := setupAuth(t)

	user, _, err := svc.GoogleLogin(context.Background(), "viewer@example.com", "Viewer", "google-123")
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	// password login must not work for a google-only account
	_, _, err = svc.Login(context.Background(), "viewer@example.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
