package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/docflow/document-flow-api/internal/models"
)

func tokenTestUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "user@example.com",
		Role:  models.RoleAdmin,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	user := tokenTestUser()

	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	_, err := svc.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsTampered(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(tokenTestUser())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(tokenTestUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService("secret", -time.Minute)

	token, err := svc.Issue(tokenTestUser())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
