package auth

import (
	"testing"
	"time"

	"salesops-auth/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(expiresIn time.Duration) *models.Session {
	now := time.Now().UTC()
	return &models.Session{
		ID:        "sess-1",
		UserID:    "1",
		LoginType: models.LoginTypeFirstLogin,
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestTokens_IssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("super-secret")

	tok, err := issuer.Issue(testSession(time.Hour))
	require.NoError(t, err)

	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, models.LoginTypeFirstLogin, claims.LoginType)
}

func TestTokens_Expired(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	tok, err := issuer.Issue(testSession(-time.Second))
	require.NoError(t, err)

	_, err = issuer.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokens_WrongSecret(t *testing.T) {
	tok, err := NewTokenIssuer("right-secret").Issue(testSession(time.Hour))
	require.NoError(t, err)

	_, err = NewTokenIssuer("wrong-secret").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Malformed(t *testing.T) {
	_, err := NewTokenIssuer("k").Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsOtherAlgorithms(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("k").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
