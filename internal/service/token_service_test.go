package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, "melody-master")
	ctx := context.Background()

	token, err := svc.Issue(ctx, "student@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestTokenService_Issue_EmptyEmail(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, "melody-master")

	_, err := svc.Issue(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, "melody-master")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "student@example.com",
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), tokenString)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := NewTokenService("other-secret", time.Hour, "melody-master")
	verifier := NewTokenService(testSecret, time.Hour, "melody-master")

	token, err := issuer.Issue(context.Background(), "student@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_Verify_WrongSigningMethod(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, "melody-master")

	// alg=none tokens must never pass
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "student@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), tokenString)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_Verify_Garbage(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, "melody-master")

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(context.Background(), tokenString)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	}
}

func TestTokenService_Verify_MissingEmailClaim(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, "melody-master")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), tokenString)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
