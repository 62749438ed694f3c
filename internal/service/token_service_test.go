package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sewadar-registry/internal/model"
)

func newTestTokenService(t *testing.T, secret string) *TokenService {
	t.Helper()

	svc, err := NewTokenService(secret, time.Hour)
	require.NoError(t, err)
	return svc
}

func TestTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("  ", time.Hour)
	require.Error(t, err)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t, "secret-a")

	token, err := svc.Issue("user-1", "editor@example.org", model.RoleEditor, TokenTypeAccess, 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "editor@example.org", claims.Email)
	assert.Equal(t, model.RoleEditor, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.Expiry.After(claims.IssuedAt))
}

func TestTokenService_VerifyIsIdempotent(t *testing.T) {
	svc := newTestTokenService(t, "secret-a")

	token, err := svc.Issue("user-1", "a@example.org", model.RoleViewer, TokenTypeAccess, time.Hour)
	require.NoError(t, err)

	first, err := svc.Verify(token)
	require.NoError(t, err)
	second, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, "secret-a")

	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("user-1", "a@example.org", model.RoleViewer, TokenTypeAccess, time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, model.ErrTokenExpired)
	require.NotErrorIs(t, err, model.ErrInvalidSignature)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := newTestTokenService(t, "secret-a")
	verifier := newTestTokenService(t, "secret-b")

	token, err := issuer.Issue("user-1", "a@example.org", model.RoleViewer, TokenTypeAccess, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, model.ErrInvalidSignature)
}

func TestTokenService_MalformedToken(t *testing.T) {
	svc := newTestTokenService(t, "secret-a")

	for _, garbage := range []string{"", "not-a-jwt", "one.two", "a.b.c.d"} {
		_, err := svc.Verify(garbage)
		assert.ErrorIs(t, err, model.ErrMalformedToken, "input %q", garbage)
	}
}

func TestTokenService_RejectsUnknownRoleClaim(t *testing.T) {
	svc := newTestTokenService(t, "secret-a")

	_, err := svc.Issue("user-1", "a@example.org", model.Role("superuser"), TokenTypeAccess, time.Hour)
	require.Error(t, err)
}

func TestTokenService_IssueValidatesInputs(t *testing.T) {
	svc := newTestTokenService(t, "secret-a")

	_, err := svc.Issue("", "a@example.org", model.RoleViewer, TokenTypeAccess, time.Hour)
	require.Error(t, err)

	_, err = svc.Issue("user-1", "", model.RoleViewer, TokenTypeAccess, time.Hour)
	require.Error(t, err)
}
