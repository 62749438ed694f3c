package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sewadar-registry/internal/model"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenService issues and verifies signed identity tokens. It is stateless:
// verification is a pure function of token, secret and clock, and performs
// no store lookups. The signing secret is injected here, never read from a
// process-wide global, so tests can run with distinct secrets.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, defaultTTL time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token signing secret is required")
	}
	if defaultTTL <= 0 {
		defaultTTL = 168 * time.Hour
	}

	return &TokenService{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// Issue signs an HS256 token carrying a snapshot of the subject's identity.
// A ttl <= 0 falls back to the configured default.
func (s *TokenService) Issue(subjectID string, email string, role model.Role, tokenType string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subjectID) == "" || strings.TrimSpace(email) == "" {
		return "", errors.New("subject id and email are required")
	}
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", role)
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := s.now().UTC()
	claims := tokenClaims{
		Email: email,
		Role:  string(role),
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded claims
// unchanged. Failure causes are distinguished so the gate can map them to
// the right status: structural damage is model.ErrMalformedToken, a bad
// signature is model.ErrInvalidSignature and a past expiry is
// model.ErrTokenExpired. No grace window is applied to the expiry check.
func (s *TokenService) Verify(tokenString string) (*model.AuthClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)

	var claims tokenClaims
	parsed, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, model.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, model.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, model.ErrInvalidSignature
	case err != nil, !parsed.Valid:
		return nil, model.ErrMalformedToken
	}

	role, ok := model.ParseRole(claims.Role)
	if !ok || strings.TrimSpace(claims.Subject) == "" {
		return nil, model.ErrMalformedToken
	}

	out := &model.AuthClaims{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Role:    role,
		Type:    claims.Type,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.Expiry = claims.ExpiresAt.Time
	}

	return out, nil
}
