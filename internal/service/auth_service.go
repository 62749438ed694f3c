package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sewadar-registry/internal/model"
	"sewadar-registry/pkg/apierror"
)

const bcryptCost = 12

// AuthService covers login, token refresh, logout and identity
// administration. Role checks for the admin-only operations are enforced at
// the router; this layer assumes the caller passed the gate.
type AuthService struct {
	tokens     *TokenService
	users      UserStore
	refresh    RefreshTokenStore
	audit      *AuditService
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(tokens *TokenService, users UserStore, refresh RefreshTokenStore, audit *AuditService, accessTTL time.Duration, refreshTTL time.Duration) (*AuthService, error) {
	if tokens == nil {
		return nil, errors.New("token service is required")
	}
	if users == nil || refresh == nil {
		return nil, errors.New("user and refresh token stores are required")
	}

	return &AuthService{
		tokens:     tokens,
		users:      users,
		refresh:    refresh,
		audit:      audit,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Login verifies credentials against the store and issues a token pair.
// Failures are uniformly "invalid credentials" so the response never leaks
// whether the email exists or the account is deactivated.
func (s *AuthService) Login(ctx context.Context, email string, password string, clientIP string) (model.TokenPair, error) {
	user, err := s.users.FindActiveByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "Invalid credentials", "", http.StatusUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "Invalid credentials", "", http.StatusUnauthorized)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return model.TokenPair{}, err
	}

	s.audit.Record(ctx, model.ActionLogin, model.AuditActor{
		UserID: user.ID, Email: user.Email, Role: user.Role, IP: clientIP,
	}, "", "", fmt.Sprintf("Logged in: %s", user.Email))

	return pair, nil
}

func (s *AuthService) Register(ctx context.Context, actor model.AuditActor, req model.RegisterRequest) (model.AuthUser, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	if email == "" || !strings.Contains(email, "@") {
		return model.AuthUser{}, apierror.New("BAD_REQUEST", "a valid email is required", "email", http.StatusBadRequest)
	}
	if len(password) < 8 {
		return model.AuthUser{}, apierror.New("BAD_REQUEST", "password must be at least 8 characters", "password", http.StatusBadRequest)
	}

	role := model.RoleViewer
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := model.ParseRole(strings.ToLower(strings.TrimSpace(req.Role)))
		if !ok {
			return model.AuthUser{}, apierror.New("BAD_REQUEST", "invalid role", req.Role, http.StatusBadRequest)
		}
		role = parsed
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthUser{}, err
	}
	if exists {
		return model.AuthUser{}, model.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.AuthUser{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthUser{}, err
	}

	s.audit.Record(ctx, model.ActionCreateEntity, actor, "user", user.ID,
		fmt.Sprintf("Registered user %s with role %s", user.Email, user.Role))

	return authUser(user), nil
}

// Refresh rotates a refresh token. The presented token is revoked whether or
// not rotation succeeds, and the subject is re-checked against the live
// store so a deactivated account cannot mint new access tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil || claims.Type != TokenTypeRefresh {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "Invalid or expired token", "", http.StatusUnauthorized)
	}

	ownerID, err := s.refresh.Validate(ctx, refreshToken)
	if err != nil || ownerID != claims.UserID {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "Invalid or expired token", "", http.StatusUnauthorized)
	}

	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindActiveByID(ctx, claims.UserID)
	if err != nil {
		return model.TokenPair{}, apierror.New("FORBIDDEN", "User account not found or deactivated", "", http.StatusForbidden)
	}

	return s.issueTokenPair(ctx, user)
}

// Logout revokes the refresh token and records the action. The access token
// is NOT invalidated: there is no server-side revocation list, so it stays
// usable until its natural expiry. Clients are expected to discard it.
func (s *AuthService) Logout(ctx context.Context, actor model.AuditActor, refreshToken string) error {
	if token := strings.TrimSpace(refreshToken); token != "" {
		if err := s.refresh.Revoke(ctx, token); err != nil {
			slog.Warn("refresh token revocation failed", "actor_id", actor.UserID, "error", err)
		}
	}

	s.audit.Record(ctx, model.ActionLogout, actor, "", "",
		fmt.Sprintf("Logged out: %s", actor.Email))
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor model.AuditActor, currentPassword string, newPassword string) error {
	user, err := s.users.FindActiveByID(ctx, actor.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apierror.New("UNAUTHORIZED", "Invalid credentials", "", http.StatusUnauthorized)
	}

	if len(strings.TrimSpace(newPassword)) < 8 {
		return apierror.New("BAD_REQUEST", "password must be at least 8 characters", "new_password", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(newPassword)), bcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	// Outstanding refresh tokens die with the old password.
	if err := s.refresh.RevokeAllForUser(ctx, user.ID); err != nil {
		slog.Warn("revoking refresh tokens after password change failed", "user_id", user.ID, "error", err)
	}

	s.audit.Record(ctx, model.ActionResetPassword, actor, "user", user.ID, "Changed own password")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, actor model.AuditActor, targetUserID string, newPassword string) error {
	target, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		return err
	}

	if len(strings.TrimSpace(newPassword)) < 8 {
		return apierror.New("BAD_REQUEST", "password must be at least 8 characters", "new_password", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(newPassword)), bcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, target.ID, string(hash)); err != nil {
		return err
	}

	if err := s.refresh.RevokeAllForUser(ctx, target.ID); err != nil {
		slog.Warn("revoking refresh tokens after password reset failed", "user_id", target.ID, "error", err)
	}

	s.audit.Record(ctx, model.ActionResetPassword, actor, "user", target.ID,
		fmt.Sprintf("Reset password for %s", target.Email))
	return nil
}

func (s *AuthService) UpdateUser(ctx context.Context, actor model.AuditActor, targetUserID string, req model.UpdateUserRequest) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		return model.AuthUser{}, err
	}

	changes := make([]string, 0, 2)
	if req.Role != nil {
		role, ok := model.ParseRole(strings.ToLower(strings.TrimSpace(*req.Role)))
		if !ok {
			return model.AuthUser{}, apierror.New("BAD_REQUEST", "invalid role", *req.Role, http.StatusBadRequest)
		}
		if role != user.Role {
			changes = append(changes, fmt.Sprintf("role %s -> %s", user.Role, role))
			user.Role = role
		}
	}
	if req.Active != nil && *req.Active != user.Active {
		changes = append(changes, fmt.Sprintf("active %t -> %t", user.Active, *req.Active))
		user.Active = *req.Active
	}

	if len(changes) == 0 {
		return authUser(user), nil
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return model.AuthUser{}, err
	}

	// Deactivation takes effect on the target's next request through the
	// gate's live re-check; their refresh tokens are cut off here.
	if req.Active != nil && !*req.Active {
		if err := s.refresh.RevokeAllForUser(ctx, user.ID); err != nil {
			slog.Warn("revoking refresh tokens for deactivated user failed", "user_id", user.ID, "error", err)
		}
	}

	s.audit.Record(ctx, model.ActionUpdateEntity, actor, "user", user.ID,
		fmt.Sprintf("Updated user %s: %s", user.Email, strings.Join(changes, ", ")))

	return authUser(user), nil
}

// DeleteUser refuses to remove an identity that authored audit records
// (surfaced as a conflict) so history stays attributable.
func (s *AuthService) DeleteUser(ctx context.Context, actor model.AuditActor, targetUserID string) error {
	target, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		return err
	}
	if target.ID == actor.UserID {
		return apierror.New("BAD_REQUEST", "cannot delete own account", "", http.StatusBadRequest)
	}

	if err := s.users.Delete(ctx, target.ID); err != nil {
		return err
	}

	s.audit.Record(ctx, model.ActionDeleteEntity, actor, "user", target.ID,
		fmt.Sprintf("Deleted user %s", target.Email))
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.AuthUser, error) {
	return s.users.List(ctx)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}
	return authUser(user), nil
}

// EnsureBootstrapAdmin seeds the first administrator on an empty user table
// so a fresh deployment can log in. It does nothing once any user exists.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, email string, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if strings.TrimSpace(password) == "" {
		return errors.New("BOOTSTRAP_ADMIN_PASSWORD is required to seed the first administrator")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		FirstName:    "Admin",
		Role:         model.RoleAdministrator,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	slog.Info("bootstrap administrator created", "email", admin.Email)
	return nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	accessToken, err := s.tokens.Issue(user.ID, user.Email, user.Role, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.tokens.Issue(user.ID, user.Email, user.Role, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.refresh.Store(ctx, refreshToken, user.ID, time.Now().UTC().Add(s.refreshTTL)); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         authUser(user),
	}, nil
}

func authUser(u model.User) model.AuthUser {
	return model.AuthUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Active:    u.Active,
	}
}
