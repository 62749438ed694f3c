package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sewadar-registry/internal/model"
	"sewadar-registry/pkg/apierror"
)

type authFixture struct {
	svc     *AuthService
	users   *fakeUserStore
	refresh *fakeRefreshStore
	audit   *fakeAuditStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tokens, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	users := newFakeUserStore()
	refresh := newFakeRefreshStore()
	audit := &fakeAuditStore{}

	svc, err := NewAuthService(tokens, users, refresh, NewAuditService(audit, 0), time.Hour, 24*time.Hour)
	require.NoError(t, err)

	return &authFixture{svc: svc, users: users, refresh: refresh, audit: audit}
}

func seedUser(f *authFixture, id string, email string, password string, role model.Role, active bool) {
	f.users.add(model.User{
		ID:           id,
		Email:        email,
		PasswordHash: mustHash(password),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		Active:       active,
	})
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.HTTPStatus)
}

func TestAuthService_LoginIssuesPairAndAuditsOnce(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "editor@example.org", "correct horse", model.RoleEditor, true)

	pair, err := f.svc.Login(context.Background(), "editor@example.org", "correct horse", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, model.RoleEditor, pair.User.Role)

	require.Len(t, f.audit.records, 1)
	rec := f.audit.records[0]
	assert.Equal(t, model.ActionLogin, rec.Action)
	assert.Equal(t, "u-1", rec.Actor.UserID)
	assert.Equal(t, "10.0.0.1", rec.Actor.IP)
	assert.Empty(t, rec.EntityID)
}

func TestAuthService_LoginFailuresAreGeneric(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "editor@example.org", "correct horse", model.RoleEditor, true)
	seedUser(f, "u-2", "inactive@example.org", "correct horse", model.RoleEditor, false)

	cases := map[string]struct {
		email    string
		password string
	}{
		"wrong password":    {"editor@example.org", "wrong"},
		"unknown email":     {"nobody@example.org", "correct horse"},
		"inactive account":  {"inactive@example.org", "correct horse"},
		"empty credentials": {"", ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tc.email, tc.password, "10.0.0.1")
			requireStatus(t, err, http.StatusUnauthorized)

			var apiErr *apierror.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "Invalid credentials", apiErr.Message)
		})
	}

	assert.Empty(t, f.audit.records, "failed logins must not write audit records")
}

func TestAuthService_RegisterAuditsWithGateActor(t *testing.T) {
	f := newAuthFixture(t)
	actor := model.AuditActor{UserID: "admin-1", Email: "admin@example.org", Role: model.RoleAdministrator}

	user, err := f.svc.Register(context.Background(), actor, model.RegisterRequest{
		Email:    "new@example.org",
		Password: "password-123",
		Role:     "editor",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, user.Role)
	assert.True(t, user.Active)

	require.Len(t, f.audit.records, 1)
	assert.Equal(t, model.ActionCreateEntity, f.audit.records[0].Action)
	assert.Equal(t, "admin-1", f.audit.records[0].Actor.UserID)
	assert.Equal(t, "user", f.audit.records[0].EntityType)
	assert.Equal(t, user.ID, f.audit.records[0].EntityID)
}

func TestAuthService_RegisterRejectsBadInput(t *testing.T) {
	f := newAuthFixture(t)
	actor := model.AuditActor{UserID: "admin-1", Role: model.RoleAdministrator}

	_, err := f.svc.Register(context.Background(), actor, model.RegisterRequest{Email: "not-an-email", Password: "password-123"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.Register(context.Background(), actor, model.RegisterRequest{Email: "a@example.org", Password: "short"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.Register(context.Background(), actor, model.RegisterRequest{Email: "a@example.org", Password: "password-123", Role: "owner"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestAuthService_RegisterRejectsDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "taken@example.org", "correct horse", model.RoleViewer, true)

	_, err := f.svc.Register(context.Background(), model.AuditActor{UserID: "admin-1"}, model.RegisterRequest{
		Email:    "taken@example.org",
		Password: "password-123",
	})
	require.ErrorIs(t, err, model.ErrUserAlreadyExists)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "editor@example.org", "correct horse", model.RoleEditor, true)

	pair, err := f.svc.Login(context.Background(), "editor@example.org", "correct horse", "10.0.0.1")
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old token is single-use.
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestAuthService_RefreshRejectsDeactivatedSubject(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "editor@example.org", "correct horse", model.RoleEditor, true)

	pair, err := f.svc.Login(context.Background(), "editor@example.org", "correct horse", "10.0.0.1")
	require.NoError(t, err)

	u := f.users.users["u-1"]
	u.Active = false
	f.users.users["u-1"] = u

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	requireStatus(t, err, http.StatusForbidden)
}

func TestAuthService_RefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "editor@example.org", "correct horse", model.RoleEditor, true)

	pair, err := f.svc.Login(context.Background(), "editor@example.org", "correct horse", "10.0.0.1")
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), pair.AccessToken)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestAuthService_LogoutRevokesRefreshAndAudits(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "editor@example.org", "correct horse", model.RoleEditor, true)

	pair, err := f.svc.Login(context.Background(), "editor@example.org", "correct horse", "10.0.0.1")
	require.NoError(t, err)
	f.audit.records = nil

	actor := model.AuditActor{UserID: "u-1", Email: "editor@example.org", Role: model.RoleEditor}
	require.NoError(t, f.svc.Logout(context.Background(), actor, pair.RefreshToken))

	_, err = f.refresh.Validate(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrTokenNotFound)

	require.Len(t, f.audit.records, 1)
	assert.Equal(t, model.ActionLogout, f.audit.records[0].Action)
	assert.Equal(t, "u-1", f.audit.records[0].Actor.UserID)
}

func TestAuthService_ChangePasswordRequiresCurrent(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "editor@example.org", "correct horse", model.RoleEditor, true)
	actor := model.AuditActor{UserID: "u-1", Email: "editor@example.org", Role: model.RoleEditor}

	err := f.svc.ChangePassword(context.Background(), actor, "wrong", "new-password-1")
	requireStatus(t, err, http.StatusUnauthorized)

	require.NoError(t, f.svc.ChangePassword(context.Background(), actor, "correct horse", "new-password-1"))

	require.Len(t, f.audit.records, 1)
	assert.Equal(t, model.ActionResetPassword, f.audit.records[0].Action)

	_, err = f.svc.Login(context.Background(), "editor@example.org", "new-password-1", "10.0.0.1")
	require.NoError(t, err)
}

func TestAuthService_DeactivationRevokesRefreshTokens(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "editor@example.org", "correct horse", model.RoleEditor, true)

	pair, err := f.svc.Login(context.Background(), "editor@example.org", "correct horse", "10.0.0.1")
	require.NoError(t, err)

	inactive := false
	actor := model.AuditActor{UserID: "admin-1", Role: model.RoleAdministrator}
	updated, err := f.svc.UpdateUser(context.Background(), actor, "u-1", model.UpdateUserRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	_, err = f.refresh.Validate(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrTokenNotFound)
}

func TestAuthService_DeleteUserRefusedWhileAuditHistoryExists(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "u-1", "editor@example.org", "correct horse", model.RoleEditor, true)
	f.users.auditOwner["u-1"] = true

	actor := model.AuditActor{UserID: "admin-1", Role: model.RoleAdministrator}
	err := f.svc.DeleteUser(context.Background(), actor, "u-1")
	require.ErrorIs(t, err, model.ErrUserHasAuditTrail)

	_, stillThere := f.users.users["u-1"]
	assert.True(t, stillThere)
}

func TestAuthService_DeleteOwnAccountRefused(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(f, "admin-1", "admin@example.org", "correct horse", model.RoleAdministrator, true)

	actor := model.AuditActor{UserID: "admin-1", Role: model.RoleAdministrator}
	err := f.svc.DeleteUser(context.Background(), actor, "admin-1")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestAuthService_BootstrapAdminOnlyOnEmptyStore(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.EnsureBootstrapAdmin(context.Background(), "admin@example.org", "bootstrap-pass"))
	count, _ := f.users.Count(context.Background())
	require.Equal(t, 1, count)

	// Second call is a no-op.
	require.NoError(t, f.svc.EnsureBootstrapAdmin(context.Background(), "other@example.org", "bootstrap-pass"))
	count, _ = f.users.Count(context.Background())
	require.Equal(t, 1, count)

	_, err := f.svc.Login(context.Background(), "admin@example.org", "bootstrap-pass", "10.0.0.1")
	require.NoError(t, err)
}
