package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sewadar-registry/internal/model"
)

// In-memory store fakes shared by the service tests.

type fakeUserStore struct {
	users      map[string]model.User
	auditOwner map[string]bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}, auditOwner: map[string]bool{}}
}

func (f *fakeUserStore) add(u model.User) {
	f.users[u.ID] = u
}

func (f *fakeUserStore) FindActiveByID(ctx context.Context, id string) (model.User, error) {
	u, ok := f.users[id]
	if !ok || !u.Active {
		return model.User{}, model.ErrIdentityInactive
	}
	return u, nil
}

func (f *fakeUserStore) FindActiveByEmail(ctx context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Active {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(ctx context.Context, u model.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Update(ctx context.Context, u model.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	f.users[userID] = u
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	if f.auditOwner[id] {
		return model.ErrUserHasAuditTrail
	}
	if _, ok := f.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]model.AuthUser, error) {
	out := make([]model.AuthUser, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, model.AuthUser{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role, Active: u.Active})
	}
	return out, nil
}

func (f *fakeUserStore) Count(ctx context.Context) (int, error) {
	return len(f.users), nil
}

type fakeRefreshStore struct {
	tokens map[string]string
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{tokens: map[string]string{}}
}

func (f *fakeRefreshStore) Store(ctx context.Context, token string, userID string, expiresAt time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeRefreshStore) Validate(ctx context.Context, token string) (string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", model.ErrTokenNotFound
	}
	return userID, nil
}

func (f *fakeRefreshStore) Revoke(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshStore) RevokeAllForUser(ctx context.Context, userID string) error {
	for token, owner := range f.tokens {
		if owner == userID {
			delete(f.tokens, token)
		}
	}
	return nil
}

type fakeSewadarStore struct {
	sewadars map[string]model.Sewadar
}

func newFakeSewadarStore() *fakeSewadarStore {
	return &fakeSewadarStore{sewadars: map[string]model.Sewadar{}}
}

func (f *fakeSewadarStore) FindByID(ctx context.Context, id string) (model.Sewadar, error) {
	s, ok := f.sewadars[id]
	if !ok {
		return model.Sewadar{}, model.ErrSewadarNotFound
	}
	return s, nil
}

func (f *fakeSewadarStore) Create(ctx context.Context, s model.Sewadar) error {
	for _, existing := range f.sewadars {
		if existing.BadgeNo == s.BadgeNo {
			return model.ErrBadgeConflict
		}
	}
	f.sewadars[s.ID] = s
	return nil
}

func (f *fakeSewadarStore) Update(ctx context.Context, s model.Sewadar) error {
	if _, ok := f.sewadars[s.ID]; !ok {
		return model.ErrSewadarNotFound
	}
	f.sewadars[s.ID] = s
	return nil
}

func (f *fakeSewadarStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.sewadars[id]; !ok {
		return model.ErrSewadarNotFound
	}
	delete(f.sewadars, id)
	return nil
}

func (f *fakeSewadarStore) List(ctx context.Context, query model.SewadarQuery) ([]model.Sewadar, model.Meta, error) {
	out := make([]model.Sewadar, 0, len(f.sewadars))
	for _, s := range f.sewadars {
		out = append(out, s)
	}
	return out, model.Meta{Page: 1, Limit: 50, Total: len(out), TotalPages: 1}, nil
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}
