package service

import (
	"context"
	"time"

	"sewadar-registry/internal/model"
)

// Store contracts consumed by the services. The pgx repositories implement
// them; tests substitute in-memory fakes.

type UserStore interface {
	FindActiveByID(ctx context.Context, id string) (model.User, error)
	FindActiveByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	Update(ctx context.Context, u model.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.AuthUser, error)
	Count(ctx context.Context) (int, error)
}

type RefreshTokenStore interface {
	Store(ctx context.Context, token string, userID string, expiresAt time.Time) error
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type AuditStore interface {
	Append(ctx context.Context, rec model.AuditRecord) (int64, error)
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditRecord, model.Meta, error)
}

type SewadarStore interface {
	FindByID(ctx context.Context, id string) (model.Sewadar, error)
	Create(ctx context.Context, s model.Sewadar) error
	Update(ctx context.Context, s model.Sewadar) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query model.SewadarQuery) ([]model.Sewadar, model.Meta, error)
}
