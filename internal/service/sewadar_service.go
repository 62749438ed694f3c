package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"sewadar-registry/internal/model"
	"sewadar-registry/pkg/apierror"
)

// SewadarService is the managed-entity CRUD the audit contract rides on:
// every successful mutation emits exactly one audit record attributed to the
// gate-resolved actor.
type SewadarService struct {
	store SewadarStore
	audit *AuditService
}

func NewSewadarService(store SewadarStore, audit *AuditService) (*SewadarService, error) {
	if store == nil {
		return nil, errors.New("sewadar store is required")
	}

	return &SewadarService{store: store, audit: audit}, nil
}

func (s *SewadarService) List(ctx context.Context, query model.SewadarQuery) ([]model.Sewadar, model.Meta, error) {
	return s.store.List(ctx, query)
}

func (s *SewadarService) Get(ctx context.Context, id string) (model.Sewadar, error) {
	return s.store.FindByID(ctx, strings.TrimSpace(id))
}

func (s *SewadarService) Create(ctx context.Context, actor model.AuditActor, req model.SewadarRequest) (model.Sewadar, error) {
	sewadar, err := sewadarFromRequest(req)
	if err != nil {
		return model.Sewadar{}, err
	}

	now := time.Now().UTC()
	sewadar.ID = uuid.NewString()
	sewadar.CreatedAt = now
	sewadar.UpdatedAt = now

	if err := s.store.Create(ctx, sewadar); err != nil {
		return model.Sewadar{}, err
	}

	s.audit.Record(ctx, model.ActionCreateEntity, actor, "sewadar", sewadar.ID,
		fmt.Sprintf("Created sewadar: %s %s (badge %s)", sewadar.FirstName, sewadar.LastName, sewadar.BadgeNo))

	return sewadar, nil
}

func (s *SewadarService) Update(ctx context.Context, actor model.AuditActor, id string, req model.SewadarRequest) (model.Sewadar, error) {
	existing, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return model.Sewadar{}, err
	}

	updated, err := sewadarFromRequest(req)
	if err != nil {
		return model.Sewadar{}, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, updated); err != nil {
		return model.Sewadar{}, err
	}

	s.audit.Record(ctx, model.ActionUpdateEntity, actor, "sewadar", updated.ID,
		fmt.Sprintf("Updated sewadar: %s %s (badge %s)", updated.FirstName, updated.LastName, updated.BadgeNo))

	return updated, nil
}

func (s *SewadarService) Delete(ctx context.Context, actor model.AuditActor, id string) error {
	existing, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, existing.ID); err != nil {
		return err
	}

	s.audit.Record(ctx, model.ActionDeleteEntity, actor, "sewadar", existing.ID,
		fmt.Sprintf("Deleted sewadar: %s %s (badge %s)", existing.FirstName, existing.LastName, existing.BadgeNo))

	return nil
}

func sewadarFromRequest(req model.SewadarRequest) (model.Sewadar, error) {
	badgeNo := strings.TrimSpace(req.BadgeNo)
	firstName := strings.TrimSpace(req.FirstName)

	if badgeNo == "" {
		return model.Sewadar{}, apierror.New("BAD_REQUEST", "badge_no is required", "badge_no", http.StatusBadRequest)
	}
	if firstName == "" {
		return model.Sewadar{}, apierror.New("BAD_REQUEST", "first_name is required", "first_name", http.StatusBadRequest)
	}

	sewadar := model.Sewadar{
		BadgeNo:    badgeNo,
		FirstName:  firstName,
		LastName:   strings.TrimSpace(req.LastName),
		Gender:     strings.ToLower(strings.TrimSpace(req.Gender)),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		Department: strings.TrimSpace(req.Department),
	}

	if dob := strings.TrimSpace(req.DateOfBirth); dob != "" {
		parsed, err := time.Parse("2006-01-02", dob)
		if err != nil {
			return model.Sewadar{}, apierror.New("BAD_REQUEST", "date_of_birth must be YYYY-MM-DD", dob, http.StatusBadRequest)
		}
		sewadar.DateOfBirth = parsed
	}

	return sewadar, nil
}
