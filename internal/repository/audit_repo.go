package repository

import (
	"context"
	"fmt"
	"strings"

	"sewadar-registry/internal/model"
)

type AuditRepository struct {
	pool Querier
}

func NewAuditRepository(pool Querier) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Append inserts one audit record and returns its id. There is no
// corresponding update or delete method anywhere in the codebase.
func (r *AuditRepository) Append(ctx context.Context, rec model.AuditRecord) (int64, error) {
	var entityID any
	if rec.EntityID != "" {
		entityID = rec.EntityID
	}

	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO audit_records
		 (action, actor_id, actor_email, actor_role, actor_ip, entity_type, entity_id, detail, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		rec.Action, rec.Actor.UserID, rec.Actor.Email, rec.Actor.Role, rec.Actor.IP,
		rec.EntityType, entityID, rec.Detail, rec.OccurredAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("append audit record: %w", err)
	}
	return id, nil
}

func (r *AuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditRecord, model.Meta, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 50
	}
	if query.Limit > 200 {
		query.Limit = 200
	}

	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if action := strings.TrimSpace(query.Action); action != "" {
		where = append(where, fmt.Sprintf("upper(action) = upper($%d)", argIdx))
		args = append(args, action)
		argIdx++
	}
	if actorID := strings.TrimSpace(query.ActorID); actorID != "" {
		where = append(where, fmt.Sprintf("actor_id = $%d", argIdx))
		args = append(args, actorID)
		argIdx++
	}
	if entityType := strings.TrimSpace(query.EntityType); entityType != "" {
		where = append(where, fmt.Sprintf("lower(entity_type) = lower($%d)", argIdx))
		args = append(args, entityType)
		argIdx++
	}
	if entityID := strings.TrimSpace(query.EntityID); entityID != "" {
		where = append(where, fmt.Sprintf("entity_id = $%d", argIdx))
		args = append(args, entityID)
		argIdx++
	}
	if from := strings.TrimSpace(query.From); from != "" {
		where = append(where, fmt.Sprintf("occurred_at >= $%d::timestamptz", argIdx))
		args = append(args, from)
		argIdx++
	}
	if to := strings.TrimSpace(query.To); to != "" {
		where = append(where, fmt.Sprintf("occurred_at <= $%d::timestamptz", argIdx))
		args = append(args, to)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_records %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count audit records: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + query.Limit - 1) / query.Limit
	}
	meta := model.Meta{Page: query.Page, Limit: query.Limit, Total: total, TotalPages: totalPages}

	offset := (query.Page - 1) * query.Limit
	dataQuery := fmt.Sprintf(
		`SELECT id, action, actor_id, actor_email, actor_role, actor_ip,
		        entity_type, entity_id, detail, occurred_at
		 FROM audit_records %s
		 ORDER BY occurred_at DESC, id DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, query.Limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]model.AuditRecord, 0)
	for rows.Next() {
		var rec model.AuditRecord
		var entityID *string

		if err := rows.Scan(
			&rec.ID, &rec.Action,
			&rec.Actor.UserID, &rec.Actor.Email, &rec.Actor.Role, &rec.Actor.IP,
			&rec.EntityType, &entityID, &rec.Detail, &rec.OccurredAt,
		); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan audit record: %w", err)
		}

		if entityID != nil {
			rec.EntityID = *entityID
		}
		rec.OccurredAt = rec.OccurredAt.UTC()

		records = append(records, rec)
	}

	return records, meta, rows.Err()
}
