package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sewadar-registry/internal/model"
)

type SewadarRepository struct {
	pool Querier
}

func NewSewadarRepository(pool Querier) *SewadarRepository {
	return &SewadarRepository{pool: pool}
}

const sewadarColumns = `id, badge_no, first_name, last_name, gender, date_of_birth,
	        phone, address, department, created_at, updated_at`

func scanSewadar(row pgx.Row) (model.Sewadar, error) {
	var s model.Sewadar
	err := row.Scan(&s.ID, &s.BadgeNo, &s.FirstName, &s.LastName, &s.Gender,
		&s.DateOfBirth, &s.Phone, &s.Address, &s.Department, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *SewadarRepository) FindByID(ctx context.Context, id string) (model.Sewadar, error) {
	s, err := scanSewadar(r.pool.QueryRow(ctx,
		`SELECT `+sewadarColumns+` FROM sewadars WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Sewadar{}, model.ErrSewadarNotFound
	}
	if err != nil {
		return model.Sewadar{}, fmt.Errorf("find sewadar by id: %w", err)
	}
	return s, nil
}

func (r *SewadarRepository) Create(ctx context.Context, s model.Sewadar) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sewadars
		 (id, badge_no, first_name, last_name, gender, date_of_birth, phone, address, department, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.BadgeNo, s.FirstName, s.LastName, s.Gender, s.DateOfBirth,
		s.Phone, s.Address, s.Department, s.CreatedAt, s.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrBadgeConflict
	}
	if err != nil {
		return fmt.Errorf("create sewadar: %w", err)
	}
	return nil
}

func (r *SewadarRepository) Update(ctx context.Context, s model.Sewadar) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sewadars SET badge_no = $2, first_name = $3, last_name = $4, gender = $5,
		        date_of_birth = $6, phone = $7, address = $8, department = $9, updated_at = $10
		 WHERE id = $1`,
		s.ID, s.BadgeNo, s.FirstName, s.LastName, s.Gender, s.DateOfBirth,
		s.Phone, s.Address, s.Department, s.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrBadgeConflict
	}
	if err != nil {
		return fmt.Errorf("update sewadar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSewadarNotFound
	}
	return nil
}

func (r *SewadarRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sewadars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sewadar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSewadarNotFound
	}
	return nil
}

func (r *SewadarRepository) List(ctx context.Context, query model.SewadarQuery) ([]model.Sewadar, model.Meta, error) {
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

	if department := strings.TrimSpace(query.Department); department != "" {
		where = append(where, fmt.Sprintf("lower(department) = lower($%d)", argIdx))
		args = append(args, department)
		argIdx++
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR badge_no ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+search+"%")
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sewadars %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count sewadars: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + query.Limit - 1) / query.Limit
	}
	meta := model.Meta{Page: query.Page, Limit: query.Limit, Total: total, TotalPages: totalPages}

	offset := (query.Page - 1) * query.Limit
	dataQuery := fmt.Sprintf(
		`SELECT `+sewadarColumns+`
		 FROM sewadars %s
		 ORDER BY badge_no
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, query.Limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("list sewadars: %w", err)
	}
	defer rows.Close()

	sewadars := make([]model.Sewadar, 0)
	for rows.Next() {
		s, err := scanSewadar(rows)
		if err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan sewadar: %w", err)
		}
		sewadars = append(sewadars, s)
	}

	return sewadars, meta, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
