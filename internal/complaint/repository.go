package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository menyediakan akses ke tabel complaints.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository membuat instance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const complaintColumns = `id, creator_id, rt_number, rw_number, category, title, description,
    attachment_key, status, response, responded_by, responded_at, created_at, updated_at`

func scanComplaint(row pgx.Row) (*Complaint, error) {
	var c Complaint
	err := row.Scan(&c.ID, &c.CreatorID, &c.RTNumber, &c.RWNumber, &c.Category, &c.Title,
		&c.Description, &c.AttachmentKey, &c.Status, &c.Response, &c.RespondedBy,
		&c.RespondedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create menyimpan pengaduan baru dengan status awal DITERIMA.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Complaint, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO complaints (creator_id, rt_number, rw_number, category, title, description, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+complaintColumns,
		input.CreatorID, input.RTNumber, input.RWNumber, NormalizeCategory(input.Category),
		strings.TrimSpace(input.Title), strings.TrimSpace(input.Description), StatusReceived)
	return scanComplaint(row)
}

// GetByID mengambil satu pengaduan.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Complaint, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id)
	return scanComplaint(row)
}

// List mengembalikan pengaduan sesuai filter.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Complaint, error) {
	base := `SELECT ` + complaintColumns + ` FROM complaints`

	var (
		clauses []string
		args    []any
		idx     = 1
	)
	if filter.CreatorID != nil {
		clauses = append(clauses, fmt.Sprintf("creator_id = $%d", idx))
		args = append(args, *filter.CreatorID)
		idx++
	}
	if filter.RTNumber != "" {
		clauses = append(clauses, fmt.Sprintf("rt_number = $%d", idx))
		args = append(args, filter.RTNumber)
		idx++
	}
	if filter.RWNumber != "" {
		clauses = append(clauses, fmt.Sprintf("rw_number = $%d", idx))
		args = append(args, filter.RWNumber)
		idx++
	}
	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", idx))
		args = append(args, strings.ToUpper(strings.TrimSpace(filter.Status)))
		idx++
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// Update menyunting isi pengaduan; pembatasan status ditegakkan service.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Complaint, error) {
	setParts := []string{"updated_at = now()"}
	args := []any{}
	idx := 1

	if input.Category != nil {
		setParts = append(setParts, fmt.Sprintf("category = $%d", idx))
		args = append(args, NormalizeCategory(*input.Category))
		idx++
	}
	if input.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", idx))
		args = append(args, strings.TrimSpace(*input.Title))
		idx++
	}
	if input.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", idx))
		args = append(args, strings.TrimSpace(*input.Description))
		idx++
	}

	query := fmt.Sprintf(`UPDATE complaints SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, complaintColumns)
	args = append(args, id)

	return scanComplaint(r.pool.QueryRow(ctx, query, args...))
}

// SetAttachment menautkan kunci lampiran di object storage.
func (r *Repository) SetAttachment(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE complaints SET attachment_key = $2, updated_at = now() WHERE id = $1`, id, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Respond mencatat tanggapan dan status baru secara atomik.
func (r *Repository) Respond(ctx context.Context, id uuid.UUID, status, response string, responder uuid.UUID, at time.Time) (*Complaint, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE complaints
        SET status = $2, response = $3, responded_by = $4, responded_at = $5, updated_at = now()
        WHERE id = $1
        RETURNING `+complaintColumns,
		id, status, strings.TrimSpace(response), responder, at)
	return scanComplaint(row)
}

// Delete menghapus pengaduan.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
