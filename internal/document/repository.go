package document

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

// Repository menyediakan akses ke tabel documents.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository membuat instance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const documentColumns = `id, requester_id, rt_number, rw_number, type, subject, purpose,
    attachment_key, status, note, processed_by, processed_at, created_at, updated_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.RequesterID, &d.RTNumber, &d.RWNumber, &d.Type, &d.Subject,
		&d.Purpose, &d.AttachmentKey, &d.Status, &d.Note, &d.ProcessedBy,
		&d.ProcessedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create menyimpan pengajuan baru dengan status awal DIAJUKAN.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Document, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO documents (requester_id, rt_number, rw_number, type, subject, purpose, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+documentColumns,
		input.RequesterID, input.RTNumber, input.RWNumber, NormalizeType(input.Type),
		strings.TrimSpace(input.Subject), strings.TrimSpace(input.Purpose), StatusSubmitted)
	return scanDocument(row)
}

// GetByID mengambil satu pengajuan.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

// List mengembalikan pengajuan sesuai filter.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Document, error) {
	base := `SELECT ` + documentColumns + ` FROM documents`

	var (
		clauses []string
		args    []any
		idx     = 1
	)
	if filter.RequesterID != nil {
		clauses = append(clauses, fmt.Sprintf("requester_id = $%d", idx))
		args = append(args, *filter.RequesterID)
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
	if filter.Type != "" {
		clauses = append(clauses, fmt.Sprintf("type = $%d", idx))
		args = append(args, NormalizeType(filter.Type))
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

	var result []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

// Update menyunting isi pengajuan; pembatasan status ditegakkan service.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Document, error) {
	setParts := []string{"updated_at = now()"}
	args := []any{}
	idx := 1

	if input.Type != nil {
		setParts = append(setParts, fmt.Sprintf("type = $%d", idx))
		args = append(args, NormalizeType(*input.Type))
		idx++
	}
	if input.Subject != nil {
		setParts = append(setParts, fmt.Sprintf("subject = $%d", idx))
		args = append(args, strings.TrimSpace(*input.Subject))
		idx++
	}
	if input.Purpose != nil {
		setParts = append(setParts, fmt.Sprintf("purpose = $%d", idx))
		args = append(args, strings.TrimSpace(*input.Purpose))
		idx++
	}

	query := fmt.Sprintf(`UPDATE documents SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, documentColumns)
	args = append(args, id)

	return scanDocument(r.pool.QueryRow(ctx, query, args...))
}

// SetAttachment menautkan kunci lampiran di object storage.
func (r *Repository) SetAttachment(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET attachment_key = $2, updated_at = now() WHERE id = $1`, id, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus mencatat status baru beserta catatan pemroses secara atomik.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string, note *string, processor uuid.UUID, at time.Time) (*Document, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE documents
        SET status = $2, note = $3, processed_by = $4, processed_at = $5, updated_at = now()
        WHERE id = $1
        RETURNING `+documentColumns,
		id, status, note, processor, at)
	return scanDocument(row)
}

// Delete menghapus pengajuan.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
