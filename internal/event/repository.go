package event

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

// Repository menyediakan akses ke tabel events dan event_participants.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository membuat instance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `id, title, description, location, rt_number, rw_number,
    start_at, end_at, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.RTNumber, &e.RWNumber,
		&e.StartAt, &e.EndAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create menyimpan kegiatan baru.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Event, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO events (title, description, location, rt_number, rw_number, start_at, end_at, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+eventColumns,
		strings.TrimSpace(input.Title), strings.TrimSpace(input.Description),
		strings.TrimSpace(input.Location), input.RTNumber, input.RWNumber,
		input.StartAt, input.EndAt, input.CreatedBy)
	return scanEvent(row)
}

// GetByID mengambil satu kegiatan.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

// List mengembalikan kegiatan sesuai filter, terdekat lebih dulu.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Event, error) {
	base := `SELECT ` + eventColumns + ` FROM events`

	var (
		clauses []string
		args    []any
		idx     = 1
	)
	if filter.RTNumber != "" {
		clauses = append(clauses, fmt.Sprintf("(rt_number = $%d OR rt_number = '')", idx))
		args = append(args, filter.RTNumber)
		idx++
	}
	if filter.RWNumber != "" {
		clauses = append(clauses, fmt.Sprintf("rw_number = $%d", idx))
		args = append(args, filter.RWNumber)
		idx++
	}
	if filter.After != nil {
		clauses = append(clauses, fmt.Sprintf("start_at >= $%d", idx))
		args = append(args, *filter.After)
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
	query += fmt.Sprintf(" ORDER BY start_at LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

// Update menyunting kegiatan.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Event, error) {
	setParts := []string{"updated_at = now()"}
	args := []any{}
	idx := 1

	add := func(col string, v any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, v)
		idx++
	}

	if input.Title != nil {
		add("title", strings.TrimSpace(*input.Title))
	}
	if input.Description != nil {
		add("description", strings.TrimSpace(*input.Description))
	}
	if input.Location != nil {
		add("location", strings.TrimSpace(*input.Location))
	}
	if input.StartAt != nil {
		add("start_at", *input.StartAt)
	}
	if input.EndAt != nil {
		add("end_at", *input.EndAt)
	}

	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, eventColumns)
	args = append(args, id)

	return scanEvent(r.pool.QueryRow(ctx, query, args...))
}

// Delete menghapus kegiatan beserta daftar pesertanya (ON DELETE CASCADE).
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertRSVP mencatat atau memperbarui kehadiran; satu baris per user per
// kegiatan lewat ON CONFLICT.
func (r *Repository) UpsertRSVP(ctx context.Context, eventID, userID uuid.UUID, status string, at time.Time) (*Participant, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO event_participants (event_id, user_id, status, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (event_id, user_id)
        DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
        RETURNING id, event_id, user_id, status, updated_at`,
		eventID, userID, status, at)

	var p Participant
	if err := row.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListParticipants mengembalikan peserta sebuah kegiatan.
func (r *Repository) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]Participant, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, event_id, user_id, status, updated_at
        FROM event_participants
        WHERE event_id = $1
        ORDER BY updated_at`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
