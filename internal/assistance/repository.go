package assistance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartrw/api/internal/repo"
)

// Repository menyediakan akses ke tabel assistance_programs dan
// assistance_recipients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository membuat instance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const programColumns = `id, name, description, source, status, start_date, end_date,
    created_by, created_at, updated_at`

func scanProgram(row pgx.Row) (*Program, error) {
	var p Program
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Source, &p.Status,
		&p.StartDate, &p.EndDate, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CreateProgram menyimpan program baru dengan status DIRENCANAKAN.
func (r *Repository) CreateProgram(ctx context.Context, input CreateProgramInput) (*Program, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO assistance_programs (name, description, source, status, start_date, end_date, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+programColumns,
		strings.TrimSpace(input.Name), strings.TrimSpace(input.Description),
		strings.ToUpper(strings.TrimSpace(input.Source)), StatusPlanned,
		input.StartDate, input.EndDate, input.CreatedBy)
	return scanProgram(row)
}

// GetProgram mengambil satu program.
func (r *Repository) GetProgram(ctx context.Context, id uuid.UUID) (*Program, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+programColumns+` FROM assistance_programs WHERE id = $1`, id)
	return scanProgram(row)
}

// ListPrograms mengembalikan program sesuai filter.
func (r *Repository) ListPrograms(ctx context.Context, filter ProgramFilter) ([]Program, error) {
	query := `SELECT ` + programColumns + ` FROM assistance_programs`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, NormalizeStatus(filter.Status))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// UpdateProgram menyunting program.
func (r *Repository) UpdateProgram(ctx context.Context, id uuid.UUID, input UpdateProgramInput) (*Program, error) {
	setParts := []string{"updated_at = now()"}
	args := []any{}
	idx := 1

	add := func(col string, v any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, v)
		idx++
	}

	if input.Name != nil {
		add("name", strings.TrimSpace(*input.Name))
	}
	if input.Description != nil {
		add("description", strings.TrimSpace(*input.Description))
	}
	if input.Source != nil {
		add("source", strings.ToUpper(strings.TrimSpace(*input.Source)))
	}
	if input.Status != nil {
		add("status", NormalizeStatus(*input.Status))
	}
	if input.StartDate != nil {
		add("start_date", *input.StartDate)
	}
	if input.EndDate != nil {
		add("end_date", *input.EndDate)
	}

	query := fmt.Sprintf(`UPDATE assistance_programs SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, programColumns)
	args = append(args, id)

	return scanProgram(r.pool.QueryRow(ctx, query, args...))
}

// DeleteProgram menghapus program beserta daftar penerimanya (ON DELETE CASCADE).
func (r *Repository) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assistance_programs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const recipientColumns = `id, program_id, resident_id, rt_number, rw_number,
    is_verified, verified_by, verified_at, received_at, note, created_at`

func scanRecipient(row pgx.Row) (*Recipient, error) {
	var rec Recipient
	err := row.Scan(&rec.ID, &rec.ProgramID, &rec.ResidentID, &rec.RTNumber, &rec.RWNumber,
		&rec.IsVerified, &rec.VerifiedBy, &rec.VerifiedAt, &rec.ReceivedAt, &rec.Note, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// AddRecipient mendaftarkan warga ke program. Kombinasi program+warga unik;
// pelanggarannya dipetakan ke ErrDuplicateRecipient.
func (r *Repository) AddRecipient(ctx context.Context, programID, residentID uuid.UUID, rtNumber, rwNumber string, note *string) (*Recipient, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO assistance_recipients (program_id, resident_id, rt_number, rw_number, note)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+recipientColumns,
		programID, residentID, rtNumber, rwNumber, note)
	rec, err := scanRecipient(row)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrDuplicateRecipient
		}
		return nil, err
	}
	return rec, nil
}

// GetRecipient mengambil satu penerima.
func (r *Repository) GetRecipient(ctx context.Context, id uuid.UUID) (*Recipient, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+recipientColumns+` FROM assistance_recipients WHERE id = $1`, id)
	return scanRecipient(row)
}

// ListRecipients mengembalikan penerima sebuah program, opsional per RT.
func (r *Repository) ListRecipients(ctx context.Context, programID uuid.UUID, rtNumber string) ([]Recipient, error) {
	query := `SELECT ` + recipientColumns + ` FROM assistance_recipients WHERE program_id = $1`
	args := []any{programID}
	if rtNumber != "" {
		query += ` AND rt_number = $2`
		args = append(args, rtNumber)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Recipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

// VerifyRecipient menandai penerima terverifikasi secara kondisional; baris
// yang sudah terverifikasi tidak tersentuh.
func (r *Repository) VerifyRecipient(ctx context.Context, id, verifier uuid.UUID, at time.Time) (*Recipient, error) {
	tag, err := r.pool.Exec(ctx, `
        UPDATE assistance_recipients
        SET is_verified = true, verified_by = $2, verified_at = $3
        WHERE id = $1 AND is_verified = false`,
		id, verifier, at)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		// bedakan sudah-terverifikasi dari tidak-ada
		if _, err := r.GetRecipient(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetRecipient(ctx, id)
}

// MarkReceived mencatat waktu penyaluran bantuan.
func (r *Repository) MarkReceived(ctx context.Context, id uuid.UUID, at time.Time) (*Recipient, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE assistance_recipients
        SET received_at = $2
        WHERE id = $1
        RETURNING `+recipientColumns,
		id, at)
	return scanRecipient(row)
}

// RemoveRecipient mencoret warga dari program.
func (r *Repository) RemoveRecipient(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assistance_recipients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipientNotFound
	}
	return nil
}
