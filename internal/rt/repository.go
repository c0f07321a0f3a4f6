package rt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartrw/api/internal/repo"
)

// Repository menyediakan akses ke tabel rukun_tetangga.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository membuat instance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const rtColumns = `id, number, rw_number, chairperson, phone, address, active, chair_user_id, created_at, updated_at`

func scanRT(row pgx.Row) (*RT, error) {
	var r RT
	err := row.Scan(&r.ID, &r.Number, &r.RWNumber, &r.Chairperson, &r.Phone,
		&r.Address, &r.Active, &r.ChairUserID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Create menyimpan RT baru. Keunikan (number, rw_number) ditegakkan oleh
// unique constraint; pelanggaran dipetakan ke ErrDuplicateNumber sehingga
// pembuatan bersamaan dengan nomor sama hanya lolos sekali.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*RT, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO rukun_tetangga (number, rw_number, chairperson, phone, address, active, chair_user_id)
        VALUES ($1, $2, $3, $4, $5, true, $6)
        RETURNING `+rtColumns,
		input.Number, input.RWNumber, strings.TrimSpace(input.Chairperson),
		input.Phone, input.Address, input.ChairUserID)

	rt, err := scanRT(row)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrDuplicateNumber
		}
		return nil, err
	}
	return rt, nil
}

// GetByID mengambil RT berdasarkan id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*RT, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+rtColumns+` FROM rukun_tetangga WHERE id = $1`, id)
	return scanRT(row)
}

// GetByNumber mengambil RT berdasarkan pasangan nomor RT/RW.
func (r *Repository) GetByNumber(ctx context.Context, number, rwNumber string) (*RT, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+rtColumns+` FROM rukun_tetangga WHERE number = $1 AND rw_number = $2`,
		number, rwNumber)
	return scanRT(row)
}

// List mengembalikan daftar RT sesuai filter.
func (r *Repository) List(ctx context.Context, filter Filter) ([]RT, error) {
	base := `SELECT ` + rtColumns + ` FROM rukun_tetangga`

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.RWNumber != "" {
		clauses = append(clauses, fmt.Sprintf("rw_number = $%d", idx))
		args = append(args, filter.RWNumber)
		idx++
	}
	if filter.ActiveOnly {
		clauses = append(clauses, "active = true")
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
	query += fmt.Sprintf(" ORDER BY rw_number, number LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RT
	for rows.Next() {
		rt, err := scanRT(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rt)
	}
	return result, rows.Err()
}

// Update menerapkan perubahan parsial.
func (r *Repository) Update(ctx context.Context, input UpdateInput) (*RT, error) {
	setParts := []string{"updated_at = now()"}
	args := []any{}
	idx := 1

	if input.Chairperson != nil {
		setParts = append(setParts, fmt.Sprintf("chairperson = $%d", idx))
		args = append(args, strings.TrimSpace(*input.Chairperson))
		idx++
	}
	if input.Phone != nil {
		setParts = append(setParts, fmt.Sprintf("phone = $%d", idx))
		args = append(args, *input.Phone)
		idx++
	}
	if input.Address != nil {
		setParts = append(setParts, fmt.Sprintf("address = $%d", idx))
		args = append(args, *input.Address)
		idx++
	}
	if input.Active != nil {
		setParts = append(setParts, fmt.Sprintf("active = $%d", idx))
		args = append(args, *input.Active)
		idx++
	}
	if input.ChairUserID != nil {
		setParts = append(setParts, fmt.Sprintf("chair_user_id = $%d", idx))
		args = append(args, *input.ChairUserID)
		idx++
	}

	query := fmt.Sprintf(`UPDATE rukun_tetangga SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, rtColumns)
	args = append(args, input.ID)

	return scanRT(r.pool.QueryRow(ctx, query, args...))
}

// Delete menghapus definisi RT.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rukun_tetangga WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
