package family

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

// Repository menyediakan akses ke tabel families.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository membuat instance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const familyColumns = `id, kk_number, head_resident_id, rt_number, rw_number, address, created_at, updated_at`

func scanFamily(row pgx.Row) (*Family, error) {
	var f Family
	err := row.Scan(&f.ID, &f.KKNumber, &f.HeadResidentID, &f.RTNumber, &f.RWNumber,
		&f.Address, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Create menyimpan kartu keluarga baru; nomor KK unik lewat constraint.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Family, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO families (kk_number, head_resident_id, rt_number, rw_number, address)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+familyColumns,
		input.KKNumber, input.HeadResidentID, input.RTNumber, input.RWNumber, input.Address)

	f, err := scanFamily(row)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrDuplicateKK
		}
		return nil, err
	}
	return f, nil
}

// GetByID mengambil kartu keluarga berdasarkan id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Family, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+familyColumns+` FROM families WHERE id = $1`, id)
	return scanFamily(row)
}

// GetByKK mengambil kartu keluarga berdasarkan nomor KK.
func (r *Repository) GetByKK(ctx context.Context, kkNumber string) (*Family, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+familyColumns+` FROM families WHERE kk_number = $1`, kkNumber)
	return scanFamily(row)
}

// List mengembalikan kartu keluarga sesuai lingkup.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Family, error) {
	base := `SELECT ` + familyColumns + ` FROM families`

	var (
		clauses []string
		args    []any
		idx     = 1
	)
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
	query += fmt.Sprintf(" ORDER BY kk_number LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *f)
	}
	return result, rows.Err()
}
