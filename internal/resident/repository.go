package resident

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

// Repository menyediakan akses ke tabel residents.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository membuat instance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const residentColumns = `id, user_id, nik, kk, full_name, gender, birth_place, birth_date,
    address, rt_number, rw_number, family_id, phone, occupation, education, bpjs_number,
    domicile_status, vaccination_status, is_verified, verified_by, verified_at, created_at, updated_at`

func scanResident(row pgx.Row) (*Resident, error) {
	var r Resident
	err := row.Scan(&r.ID, &r.UserID, &r.NIK, &r.KK, &r.FullName, &r.Gender, &r.BirthPlace,
		&r.BirthDate, &r.Address, &r.RTNumber, &r.RWNumber, &r.FamilyID, &r.Phone,
		&r.Occupation, &r.Education, &r.BPJSNumber, &r.DomicileStatus, &r.VaccinationStatus,
		&r.IsVerified, &r.VerifiedBy, &r.VerifiedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// CreateTx menyimpan profil warga baru di dalam transaksi berjalan, sehingga
// pendaftaran User+Resident bersifat atomik.
func (r *Repository) CreateTx(ctx context.Context, tx pgx.Tx, input CreateInput) (*Resident, error) {
	row := tx.QueryRow(ctx, `
        INSERT INTO residents (user_id, nik, kk, full_name, gender, birth_place, birth_date, address, domicile_status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+residentColumns,
		input.UserID, input.NIK, input.KK, strings.TrimSpace(input.FullName), input.Gender,
		input.BirthPlace, input.BirthDate, input.Address, input.DomicileStatus)

	res, err := scanResident(row)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrDuplicateNIK
		}
		return nil, err
	}
	return res, nil
}

// GetByID mengambil profil berdasarkan id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Resident, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+residentColumns+` FROM residents WHERE id = $1`, id)
	return scanResident(row)
}

// GetByUserID mengambil profil milik satu user.
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Resident, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+residentColumns+` FROM residents WHERE user_id = $1`, userID)
	return scanResident(row)
}

// AssignRT menetapkan nomor RT/RW pilihan warga dalam satu UPDATE kondisional.
// Warga yang sudah terverifikasi tidak boleh berpindah RT lewat jalur ini;
// baris yang sudah verified menghasilkan ErrAlreadyVerified.
func (r *Repository) AssignRT(ctx context.Context, id uuid.UUID, rtNumber, rwNumber string) (*Resident, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE residents
        SET rt_number = $2, rw_number = $3, updated_at = now()
        WHERE id = $1 AND is_verified = false
        RETURNING `+residentColumns,
		id, rtNumber, rwNumber)

	res, err := scanResident(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, r.classifyMissing(ctx, id)
		}
		return nil, err
	}
	return res, nil
}

// Verify menandai warga terverifikasi lewat satu read-modify-write atomik:
// UPDATE kondisional pada is_verified=false menjamin dua permintaan bersamaan
// menghasilkan tepat satu sukses dan satu ErrAlreadyVerified, tanpa menimpa
// verified_at/verified_by yang sudah ada.
func (r *Repository) Verify(ctx context.Context, id uuid.UUID, verifiedBy uuid.UUID, at time.Time) (*Resident, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE residents
        SET is_verified = true, verified_by = $2, verified_at = $3, updated_at = now()
        WHERE id = $1 AND is_verified = false
        RETURNING `+residentColumns,
		id, verifiedBy, at)

	res, err := scanResident(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, r.classifyMissing(ctx, id)
		}
		return nil, err
	}
	return res, nil
}

// ClearRT mengosongkan pilihan RT warga yang ditolak (kembali ke status
// terdaftar-mandiri); hanya berlaku selama belum terverifikasi.
func (r *Repository) ClearRT(ctx context.Context, id uuid.UUID) (*Resident, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE residents
        SET rt_number = NULL, rw_number = NULL, updated_at = now()
        WHERE id = $1 AND is_verified = false
        RETURNING `+residentColumns, id)

	res, err := scanResident(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, r.classifyMissing(ctx, id)
		}
		return nil, err
	}
	return res, nil
}

// classifyMissing membedakan baris tidak ada dari baris yang sudah verified.
func (r *Repository) classifyMissing(ctx context.Context, id uuid.UUID) error {
	var verified bool
	err := r.pool.QueryRow(ctx, `SELECT is_verified FROM residents WHERE id = $1`, id).Scan(&verified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if verified {
		return ErrAlreadyVerified
	}
	return ErrNotFound
}

// UpdateProfile melengkapi kolom opsional profil.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*Resident, error) {
	setParts := []string{"updated_at = now()"}
	args := []any{}
	idx := 1

	add := func(column string, value *string) {
		if value != nil {
			setParts = append(setParts, fmt.Sprintf("%s = $%d", column, idx))
			args = append(args, strings.TrimSpace(*value))
			idx++
		}
	}
	add("phone", input.Phone)
	add("occupation", input.Occupation)
	add("education", input.Education)
	add("bpjs_number", input.BPJSNumber)
	add("domicile_status", input.DomicileStatus)
	add("vaccination_status", input.VaccinationStatus)
	add("address", input.Address)

	query := fmt.Sprintf(`UPDATE residents SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, residentColumns)
	args = append(args, id)

	return scanResident(r.pool.QueryRow(ctx, query, args...))
}

// RTOf mengembalikan lingkup RT/RW domisili seorang warga. Warga yang belum
// memilih RT menghasilkan ErrNoRTSelected.
func (r *Repository) RTOf(ctx context.Context, residentID uuid.UUID) (string, string, error) {
	var rtNumber, rwNumber *string
	err := r.pool.QueryRow(ctx,
		`SELECT rt_number, rw_number FROM residents WHERE id = $1`, residentID).
		Scan(&rtNumber, &rwNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}
	if rtNumber == nil || rwNumber == nil {
		return "", "", ErrNoRTSelected
	}
	return *rtNumber, *rwNumber, nil
}

// SetFamily menautkan warga ke kartu keluarga.
func (r *Repository) SetFamily(ctx context.Context, id uuid.UUID, familyID *uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE residents SET family_id = $2, updated_at = now() WHERE id = $1`, id, familyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List mengembalikan daftar warga sesuai filter lingkup.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Resident, error) {
	base := `SELECT ` + residentColumns + ` FROM residents`

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
	if filter.Verified != nil {
		clauses = append(clauses, fmt.Sprintf("is_verified = $%d", idx))
		args = append(args, *filter.Verified)
		idx++
	}
	if filter.Search != "" {
		clauses = append(clauses, fmt.Sprintf("full_name ILIKE $%d", idx))
		args = append(args, "%"+strings.TrimSpace(filter.Search)+"%")
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
	query += fmt.Sprintf(" ORDER BY full_name LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Resident
	for rows.Next() {
		res, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *res)
	}
	return result, rows.Err()
}
