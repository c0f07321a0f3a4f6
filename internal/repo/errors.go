package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound dikembalikan saat tidak ada baris yang cocok.
var ErrNotFound = errors.New("data tidak ditemukan")

// IsUniqueViolation mendeteksi pelanggaran unique constraint Postgres (23505).
// Keunikan nomor RT, NIK, dan email ditegakkan di lapisan penyimpanan, bukan
// lewat read-check-then-write di aplikasi.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
