package repo

import (
	"time"

	"github.com/google/uuid"
)

// User adalah akun aplikasi; peran disimpan sebagai string ADMIN/RW/RT/WARGA.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// RefreshToken memodelkan tabel refresh_tokens.
type RefreshToken struct {
	ID        uuid.UUID
	Subject   uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}

// InsertRefreshTokenParams memuat kolom untuk menyimpan refresh token baru.
type InsertRefreshTokenParams struct {
	ID        uuid.UUID
	Subject   uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
