package family

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound dikembalikan saat kartu keluarga tidak ada.
	ErrNotFound = errors.New("kartu keluarga tidak ditemukan")
	// ErrDuplicateKK dikembalikan saat nomor KK sudah terdaftar.
	ErrDuplicateKK = errors.New("nomor KK sudah terdaftar")
)

// Family mengelompokkan warga yang berbagi satu nomor kartu keluarga.
type Family struct {
	ID             uuid.UUID  `json:"id"`
	KKNumber       string     `json:"kkNumber"`
	HeadResidentID *uuid.UUID `json:"headResidentId,omitempty"`
	RTNumber       string     `json:"rtNumber"`
	RWNumber       string     `json:"rwNumber"`
	Address        *string    `json:"address,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// CreateInput memuat kolom pembuatan kartu keluarga.
type CreateInput struct {
	KKNumber       string
	HeadResidentID *uuid.UUID
	RTNumber       string
	RWNumber       string
	Address        *string
}

// Filter membatasi daftar kartu keluarga.
type Filter struct {
	RTNumber string
	RWNumber string
	Limit    int
	Offset   int
}
