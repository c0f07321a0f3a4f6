package rt

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound dikembalikan saat RT tidak ada.
	ErrNotFound = errors.New("RT tidak ditemukan")
	// ErrInactive dikembalikan saat RT ada tetapi sudah dinonaktifkan.
	ErrInactive = errors.New("RT tidak aktif")
	// ErrDuplicateNumber dikembalikan saat nomor RT sudah terpakai pada RW yang sama.
	ErrDuplicateNumber = errors.New("nomor RT sudah terdaftar")
)

// RT adalah unit administratif Rukun Tetangga di bawah satu RW.
type RT struct {
	ID          uuid.UUID  `json:"id"`
	Number      string     `json:"number"`
	RWNumber    string     `json:"rwNumber"`
	Chairperson string     `json:"chairperson"`
	Phone       *string    `json:"phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Active      bool       `json:"isActive"`
	ChairUserID *uuid.UUID `json:"chairUserId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateInput memuat kolom pembuatan RT baru.
type CreateInput struct {
	Number      string
	RWNumber    string
	Chairperson string
	Phone       *string
	Address     *string
	ChairUserID *uuid.UUID
}

// UpdateInput memuat perubahan parsial atas RT.
type UpdateInput struct {
	ID          uuid.UUID
	Chairperson *string
	Phone       *string
	Address     *string
	Active      *bool
	ChairUserID *uuid.UUID
}

// Filter membatasi daftar RT.
type Filter struct {
	RWNumber   string
	ActiveOnly bool
	Limit      int
	Offset     int
}
