package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound dikembalikan saat notifikasi tidak ada atau bukan milik user.
var ErrNotFound = errors.New("notifikasi tidak ditemukan")

// Notification adalah pesan untuk satu user; baris di Postgres adalah sumber
// kebenaran, broker hanya fan-out.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event adalah payload yang diterbitkan ke antrean notifikasi.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
