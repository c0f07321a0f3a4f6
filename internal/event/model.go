package event

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound dikembalikan saat kegiatan tidak ada.
	ErrNotFound = errors.New("kegiatan tidak ditemukan")
	// ErrInvalidRSVP dikembalikan untuk status kehadiran yang tidak dikenal.
	ErrInvalidRSVP = errors.New("status kehadiran tidak valid")
	// ErrEventPassed dikembalikan saat RSVP dikirim setelah kegiatan berakhir.
	ErrEventPassed = errors.New("kegiatan sudah berakhir")
)

// Status kehadiran peserta.
const (
	RSVPAttending    = "AKAN_HADIR"
	RSVPNotAttending = "TIDAK_HADIR"
)

// Event adalah kegiatan warga seperti kerja bakti atau rapat RT.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	RTNumber    string     `json:"rtNumber"`
	RWNumber    string     `json:"rwNumber"`
	StartAt     time.Time  `json:"startAt"`
	EndAt       *time.Time `json:"endAt,omitempty"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Participant adalah catatan RSVP satu user pada satu kegiatan.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"eventId"`
	UserID    uuid.UUID `json:"userId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput memuat kolom pembuatan kegiatan.
type CreateInput struct {
	Title       string
	Description string
	Location    string
	RTNumber    string
	RWNumber    string
	StartAt     time.Time
	EndAt       *time.Time
	CreatedBy   uuid.UUID
}

// UpdateInput memuat suntingan kegiatan.
type UpdateInput struct {
	Title       *string
	Description *string
	Location    *string
	StartAt     *time.Time
	EndAt       *time.Time
}

// Filter membatasi daftar kegiatan.
type Filter struct {
	RTNumber string
	RWNumber string
	After    *time.Time
	Limit    int
	Offset   int
}

// NormalizeRSVP menyeragamkan penulisan status kehadiran.
func NormalizeRSVP(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidRSVP memeriksa status kehadiran yang dikenal.
func IsValidRSVP(s string) bool {
	switch NormalizeRSVP(s) {
	case RSVPAttending, RSVPNotAttending:
		return true
	}
	return false
}
