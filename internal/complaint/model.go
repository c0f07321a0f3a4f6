package complaint

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound dikembalikan saat pengaduan tidak ada.
	ErrNotFound = errors.New("pengaduan tidak ditemukan")
	// ErrInvalidCategory dikembalikan untuk kategori yang tidak dikenal.
	ErrInvalidCategory = errors.New("kategori pengaduan tidak valid")
	// ErrInvalidTransition dikembalikan untuk perpindahan status yang tidak sah.
	ErrInvalidTransition = errors.New("transisi status tidak valid")
)

// Status pengaduan; DITERIMA adalah status awal dan satu-satunya keadaan
// saat pembuat masih boleh menyunting.
const (
	StatusReceived  = "DITERIMA"
	StatusFollowUp  = "DITINDAKLANJUTI"
	StatusCompleted = "SELESAI"
	StatusRejected  = "DITOLAK"
)

const (
	CategoryCleanliness    = "KEBERSIHAN"
	CategorySecurity       = "KEAMANAN"
	CategoryInfrastructure = "INFRASTRUKTUR"
	CategorySocial         = "SOSIAL"
	CategoryOther          = "LAINNYA"
)

var validCategories = map[string]struct{}{
	CategoryCleanliness:    {},
	CategorySecurity:       {},
	CategoryInfrastructure: {},
	CategorySocial:         {},
	CategoryOther:          {},
}

// transitions memetakan status asal ke status tujuan yang diizinkan.
var transitions = map[string][]string{
	StatusReceived: {StatusFollowUp, StatusRejected},
	StatusFollowUp: {StatusCompleted, StatusRejected},
}

// Complaint adalah pengaduan warga kepada pengurus RT/RW.
type Complaint struct {
	ID            uuid.UUID  `json:"id"`
	CreatorID     uuid.UUID  `json:"createdBy"`
	RTNumber      string     `json:"rtNumber"`
	RWNumber      string     `json:"rwNumber"`
	Category      string     `json:"category"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AttachmentKey *string    `json:"attachmentKey,omitempty"`
	Status        string     `json:"status"`
	Response      *string    `json:"response,omitempty"`
	RespondedBy   *uuid.UUID `json:"respondedBy,omitempty"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreateInput memuat kolom pembuatan pengaduan.
type CreateInput struct {
	CreatorID   uuid.UUID
	RTNumber    string
	RWNumber    string
	Category    string
	Title       string
	Description string
}

// UpdateInput memuat suntingan pembuat selama status masih DITERIMA.
type UpdateInput struct {
	Category    *string
	Title       *string
	Description *string
}

// Filter membatasi daftar pengaduan.
type Filter struct {
	CreatorID *uuid.UUID
	RTNumber  string
	RWNumber  string
	Status    string
	Limit     int
	Offset    int
}

// NormalizeCategory menyeragamkan penulisan kategori.
func NormalizeCategory(category string) string {
	category = strings.ToUpper(strings.TrimSpace(category))
	if category == "" {
		return CategoryOther
	}
	return category
}

// IsValidCategory memeriksa kategori yang dikenal.
func IsValidCategory(category string) bool {
	_, ok := validCategories[NormalizeCategory(category)]
	return ok
}

// CanTransition memeriksa perpindahan status yang diizinkan.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
