package document

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound dikembalikan saat pengajuan surat tidak ada.
	ErrNotFound = errors.New("pengajuan surat tidak ditemukan")
	// ErrInvalidType dikembalikan untuk jenis surat yang tidak dikenal.
	ErrInvalidType = errors.New("jenis surat tidak valid")
	// ErrInvalidTransition dikembalikan untuk perpindahan status yang tidak sah.
	ErrInvalidTransition = errors.New("transisi status tidak valid")
	// ErrReasonRequired dikembalikan saat penolakan tanpa alasan.
	ErrReasonRequired = errors.New("alasan penolakan wajib diisi")
)

// Status pengajuan surat; DIAJUKAN adalah status awal dan satu-satunya
// keadaan saat pemohon masih boleh menyunting atau membatalkan.
const (
	StatusSubmitted = "DIAJUKAN"
	StatusProcessed = "DIPROSES"
	StatusApproved  = "DISETUJUI"
	StatusRejected  = "DITOLAK"
	StatusDone      = "SELESAI"
)

// Jenis surat pengantar yang dilayani pengurus.
const (
	TypeIntroduction = "SURAT_PENGANTAR"
	TypeDomicile     = "SURAT_DOMISILI"
	TypeSKTM         = "SKTM"
	TypeBusiness     = "SURAT_USAHA"
	TypeOther        = "LAINNYA"
)

var validTypes = map[string]struct{}{
	TypeIntroduction: {},
	TypeDomicile:     {},
	TypeSKTM:         {},
	TypeBusiness:     {},
	TypeOther:        {},
}

var transitions = map[string][]string{
	StatusSubmitted: {StatusProcessed, StatusRejected},
	StatusProcessed: {StatusApproved, StatusRejected},
	StatusApproved:  {StatusDone},
}

// Document adalah pengajuan surat administrasi oleh warga.
type Document struct {
	ID            uuid.UUID  `json:"id"`
	RequesterID   uuid.UUID  `json:"requestedBy"`
	RTNumber      string     `json:"rtNumber"`
	RWNumber      string     `json:"rwNumber"`
	Type          string     `json:"type"`
	Subject       string     `json:"subject"`
	Purpose       string     `json:"purpose"`
	AttachmentKey *string    `json:"attachmentKey,omitempty"`
	Status        string     `json:"status"`
	Note          *string    `json:"note,omitempty"`
	ProcessedBy   *uuid.UUID `json:"processedBy,omitempty"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreateInput memuat kolom pengajuan surat baru.
type CreateInput struct {
	RequesterID uuid.UUID
	RTNumber    string
	RWNumber    string
	Type        string
	Subject     string
	Purpose     string
}

// UpdateInput memuat suntingan pemohon selama status masih DIAJUKAN.
type UpdateInput struct {
	Type    *string
	Subject *string
	Purpose *string
}

// Filter membatasi daftar pengajuan.
type Filter struct {
	RequesterID *uuid.UUID
	RTNumber    string
	RWNumber    string
	Type        string
	Status      string
	Limit       int
	Offset      int
}

// NormalizeType menyeragamkan penulisan jenis surat.
func NormalizeType(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return TypeOther
	}
	return t
}

// IsValidType memeriksa jenis surat yang dikenal.
func IsValidType(t string) bool {
	_, ok := validTypes[NormalizeType(t)]
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
