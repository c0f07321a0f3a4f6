package assistance

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound dikembalikan saat program bantuan tidak ada.
	ErrNotFound = errors.New("program bantuan tidak ditemukan")
	// ErrRecipientNotFound dikembalikan saat penerima tidak terdaftar.
	ErrRecipientNotFound = errors.New("penerima bantuan tidak ditemukan")
	// ErrDuplicateRecipient dikembalikan saat warga sudah terdaftar di program.
	ErrDuplicateRecipient = errors.New("warga sudah terdaftar pada program ini")
	// ErrInvalidStatus dikembalikan untuk status program yang tidak dikenal.
	ErrInvalidStatus = errors.New("status program tidak valid")
	// ErrNotVerified dikembalikan saat penyaluran dicatat sebelum verifikasi.
	ErrNotVerified = errors.New("penerima belum diverifikasi")
)

// Status program bantuan sosial.
const (
	StatusPlanned = "DIRENCANAKAN"
	StatusOngoing = "BERLANGSUNG"
	StatusDone    = "SELESAI"
)

// Jenis sumber bantuan.
const (
	SourceGovernment = "PEMERINTAH"
	SourceCommunity  = "SWADAYA"
	SourceOther      = "LAINNYA"
)

var validStatuses = map[string]struct{}{
	StatusPlanned: {},
	StatusOngoing: {},
	StatusDone:    {},
}

// Program adalah satu program bantuan sosial yang dikelola RW.
type Program struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Recipient adalah warga yang terdaftar pada sebuah program.
type Recipient struct {
	ID         uuid.UUID  `json:"id"`
	ProgramID  uuid.UUID  `json:"programId"`
	ResidentID uuid.UUID  `json:"residentId"`
	RTNumber   string     `json:"rtNumber"`
	RWNumber   string     `json:"rwNumber"`
	IsVerified bool       `json:"isVerified"`
	VerifiedBy *uuid.UUID `json:"verifiedBy,omitempty"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
	ReceivedAt *time.Time `json:"receivedAt,omitempty"`
	Note       *string    `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateProgramInput memuat kolom pembuatan program.
type CreateProgramInput struct {
	Name        string
	Description string
	Source      string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   uuid.UUID
}

// UpdateProgramInput memuat suntingan program.
type UpdateProgramInput struct {
	Name        *string
	Description *string
	Source      *string
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProgramFilter membatasi daftar program.
type ProgramFilter struct {
	Status string
	Limit  int
	Offset int
}

// NormalizeStatus menyeragamkan penulisan status program.
func NormalizeStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidStatus memeriksa status program yang dikenal.
func IsValidStatus(s string) bool {
	_, ok := validStatuses[NormalizeStatus(s)]
	return ok
}
