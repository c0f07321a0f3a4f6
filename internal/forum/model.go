package forum

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound dikembalikan saat post tidak ada.
	ErrNotFound = errors.New("post tidak ditemukan")
	// ErrInvalidCategory dikembalikan untuk kategori yang tidak dikenal.
	ErrInvalidCategory = errors.New("kategori forum tidak valid")
	// ErrLocked dikembalikan saat post terkunci disunting penulisnya.
	ErrLocked = errors.New("post sudah dikunci")
)

// Kategori post forum; PENGUMUMAN khusus ADMIN/RW.
const (
	CategoryAnnouncement = "PENGUMUMAN"
	CategoryDiscussion   = "DISKUSI"
	CategoryQuestion     = "PERTANYAAN"
	CategoryMarket       = "JUAL_BELI"
	CategoryOther        = "LAINNYA"
)

var validCategories = map[string]struct{}{
	CategoryAnnouncement: {},
	CategoryDiscussion:   {},
	CategoryQuestion:     {},
	CategoryMarket:       {},
	CategoryOther:        {},
}

// Post adalah satu kiriman forum warga.
type Post struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"createdBy"`
	RTNumber  string    `json:"rtNumber"`
	RWNumber  string    `json:"rwNumber"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	Locked    bool      `json:"locked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput memuat kolom pembuatan post.
type CreateInput struct {
	AuthorID uuid.UUID
	RTNumber string
	RWNumber string
	Category string
	Title    string
	Content  string
}

// UpdateInput memuat suntingan penulis selama post belum dikunci.
type UpdateInput struct {
	Title   *string
	Content *string
}

// Filter membatasi daftar post.
type Filter struct {
	Category string
	RTNumber string
	Pinned   *bool
	Limit    int
	Offset   int
}

// NormalizeCategory menyeragamkan penulisan kategori.
func NormalizeCategory(category string) string {
	category = strings.ToUpper(strings.TrimSpace(category))
	if category == "" {
		return CategoryDiscussion
	}
	return category
}

// IsValidCategory memeriksa kategori yang dikenal.
func IsValidCategory(category string) bool {
	_, ok := validCategories[NormalizeCategory(category)]
	return ok
}
