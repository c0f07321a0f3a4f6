package resident

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound dikembalikan saat profil warga tidak ada.
	ErrNotFound = errors.New("data warga tidak ditemukan")
	// ErrAlreadyVerified dikembalikan saat warga sudah diverifikasi sebelumnya.
	ErrAlreadyVerified = errors.New("warga sudah terverifikasi")
	// ErrNoRTSelected dikembalikan saat verifikasi diminta sebelum warga memilih RT.
	ErrNoRTSelected = errors.New("warga belum memilih RT")
	// ErrRTUnavailable dikembalikan saat RT pilihan tidak ada atau nonaktif.
	ErrRTUnavailable = errors.New("RT tidak ditemukan atau tidak aktif")
	// ErrDuplicateNIK dikembalikan saat NIK sudah terdaftar pada profil lain.
	ErrDuplicateNIK = errors.New("NIK sudah terdaftar")
)

// Resident adalah profil kependudukan yang melekat pada satu User.
// NIK/KK boleh kosong untuk warga kost/kontrak. isVerified adalah gerbang
// resmi akses fitur; baris tidak pernah dihapus permanen.
type Resident struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"userId"`
	NIK               *string    `json:"nik,omitempty"`
	KK                *string    `json:"noKK,omitempty"`
	FullName          string     `json:"fullName"`
	Gender            *string    `json:"gender,omitempty"`
	BirthPlace        *string    `json:"birthPlace,omitempty"`
	BirthDate         *time.Time `json:"birthDate,omitempty"`
	Address           *string    `json:"address,omitempty"`
	RTNumber          *string    `json:"rtNumber,omitempty"`
	RWNumber          *string    `json:"rwNumber,omitempty"`
	FamilyID          *uuid.UUID `json:"familyId,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	Occupation        *string    `json:"occupation,omitempty"`
	Education         *string    `json:"education,omitempty"`
	BPJSNumber        *string    `json:"bpjsNumber,omitempty"`
	DomicileStatus    *string    `json:"domicileStatus,omitempty"`
	VaccinationStatus *string    `json:"vaccinationStatus,omitempty"`
	IsVerified        bool       `json:"isVerified"`
	VerifiedBy        *uuid.UUID `json:"verifiedBy,omitempty"`
	VerifiedAt        *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// CreateInput memuat kolom pembuatan profil warga.
type CreateInput struct {
	UserID         uuid.UUID
	NIK            *string
	KK             *string
	FullName       string
	Gender         *string
	BirthPlace     *string
	BirthDate      *time.Time
	Address        *string
	DomicileStatus *string
}

// UpdateProfileInput memuat kolom opsional yang boleh dilengkapi warga
// kapan saja; tidak satu pun menjadi syarat verifikasi.
type UpdateProfileInput struct {
	Phone             *string
	Occupation        *string
	Education         *string
	BPJSNumber        *string
	DomicileStatus    *string
	VaccinationStatus *string
	Address           *string
}

// Filter membatasi daftar warga.
type Filter struct {
	RTNumber string
	RWNumber string
	Verified *bool
	Search   string
	Limit    int
	Offset   int
}

// CompletionPercentage menghitung rasio kolom opsional yang sudah terisi.
// Murni tampilan; tidak pernah menjadi gerbang verifikasi.
func CompletionPercentage(r *Resident) int {
	fields := []*string{
		r.NIK, r.KK, r.Gender, r.BirthPlace, r.Address,
		r.Phone, r.Occupation, r.Education, r.BPJSNumber,
		r.DomicileStatus, r.VaccinationStatus,
	}
	total := len(fields) + 1 // +1 untuk tanggal lahir
	filled := 0
	for _, f := range fields {
		if f != nil && *f != "" {
			filled++
		}
	}
	if r.BirthDate != nil {
		filled++
	}
	return filled * 100 / total
}
