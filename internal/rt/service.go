package rt

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/util"
)

type store interface {
	Create(ctx context.Context, input CreateInput) (*RT, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RT, error)
	GetByNumber(ctx context.Context, number, rwNumber string) (*RT, error)
	List(ctx context.Context, filter Filter) ([]RT, error)
	Update(ctx context.Context, input UpdateInput) (*RT, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service memuat aturan bisnis direktori RT.
type Service struct {
	store store
}

// NewService membuat service baru.
func NewService(repo *Repository) *Service {
	return &Service{store: repo}
}

// Create memvalidasi format nomor lalu menyimpan RT baru.
// Hanya ADMIN/RW yang sampai ke sini; penegakan peran ada di handler.
func (s *Service) Create(ctx context.Context, input CreateInput) (*RT, error) {
	if err := util.ValidateRTNumber(input.Number); err != nil {
		return nil, err
	}
	if err := util.ValidateRWNumber(input.RWNumber); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Chairperson, "nama ketua RT"); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, input)
}

// Get mengambil satu RT.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*RT, error) {
	return s.store.GetByID(ctx, id)
}

// GetActiveByNumber mengambil RT aktif untuk alur pilih-RT warga.
// RT nonaktif diperlakukan sama dengan tidak ditemukan bagi pendaftaran baru,
// tetapi dibedakan lewat ErrInactive agar pesan ke pengguna jelas.
func (s *Service) GetActiveByNumber(ctx context.Context, number, rwNumber string) (*RT, error) {
	rt, err := s.store.GetByNumber(ctx, number, rwNumber)
	if err != nil {
		return nil, err
	}
	if !rt.Active {
		return nil, ErrInactive
	}
	return rt, nil
}

// List mengembalikan direktori RT.
func (s *Service) List(ctx context.Context, filter Filter) ([]RT, error) {
	return s.store.List(ctx, filter)
}

// Update menerapkan perubahan pada RT.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*RT, error) {
	return s.store.Update(ctx, input)
}

// Delete menghapus RT dari direktori.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}
