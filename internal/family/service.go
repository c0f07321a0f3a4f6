package family

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/util"
)

type store interface {
	Create(ctx context.Context, input CreateInput) (*Family, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Family, error)
	GetByKK(ctx context.Context, kkNumber string) (*Family, error)
	List(ctx context.Context, filter Filter) ([]Family, error)
}

// Service memuat aturan bisnis kartu keluarga.
type Service struct {
	store store
}

// NewService membuat service baru.
func NewService(repo *Repository) *Service {
	return &Service{store: repo}
}

// Create memvalidasi nomor KK dan lingkup lalu menyimpan kartu keluarga.
func (s *Service) Create(ctx context.Context, actor rbac.Actor, input CreateInput) (*Family, error) {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindFamily, RTNumber: input.RTNumber, RWNumber: input.RWNumber}, rbac.ActionCreate) {
		return nil, rbac.ErrForbidden
	}
	if err := util.ValidateKK(input.KKNumber); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.KKNumber, "nomor KK"); err != nil {
		return nil, err
	}
	if err := util.ValidateRTNumber(input.RTNumber); err != nil {
		return nil, err
	}
	if err := util.ValidateRWNumber(input.RWNumber); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, input)
}

// Get mengambil satu kartu keluarga dengan pemeriksaan lingkup aktor.
func (s *Service) Get(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*Family, error) {
	f, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := rbac.Resource{Kind: rbac.KindFamily, RTNumber: f.RTNumber, RWNumber: f.RWNumber}
	if !rbac.CanPerform(actor, res, rbac.ActionView) {
		return nil, rbac.ErrForbidden
	}
	return f, nil
}

// List mengembalikan kartu keluarga dalam lingkup aktor.
func (s *Service) List(ctx context.Context, actor rbac.Actor, filter Filter) ([]Family, error) {
	switch actor.Role {
	case rbac.RoleAdmin, rbac.RoleRW:
	case rbac.RoleRT:
		filter.RTNumber = actor.RTNumber
		filter.RWNumber = actor.RWNumber
	default:
		return nil, rbac.ErrForbidden
	}
	return s.store.List(ctx, filter)
}
