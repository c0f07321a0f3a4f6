package forum

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/util"
)

type store interface {
	Create(ctx context.Context, input CreateInput) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	List(ctx context.Context, filter Filter) ([]Post, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Post, error)
	SetFlags(ctx context.Context, id uuid.UUID, pinned, locked bool) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service memuat aturan bisnis forum warga.
type Service struct {
	store store
}

// NewService membuat service forum.
func NewService(repo *Repository) *Service {
	return &Service{store: repo}
}

func resource(p *Post) rbac.Resource {
	return rbac.Resource{
		Kind:          rbac.KindForumPost,
		OwnerID:       p.AuthorID,
		RTNumber:      p.RTNumber,
		RWNumber:      p.RWNumber,
		InitialStatus: !p.Locked,
		Category:      p.Category,
	}
}

// Create menerima post baru. PENGUMUMAN ditolak untuk WARGA dan RT; tidak
// pernah diturunkan diam-diam ke kategori lain.
func (s *Service) Create(ctx context.Context, actor rbac.Actor, input CreateInput) (*Post, error) {
	if !IsValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}
	res := rbac.Resource{Kind: rbac.KindForumPost, Category: NormalizeCategory(input.Category)}
	if !rbac.CanPerform(actor, res, rbac.ActionCreate) {
		return nil, rbac.ErrForbidden
	}
	if err := util.RequireString(input.Title, "judul"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Content, "isi"); err != nil {
		return nil, err
	}

	input.AuthorID = actor.UserID
	input.RTNumber = actor.RTNumber
	input.RWNumber = actor.RWNumber
	return s.store.Create(ctx, input)
}

// Get mengambil post; forum terbuka untuk semua peran.
func (s *Service) Get(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*Post, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(p), rbac.ActionView) {
		return nil, rbac.ErrForbidden
	}
	return p, nil
}

// List mengembalikan post sesuai filter.
func (s *Service) List(ctx context.Context, actor rbac.Actor, filter Filter) ([]Post, error) {
	if filter.Category != "" && !IsValidCategory(filter.Category) {
		return nil, ErrInvalidCategory
	}
	return s.store.List(ctx, filter)
}

// Update menyunting post; penulis hanya selama post belum dikunci.
func (s *Service) Update(ctx context.Context, actor rbac.Actor, id uuid.UUID, input UpdateInput) (*Post, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Locked && !rbac.IsPrivileged(actor.Role) {
		return nil, ErrLocked
	}
	if !rbac.CanPerform(actor, resource(p), rbac.ActionUpdate) {
		return nil, rbac.ErrForbidden
	}
	return s.store.Update(ctx, id, input)
}

// SetFlags menyematkan atau mengunci post; hanya ADMIN/RW.
func (s *Service) SetFlags(ctx context.Context, actor rbac.Actor, id uuid.UUID, pinned, locked bool) (*Post, error) {
	if !rbac.IsPrivileged(actor.Role) {
		return nil, rbac.ErrForbidden
	}
	return s.store.SetFlags(ctx, id, pinned, locked)
}

// Delete menghapus post; penulis selama belum dikunci, moderator RT dalam
// lingkupnya, RW/ADMIN di mana saja.
func (s *Service) Delete(ctx context.Context, actor rbac.Actor, id uuid.UUID) error {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.CanPerform(actor, resource(p), rbac.ActionDelete) {
		return rbac.ErrForbidden
	}
	return s.store.Delete(ctx, id)
}
