package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/util"
)

type store interface {
	Create(ctx context.Context, input CreateInput) (*Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, filter Filter) ([]Event, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpsertRSVP(ctx context.Context, eventID, userID uuid.UUID, status string, at time.Time) (*Participant, error)
	ListParticipants(ctx context.Context, eventID uuid.UUID) ([]Participant, error)
}

// Service memuat aturan bisnis kegiatan warga.
type Service struct {
	store store
	now   func() time.Time
}

// NewService membuat service kegiatan.
func NewService(repo *Repository) *Service {
	return &Service{store: repo, now: time.Now}
}

func resource(e *Event) rbac.Resource {
	return rbac.Resource{
		Kind:     rbac.KindEvent,
		OwnerID:  e.CreatedBy,
		RTNumber: e.RTNumber,
		RWNumber: e.RWNumber,
	}
}

// Create membuat kegiatan; pengurus RT otomatis terikat ke lingkupnya,
// ADMIN/RW boleh membuat kegiatan lintas RT (rtNumber kosong).
func (s *Service) Create(ctx context.Context, actor rbac.Actor, input CreateInput) (*Event, error) {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindEvent}, rbac.ActionCreate) {
		return nil, rbac.ErrForbidden
	}
	if err := util.RequireString(input.Title, "judul"); err != nil {
		return nil, err
	}
	if input.StartAt.IsZero() {
		return nil, util.ErrRequired("waktu mulai")
	}

	if actor.Role == rbac.RoleRT {
		input.RTNumber = actor.RTNumber
	}
	input.RWNumber = actor.RWNumber
	input.CreatedBy = actor.UserID
	return s.store.Create(ctx, input)
}

// Get mengambil kegiatan; semua peran boleh melihat.
func (s *Service) Get(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*Event, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(e), rbac.ActionView) {
		return nil, rbac.ErrForbidden
	}
	return e, nil
}

// List mengembalikan kegiatan; warga melihat kegiatan RT-nya dan kegiatan
// lintas RT.
func (s *Service) List(ctx context.Context, actor rbac.Actor, filter Filter) ([]Event, error) {
	if actor.Role == rbac.RoleWarga || actor.Role == rbac.RoleRT {
		filter.RTNumber = actor.RTNumber
		filter.RWNumber = actor.RWNumber
	}
	return s.store.List(ctx, filter)
}

// Update menyunting kegiatan; pengurus RT hanya dalam lingkupnya.
func (s *Service) Update(ctx context.Context, actor rbac.Actor, id uuid.UUID, input UpdateInput) (*Event, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(e), rbac.ActionUpdate) {
		return nil, rbac.ErrForbidden
	}
	return s.store.Update(ctx, id, input)
}

// Delete menghapus kegiatan.
func (s *Service) Delete(ctx context.Context, actor rbac.Actor, id uuid.UUID) error {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.CanPerform(actor, resource(e), rbac.ActionDelete) {
		return rbac.ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

// RSVP mencatat kehadiran aktor; panggilan ulang menimpa status sebelumnya.
// Kegiatan yang sudah lewat menolak RSVP baru.
func (s *Service) RSVP(ctx context.Context, actor rbac.Actor, eventID uuid.UUID, status string) (*Participant, error) {
	e, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(e), rbac.ActionRSVP) {
		return nil, rbac.ErrForbidden
	}
	if !IsValidRSVP(status) {
		return nil, ErrInvalidRSVP
	}

	now := s.now().UTC()
	deadline := e.StartAt
	if e.EndAt != nil {
		deadline = *e.EndAt
	}
	if now.After(deadline) {
		return nil, ErrEventPassed
	}

	return s.store.UpsertRSVP(ctx, eventID, actor.UserID, NormalizeRSVP(status), now)
}

// Participants mengembalikan daftar peserta; hanya pengurus.
func (s *Service) Participants(ctx context.Context, actor rbac.Actor, eventID uuid.UUID) ([]Participant, error) {
	e, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(e), rbac.ActionManageParticipants) {
		return nil, rbac.ErrForbidden
	}
	return s.store.ListParticipants(ctx, eventID)
}
