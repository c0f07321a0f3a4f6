package assistance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/util"
)

type store interface {
	CreateProgram(ctx context.Context, input CreateProgramInput) (*Program, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*Program, error)
	ListPrograms(ctx context.Context, filter ProgramFilter) ([]Program, error)
	UpdateProgram(ctx context.Context, id uuid.UUID, input UpdateProgramInput) (*Program, error)
	DeleteProgram(ctx context.Context, id uuid.UUID) error
	AddRecipient(ctx context.Context, programID, residentID uuid.UUID, rtNumber, rwNumber string, note *string) (*Recipient, error)
	GetRecipient(ctx context.Context, id uuid.UUID) (*Recipient, error)
	ListRecipients(ctx context.Context, programID uuid.UUID, rtNumber string) ([]Recipient, error)
	VerifyRecipient(ctx context.Context, id, verifier uuid.UUID, at time.Time) (*Recipient, error)
	MarkReceived(ctx context.Context, id uuid.UUID, at time.Time) (*Recipient, error)
	RemoveRecipient(ctx context.Context, id uuid.UUID) error
}

type residentDirectory interface {
	RTOf(ctx context.Context, residentID uuid.UUID) (rtNumber, rwNumber string, err error)
}

// Service memuat aturan bisnis bantuan sosial. Program dikelola ADMIN/RW;
// pengurus RT memverifikasi penerima di lingkupnya.
type Service struct {
	store     store
	residents residentDirectory
	now       func() time.Time
}

// NewService membuat service bantuan sosial.
func NewService(repo *Repository, residents residentDirectory) *Service {
	return &Service{store: repo, residents: residents, now: time.Now}
}

// CreateProgram membuat program baru; hanya ADMIN/RW.
func (s *Service) CreateProgram(ctx context.Context, actor rbac.Actor, input CreateProgramInput) (*Program, error) {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindAssistance}, rbac.ActionCreate) {
		return nil, rbac.ErrForbidden
	}
	if err := util.RequireString(input.Name, "nama program"); err != nil {
		return nil, err
	}
	input.CreatedBy = actor.UserID
	return s.store.CreateProgram(ctx, input)
}

// GetProgram mengambil program; semua peran boleh melihat.
func (s *Service) GetProgram(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*Program, error) {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindAssistance}, rbac.ActionView) {
		return nil, rbac.ErrForbidden
	}
	return s.store.GetProgram(ctx, id)
}

// ListPrograms mengembalikan daftar program.
func (s *Service) ListPrograms(ctx context.Context, actor rbac.Actor, filter ProgramFilter) ([]Program, error) {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindAssistance}, rbac.ActionView) {
		return nil, rbac.ErrForbidden
	}
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	return s.store.ListPrograms(ctx, filter)
}

// UpdateProgram menyunting program; hanya ADMIN/RW.
func (s *Service) UpdateProgram(ctx context.Context, actor rbac.Actor, id uuid.UUID, input UpdateProgramInput) (*Program, error) {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindAssistance}, rbac.ActionUpdate) {
		return nil, rbac.ErrForbidden
	}
	if input.Status != nil && !IsValidStatus(*input.Status) {
		return nil, ErrInvalidStatus
	}
	return s.store.UpdateProgram(ctx, id, input)
}

// DeleteProgram menghapus program; hanya ADMIN/RW.
func (s *Service) DeleteProgram(ctx context.Context, actor rbac.Actor, id uuid.UUID) error {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindAssistance}, rbac.ActionDelete) {
		return rbac.ErrForbidden
	}
	return s.store.DeleteProgram(ctx, id)
}

// AddRecipient mendaftarkan warga ke program; lingkup RT/RW diambil dari
// domisili warga, bukan dari input.
func (s *Service) AddRecipient(ctx context.Context, actor rbac.Actor, programID, residentID uuid.UUID, note *string) (*Recipient, error) {
	rtNumber, rwNumber, err := s.residents.RTOf(ctx, residentID)
	if err != nil {
		return nil, err
	}
	res := rbac.Resource{Kind: rbac.KindAssistance, RTNumber: rtNumber, RWNumber: rwNumber}
	if !rbac.CanPerform(actor, res, rbac.ActionManageParticipants) {
		return nil, rbac.ErrForbidden
	}
	if _, err := s.store.GetProgram(ctx, programID); err != nil {
		return nil, err
	}
	return s.store.AddRecipient(ctx, programID, residentID, rtNumber, rwNumber, note)
}

// ListRecipients mengembalikan penerima program; pengurus RT otomatis
// dibatasi ke lingkupnya.
func (s *Service) ListRecipients(ctx context.Context, actor rbac.Actor, programID uuid.UUID) ([]Recipient, error) {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindAssistance}, rbac.ActionView) {
		return nil, rbac.ErrForbidden
	}
	rtScope := ""
	if actor.Role == rbac.RoleRT {
		rtScope = actor.RTNumber
	}
	return s.store.ListRecipients(ctx, programID, rtScope)
}

// VerifyRecipient menandai penerima sah; pengurus RT hanya untuk warganya.
func (s *Service) VerifyRecipient(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*Recipient, error) {
	rec, err := s.store.GetRecipient(ctx, id)
	if err != nil {
		return nil, err
	}
	res := rbac.Resource{Kind: rbac.KindAssistance, RTNumber: rec.RTNumber, RWNumber: rec.RWNumber}
	if !rbac.CanPerform(actor, res, rbac.ActionRespond) {
		return nil, rbac.ErrForbidden
	}
	return s.store.VerifyRecipient(ctx, id, actor.UserID, s.now().UTC())
}

// MarkReceived mencatat penyaluran; hanya untuk penerima terverifikasi.
func (s *Service) MarkReceived(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*Recipient, error) {
	rec, err := s.store.GetRecipient(ctx, id)
	if err != nil {
		return nil, err
	}
	res := rbac.Resource{Kind: rbac.KindAssistance, RTNumber: rec.RTNumber, RWNumber: rec.RWNumber}
	if !rbac.CanPerform(actor, res, rbac.ActionRespond) {
		return nil, rbac.ErrForbidden
	}
	if !rec.IsVerified {
		return nil, ErrNotVerified
	}
	return s.store.MarkReceived(ctx, id, s.now().UTC())
}

// RemoveRecipient mencoret penerima; hanya ADMIN/RW.
func (s *Service) RemoveRecipient(ctx context.Context, actor rbac.Actor, id uuid.UUID) error {
	if !rbac.IsPrivileged(actor.Role) {
		return rbac.ErrForbidden
	}
	return s.store.RemoveRecipient(ctx, id)
}
