package complaint

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/util"
)

type store interface {
	Create(ctx context.Context, input CreateInput) (*Complaint, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Complaint, error)
	List(ctx context.Context, filter Filter) ([]Complaint, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Complaint, error)
	SetAttachment(ctx context.Context, id uuid.UUID, key string) error
	Respond(ctx context.Context, id uuid.UUID, status, response string, responder uuid.UUID, at time.Time) (*Complaint, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, body string) error
}

// Service memuat aturan bisnis pengaduan warga.
type Service struct {
	store    store
	notifier notifier
	now      func() time.Time
}

// NewService membuat service pengaduan.
func NewService(repo *Repository, notifier notifier) *Service {
	return &Service{store: repo, notifier: notifier, now: time.Now}
}

func resource(c *Complaint) rbac.Resource {
	return rbac.Resource{
		Kind:          rbac.KindComplaint,
		OwnerID:       c.CreatorID,
		RTNumber:      c.RTNumber,
		RWNumber:      c.RWNumber,
		InitialStatus: c.Status == StatusReceived,
	}
}

// Create menerima pengaduan baru; lingkup RT/RW diambil dari domisili aktor.
func (s *Service) Create(ctx context.Context, actor rbac.Actor, input CreateInput) (*Complaint, error) {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindComplaint}, rbac.ActionCreate) {
		return nil, rbac.ErrForbidden
	}
	if !IsValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}
	if err := util.RequireString(input.Title, "judul"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Description, "deskripsi"); err != nil {
		return nil, err
	}

	input.CreatorID = actor.UserID
	input.RTNumber = actor.RTNumber
	input.RWNumber = actor.RWNumber
	return s.store.Create(ctx, input)
}

// Get mengambil pengaduan dengan pemeriksaan hak baca.
func (s *Service) Get(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*Complaint, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(c), rbac.ActionView) {
		return nil, rbac.ErrForbidden
	}
	return c, nil
}

// List mengembalikan pengaduan dalam lingkup aktor: WARGA hanya miliknya,
// RT lingkup RT-nya, RW/ADMIN semua.
func (s *Service) List(ctx context.Context, actor rbac.Actor, filter Filter) ([]Complaint, error) {
	switch actor.Role {
	case rbac.RoleAdmin, rbac.RoleRW:
	case rbac.RoleRT:
		filter.RTNumber = actor.RTNumber
		filter.RWNumber = actor.RWNumber
	default:
		filter.CreatorID = &actor.UserID
	}
	return s.store.List(ctx, filter)
}

// Update menyunting pengaduan; pembuat hanya boleh selama status DITERIMA.
func (s *Service) Update(ctx context.Context, actor rbac.Actor, id uuid.UUID, input UpdateInput) (*Complaint, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(c), rbac.ActionUpdate) {
		return nil, rbac.ErrForbidden
	}
	if input.Category != nil && !IsValidCategory(*input.Category) {
		return nil, ErrInvalidCategory
	}
	return s.store.Update(ctx, id, input)
}

// Respond mencatat tanggapan pengurus dan menggeser status; begitu status
// meninggalkan DITERIMA, pembuat kehilangan hak sunting.
func (s *Service) Respond(ctx context.Context, actor rbac.Actor, id uuid.UUID, status, response string) (*Complaint, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(c), rbac.ActionRespond) {
		return nil, rbac.ErrForbidden
	}
	if !CanTransition(c.Status, status) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.store.Respond(ctx, id, status, response, actor.UserID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, updated.CreatorID, "PENGADUAN",
		"Pengaduan Anda "+statusLabel(status),
		"Pengaduan \""+updated.Title+"\" kini berstatus "+status+"."); err != nil {
		log.Warn().Err(err).Str("complaint", id.String()).Msg("notifikasi pengaduan gagal")
	}

	return updated, nil
}

// AttachFile menautkan lampiran; tunduk pada aturan sunting yang sama.
func (s *Service) AttachFile(ctx context.Context, actor rbac.Actor, id uuid.UUID, key string) error {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.CanPerform(actor, resource(c), rbac.ActionUpdate) {
		return rbac.ErrForbidden
	}
	return s.store.SetAttachment(ctx, id, key)
}

// Delete menghapus pengaduan dengan aturan kepemilikan yang sama.
func (s *Service) Delete(ctx context.Context, actor rbac.Actor, id uuid.UUID) error {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.CanPerform(actor, resource(c), rbac.ActionDelete) {
		return rbac.ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

// ExportCSV menulis rekap pengaduan dalam lingkup aktor sebagai CSV.
// Hanya pengurus yang boleh mengekspor.
func (s *Service) ExportCSV(ctx context.Context, actor rbac.Actor, filter Filter, w io.Writer) error {
	if actor.Role == rbac.RoleWarga {
		return rbac.ErrForbidden
	}

	complaints, err := s.List(ctx, actor, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"no", "kategori", "judul", "status", "rt", "rw", "dibuat_pada"}); err != nil {
		return err
	}
	for i, c := range complaints {
		record := []string{
			strconv.Itoa(i + 1),
			c.Category,
			c.Title,
			c.Status,
			c.RTNumber,
			c.RWNumber,
			c.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func statusLabel(status string) string {
	switch status {
	case StatusFollowUp:
		return "ditindaklanjuti"
	case StatusCompleted:
		return "selesai"
	case StatusRejected:
		return "ditolak"
	}
	return "diperbarui"
}
