package document

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/util"
)

type store interface {
	Create(ctx context.Context, input CreateInput) (*Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context, filter Filter) ([]Document, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Document, error)
	SetAttachment(ctx context.Context, id uuid.UUID, key string) error
	SetStatus(ctx context.Context, id uuid.UUID, status string, note *string, processor uuid.UUID, at time.Time) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, body string) error
}

// Service memuat aturan bisnis pengajuan surat.
type Service struct {
	store    store
	notifier notifier
	now      func() time.Time
}

// NewService membuat service pengajuan surat.
func NewService(repo *Repository, notifier notifier) *Service {
	return &Service{store: repo, notifier: notifier, now: time.Now}
}

func resource(d *Document) rbac.Resource {
	return rbac.Resource{
		Kind:          rbac.KindDocument,
		OwnerID:       d.RequesterID,
		RTNumber:      d.RTNumber,
		RWNumber:      d.RWNumber,
		InitialStatus: d.Status == StatusSubmitted,
	}
}

// Create menerima pengajuan baru; lingkup RT/RW diambil dari domisili aktor.
func (s *Service) Create(ctx context.Context, actor rbac.Actor, input CreateInput) (*Document, error) {
	if !rbac.CanPerform(actor, rbac.Resource{Kind: rbac.KindDocument}, rbac.ActionCreate) {
		return nil, rbac.ErrForbidden
	}
	if !IsValidType(input.Type) {
		return nil, ErrInvalidType
	}
	if err := util.RequireString(input.Subject, "perihal"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Purpose, "keperluan"); err != nil {
		return nil, err
	}

	input.RequesterID = actor.UserID
	input.RTNumber = actor.RTNumber
	input.RWNumber = actor.RWNumber
	return s.store.Create(ctx, input)
}

// Get mengambil pengajuan dengan pemeriksaan hak baca.
func (s *Service) Get(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*Document, error) {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(d), rbac.ActionView) {
		return nil, rbac.ErrForbidden
	}
	return d, nil
}

// List mengembalikan pengajuan dalam lingkup aktor: WARGA hanya miliknya,
// RT lingkup RT-nya, RW/ADMIN semua.
func (s *Service) List(ctx context.Context, actor rbac.Actor, filter Filter) ([]Document, error) {
	switch actor.Role {
	case rbac.RoleAdmin, rbac.RoleRW:
	case rbac.RoleRT:
		filter.RTNumber = actor.RTNumber
		filter.RWNumber = actor.RWNumber
	default:
		filter.RequesterID = &actor.UserID
	}
	return s.store.List(ctx, filter)
}

// Update menyunting pengajuan; pemohon hanya boleh selama status DIAJUKAN.
func (s *Service) Update(ctx context.Context, actor rbac.Actor, id uuid.UUID, input UpdateInput) (*Document, error) {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(d), rbac.ActionUpdate) {
		return nil, rbac.ErrForbidden
	}
	if input.Type != nil && !IsValidType(*input.Type) {
		return nil, ErrInvalidType
	}
	return s.store.Update(ctx, id, input)
}

// Process menggeser status pengajuan; penolakan wajib menyertakan catatan.
// Pemohon diberi tahu pada setiap perpindahan status.
func (s *Service) Process(ctx context.Context, actor rbac.Actor, id uuid.UUID, status string, note *string) (*Document, error) {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanPerform(actor, resource(d), rbac.ActionRespond) {
		return nil, rbac.ErrForbidden
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	if !CanTransition(d.Status, status) {
		return nil, ErrInvalidTransition
	}
	if status == StatusRejected && (note == nil || strings.TrimSpace(*note) == "") {
		return nil, ErrReasonRequired
	}

	updated, err := s.store.SetStatus(ctx, id, status, note, actor.UserID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, updated.RequesterID, "SURAT",
		"Pengajuan surat "+statusLabel(status),
		"Pengajuan \""+updated.Subject+"\" kini berstatus "+status+"."); err != nil {
		log.Warn().Err(err).Str("document", id.String()).Msg("notifikasi surat gagal")
	}

	return updated, nil
}

// AttachFile menautkan lampiran; tunduk pada aturan sunting yang sama.
func (s *Service) AttachFile(ctx context.Context, actor rbac.Actor, id uuid.UUID, key string) error {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.CanPerform(actor, resource(d), rbac.ActionUpdate) {
		return rbac.ErrForbidden
	}
	return s.store.SetAttachment(ctx, id, key)
}

// Delete membatalkan pengajuan dengan aturan kepemilikan yang sama.
func (s *Service) Delete(ctx context.Context, actor rbac.Actor, id uuid.UUID) error {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.CanPerform(actor, resource(d), rbac.ActionDelete) {
		return rbac.ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

// ExportCSV menulis rekap pengajuan dalam lingkup aktor sebagai CSV.
// Hanya pengurus yang boleh mengekspor.
func (s *Service) ExportCSV(ctx context.Context, actor rbac.Actor, filter Filter, w io.Writer) error {
	if actor.Role == rbac.RoleWarga {
		return rbac.ErrForbidden
	}

	docs, err := s.List(ctx, actor, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"no", "jenis", "perihal", "keperluan", "rt", "rw", "status", "diajukan_pada"}); err != nil {
		return err
	}
	for i, d := range docs {
		record := []string{
			strconv.Itoa(i + 1),
			d.Type,
			d.Subject,
			d.Purpose,
			d.RTNumber,
			d.RWNumber,
			d.Status,
			d.CreatedAt.Format(time.RFC3339),
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
	case StatusProcessed:
		return "sedang diproses"
	case StatusApproved:
		return "disetujui"
	case StatusRejected:
		return "ditolak"
	case StatusDone:
		return "selesai"
	}
	return "diperbarui"
}
