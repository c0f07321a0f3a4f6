package resident

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/rt"
	"github.com/smartrw/api/internal/util"
)

type store interface {
	CreateTx(ctx context.Context, tx pgx.Tx, input CreateInput) (*Resident, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Resident, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Resident, error)
	AssignRT(ctx context.Context, id uuid.UUID, rtNumber, rwNumber string) (*Resident, error)
	Verify(ctx context.Context, id uuid.UUID, verifiedBy uuid.UUID, at time.Time) (*Resident, error)
	ClearRT(ctx context.Context, id uuid.UUID) (*Resident, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*Resident, error)
	List(ctx context.Context, filter Filter) ([]Resident, error)
}

type rtDirectory interface {
	GetActiveByNumber(ctx context.Context, number, rwNumber string) (*rt.RT, error)
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, body string) error
}

// Service mengatur registri warga dan alur verifikasi keanggotaan RT.
//
// Alur maju: daftar mandiri (tanpa RT) → pilih RT (pending) → diverifikasi
// pengurus RT/RW/Admin. RT boleh menolak; penolakan mengosongkan pilihan RT
// dan warga dipersilakan memilih ulang RT mana pun yang aktif.
type Service struct {
	store    store
	rts      rtDirectory
	notifier notifier
	now      func() time.Time
}

// NewService membuat service registri warga.
func NewService(repo *Repository, rts *rt.Service, notifier notifier) *Service {
	return &Service{store: repo, rts: rts, notifier: notifier, now: time.Now}
}

// GetByID mengambil profil warga.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Resident, error) {
	return s.store.GetByID(ctx, id)
}

// GetByUserID mengambil profil milik user yang sedang login.
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Resident, error) {
	return s.store.GetByUserID(ctx, userID)
}

// JoinRT menetapkan RT pilihan warga. Pilihan atas RT yang tidak ada atau
// nonaktif ditolak; penetapan nomor RT/RW terjadi dalam satu UPDATE sehingga
// pembaca bersamaan tidak pernah melihat penetapan setengah jadi.
func (s *Service) JoinRT(ctx context.Context, userID uuid.UUID, rtNumber, rwNumber string) (*Resident, error) {
	if err := util.ValidateRTNumber(rtNumber); err != nil {
		return nil, err
	}
	if err := util.ValidateRWNumber(rwNumber); err != nil {
		return nil, err
	}

	res, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.rts.GetActiveByNumber(ctx, rtNumber, rwNumber); err != nil {
		if errors.Is(err, rt.ErrNotFound) || errors.Is(err, rt.ErrInactive) {
			return nil, ErrRTUnavailable
		}
		return nil, err
	}

	return s.store.AssignRT(ctx, res.ID, rtNumber, rwNumber)
}

// Verify menandai warga sebagai anggota RT yang sah. Aktor harus pengurus RT
// yang dipilih warga, atau RW/Admin. Verifikasi ulang ditolak dengan
// ErrAlreadyVerified dan tidak mengubah stempel verified_at/verified_by.
// Tepat satu notifikasi dikirim ke warga saat verifikasi berhasil.
func (s *Service) Verify(ctx context.Context, actor rbac.Actor, residentID uuid.UUID) (*Resident, error) {
	res, err := s.store.GetByID(ctx, residentID)
	if err != nil {
		return nil, err
	}
	if res.IsVerified {
		return nil, ErrAlreadyVerified
	}
	if res.RTNumber == nil || res.RWNumber == nil {
		return nil, ErrNoRTSelected
	}

	if !rbac.CanPerform(actor, s.resource(res), rbac.ActionRespond) {
		return nil, rbac.ErrForbidden
	}

	// RT pilihan harus tetap ada dan aktif saat verifikasi diselesaikan.
	if _, err := s.rts.GetActiveByNumber(ctx, *res.RTNumber, *res.RWNumber); err != nil {
		if errors.Is(err, rt.ErrNotFound) || errors.Is(err, rt.ErrInactive) {
			return nil, ErrRTUnavailable
		}
		return nil, err
	}

	verified, err := s.store.Verify(ctx, residentID, actor.UserID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, verified.UserID, "VERIFIKASI",
		"Verifikasi warga disetujui",
		"Keanggotaan Anda di RT "+*verified.RTNumber+" telah diverifikasi."); err != nil {
		log.Warn().Err(err).Str("resident", residentID.String()).Msg("notifikasi verifikasi gagal")
	}

	return verified, nil
}

// Reject menolak permohonan warga yang masih pending. Pilihan RT dikosongkan
// sehingga warga kembali ke keadaan terdaftar-mandiri dan boleh memilih ulang.
func (s *Service) Reject(ctx context.Context, actor rbac.Actor, residentID uuid.UUID, reason string) (*Resident, error) {
	res, err := s.store.GetByID(ctx, residentID)
	if err != nil {
		return nil, err
	}
	if res.IsVerified {
		return nil, ErrAlreadyVerified
	}
	if res.RTNumber == nil {
		return nil, ErrNoRTSelected
	}

	if !rbac.CanPerform(actor, s.resource(res), rbac.ActionRespond) {
		return nil, rbac.ErrForbidden
	}

	cleared, err := s.store.ClearRT(ctx, residentID)
	if err != nil {
		return nil, err
	}

	body := "Permohonan keanggotaan RT Anda ditolak."
	if reason != "" {
		body += " Alasan: " + reason
	}
	if err := s.notifier.Notify(ctx, cleared.UserID, "PENOLAKAN", "Verifikasi warga ditolak", body); err != nil {
		log.Warn().Err(err).Str("resident", residentID.String()).Msg("notifikasi penolakan gagal")
	}

	return cleared, nil
}

// UpdateProfileByUser melengkapi kolom opsional profil milik user sendiri.
func (s *Service) UpdateProfileByUser(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*Resident, error) {
	res, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateProfile(ctx, res.ID, input)
}

// List mengembalikan daftar warga dalam lingkup aktor: pengurus RT dipaksa
// ke RT-nya sendiri, RW/Admin bebas, WARGA ditolak.
func (s *Service) List(ctx context.Context, actor rbac.Actor, filter Filter) ([]Resident, error) {
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

// ActorFor membangun konteks aktor RBAC, melengkapi lingkup RT/RW dari profil
// warga bila ada.
func (s *Service) ActorFor(ctx context.Context, userID uuid.UUID, role rbac.Role) rbac.Actor {
	actor := rbac.Actor{UserID: userID, Role: role}
	if res, err := s.store.GetByUserID(ctx, userID); err == nil {
		if res.RTNumber != nil {
			actor.RTNumber = *res.RTNumber
		}
		if res.RWNumber != nil {
			actor.RWNumber = *res.RWNumber
		}
	}
	return actor
}

func (s *Service) resource(res *Resident) rbac.Resource {
	out := rbac.Resource{Kind: rbac.KindResident, OwnerID: res.UserID}
	if res.RTNumber != nil {
		out.RTNumber = *res.RTNumber
	}
	if res.RWNumber != nil {
		out.RWNumber = *res.RWNumber
	}
	return out
}
