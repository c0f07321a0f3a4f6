// Package rbac memusatkan keputusan otorisasi berbasis peran.
//
// Semua handler wajib berkonsultasi ke CanPerform sebelum mengubah data;
// pemeriksaan peran di sisi klien hanya bersifat kosmetik.
package rbac

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrForbidden dikembalikan layanan saat evaluator menolak sebuah aksi.
var ErrForbidden = errors.New("Anda tidak memiliki izin untuk melakukan aksi ini")

// Role adalah hierarki peran aplikasi.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleRW    Role = "RW"
	RoleRT    Role = "RT"
	RoleWarga Role = "WARGA"
)

// ParseRole menormalkan string menjadi Role yang dikenal.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleRW:
		return RoleRW, true
	case RoleRT:
		return RoleRT, true
	case RoleWarga:
		return RoleWarga, true
	}
	return "", false
}

// Action adalah jenis operasi yang diminta aktor.
type Action string

const (
	ActionView               Action = "view"
	ActionCreate             Action = "create"
	ActionUpdate             Action = "update"
	ActionDelete             Action = "delete"
	ActionRespond            Action = "respond" // transisi status, tanggapan, verifikasi
	ActionManageParticipants Action = "manage_participants"
	ActionRSVP               Action = "rsvp"
)

// Kind mengelompokkan sumber daya yang dijaga evaluator.
type Kind string

const (
	KindRT         Kind = "rt"
	KindFamily     Kind = "family"
	KindResident   Kind = "resident"
	KindDocument   Kind = "document"
	KindComplaint  Kind = "complaint"
	KindAssistance Kind = "assistance"
	KindEvent      Kind = "event"
	KindForumPost  Kind = "forum_post"
)

// CategoryAnnouncement adalah kategori forum yang dikhususkan bagi ADMIN/RW.
const CategoryAnnouncement = "PENGUMUMAN"

// Actor adalah identitas peminta beserta lingkup RT/RW-nya.
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	RTNumber string
	RWNumber string
}

// Resource memuat atribut kepemilikan dan lingkup sebuah sumber daya.
//
// InitialStatus bernilai true selama sumber daya masih pada status awalnya
// (pengaduan DITERIMA, dokumen DIAJUKAN, post forum belum dikunci); begitu
// status bergeser, pembuatnya kehilangan hak tulis.
type Resource struct {
	Kind          Kind
	OwnerID       uuid.UUID
	RTNumber      string
	RWNumber      string
	InitialStatus bool
	Category      string
}

// CanPerform memutuskan apakah aktor boleh melakukan aksi pada sumber daya.
// Fungsi murni tanpa I/O.
func CanPerform(actor Actor, res Resource, action Action) bool {
	switch actor.Role {
	case RoleAdmin, RoleRW:
		return true
	case RoleRT:
		return canRT(actor, res, action)
	case RoleWarga:
		return canWarga(actor, res, action)
	}
	return false
}

func canRT(actor Actor, res Resource, action Action) bool {
	switch res.Kind {
	case KindRT:
		// Pengurus RT tidak boleh membuat atau menghapus definisi RT.
		return action == ActionView
	case KindAssistance:
		// Program bantuan milik RW/Admin; RT memverifikasi penerima di lingkupnya.
		switch action {
		case ActionView:
			return true
		case ActionRespond, ActionManageParticipants:
			return inScope(actor, res)
		}
		return false
	case KindResident, KindFamily:
		switch action {
		case ActionView, ActionUpdate, ActionRespond:
			return inScope(actor, res)
		case ActionCreate:
			return true
		}
		return false
	case KindDocument, KindComplaint:
		if action == ActionCreate {
			return true
		}
		if actor.UserID == res.OwnerID && res.InitialStatus {
			return true
		}
		switch action {
		case ActionView, ActionUpdate, ActionRespond, ActionDelete:
			return inScope(actor, res)
		}
		return false
	case KindEvent:
		switch action {
		case ActionView, ActionRSVP:
			return true
		case ActionCreate:
			return true
		case ActionUpdate, ActionDelete, ActionManageParticipants:
			return inScope(actor, res)
		}
		return false
	case KindForumPost:
		switch action {
		case ActionView, ActionCreate:
			return res.Category != CategoryAnnouncement || action == ActionView
		case ActionUpdate:
			return actor.UserID == res.OwnerID && res.InitialStatus
		case ActionDelete:
			// moderasi dalam lingkup RT
			return inScope(actor, res) || (actor.UserID == res.OwnerID && res.InitialStatus)
		}
		return false
	}
	return false
}

func canWarga(actor Actor, res Resource, action Action) bool {
	switch res.Kind {
	case KindRT:
		// direktori RT terbuka untuk alur pilih-RT
		return action == ActionView
	case KindAssistance:
		return action == ActionView
	case KindResident, KindFamily:
		switch action {
		case ActionView, ActionUpdate:
			return actor.UserID == res.OwnerID
		}
		return false
	case KindDocument, KindComplaint:
		switch action {
		case ActionCreate:
			return true
		case ActionView:
			return actor.UserID == res.OwnerID
		case ActionUpdate, ActionDelete:
			return actor.UserID == res.OwnerID && res.InitialStatus
		}
		return false
	case KindEvent:
		switch action {
		case ActionView, ActionRSVP:
			return true
		}
		return false
	case KindForumPost:
		switch action {
		case ActionView:
			return true
		case ActionCreate:
			return res.Category != CategoryAnnouncement
		case ActionUpdate, ActionDelete:
			return actor.UserID == res.OwnerID && res.InitialStatus
		}
		return false
	}
	return false
}

// inScope menilai kecocokan lingkup RT/RW antara aktor dan sumber daya.
// Sumber daya tanpa nomor RT dianggap berlingkup RW.
func inScope(actor Actor, res Resource) bool {
	if res.RTNumber != "" {
		return res.RTNumber == actor.RTNumber
	}
	if res.RWNumber != "" {
		return res.RWNumber == actor.RWNumber
	}
	return false
}

// IsPrivileged menandai peran dengan hak administratif penuh.
func IsPrivileged(role Role) bool {
	return role == RoleAdmin || role == RoleRW
}
