package rbac

import (
	"testing"

	"github.com/google/uuid"
)

func TestComplaintOwnershipGate(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	cases := []struct {
		name    string
		actor   Actor
		initial bool
		want    bool
	}{
		{"warga pemilik status awal", Actor{UserID: owner, Role: RoleWarga}, true, true},
		{"warga pemilik sudah ditanggapi", Actor{UserID: owner, Role: RoleWarga}, false, false},
		{"warga lain status awal", Actor{UserID: other, Role: RoleWarga}, true, false},
		{"warga lain sudah ditanggapi", Actor{UserID: other, Role: RoleWarga}, false, false},
		{"rt selingkup status awal", Actor{UserID: other, Role: RoleRT, RTNumber: "001", RWNumber: "005"}, true, true},
		{"rt selingkup sudah ditanggapi", Actor{UserID: other, Role: RoleRT, RTNumber: "001", RWNumber: "005"}, false, true},
		{"rw status awal", Actor{UserID: other, Role: RoleRW}, true, true},
		{"rw sudah ditanggapi", Actor{UserID: other, Role: RoleRW}, false, true},
		{"admin sudah ditanggapi", Actor{UserID: other, Role: RoleAdmin}, false, true},
	}

	for _, tc := range cases {
		res := Resource{
			Kind:          KindComplaint,
			OwnerID:       owner,
			RTNumber:      "001",
			RWNumber:      "005",
			InitialStatus: tc.initial,
		}
		if got := CanPerform(tc.actor, res, ActionUpdate); got != tc.want {
			t.Errorf("%s: CanPerform update = %v, ingin %v", tc.name, got, tc.want)
		}
	}
}

func TestRTScopeMismatch(t *testing.T) {
	rt := Actor{UserID: uuid.New(), Role: RoleRT, RTNumber: "002", RWNumber: "005"}

	res := Resource{Kind: KindComplaint, OwnerID: uuid.New(), RTNumber: "001", RWNumber: "005"}
	if CanPerform(rt, res, ActionRespond) {
		t.Fatal("RT di luar lingkup tidak boleh menanggapi pengaduan")
	}

	res.RTNumber = "002"
	if !CanPerform(rt, res, ActionRespond) {
		t.Fatal("RT selingkup harus boleh menanggapi pengaduan")
	}
}

func TestRTCannotManageRTDefinitions(t *testing.T) {
	rt := Actor{UserID: uuid.New(), Role: RoleRT, RTNumber: "001", RWNumber: "005"}
	res := Resource{Kind: KindRT, RTNumber: "001", RWNumber: "005"}

	for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		if CanPerform(rt, res, action) {
			t.Errorf("RT tidak boleh %s definisi RT", action)
		}
	}
	if !CanPerform(rt, res, ActionView) {
		t.Error("RT harus boleh melihat direktori RT")
	}
	if !CanPerform(Actor{UserID: uuid.New(), Role: RoleRW}, res, ActionCreate) {
		t.Error("RW harus boleh membuat RT")
	}
}

func TestAnnouncementCategoryReserved(t *testing.T) {
	post := Resource{Kind: KindForumPost, Category: CategoryAnnouncement, InitialStatus: true}

	if CanPerform(Actor{UserID: uuid.New(), Role: RoleWarga}, post, ActionCreate) {
		t.Error("WARGA tidak boleh membuat pengumuman")
	}
	if CanPerform(Actor{UserID: uuid.New(), Role: RoleRT, RTNumber: "001"}, post, ActionCreate) {
		t.Error("RT tidak boleh membuat pengumuman")
	}
	if !CanPerform(Actor{UserID: uuid.New(), Role: RoleRW}, post, ActionCreate) {
		t.Error("RW harus boleh membuat pengumuman")
	}
	if !CanPerform(Actor{UserID: uuid.New(), Role: RoleAdmin}, post, ActionCreate) {
		t.Error("ADMIN harus boleh membuat pengumuman")
	}

	diskusi := Resource{Kind: KindForumPost, Category: "DISKUSI", InitialStatus: true}
	if !CanPerform(Actor{UserID: uuid.New(), Role: RoleWarga}, diskusi, ActionCreate) {
		t.Error("WARGA harus boleh membuat post diskusi")
	}
}

func TestResidentVerificationScope(t *testing.T) {
	resident := Resource{Kind: KindResident, OwnerID: uuid.New(), RTNumber: "003", RWNumber: "005"}

	if !CanPerform(Actor{UserID: uuid.New(), Role: RoleRT, RTNumber: "003", RWNumber: "005"}, resident, ActionRespond) {
		t.Error("RT yang dipilih warga harus boleh memverifikasi")
	}
	if CanPerform(Actor{UserID: uuid.New(), Role: RoleRT, RTNumber: "004", RWNumber: "005"}, resident, ActionRespond) {
		t.Error("RT lain tidak boleh memverifikasi")
	}
	if CanPerform(Actor{UserID: resident.OwnerID, Role: RoleWarga}, resident, ActionRespond) {
		t.Error("warga tidak boleh memverifikasi dirinya sendiri")
	}
	if !CanPerform(Actor{UserID: uuid.New(), Role: RoleRW}, resident, ActionRespond) {
		t.Error("RW harus boleh memverifikasi")
	}
}

func TestWargaDocumentPrivacy(t *testing.T) {
	owner := uuid.New()
	doc := Resource{Kind: KindDocument, OwnerID: owner, RTNumber: "001", RWNumber: "005", InitialStatus: true}

	if CanPerform(Actor{UserID: uuid.New(), Role: RoleWarga}, doc, ActionView) {
		t.Error("warga lain tidak boleh melihat pengajuan dokumen orang lain")
	}
	if !CanPerform(Actor{UserID: owner, Role: RoleWarga}, doc, ActionView) {
		t.Error("pemilik harus boleh melihat dokumennya")
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" warga "); !ok || r != RoleWarga {
		t.Errorf("ParseRole warga = %v %v", r, ok)
	}
	if _, ok := ParseRole("SUPERUSER"); ok {
		t.Error("peran tak dikenal harus ditolak")
	}
}
