package resident

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/rt"
)

type stubStore struct {
	residents map[uuid.UUID]*Resident
}

func newStubStore(residents ...*Resident) *stubStore {
	s := &stubStore{residents: make(map[uuid.UUID]*Resident)}
	for _, r := range residents {
		s.residents[r.ID] = r
	}
	return s
}

func (s *stubStore) CreateTx(ctx context.Context, tx pgx.Tx, input CreateInput) (*Resident, error) {
	return nil, errors.New("tidak dipakai")
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (*Resident, error) {
	if r, ok := s.residents[id]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, ErrNotFound
}

func (s *stubStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*Resident, error) {
	for _, r := range s.residents {
		if r.UserID == userID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubStore) AssignRT(ctx context.Context, id uuid.UUID, rtNumber, rwNumber string) (*Resident, error) {
	r, ok := s.residents[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.IsVerified {
		return nil, ErrAlreadyVerified
	}
	r.RTNumber, r.RWNumber = &rtNumber, &rwNumber
	copy := *r
	return &copy, nil
}

func (s *stubStore) Verify(ctx context.Context, id uuid.UUID, verifiedBy uuid.UUID, at time.Time) (*Resident, error) {
	r, ok := s.residents[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.IsVerified {
		return nil, ErrAlreadyVerified
	}
	r.IsVerified = true
	r.VerifiedBy = &verifiedBy
	r.VerifiedAt = &at
	copy := *r
	return &copy, nil
}

func (s *stubStore) ClearRT(ctx context.Context, id uuid.UUID) (*Resident, error) {
	r, ok := s.residents[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.IsVerified {
		return nil, ErrAlreadyVerified
	}
	r.RTNumber, r.RWNumber = nil, nil
	copy := *r
	return &copy, nil
}

func (s *stubStore) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*Resident, error) {
	r, ok := s.residents[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (s *stubStore) List(ctx context.Context, filter Filter) ([]Resident, error) {
	var out []Resident
	for _, r := range s.residents {
		if filter.RTNumber != "" && (r.RTNumber == nil || *r.RTNumber != filter.RTNumber) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

type stubRTDir struct {
	active map[string]bool // "rw/rt" -> aktif
}

func (s *stubRTDir) GetActiveByNumber(ctx context.Context, number, rwNumber string) (*rt.RT, error) {
	active, ok := s.active[rwNumber+"/"+number]
	if !ok {
		return nil, rt.ErrNotFound
	}
	if !active {
		return nil, rt.ErrInactive
	}
	return &rt.RT{Number: number, RWNumber: rwNumber, Active: true}, nil
}

type countingNotifier struct {
	calls []string
}

func (n *countingNotifier) Notify(ctx context.Context, userID uuid.UUID, kind, title, body string) error {
	n.calls = append(n.calls, kind)
	return nil
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
}

func newTestService(store *stubStore, dir *stubRTDir, n *countingNotifier) *Service {
	return &Service{store: store, rts: dir, notifier: n, now: fixedClock}
}

func strptr(s string) *string { return &s }

func TestJoinRTRejectsUnknownOrInactiveRT(t *testing.T) {
	res := &Resident{ID: uuid.New(), UserID: uuid.New(), FullName: "Siti"}
	svc := newTestService(newStubStore(res),
		&stubRTDir{active: map[string]bool{"005/002": false}}, &countingNotifier{})

	_, err := svc.JoinRT(context.Background(), res.UserID, "001", "005")
	if !errors.Is(err, ErrRTUnavailable) {
		t.Fatalf("RT tidak ada = %v, ingin ErrRTUnavailable", err)
	}

	_, err = svc.JoinRT(context.Background(), res.UserID, "002", "005")
	if !errors.Is(err, ErrRTUnavailable) {
		t.Fatalf("RT nonaktif = %v, ingin ErrRTUnavailable", err)
	}
}

func TestJoinRTRejectsBadFormat(t *testing.T) {
	res := &Resident{ID: uuid.New(), UserID: uuid.New(), FullName: "Siti"}
	svc := newTestService(newStubStore(res), &stubRTDir{}, &countingNotifier{})

	if _, err := svc.JoinRT(context.Background(), res.UserID, "12", "005"); err == nil {
		t.Fatal("nomor RT 2 digit seharusnya ditolak")
	}
	if _, err := svc.JoinRT(context.Background(), res.UserID, "1234", "005"); err == nil {
		t.Fatal("nomor RT 4 digit seharusnya ditolak")
	}
}

func TestVerifyHappyPathNotifiesOnce(t *testing.T) {
	res := &Resident{
		ID: uuid.New(), UserID: uuid.New(), FullName: "Siti",
		RTNumber: strptr("003"), RWNumber: strptr("005"),
	}
	store := newStubStore(res)
	notifier := &countingNotifier{}
	svc := newTestService(store, &stubRTDir{active: map[string]bool{"005/003": true}}, notifier)

	actor := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "003", RWNumber: "005"}
	verified, err := svc.Verify(context.Background(), actor, res.ID)
	if err != nil {
		t.Fatalf("verifikasi gagal: %v", err)
	}
	if !verified.IsVerified {
		t.Fatal("is_verified harus true")
	}
	if verified.VerifiedBy == nil || *verified.VerifiedBy != actor.UserID {
		t.Fatal("verified_by harus identitas aktor")
	}
	if verified.VerifiedAt == nil || !verified.VerifiedAt.Equal(fixedClock()) {
		t.Fatal("verified_at harus stempel waktu saat ini")
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "VERIFIKASI" {
		t.Fatalf("notifikasi = %v, ingin tepat satu VERIFIKASI", notifier.calls)
	}
}

func TestVerifyIdempotency(t *testing.T) {
	firstStamp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	firstBy := uuid.New()
	res := &Resident{
		ID: uuid.New(), UserID: uuid.New(), FullName: "Siti",
		RTNumber: strptr("003"), RWNumber: strptr("005"),
		IsVerified: true, VerifiedBy: &firstBy, VerifiedAt: &firstStamp,
	}
	store := newStubStore(res)
	notifier := &countingNotifier{}
	svc := newTestService(store, &stubRTDir{active: map[string]bool{"005/003": true}}, notifier)

	actor := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRW}
	_, err := svc.Verify(context.Background(), actor, res.ID)
	if !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("verifikasi kedua = %v, ingin ErrAlreadyVerified", err)
	}

	stored := store.residents[res.ID]
	if *stored.VerifiedBy != firstBy || !stored.VerifiedAt.Equal(firstStamp) {
		t.Fatal("stempel verifikasi pertama tidak boleh berubah")
	}
	if len(notifier.calls) != 0 {
		t.Fatal("verifikasi yang ditolak tidak boleh memicu notifikasi")
	}
}

func TestVerifyRaceSingleWinner(t *testing.T) {
	// Dua permintaan membaca snapshot belum-verified yang sama; UPDATE
	// kondisional di store menjamin hanya satu yang menang.
	res := &Resident{
		ID: uuid.New(), UserID: uuid.New(), FullName: "Siti",
		RTNumber: strptr("003"), RWNumber: strptr("005"),
	}
	store := newStubStore(res)
	notifier := &countingNotifier{}
	svc := newTestService(store, &stubRTDir{active: map[string]bool{"005/003": true}}, notifier)
	actor := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRW}

	if _, err := svc.Verify(context.Background(), actor, res.ID); err != nil {
		t.Fatalf("pemenang race gagal: %v", err)
	}
	if _, err := svc.Verify(context.Background(), actor, res.ID); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("yang kalah race = %v, ingin ErrAlreadyVerified", err)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("notifikasi = %d, ingin tepat satu", len(notifier.calls))
	}
}

func TestVerifyScopeAndPreconditions(t *testing.T) {
	res := &Resident{
		ID: uuid.New(), UserID: uuid.New(), FullName: "Siti",
		RTNumber: strptr("003"), RWNumber: strptr("005"),
	}
	noRT := &Resident{ID: uuid.New(), UserID: uuid.New(), FullName: "Andi"}
	store := newStubStore(res, noRT)
	svc := newTestService(store, &stubRTDir{active: map[string]bool{"005/003": true}}, &countingNotifier{})

	wrongRT := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "004", RWNumber: "005"}
	if _, err := svc.Verify(context.Background(), wrongRT, res.ID); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("RT lain = %v, ingin ErrForbidden", err)
	}

	warga := rbac.Actor{UserID: res.UserID, Role: rbac.RoleWarga}
	if _, err := svc.Verify(context.Background(), warga, res.ID); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("warga = %v, ingin ErrForbidden", err)
	}

	rw := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRW}
	if _, err := svc.Verify(context.Background(), rw, noRT.ID); !errors.Is(err, ErrNoRTSelected) {
		t.Fatalf("tanpa RT = %v, ingin ErrNoRTSelected", err)
	}
}

func TestRejectClearsRTAndAllowsReselection(t *testing.T) {
	res := &Resident{
		ID: uuid.New(), UserID: uuid.New(), FullName: "Siti",
		RTNumber: strptr("003"), RWNumber: strptr("005"),
	}
	store := newStubStore(res)
	notifier := &countingNotifier{}
	svc := newTestService(store, &stubRTDir{active: map[string]bool{
		"005/003": true,
		"005/004": true,
	}}, notifier)

	actor := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "003", RWNumber: "005"}
	cleared, err := svc.Reject(context.Background(), actor, res.ID, "alamat tidak sesuai")
	if err != nil {
		t.Fatalf("penolakan gagal: %v", err)
	}
	if cleared.RTNumber != nil || cleared.RWNumber != nil {
		t.Fatal("penolakan harus mengosongkan pilihan RT")
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "PENOLAKAN" {
		t.Fatalf("notifikasi = %v, ingin tepat satu PENOLAKAN", notifier.calls)
	}

	// warga boleh memilih ulang RT lain setelah ditolak
	again, err := svc.JoinRT(context.Background(), res.UserID, "004", "005")
	if err != nil {
		t.Fatalf("pemilihan ulang gagal: %v", err)
	}
	if again.RTNumber == nil || *again.RTNumber != "004" {
		t.Fatal("pemilihan ulang harus menetapkan RT baru")
	}
}

func TestCompletionPercentage(t *testing.T) {
	empty := &Resident{FullName: "Siti"}
	if got := CompletionPercentage(empty); got != 0 {
		t.Errorf("profil kosong = %d%%, ingin 0", got)
	}

	full := &Resident{
		FullName: "Siti",
		NIK:      strptr("3171234567890001"), KK: strptr("3171234567890002"),
		Gender: strptr("P"), BirthPlace: strptr("Jakarta"),
		BirthDate: func() *time.Time { d := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC); return &d }(),
		Address:   strptr("Jl. Mawar 1"), Phone: strptr("0812"),
		Occupation: strptr("Guru"), Education: strptr("S1"),
		BPJSNumber: strptr("123"), DomicileStatus: strptr("TETAP"),
		VaccinationStatus: strptr("BOOSTER"),
	}
	if got := CompletionPercentage(full); got != 100 {
		t.Errorf("profil lengkap = %d%%, ingin 100", got)
	}
}
