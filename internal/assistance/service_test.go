package assistance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/rbac"
)

type stubStore struct {
	programs   map[uuid.UUID]*Program
	recipients map[uuid.UUID]*Recipient
}

func newStubStore() *stubStore {
	return &stubStore{
		programs:   make(map[uuid.UUID]*Program),
		recipients: make(map[uuid.UUID]*Recipient),
	}
}

func (s *stubStore) CreateProgram(ctx context.Context, input CreateProgramInput) (*Program, error) {
	p := &Program{
		ID: uuid.New(), Name: input.Name, Description: input.Description,
		Source: input.Source, Status: StatusPlanned, CreatedBy: input.CreatedBy,
	}
	s.programs[p.ID] = p
	return p, nil
}

func (s *stubStore) GetProgram(ctx context.Context, id uuid.UUID) (*Program, error) {
	if p, ok := s.programs[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, ErrNotFound
}

func (s *stubStore) ListPrograms(ctx context.Context, filter ProgramFilter) ([]Program, error) {
	var out []Program
	for _, p := range s.programs {
		if filter.Status != "" && p.Status != NormalizeStatus(filter.Status) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubStore) UpdateProgram(ctx context.Context, id uuid.UUID, input UpdateProgramInput) (*Program, error) {
	p, ok := s.programs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if input.Status != nil {
		p.Status = NormalizeStatus(*input.Status)
	}
	copy := *p
	return &copy, nil
}

func (s *stubStore) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.programs[id]; !ok {
		return ErrNotFound
	}
	delete(s.programs, id)
	return nil
}

func (s *stubStore) AddRecipient(ctx context.Context, programID, residentID uuid.UUID, rtNumber, rwNumber string, note *string) (*Recipient, error) {
	for _, rec := range s.recipients {
		if rec.ProgramID == programID && rec.ResidentID == residentID {
			return nil, ErrDuplicateRecipient
		}
	}
	rec := &Recipient{
		ID: uuid.New(), ProgramID: programID, ResidentID: residentID,
		RTNumber: rtNumber, RWNumber: rwNumber, Note: note,
	}
	s.recipients[rec.ID] = rec
	return rec, nil
}

func (s *stubStore) GetRecipient(ctx context.Context, id uuid.UUID) (*Recipient, error) {
	if rec, ok := s.recipients[id]; ok {
		copy := *rec
		return &copy, nil
	}
	return nil, ErrRecipientNotFound
}

func (s *stubStore) ListRecipients(ctx context.Context, programID uuid.UUID, rtNumber string) ([]Recipient, error) {
	var out []Recipient
	for _, rec := range s.recipients {
		if rec.ProgramID != programID {
			continue
		}
		if rtNumber != "" && rec.RTNumber != rtNumber {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *stubStore) VerifyRecipient(ctx context.Context, id, verifier uuid.UUID, at time.Time) (*Recipient, error) {
	rec, ok := s.recipients[id]
	if !ok {
		return nil, ErrRecipientNotFound
	}
	if !rec.IsVerified {
		rec.IsVerified = true
		rec.VerifiedBy = &verifier
		rec.VerifiedAt = &at
	}
	copy := *rec
	return &copy, nil
}

func (s *stubStore) MarkReceived(ctx context.Context, id uuid.UUID, at time.Time) (*Recipient, error) {
	rec, ok := s.recipients[id]
	if !ok {
		return nil, ErrRecipientNotFound
	}
	rec.ReceivedAt = &at
	copy := *rec
	return &copy, nil
}

func (s *stubStore) RemoveRecipient(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.recipients[id]; !ok {
		return ErrRecipientNotFound
	}
	delete(s.recipients, id)
	return nil
}

type stubResidents struct {
	scopes map[uuid.UUID][2]string
}

func (s *stubResidents) RTOf(ctx context.Context, residentID uuid.UUID) (string, string, error) {
	scope, ok := s.scopes[residentID]
	if !ok {
		return "", "", errors.New("warga tidak ditemukan")
	}
	return scope[0], scope[1], nil
}

func setup(t *testing.T) (*Service, *stubStore, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := newStubStore()
	residentID := uuid.New()
	residents := &stubResidents{scopes: map[uuid.UUID][2]string{residentID: {"001", "005"}}}
	svc := &Service{store: store, residents: residents, now: time.Now}

	rw := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRW}
	program, err := svc.CreateProgram(context.Background(), rw, CreateProgramInput{
		Name: "BLT Dana Kelurahan", Description: "bantuan tunai triwulan", Source: SourceGovernment,
	})
	if err != nil {
		t.Fatalf("buat program gagal: %v", err)
	}
	return svc, store, program.ID, residentID
}

func TestOnlyPrivilegedManagePrograms(t *testing.T) {
	svc, _, programID, _ := setup(t)
	ctx := context.Background()

	rt := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "001", RWNumber: "005"}
	if _, err := svc.CreateProgram(ctx, rt, CreateProgramInput{Name: "Program liar"}); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("RT membuat program = %v, ingin ErrForbidden", err)
	}

	status := StatusOngoing
	if _, err := svc.UpdateProgram(ctx, rt, programID, UpdateProgramInput{Status: &status}); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("RT menyunting program = %v, ingin ErrForbidden", err)
	}

	// semua peran boleh membaca
	warga := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleWarga}
	if _, err := svc.GetProgram(ctx, warga, programID); err != nil {
		t.Fatalf("warga membaca program gagal: %v", err)
	}
}

func TestRecipientVerificationScopedToRT(t *testing.T) {
	svc, _, programID, residentID := setup(t)
	ctx := context.Background()

	rw := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRW}
	rec, err := svc.AddRecipient(ctx, rw, programID, residentID, nil)
	if err != nil {
		t.Fatalf("daftarkan penerima gagal: %v", err)
	}

	other := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "002", RWNumber: "005"}
	if _, err := svc.VerifyRecipient(ctx, other, rec.ID); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("verifikasi lintas RT = %v, ingin ErrForbidden", err)
	}

	same := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "001", RWNumber: "005"}
	verified, err := svc.VerifyRecipient(ctx, same, rec.ID)
	if err != nil {
		t.Fatalf("verifikasi dalam lingkup gagal: %v", err)
	}
	if !verified.IsVerified || verified.VerifiedBy == nil {
		t.Fatal("penerima harus tercap terverifikasi")
	}
}

func TestMarkReceivedRequiresVerification(t *testing.T) {
	svc, _, programID, residentID := setup(t)
	ctx := context.Background()
	rw := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRW}

	rec, err := svc.AddRecipient(ctx, rw, programID, residentID, nil)
	if err != nil {
		t.Fatalf("daftarkan penerima gagal: %v", err)
	}

	if _, err := svc.MarkReceived(ctx, rw, rec.ID); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("penyaluran sebelum verifikasi = %v, ingin ErrNotVerified", err)
	}

	if _, err := svc.VerifyRecipient(ctx, rw, rec.ID); err != nil {
		t.Fatalf("verifikasi gagal: %v", err)
	}
	got, err := svc.MarkReceived(ctx, rw, rec.ID)
	if err != nil {
		t.Fatalf("penyaluran gagal: %v", err)
	}
	if got.ReceivedAt == nil {
		t.Fatal("waktu penyaluran harus tercatat")
	}
}

func TestDuplicateRecipientRejected(t *testing.T) {
	svc, _, programID, residentID := setup(t)
	ctx := context.Background()
	rw := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRW}

	if _, err := svc.AddRecipient(ctx, rw, programID, residentID, nil); err != nil {
		t.Fatalf("pendaftaran pertama gagal: %v", err)
	}
	if _, err := svc.AddRecipient(ctx, rw, programID, residentID, nil); !errors.Is(err, ErrDuplicateRecipient) {
		t.Fatalf("pendaftaran ganda = %v, ingin ErrDuplicateRecipient", err)
	}
}

func TestRecipientListScopedForRT(t *testing.T) {
	svc, store, programID, residentID := setup(t)
	ctx := context.Background()
	rw := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRW}

	if _, err := svc.AddRecipient(ctx, rw, programID, residentID, nil); err != nil {
		t.Fatalf("daftarkan penerima gagal: %v", err)
	}
	// penerima di RT lain, langsung ke store
	if _, err := store.AddRecipient(ctx, programID, uuid.New(), "002", "005", nil); err != nil {
		t.Fatalf("seed penerima lain gagal: %v", err)
	}

	rt := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "001", RWNumber: "005"}
	got, err := svc.ListRecipients(ctx, rt, programID)
	if err != nil {
		t.Fatalf("list penerima gagal: %v", err)
	}
	if len(got) != 1 || got[0].RTNumber != "001" {
		t.Fatal("RT hanya boleh melihat penerima lingkupnya")
	}

	all, err := svc.ListRecipients(ctx, rw, programID)
	if err != nil {
		t.Fatalf("list penerima RW gagal: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("RW melihat %d penerima, ingin 2", len(all))
	}
}
