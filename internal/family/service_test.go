package family

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/rbac"
)

type stubStore struct {
	families map[uuid.UUID]*Family
}

func newStubStore() *stubStore {
	return &stubStore{families: map[uuid.UUID]*Family{}}
}

func (s *stubStore) Create(ctx context.Context, input CreateInput) (*Family, error) {
	for _, f := range s.families {
		if f.KKNumber == input.KKNumber {
			return nil, ErrDuplicateKK
		}
	}
	f := &Family{
		ID:       uuid.New(),
		KKNumber: input.KKNumber,
		RTNumber: input.RTNumber,
		RWNumber: input.RWNumber,
		Address:  input.Address,
	}
	s.families[f.ID] = f
	return f, nil
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (*Family, error) {
	f, ok := s.families[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *stubStore) GetByKK(ctx context.Context, kkNumber string) (*Family, error) {
	for _, f := range s.families {
		if f.KKNumber == kkNumber {
			return f, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubStore) List(ctx context.Context, filter Filter) ([]Family, error) {
	var result []Family
	for _, f := range s.families {
		if filter.RTNumber != "" && f.RTNumber != filter.RTNumber {
			continue
		}
		if filter.RWNumber != "" && f.RWNumber != filter.RWNumber {
			continue
		}
		result = append(result, *f)
	}
	return result, nil
}

func TestCreateValidatesKKNumber(t *testing.T) {
	svc := &Service{store: newStubStore()}
	admin := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleAdmin}

	_, err := svc.Create(context.Background(), admin, CreateInput{
		KKNumber: "123", RTNumber: "001", RWNumber: "001",
	})
	if err == nil {
		t.Fatal("nomor KK 3 digit lolos validasi")
	}

	if _, err := svc.Create(context.Background(), admin, CreateInput{
		KKNumber: "3201234567890001", RTNumber: "001", RWNumber: "001",
	}); err != nil {
		t.Fatalf("nomor KK valid ditolak: %v", err)
	}
}

func TestCreateRejectsDuplicateKK(t *testing.T) {
	svc := &Service{store: newStubStore()}
	admin := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleAdmin}

	input := CreateInput{KKNumber: "3201234567890001", RTNumber: "001", RWNumber: "001"}
	if _, err := svc.Create(context.Background(), admin, input); err != nil {
		t.Fatalf("pembuatan pertama gagal: %v", err)
	}
	if _, err := svc.Create(context.Background(), admin, input); !errors.Is(err, ErrDuplicateKK) {
		t.Fatalf("pembuatan kedua = %v, ingin ErrDuplicateKK", err)
	}
}

func TestRTScopeOnFamilyAccess(t *testing.T) {
	store := newStubStore()
	svc := &Service{store: store}
	admin := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleAdmin}

	inScope, err := svc.Create(context.Background(), admin, CreateInput{
		KKNumber: "3201234567890001", RTNumber: "001", RWNumber: "001",
	})
	if err != nil {
		t.Fatalf("seed kartu keluarga: %v", err)
	}
	outScope, err := svc.Create(context.Background(), admin, CreateInput{
		KKNumber: "3201234567890002", RTNumber: "002", RWNumber: "001",
	})
	if err != nil {
		t.Fatalf("seed kartu keluarga: %v", err)
	}

	rtActor := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "001", RWNumber: "001"}

	if _, err := svc.Get(context.Background(), rtActor, inScope.ID); err != nil {
		t.Fatalf("RT ditolak membaca KK lingkupnya: %v", err)
	}
	if _, err := svc.Get(context.Background(), rtActor, outScope.ID); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("RT membaca KK luar lingkup = %v, ingin ErrForbidden", err)
	}

	families, err := svc.List(context.Background(), rtActor, Filter{RTNumber: "002"})
	if err != nil {
		t.Fatalf("daftar KK untuk RT gagal: %v", err)
	}
	for _, f := range families {
		if f.RTNumber != "001" {
			t.Fatalf("daftar RT memuat KK RT lain: %s", f.RTNumber)
		}
	}
}

func TestWargaCannotListFamilies(t *testing.T) {
	svc := &Service{store: newStubStore()}
	warga := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleWarga, RTNumber: "001", RWNumber: "001"}

	if _, err := svc.List(context.Background(), warga, Filter{}); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("warga mengakses daftar KK = %v, ingin ErrForbidden", err)
	}
}
