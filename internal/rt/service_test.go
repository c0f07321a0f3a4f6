package rt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubStore struct {
	created []CreateInput
	byKey   map[string]*RT
}

func (s *stubStore) Create(ctx context.Context, input CreateInput) (*RT, error) {
	key := input.RWNumber + "/" + input.Number
	if _, ok := s.byKey[key]; ok {
		return nil, ErrDuplicateNumber
	}
	if s.byKey == nil {
		s.byKey = make(map[string]*RT)
	}
	rt := &RT{ID: uuid.New(), Number: input.Number, RWNumber: input.RWNumber, Chairperson: input.Chairperson, Active: true}
	s.byKey[key] = rt
	s.created = append(s.created, input)
	return rt, nil
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (*RT, error) {
	for _, rt := range s.byKey {
		if rt.ID == id {
			return rt, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubStore) GetByNumber(ctx context.Context, number, rwNumber string) (*RT, error) {
	if rt, ok := s.byKey[rwNumber+"/"+number]; ok {
		return rt, nil
	}
	return nil, ErrNotFound
}

func (s *stubStore) List(ctx context.Context, filter Filter) ([]RT, error) { return nil, nil }

func (s *stubStore) Update(ctx context.Context, input UpdateInput) (*RT, error) {
	return nil, ErrNotFound
}

func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error { return ErrNotFound }

func TestCreateRejectsBadNumberFormat(t *testing.T) {
	svc := &Service{store: &stubStore{}}

	for _, number := range []string{"12", "1234", "ab1", ""} {
		_, err := svc.Create(context.Background(), CreateInput{Number: number, RWNumber: "005", Chairperson: "Budi"})
		if err == nil {
			t.Errorf("nomor %q seharusnya ditolak", number)
		}
	}

	if _, err := svc.Create(context.Background(), CreateInput{Number: "001", RWNumber: "005", Chairperson: "Budi"}); err != nil {
		t.Fatalf("nomor valid ditolak: %v", err)
	}
}

func TestCreateDuplicateNumberConflicts(t *testing.T) {
	svc := &Service{store: &stubStore{}}
	input := CreateInput{Number: "001", RWNumber: "005", Chairperson: "Budi"}

	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("pembuatan pertama gagal: %v", err)
	}
	_, err := svc.Create(context.Background(), input)
	if !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("pembuatan kedua = %v, ingin ErrDuplicateNumber", err)
	}
}

func TestGetActiveByNumberRejectsInactive(t *testing.T) {
	store := &stubStore{byKey: map[string]*RT{
		"005/002": {ID: uuid.New(), Number: "002", RWNumber: "005", Active: false},
	}}
	svc := &Service{store: store}

	_, err := svc.GetActiveByNumber(context.Background(), "002", "005")
	if !errors.Is(err, ErrInactive) {
		t.Fatalf("RT nonaktif = %v, ingin ErrInactive", err)
	}

	_, err = svc.GetActiveByNumber(context.Background(), "009", "005")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("RT tidak ada = %v, ingin ErrNotFound", err)
	}
}
