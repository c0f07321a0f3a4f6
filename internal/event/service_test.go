package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/rbac"
)

type stubStore struct {
	events       map[uuid.UUID]*Event
	participants map[uuid.UUID]map[uuid.UUID]*Participant // eventID -> userID
}

func newStubStore(es ...*Event) *stubStore {
	s := &stubStore{
		events:       make(map[uuid.UUID]*Event),
		participants: make(map[uuid.UUID]map[uuid.UUID]*Participant),
	}
	for _, e := range es {
		s.events[e.ID] = e
	}
	return s
}

func (s *stubStore) Create(ctx context.Context, input CreateInput) (*Event, error) {
	e := &Event{
		ID: uuid.New(), Title: input.Title, Description: input.Description,
		Location: input.Location, RTNumber: input.RTNumber, RWNumber: input.RWNumber,
		StartAt: input.StartAt, EndAt: input.EndAt, CreatedBy: input.CreatedBy,
	}
	s.events[e.ID] = e
	return e, nil
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	if e, ok := s.events[id]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, ErrNotFound
}

func (s *stubStore) List(ctx context.Context, filter Filter) ([]Event, error) {
	var out []Event
	for _, e := range s.events {
		if filter.RTNumber != "" && e.RTNumber != "" && e.RTNumber != filter.RTNumber {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *stubStore) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	if input.Title != nil {
		e.Title = *input.Title
	}
	copy := *e
	return &copy, nil
}

func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *stubStore) UpsertRSVP(ctx context.Context, eventID, userID uuid.UUID, status string, at time.Time) (*Participant, error) {
	byUser, ok := s.participants[eventID]
	if !ok {
		byUser = make(map[uuid.UUID]*Participant)
		s.participants[eventID] = byUser
	}
	p, ok := byUser[userID]
	if !ok {
		p = &Participant{ID: uuid.New(), EventID: eventID, UserID: userID}
		byUser[userID] = p
	}
	p.Status = status
	p.UpdatedAt = at
	copy := *p
	return &copy, nil
}

func (s *stubStore) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]Participant, error) {
	var out []Participant
	for _, p := range s.participants[eventID] {
		out = append(out, *p)
	}
	return out, nil
}

func upcoming(rtNumber string) *Event {
	return &Event{
		ID: uuid.New(), Title: "Kerja bakti", Location: "Balai RW",
		RTNumber: rtNumber, RWNumber: "005",
		StartAt: time.Now().Add(48 * time.Hour), CreatedBy: uuid.New(),
	}
}

func TestRSVPUpsertKeepsSingleRow(t *testing.T) {
	e := upcoming("001")
	store := newStubStore(e)
	svc := &Service{store: store, now: time.Now}
	warga := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleWarga, RTNumber: "001", RWNumber: "005"}
	ctx := context.Background()

	first, err := svc.RSVP(ctx, warga, e.ID, "akan_hadir")
	if err != nil {
		t.Fatalf("RSVP pertama gagal: %v", err)
	}
	if first.Status != RSVPAttending {
		t.Fatalf("status = %s, ingin %s", first.Status, RSVPAttending)
	}

	second, err := svc.RSVP(ctx, warga, e.ID, RSVPNotAttending)
	if err != nil {
		t.Fatalf("RSVP kedua gagal: %v", err)
	}
	if second.ID != first.ID || second.Status != RSVPNotAttending {
		t.Fatal("RSVP ulang harus menimpa baris yang sama")
	}

	if n := len(store.participants[e.ID]); n != 1 {
		t.Fatalf("baris peserta = %d, ingin 1", n)
	}
}

func TestRSVPRejectsUnknownStatusAndPastEvent(t *testing.T) {
	e := upcoming("001")
	past := upcoming("001")
	past.StartAt = time.Now().Add(-24 * time.Hour)
	svc := &Service{store: newStubStore(e, past), now: time.Now}
	warga := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleWarga, RTNumber: "001", RWNumber: "005"}
	ctx := context.Background()

	if _, err := svc.RSVP(ctx, warga, e.ID, "MUNGKIN"); !errors.Is(err, ErrInvalidRSVP) {
		t.Fatalf("status asing = %v, ingin ErrInvalidRSVP", err)
	}
	if _, err := svc.RSVP(ctx, warga, past.ID, RSVPAttending); !errors.Is(err, ErrEventPassed) {
		t.Fatalf("RSVP kegiatan lewat = %v, ingin ErrEventPassed", err)
	}
}

func TestWargaCannotManageEvents(t *testing.T) {
	e := upcoming("001")
	svc := &Service{store: newStubStore(e), now: time.Now}
	warga := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleWarga, RTNumber: "001", RWNumber: "005"}
	ctx := context.Background()

	if _, err := svc.Create(ctx, warga, CreateInput{Title: "Arisan", StartAt: time.Now().Add(time.Hour)}); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("warga membuat kegiatan = %v, ingin ErrForbidden", err)
	}
	title := "judul baru"
	if _, err := svc.Update(ctx, warga, e.ID, UpdateInput{Title: &title}); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("warga menyunting kegiatan = %v, ingin ErrForbidden", err)
	}
	if _, err := svc.Participants(ctx, warga, e.ID); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("warga melihat peserta = %v, ingin ErrForbidden", err)
	}
}

func TestRTScopeOnEventManagement(t *testing.T) {
	mine := upcoming("001")
	other := upcoming("002")
	svc := &Service{store: newStubStore(mine, other), now: time.Now}
	rt := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "001", RWNumber: "005"}
	ctx := context.Background()

	title := "Kerja bakti (ubah)"
	if _, err := svc.Update(ctx, rt, mine.ID, UpdateInput{Title: &title}); err != nil {
		t.Fatalf("sunting kegiatan sendiri gagal: %v", err)
	}
	if _, err := svc.Update(ctx, rt, other.ID, UpdateInput{Title: &title}); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("sunting kegiatan RT lain = %v, ingin ErrForbidden", err)
	}

	// pembuatan oleh RT terkunci ke lingkupnya sendiri
	created, err := svc.Create(ctx, rt, CreateInput{Title: "Ronda", RTNumber: "009", StartAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("buat kegiatan gagal: %v", err)
	}
	if created.RTNumber != "001" {
		t.Fatalf("rtNumber = %s, ingin 001", created.RTNumber)
	}
}
