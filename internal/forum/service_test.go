package forum

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/rbac"
)

type stubStore struct {
	posts map[uuid.UUID]*Post
}

func newStubStore(ps ...*Post) *stubStore {
	s := &stubStore{posts: make(map[uuid.UUID]*Post)}
	for _, p := range ps {
		s.posts[p.ID] = p
	}
	return s
}

func (s *stubStore) Create(ctx context.Context, input CreateInput) (*Post, error) {
	p := &Post{
		ID: uuid.New(), AuthorID: input.AuthorID,
		RTNumber: input.RTNumber, RWNumber: input.RWNumber,
		Category: NormalizeCategory(input.Category), Title: input.Title, Content: input.Content,
	}
	s.posts[p.ID] = p
	return p, nil
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	if p, ok := s.posts[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, ErrNotFound
}

func (s *stubStore) List(ctx context.Context, filter Filter) ([]Post, error) {
	var out []Post
	for _, p := range s.posts {
		if filter.Category != "" && p.Category != NormalizeCategory(filter.Category) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubStore) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if input.Title != nil {
		p.Title = *input.Title
	}
	if input.Content != nil {
		p.Content = *input.Content
	}
	copy := *p
	return &copy, nil
}

func (s *stubStore) SetFlags(ctx context.Context, id uuid.UUID, pinned, locked bool) (*Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Pinned = pinned
	p.Locked = locked
	copy := *p
	return &copy, nil
}

func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func TestAnnouncementReservedToPrivileged(t *testing.T) {
	svc := &Service{store: newStubStore()}
	ctx := context.Background()
	input := CreateInput{Category: CategoryAnnouncement, Title: "Jadwal ronda", Content: "mulai pekan depan"}

	warga := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleWarga, RTNumber: "001", RWNumber: "005"}
	if _, err := svc.Create(ctx, warga, input); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("warga membuat pengumuman = %v, ingin ErrForbidden", err)
	}

	rt := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "001", RWNumber: "005"}
	if _, err := svc.Create(ctx, rt, input); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("RT membuat pengumuman = %v, ingin ErrForbidden", err)
	}

	rw := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRW, RWNumber: "005"}
	p, err := svc.Create(ctx, rw, input)
	if err != nil {
		t.Fatalf("RW membuat pengumuman gagal: %v", err)
	}
	// kategori tidak boleh diam-diam diturunkan
	if p.Category != CategoryAnnouncement {
		t.Fatalf("kategori = %s, ingin %s", p.Category, CategoryAnnouncement)
	}

	// kategori biasa tetap terbuka untuk warga
	if _, err := svc.Create(ctx, warga, CreateInput{Category: CategoryDiscussion, Title: "Usul taman", Content: "lahan kosong RT 1"}); err != nil {
		t.Fatalf("warga membuat diskusi gagal: %v", err)
	}
}

func TestAuthorEditBlockedWhenLocked(t *testing.T) {
	author := uuid.New()
	p := &Post{
		ID: uuid.New(), AuthorID: author, RTNumber: "001", RWNumber: "005",
		Category: CategoryDiscussion, Title: "Iuran bulanan", Content: "usul naik",
	}
	svc := &Service{store: newStubStore(p)}
	ctx := context.Background()
	actor := rbac.Actor{UserID: author, Role: rbac.RoleWarga, RTNumber: "001", RWNumber: "005"}

	title := "Iuran bulanan (revisi)"
	if _, err := svc.Update(ctx, actor, p.ID, UpdateInput{Title: &title}); err != nil {
		t.Fatalf("sunting post terbuka gagal: %v", err)
	}

	admin := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleAdmin}
	if _, err := svc.SetFlags(ctx, admin, p.ID, false, true); err != nil {
		t.Fatalf("kunci post gagal: %v", err)
	}

	if _, err := svc.Update(ctx, actor, p.ID, UpdateInput{Title: &title}); !errors.Is(err, ErrLocked) {
		t.Fatalf("sunting post terkunci = %v, ingin ErrLocked", err)
	}
}

func TestOnlyPrivilegedSetFlags(t *testing.T) {
	p := &Post{ID: uuid.New(), AuthorID: uuid.New(), Category: CategoryDiscussion}
	svc := &Service{store: newStubStore(p)}
	ctx := context.Background()

	rt := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "001"}
	if _, err := svc.SetFlags(ctx, rt, p.ID, true, false); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("RT menyematkan post = %v, ingin ErrForbidden", err)
	}
}

func TestModerationDelete(t *testing.T) {
	author := uuid.New()
	p := &Post{
		ID: uuid.New(), AuthorID: author, RTNumber: "001", RWNumber: "005",
		Category: CategoryDiscussion,
	}
	ctx := context.Background()

	// RT lain tidak boleh memoderasi lintas lingkup
	otherRT := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "002", RWNumber: "005"}
	svc := &Service{store: newStubStore(p)}
	if err := svc.Delete(ctx, otherRT, p.ID); !errors.Is(err, rbac.ErrForbidden) {
		t.Fatalf("moderasi lintas RT = %v, ingin ErrForbidden", err)
	}

	// RT dalam lingkup boleh
	sameRT := rbac.Actor{UserID: uuid.New(), Role: rbac.RoleRT, RTNumber: "001", RWNumber: "005"}
	if err := svc.Delete(ctx, sameRT, p.ID); err != nil {
		t.Fatalf("moderasi dalam lingkup gagal: %v", err)
	}

	// penulis boleh menghapus postnya sendiri selama belum dikunci
	p2 := &Post{ID: uuid.New(), AuthorID: author, RTNumber: "001", RWNumber: "005", Category: CategoryDiscussion}
	svc2 := &Service{store: newStubStore(p2)}
	if err := svc2.Delete(ctx, rbac.Actor{UserID: author, Role: rbac.RoleWarga}, p2.ID); err != nil {
		t.Fatalf("penulis menghapus post gagal: %v", err)
	}
}
