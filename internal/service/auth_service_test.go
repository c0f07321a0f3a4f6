package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/smartrw/api/internal/auth"
	"github.com/smartrw/api/internal/repo"
	"github.com/smartrw/api/internal/resident"
)

type stubAuthRepo struct {
	usersByEmail map[string]repo.User
	usersByID    map[uuid.UUID]repo.User
	tokens       map[string]repo.RefreshToken
}

func newStubAuthRepo(users ...repo.User) *stubAuthRepo {
	s := &stubAuthRepo{
		usersByEmail: make(map[string]repo.User),
		usersByID:    make(map[uuid.UUID]repo.User),
		tokens:       make(map[string]repo.RefreshToken),
	}
	for _, u := range users {
		s.usersByEmail[u.Email] = u
		s.usersByID[u.ID] = u
	}
	return s
}

func (s *stubAuthRepo) GetUserByEmail(ctx context.Context, email string) (repo.User, error) {
	if u, ok := s.usersByEmail[email]; ok {
		return u, nil
	}
	return repo.User{}, repo.ErrNotFound
}

func (s *stubAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (repo.User, error) {
	if u, ok := s.usersByID[id]; ok {
		return u, nil
	}
	return repo.User{}, repo.ErrNotFound
}

func (s *stubAuthRepo) InsertUser(ctx context.Context, u repo.User) (repo.User, error) {
	if _, ok := s.usersByEmail[u.Email]; ok {
		return repo.User{}, errDuplicate
	}
	s.usersByEmail[u.Email] = u
	s.usersByID[u.ID] = u
	return u, nil
}

func (s *stubAuthRepo) InsertUserTx(ctx context.Context, tx pgx.Tx, u repo.User) (repo.User, error) {
	return s.InsertUser(ctx, u)
}

func (s *stubAuthRepo) InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.RefreshToken, error) {
	t := repo.RefreshToken{
		ID:        arg.ID,
		Subject:   arg.Subject,
		TokenHash: arg.TokenHash,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: arg.CreatedAt,
	}
	s.tokens[arg.TokenHash] = t
	return t, nil
}

func (s *stubAuthRepo) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.RefreshToken, error) {
	if t, ok := s.tokens[tokenHash]; ok {
		return t, nil
	}
	return repo.RefreshToken{}, repo.ErrNotFound
}

func (s *stubAuthRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	t, ok := s.tokens[tokenHash]
	if !ok {
		return repo.ErrNotFound
	}
	t.Revoked = true
	s.tokens[tokenHash] = t
	return nil
}

func (s *stubAuthRepo) InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error {
	for hash, t := range s.tokens {
		if t.Subject == subject && hash != keepHash {
			t.Revoked = true
			s.tokens[hash] = t
		}
	}
	return nil
}

var errDuplicate = &duplicateErr{}

type duplicateErr struct{}

func (*duplicateErr) Error() string { return "duplicate key value violates unique constraint" }

type stubResidents struct {
	byUser map[uuid.UUID]*resident.Resident
}

func (s *stubResidents) CreateTx(ctx context.Context, tx pgx.Tx, input resident.CreateInput) (*resident.Resident, error) {
	r := &resident.Resident{ID: uuid.New(), UserID: input.UserID, FullName: input.FullName}
	s.byUser[input.UserID] = r
	return r, nil
}

func (s *stubResidents) GetByUserID(ctx context.Context, userID uuid.UUID) (*resident.Resident, error) {
	if r, ok := s.byUser[userID]; ok {
		return r, nil
	}
	return nil, resident.ErrNotFound
}

type stubRedis struct {
	values map[string]string
}

func newStubRedis() *stubRedis {
	return &stubRedis{values: make(map[string]string)}
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	s.values[key] = toString(value)
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if v, ok := s.values[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := s.values[k]; ok {
			delete(s.values, k)
			n++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func seededService(t *testing.T) (*AuthService, *stubAuthRepo, *stubRedis) {
	t.Helper()

	hash, err := auth.Hash("admin123456")
	if err != nil {
		t.Fatalf("hash kata sandi gagal: %v", err)
	}

	admin := repo.User{
		ID:           uuid.New(),
		Name:         "Administrator",
		Email:        "admin@smartrw.com",
		PasswordHash: hash,
		Role:         "ADMIN",
		Active:       true,
	}

	repoStub := newStubAuthRepo(admin)
	redisStub := newStubRedis()
	svc := &AuthService{
		repo:       repoStub,
		residents:  &stubResidents{byUser: make(map[uuid.UUID]*resident.Resident)},
		redis:      redisStub,
		jwt:        auth.NewJWTManager("rahasia-pengujian-minimal-32-karakter!!", 15*time.Minute),
		refreshTTL: 24 * time.Hour,
	}
	return svc, repoStub, redisStub
}

func TestSeededAdminCanLogin(t *testing.T) {
	svc, _, _ := seededService(t)

	result, err := svc.Login(context.Background(), "admin@smartrw.com", "admin123456")
	if err != nil {
		t.Fatalf("login admin gagal: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("token akses dan refresh harus terisi")
	}
	if result.User.Role != "ADMIN" {
		t.Fatalf("role = %s, ingin ADMIN", result.User.Role)
	}

	claims, err := svc.jwt.ParseAndValidate(result.AccessToken)
	if err != nil {
		t.Fatalf("token akses tidak valid: %v", err)
	}
	if claims.Role != "ADMIN" {
		t.Fatalf("claim role = %s, ingin ADMIN", claims.Role)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := seededService(t)

	if _, err := svc.Login(context.Background(), "admin@smartrw.com", "salah-total"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("kata sandi salah = %v, ingin ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "tidakada@smartrw.com", "admin123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("email asing = %v, ingin ErrInvalidCredentials", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, repoStub, _ := seededService(t)

	u := repoStub.usersByEmail["admin@smartrw.com"]
	u.Active = false
	repoStub.usersByEmail[u.Email] = u
	repoStub.usersByID[u.ID] = u

	if _, err := svc.Login(context.Background(), "admin@smartrw.com", "admin123456"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("akun nonaktif = %v, ingin ErrAccountDisabled", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, repoStub, _ := seededService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "admin@smartrw.com", "admin123456")
	if err != nil {
		t.Fatalf("login gagal: %v", err)
	}

	renewed, err := svc.Refresh(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("refresh gagal: %v", err)
	}
	if renewed.RefreshToken == session.RefreshToken {
		t.Fatal("refresh harus merotasi token")
	}

	// token lama sudah dicabut
	if _, err := svc.Refresh(ctx, session.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("pakai ulang token lama = %v, ingin ErrRefreshInvalid", err)
	}

	oldHash := auth.HashRefreshToken(session.RefreshToken)
	if stored, ok := repoStub.tokens[oldHash]; !ok || !stored.Revoked {
		t.Fatal("token lama harus tercatat dicabut")
	}
}

func TestLogoutKillsRefresh(t *testing.T) {
	svc, _, redisStub := seededService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "admin@smartrw.com", "admin123456")
	if err != nil {
		t.Fatalf("login gagal: %v", err)
	}

	if err := svc.Logout(ctx, session.RefreshToken); err != nil {
		t.Fatalf("logout gagal: %v", err)
	}
	if _, ok := redisStub.values[auth.RefreshRedisKey(auth.HashRefreshToken(session.RefreshToken))]; ok {
		t.Fatal("kunci redis harus terhapus saat logout")
	}
	if _, err := svc.Refresh(ctx, session.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("refresh pasca-logout = %v, ingin ErrRefreshInvalid", err)
	}
}

func TestRegisterStaffValidatesRole(t *testing.T) {
	svc, _, _ := seededService(t)
	ctx := context.Background()

	if _, err := svc.RegisterStaff(ctx, "Pak RT", "rt001@smartrw.com", "rahasia-rt", "LURAH"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("peran asing = %v, ingin ErrInvalidRole", err)
	}

	profile, err := svc.RegisterStaff(ctx, "Pak RT", "rt001@smartrw.com", "rahasia-rt", "rt")
	if err != nil {
		t.Fatalf("daftar pengurus gagal: %v", err)
	}
	if profile.Role != "RT" {
		t.Fatalf("role = %s, ingin RT", profile.Role)
	}

	if _, err := svc.RegisterStaff(ctx, "Kembar", "rt001@smartrw.com", "rahasia-rt", "RT"); err == nil {
		t.Fatal("email ganda harus ditolak")
	}
}
