package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/smartrw/api/internal/auth"
	"github.com/smartrw/api/internal/db"
	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/repo"
	"github.com/smartrw/api/internal/resident"
	"github.com/smartrw/api/internal/util"
)

var (
	// ErrInvalidCredentials menandai kegagalan autentikasi.
	ErrInvalidCredentials = errors.New("email atau kata sandi salah")
	// ErrAccountDisabled menandai akun yang dinonaktifkan.
	ErrAccountDisabled = errors.New("akun dinonaktifkan")
	// ErrRefreshInvalid menandai refresh token tidak valid atau kedaluwarsa.
	ErrRefreshInvalid = errors.New("refresh token tidak valid")
	// ErrEmailTaken menandai email yang sudah terdaftar.
	ErrEmailTaken = errors.New("email sudah terdaftar")
	// ErrInvalidRole menandai peran yang tidak dikenal.
	ErrInvalidRole = errors.New("peran tidak dikenal")
)

type authRepository interface {
	GetUserByEmail(ctx context.Context, email string) (repo.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (repo.User, error)
	InsertUser(ctx context.Context, u repo.User) (repo.User, error)
	InsertUserTx(ctx context.Context, tx pgx.Tx, u repo.User) (repo.User, error)
	InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.RefreshToken, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error
}

type residentCreator interface {
	CreateTx(ctx context.Context, tx pgx.Tx, input resident.CreateInput) (*resident.Resident, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*resident.Resident, error)
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService memusatkan autentikasi, pendaftaran, dan sesi.
type AuthService struct {
	repo       authRepository
	residents  residentCreator
	pool       *pgxpool.Pool
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewAuthService membuat service baru.
func NewAuthService(r *repo.Queries, residents *resident.Repository, pool *pgxpool.Pool, redisClient *redis.Client, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{repo: r, residents: residents, pool: pool, redis: redisClient, jwt: jwtMgr, refreshTTL: refreshTTL}
}

// JWT mengekspos manager JWT untuk middleware.
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// UserProfile adalah representasi user untuk respons API.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult adalah hasil autentikasi yang berhasil.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         UserProfile
	Resident     *resident.Resident
}

// Login mengautentikasi user berdasarkan email dan kata sandi.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn().Msg("login: user tidak ditemukan")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		log.Warn().Msg("login: kata sandi salah")
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) issueSession(ctx context.Context, user repo.User) (*LoginResult, error) {
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	token, _, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Role)
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expires := time.Now().UTC().Add(s.refreshTTL)
	if err := s.persistRefresh(ctx, user.ID, refreshHash, expires); err != nil {
		return nil, err
	}

	result := &LoginResult{
		AccessToken:  token,
		RefreshToken: rawRefresh,
		User: UserProfile{
			ID:    user.ID.String(),
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}

	if res, err := s.residents.GetByUserID(ctx, user.ID); err == nil {
		result.Resident = res
	}

	return result, nil
}

func (s *AuthService) persistRefresh(ctx context.Context, subject uuid.UUID, hash string, expires time.Time) error {
	_, err := s.repo.InsertRefreshToken(ctx, repo.InsertRefreshTokenParams{
		ID:        uuid.New(),
		Subject:   subject,
		TokenHash: hash,
		ExpiresAt: expires,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.redis.Set(ctx, auth.RefreshRedisKey(hash), subject.String(), time.Until(expires)).Err()
}

// RegisterWargaInput memuat kolom pendaftaran mandiri warga.
type RegisterWargaInput struct {
	Name           string
	Email          string
	Password       string
	NIK            *string
	KK             *string
	Gender         *string
	BirthPlace     *string
	BirthDate      *time.Time
	Address        *string
	DomicileStatus *string
}

// RegisterWarga membuat User berperan WARGA beserta profil Resident belum
// terverifikasi dalam satu transaksi; tidak ada keadaan setengah jadi yang
// terlihat pembaca lain.
func (s *AuthService) RegisterWarga(ctx context.Context, input RegisterWargaInput) (*LoginResult, error) {
	if err := util.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Name, "nama"); err != nil {
		return nil, err
	}

	hash, err := auth.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	var created repo.User
	err = db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		user, err := s.repo.InsertUserTx(ctx, tx, repo.User{
			ID:           uuid.New(),
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: hash,
			Role:         string(rbac.RoleWarga),
			Active:       true,
		})
		if err != nil {
			if repo.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}

		if _, err := s.residents.CreateTx(ctx, tx, resident.CreateInput{
			UserID:         user.ID,
			NIK:            input.NIK,
			KK:             input.KK,
			FullName:       input.Name,
			Gender:         input.Gender,
			BirthPlace:     input.BirthPlace,
			BirthDate:      input.BirthDate,
			Address:        input.Address,
			DomicileStatus: input.DomicileStatus,
		}); err != nil {
			return err
		}

		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, created)
}

// RegisterStaff membuat akun ADMIN/RW/RT; hanya dipanggil handler yang sudah
// memastikan aktornya ADMIN atau RW.
func (s *AuthService) RegisterStaff(ctx context.Context, name, email, password, role string) (UserProfile, error) {
	parsed, ok := rbac.ParseRole(role)
	if !ok {
		return UserProfile{}, ErrInvalidRole
	}
	if err := util.ValidateEmail(email); err != nil {
		return UserProfile{}, err
	}
	if err := util.ValidatePassword(password); err != nil {
		return UserProfile{}, err
	}
	if err := util.RequireString(name, "nama"); err != nil {
		return UserProfile{}, err
	}

	hash, err := auth.Hash(password)
	if err != nil {
		return UserProfile{}, err
	}

	user, err := s.repo.InsertUser(ctx, repo.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         string(parsed),
		Active:       true,
	})
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return UserProfile{}, ErrEmailTaken
		}
		return UserProfile{}, err
	}

	return UserProfile{ID: user.ID.String(), Name: user.Name, Email: user.Email, Role: user.Role}, nil
}

// Refresh menukar refresh token lama dengan sesi baru (rotasi token).
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	hash := auth.HashRefreshToken(strings.TrimSpace(rawToken))

	stored, err := s.repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, ErrRefreshInvalid
	}

	// status di Redis harus masih hidup; logout menghapus kunci ini
	if err := s.redis.Get(ctx, auth.RefreshRedisKey(hash)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, stored.Subject)
	if err != nil {
		return nil, err
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return nil, err
	}
	if err := s.redis.Del(ctx, auth.RefreshRedisKey(hash)).Err(); err != nil {
		log.Warn().Err(err).Msg("refresh: hapus kunci redis gagal")
	}

	return result, nil
}

// Logout mencabut refresh token.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	hash := auth.HashRefreshToken(strings.TrimSpace(rawToken))
	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return err
	}
	return s.redis.Del(ctx, auth.RefreshRedisKey(hash)).Err()
}

// Profile mengembalikan profil user beserta tautan residennya.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (UserProfile, *resident.Resident, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return UserProfile{}, nil, err
	}

	profile := UserProfile{ID: user.ID.String(), Name: user.Name, Email: user.Email, Role: user.Role}

	res, err := s.residents.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, resident.ErrNotFound) {
			return profile, nil, nil
		}
		return UserProfile{}, nil, err
	}

	return profile, res, nil
}
