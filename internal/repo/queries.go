package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries menyediakan akses ke tabel identitas (users, refresh_tokens).
type Queries struct {
	pool *pgxpool.Pool
}

// New membuat Queries di atas pool yang disuntikkan secara eksplisit.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, active, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// GetUserByEmail mencari user berdasarkan email (case-insensitive).
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// GetUserByID mencari user berdasarkan id.
func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// InsertUser menyimpan user baru lewat pool.
func (q *Queries) InsertUser(ctx context.Context, u User) (User, error) {
	return insertUser(ctx, q.pool, u)
}

// InsertUserTx menyimpan user baru di dalam transaksi berjalan.
func (q *Queries) InsertUserTx(ctx context.Context, tx pgx.Tx, u User) (User, error) {
	return insertUser(ctx, tx, u)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertUser(ctx context.Context, db rowQuerier, u User) (User, error) {
	row := db.QueryRow(ctx, `
        INSERT INTO users (id, name, email, password_hash, role, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+userColumns,
		u.ID, strings.TrimSpace(u.Name), strings.ToLower(strings.TrimSpace(u.Email)),
		u.PasswordHash, u.Role, u.Active)
	return scanUser(row)
}

// UpdateUserRole mengganti peran user (aksi admin).
func (q *Queries) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error {
	tag, err := q.pool.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserActive mengaktifkan/menonaktifkan akun (soft state, tanpa hard delete).
func (q *Queries) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := q.pool.Exec(ctx, `UPDATE users SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertRefreshToken menyimpan refresh token baru.
func (q *Queries) InsertRefreshToken(ctx context.Context, arg InsertRefreshTokenParams) (RefreshToken, error) {
	row := q.pool.QueryRow(ctx, `
        INSERT INTO refresh_tokens (id, subject, token_hash, expires_at, created_at, revoked)
        VALUES ($1, $2, $3, $4, $5, false)
        RETURNING id, subject, token_hash, expires_at, created_at, revoked`,
		arg.ID, arg.Subject, arg.TokenHash, arg.ExpiresAt, arg.CreatedAt)

	var t RefreshToken
	if err := row.Scan(&t.ID, &t.Subject, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.Revoked); err != nil {
		return RefreshToken{}, err
	}
	return t, nil
}

// GetRefreshTokenByHash mengambil refresh token berdasarkan hash.
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (RefreshToken, error) {
	row := q.pool.QueryRow(ctx, `
        SELECT id, subject, token_hash, expires_at, created_at, revoked
        FROM refresh_tokens WHERE token_hash = $1`, tokenHash)

	var t RefreshToken
	if err := row.Scan(&t.ID, &t.Subject, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.Revoked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RefreshToken{}, ErrNotFound
		}
		return RefreshToken{}, err
	}
	return t, nil
}

// RevokeRefreshToken menandai token tidak berlaku.
func (q *Queries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := q.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE token_hash = $1`, tokenHash)
	return err
}

// InvalidateOtherRefreshTokens mencabut semua token subjek kecuali hash yang dipertahankan.
func (q *Queries) InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error {
	_, err := q.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE subject = $1 AND token_hash <> $2`,
		subject, keepHash)
	return err
}
