package forum

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository menyediakan akses ke tabel forum_posts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository membuat instance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postColumns = `id, author_id, rt_number, rw_number, category, title, content,
    pinned, locked, created_at, updated_at`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.RTNumber, &p.RWNumber, &p.Category,
		&p.Title, &p.Content, &p.Pinned, &p.Locked, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create menyimpan post baru.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Post, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO forum_posts (author_id, rt_number, rw_number, category, title, content)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+postColumns,
		input.AuthorID, input.RTNumber, input.RWNumber, NormalizeCategory(input.Category),
		strings.TrimSpace(input.Title), strings.TrimSpace(input.Content))
	return scanPost(row)
}

// GetByID mengambil satu post.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM forum_posts WHERE id = $1`, id)
	return scanPost(row)
}

// List mengembalikan post sesuai filter; yang disematkan tampil lebih dulu.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Post, error) {
	base := `SELECT ` + postColumns + ` FROM forum_posts`

	var (
		clauses []string
		args    []any
		idx     = 1
	)
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", idx))
		args = append(args, NormalizeCategory(filter.Category))
		idx++
	}
	if filter.RTNumber != "" {
		clauses = append(clauses, fmt.Sprintf("rt_number = $%d", idx))
		args = append(args, filter.RTNumber)
		idx++
	}
	if filter.Pinned != nil {
		clauses = append(clauses, fmt.Sprintf("pinned = $%d", idx))
		args = append(args, *filter.Pinned)
		idx++
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY pinned DESC, created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// Update menyunting judul/isi post.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Post, error) {
	setParts := []string{"updated_at = now()"}
	args := []any{}
	idx := 1

	if input.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", idx))
		args = append(args, strings.TrimSpace(*input.Title))
		idx++
	}
	if input.Content != nil {
		setParts = append(setParts, fmt.Sprintf("content = $%d", idx))
		args = append(args, strings.TrimSpace(*input.Content))
		idx++
	}

	query := fmt.Sprintf(`UPDATE forum_posts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, postColumns)
	args = append(args, id)

	return scanPost(r.pool.QueryRow(ctx, query, args...))
}

// SetFlags mengatur sematan dan kunci post.
func (r *Repository) SetFlags(ctx context.Context, id uuid.UUID, pinned, locked bool) (*Post, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE forum_posts
        SET pinned = $2, locked = $3, updated_at = now()
        WHERE id = $1
        RETURNING `+postColumns,
		id, pinned, locked)
	return scanPost(row)
}

// Delete menghapus post.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM forum_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
