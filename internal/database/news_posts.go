package database

import (
	"context"

	"github.com/google/uuid"
)

const newsPostColumns = `id, header, text, genre, is_private, created_at, updated_at`

func scanNewsPost(row interface{ Scan(dest ...any) error }) (NewsPost, error) {
	var i NewsPost
	err := row.Scan(
		&i.ID,
		&i.Header,
		&i.Text,
		&i.Genre,
		&i.IsPrivate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const countNewsPosts = `SELECT COUNT(*) FROM news_posts`

func (q *Queries) CountNewsPosts(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countNewsPosts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createNewsPost = `INSERT INTO news_posts (id, header, text, genre, is_private)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + newsPostColumns

type CreateNewsPostParams struct {
	ID        uuid.UUID
	Header    string
	Text      string
	Genre     string
	IsPrivate bool
}

func (q *Queries) CreateNewsPost(ctx context.Context, arg CreateNewsPostParams) (NewsPost, error) {
	row := q.db.QueryRow(ctx, createNewsPost,
		arg.ID,
		arg.Header,
		arg.Text,
		arg.Genre,
		arg.IsPrivate,
	)
	return scanNewsPost(row)
}

const deleteNewsPost = `DELETE FROM news_posts WHERE id = $1 RETURNING id`

// DeleteNewsPost returns pgx.ErrNoRows when there is no post with the id
func (q *Queries) DeleteNewsPost(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteNewsPost, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

const getNewsPostByID = `SELECT ` + newsPostColumns + ` FROM news_posts WHERE id = $1`

func (q *Queries) GetNewsPostByID(ctx context.Context, id uuid.UUID) (NewsPost, error) {
	row := q.db.QueryRow(ctx, getNewsPostByID, id)
	return scanNewsPost(row)
}

const isDatabaseRunning = `SELECT TRUE`

func (q *Queries) IsDatabaseRunning(ctx context.Context) (bool, error) {
	row := q.db.QueryRow(ctx, isDatabaseRunning)
	var running bool
	err := row.Scan(&running)
	return running, err
}

const listNewsPosts = `SELECT ` + newsPostColumns + ` FROM news_posts
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

type ListNewsPostsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListNewsPosts(ctx context.Context, arg ListNewsPostsParams) ([]NewsPost, error) {
	rows, err := q.db.Query(ctx, listNewsPosts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []NewsPost{}
	for rows.Next() {
		i, err := scanNewsPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateNewsPost = `UPDATE news_posts
SET header = COALESCE($2, header),
    text = COALESCE($3, text),
    genre = COALESCE($4, genre),
    is_private = COALESCE($5, is_private),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + newsPostColumns

// UpdateNewsPostParams holds a partial update. A nil field keeps the stored value.
type UpdateNewsPostParams struct {
	ID        uuid.UUID
	Header    *string
	Text      *string
	Genre     *string
	IsPrivate *bool
}

func (q *Queries) UpdateNewsPost(ctx context.Context, arg UpdateNewsPostParams) (NewsPost, error) {
	row := q.db.QueryRow(ctx, updateNewsPost,
		arg.ID,
		arg.Header,
		arg.Text,
		arg.Genre,
		arg.IsPrivate,
	)
	return scanNewsPost(row)
}
