package database

import (
	"context"

	"github.com/google/uuid"
)

// Querier lists the queries used by the handlers. *Queries implements it.
type Querier interface {
	CountNewsPosts(ctx context.Context) (int64, error)
	CreateNewsPost(ctx context.Context, arg CreateNewsPostParams) (NewsPost, error)
	DeleteNewsPost(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	GetNewsPostByID(ctx context.Context, id uuid.UUID) (NewsPost, error)
	IsDatabaseRunning(ctx context.Context) (bool, error)
	ListNewsPosts(ctx context.Context, arg ListNewsPostsParams) ([]NewsPost, error)
	UpdateNewsPost(ctx context.Context, arg UpdateNewsPostParams) (NewsPost, error)
}

var _ Querier = (*Queries)(nil)
