package library

import (
	"context"

	"github.com/samber/mo"
)

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	Stage   mo.Option[Stage]
	Creator string

	// Query fuzzy-matches titles.
	Query string
}

// Service is the catalog boundary the TUI and CLI depend on.
type Service interface {
	List(ctx context.Context, filter Filter) ([]*Asset, error)
	Get(ctx context.Context, id string) (*Asset, error)
	Create(ctx context.Context, asset *Asset) error
	Update(ctx context.Context, asset *Asset) error
	Delete(ctx context.Context, id string) error
}
