package registry

import (
	"context"
	"errors"
)

// ErrNoRegistry is returned when a player or grid is constructed outside a
// registry scope. It indicates a wiring bug in the hosting view.
var ErrNoRegistry = errors.New("no playback registry in scope")

type scopeKey struct{}

// WithRegistry returns a child context that carries r as the ambient
// registry for every player mounted under it.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, scopeKey{}, r)
}

// From extracts the ambient registry from ctx.
func From(ctx context.Context) (*Registry, error) {
	if ctx == nil {
		return nil, ErrNoRegistry
	}

	r, ok := ctx.Value(scopeKey{}).(*Registry)
	if !ok || r == nil {
		return nil, ErrNoRegistry
	}
	return r, nil
}

// MustFrom is like From but panics when no registry is in scope.
func MustFrom(ctx context.Context) *Registry {
	r, err := From(ctx)
	if err != nil {
		panic(err)
	}
	return r
}
