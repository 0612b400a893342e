package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// Resolve finds the asset a user means by ref: an exact id first, then the
// closest fuzzy title match.
func Resolve(ctx context.Context, svc Service, ref string) (*Asset, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	asset, err := svc.Get(ctx, ref)
	if err == nil {
		return asset, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	candidates, err := svc.List(ctx, Filter{Query: ref})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}

	needle := strings.ToLower(ref)
	return lo.MinBy(candidates, func(a, b *Asset) bool {
		return levenshtein.Distance(needle, strings.ToLower(a.Title)) <
			levenshtein.Distance(needle, strings.ToLower(b.Title))
	}), nil
}

// IsMediaRef reports whether ref names media directly instead of an asset.
func IsMediaRef(ref string) bool {
	return strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "./")
}
