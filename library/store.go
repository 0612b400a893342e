package library

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/reelroom/reelroom/filesystem"
	"github.com/reelroom/reelroom/log"
	"github.com/samber/lo"
)

// CatalogFile is the name of the catalog inside the library directory.
const CatalogFile = "catalog.json"

// CatalogPath returns the catalog file of the library in dir.
func CatalogPath(dir string) string {
	return filepath.Join(dir, CatalogFile)
}

// Store is a Service persisted as one JSON catalog file.
type Store struct {
	mu     sync.Mutex
	cacher *gache.Cache[map[string]*Asset]
	now    func() time.Time
}

// NewStore opens the catalog in dir, creating it on first write.
func NewStore(dir string) *Store {
	return &Store{
		cacher: gache.New[map[string]*Asset](&gache.Options{
			Path:       CatalogPath(dir),
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
}

func (s *Store) load() (map[string]*Asset, error) {
	cached, expired, err := s.cacher.Get()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if expired || cached == nil {
		return make(map[string]*Asset), nil
	}
	return cached, nil
}

func (s *Store) save(assets map[string]*Asset) error {
	if err := s.cacher.Set(assets); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// List returns matching assets, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	assets, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(filter.Query)
	matched := lo.Filter(lo.Values(assets), func(a *Asset, _ int) bool {
		if stage, ok := filter.Stage.Get(); ok && a.Stage != stage {
			return false
		}
		if filter.Creator != "" && !strings.EqualFold(a.Creator, filter.Creator) {
			return false
		}
		return query == "" || fuzzy.MatchNormalizedFold(query, a.Title)
	})

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.load()
	if err != nil {
		return nil, err
	}

	asset, ok := assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return asset, nil
}

// Create stores a new asset, assigning an id and creation time when unset.
func (s *Store) Create(ctx context.Context, asset *Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := asset.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.load()
	if err != nil {
		return err
	}

	if asset.ID == "" {
		asset.ID = NewID(asset.Title)
	}
	if _, exists := assets[asset.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, asset.ID)
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = s.now().UTC()
	}

	assets[asset.ID] = asset
	if err := s.save(assets); err != nil {
		return err
	}

	log.With(log.Fields{"asset": asset.ID}).Infof("created %q", asset.Title)
	return nil
}

func (s *Store) Update(ctx context.Context, asset *Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := asset.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.load()
	if err != nil {
		return err
	}

	existing, ok := assets[asset.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, asset.ID)
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = existing.CreatedAt
	}

	assets[asset.ID] = asset
	return s.save(assets)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := assets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	delete(assets, id)
	if err := s.save(assets); err != nil {
		return err
	}

	log.With(log.Fields{"asset": id}).Infof("deleted")
	return nil
}
