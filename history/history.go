// Package history remembers where playback of each asset stopped so the
// player can offer to resume it.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/reelroom/reelroom/filesystem"
	"github.com/reelroom/reelroom/where"
	"github.com/samber/mo"
)

const (
	// Positions this close to either end are not worth resuming.
	minResume     = 5.0
	finishedRatio = 0.95
)

// Entry is the saved position of one asset.
type Entry struct {
	AssetID   string    `json:"asset_id"`
	Title     string    `json:"title"`
	Position  float64   `json:"position"`
	Duration  float64   `json:"duration"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finished reports whether the entry is at or near the end of the media.
func (e *Entry) Finished() bool {
	return e.Duration > 0 && e.Position >= e.Duration*finishedRatio
}

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved entry keyed by asset id.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Save records the position playback of an asset stopped at.
func Save(assetID, title string, position, duration float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	saved[assetID] = &Entry{
		AssetID:   assetID,
		Title:     title,
		Position:  position,
		Duration:  duration,
		UpdatedAt: time.Now().UTC(),
	}
	return cacher.Set(saved)
}

// Resume returns the position to resume assetID from, if one is worth offering.
func Resume(assetID string) mo.Option[float64] {
	saved, err := Get()
	if err != nil {
		return mo.None[float64]()
	}

	entry, ok := saved[assetID]
	if !ok || entry.Position < minResume || entry.Finished() {
		return mo.None[float64]()
	}
	return mo.Some(entry.Position)
}

// Remove forgets assetID.
func Remove(assetID string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, assetID)
	return cacher.Set(saved)
}
