// Package library is the asset catalog behind the grid: records of the
// media a creative team produces, with their source and poster URLs.
package library

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reelroom/reelroom/util"
)

// Performance holds the engagement numbers reported for a published asset.
type Performance struct {
	Views          int64   `json:"views" jsonschema:"description=Total views across channels."`
	Likes          int64   `json:"likes" jsonschema:"description=Total likes across channels."`
	EngagementRate float64 `json:"engagement_rate" jsonschema:"description=Engagement rate in percent.,minimum=0,maximum=100"`
}

// Asset is one catalog record.
type Asset struct {
	ID          string      `json:"id" jsonschema:"description=Stable identifier that doubles as the player id."`
	Title       string      `json:"title" jsonschema:"description=Human readable title."`
	SourceURL   string      `json:"source_url" jsonschema:"description=http(s) URL or local path of the media."`
	PosterURL   string      `json:"poster_url,omitempty" jsonschema:"description=Static image shown before playback and for failed previews."`
	Stage       Stage       `json:"stage"`
	Creator     string      `json:"creator,omitempty" jsonschema:"description=Creator or agency that produced the asset."`
	Tags        []string    `json:"tags,omitempty"`
	Performance Performance `json:"performance"`
	Media       MediaInfo   `json:"media"`
	CreatedAt   time.Time   `json:"created_at"`
}

var (
	ErrNotFound     = errors.New("asset not found")
	ErrInvalidAsset = errors.New("invalid asset")
	ErrDuplicateID  = errors.New("asset id already exists")
)

// Validate checks the fields every asset needs to be playable.
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidAsset)
	}
	if strings.TrimSpace(a.SourceURL) == "" {
		return fmt.Errorf("%w: source url is required", ErrInvalidAsset)
	}
	if a.Stage < Draft || a.Stage > Archived {
		return fmt.Errorf("%w: stage %d", ErrInvalidAsset, int(a.Stage))
	}
	if r := a.Performance.EngagementRate; r < 0 || r > 100 {
		return fmt.Errorf("%w: engagement rate %v", ErrInvalidAsset, r)
	}
	return nil
}

// NewID derives an identifier from title with a random suffix.
func NewID(title string) string {
	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)

	slug := strings.ToLower(util.SanitizeFilename(title))
	if slug == "" {
		slug = "asset"
	}
	if len(slug) > 32 {
		slug = strings.TrimRight(slug[:32], "_")
	}
	return slug + "-" + hex.EncodeToString(suffix)
}
