package library

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/reelroom/reelroom/filesystem"
	"github.com/samber/lo"
)

// MediaInfo is what a probe learned about the media behind an asset.
// A zero Duration means unknown.
type MediaInfo struct {
	Duration float64 `json:"duration,omitempty" jsonschema:"description=Length in seconds."`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
}

var probeable = []string{".mp4", ".m4v", ".mov"}

// Probeable reports whether src is a local file ProbeFile can read.
func Probeable(src string) bool {
	if strings.Contains(src, "://") {
		return false
	}
	return lo.Contains(probeable, strings.ToLower(filepath.Ext(src)))
}

// ProbeFile reads the MP4 header of a local file.
func ProbeFile(path string) (MediaInfo, error) {
	f, err := filesystem.API().Open(path)
	if err != nil {
		return MediaInfo{}, err
	}
	defer f.Close()

	return ProbeMP4(f)
}

// ProbeMP4 reads duration and video size from an MP4 stream. Fragmented
// files without a movie duration are timed by summing their samples.
func ProbeMP4(r io.Reader) (MediaInfo, error) {
	m, err := mp4.DecodeFile(r)
	if err != nil {
		return MediaInfo{}, fmt.Errorf("decode mp4: %w", err)
	}
	if m.Moov == nil {
		return MediaInfo{}, fmt.Errorf("decode mp4: no moov box")
	}

	var info MediaInfo
	if mvhd := m.Moov.Mvhd; mvhd != nil && mvhd.Timescale > 0 {
		info.Duration = float64(mvhd.Duration) / float64(mvhd.Timescale)
	}

	for _, trak := range m.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Tkhd != nil {
			info.Width = int(uint32(trak.Tkhd.Width) >> 16)
			info.Height = int(uint32(trak.Tkhd.Height) >> 16)
		}
		break
	}

	if info.Duration == 0 && m.IsFragmented() && len(m.Moov.Traks) == 1 {
		info.Duration = fragmentedDuration(m)
	}

	return info, nil
}

func fragmentedDuration(m *mp4.File) float64 {
	timescale := m.Init.Moov.Trak.Mdia.Mdhd.Timescale
	if timescale == 0 || m.Init.Moov.Mvex == nil {
		return 0
	}

	var total uint64
	for _, seg := range m.Segments {
		for _, frag := range seg.Fragments {
			samples, err := frag.GetFullSamples(m.Init.Moov.Mvex.Trex)
			if err != nil {
				return 0
			}
			for _, s := range samples {
				total += uint64(s.Dur)
			}
		}
	}
	return float64(total) / float64(timescale)
}
