package services

import (
	"path/filepath"
	"strings"
)

// UnknownArtist stands in when no tag names an artist
const UnknownArtist = "Unknown Artist"

// Metadata is the best-effort description of one audio file. Title and
// Artist may be empty when they come out of an extractor; Resolve fills them.
type Metadata struct {
	Title    string
	Artist   string
	Genre    *string
	Album    *string
	AlbumArt *string
	Duration *uint64
}

// Extractor is a single tag-reading strategy
type Extractor interface {
	Name() string
	Extract(path string) (*Metadata, error)
}

// ArtworkExtractor is implemented by extractors that can look up cover art on its own
type ArtworkExtractor interface {
	ExtractArtwork(path string) (string, error)
}

// DurationProber computes a duration in whole seconds from container data
type DurationProber interface {
	Probe(path string) (uint64, error)
}

// applyDefaults fills title from the file name and artist from UnknownArtist
func applyDefaults(md *Metadata, path string) {
	if strings.TrimSpace(md.Title) == "" {
		md.Title = titleFromPath(path)
	}
	if strings.TrimSpace(md.Artist) == "" {
		md.Artist = UnknownArtist
	}
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if title == "" || title == "." || title == string(filepath.Separator) {
		return "Unknown Title"
	}
	return title
}

// optional returns nil for blank strings so absent tags serialize as null
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
