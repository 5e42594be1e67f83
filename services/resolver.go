package services

import (
	"musicvault/logger"
)

// MetadataResolver turns an audio file into a best-effort Metadata
type MetadataResolver interface {
	Resolve(path string) Metadata
}

// Resolver runs extractors in priority order. The first one that succeeds
// supplies title, artist, genre and album. Album art and duration are
// merged in from the remaining sources when the first one lacks them.
type Resolver struct {
	extractors []Extractor
	prober     DurationProber
}

// NewResolver creates a resolver. prober may be nil.
func NewResolver(prober DurationProber, extractors ...Extractor) *Resolver {
	return &Resolver{
		extractors: extractors,
		prober:     prober,
	}
}

// NewDefaultResolver wires the general tag reader, the ID3 fallback and the
// container probers
func NewDefaultResolver(useFFprobe bool) *Resolver {
	return NewResolver(NewDefaultProber(useFFprobe), NewTagExtractor(), NewID3Extractor())
}

// Resolve never fails. When no extractor can read the file the result holds
// only the defaults and whatever duration the probers find.
func (r *Resolver) Resolve(path string) Metadata {
	var md *Metadata
	baseIdx := -1

	for i, ex := range r.extractors {
		result, err := ex.Extract(path)
		if err != nil {
			logger.Debug("extractor failed, falling through",
				logger.String("extractor", ex.Name()),
				logger.String("path", path),
				logger.ErrorField(err))
			continue
		}
		md = result
		baseIdx = i
		break
	}

	if md == nil {
		logger.Warn("no extractor could read tags, using defaults", logger.String("path", path))
		md = &Metadata{}
	}

	if md.AlbumArt == nil {
		md.AlbumArt = r.supplementArtwork(path, baseIdx)
	}

	if md.Duration == nil && r.prober != nil {
		if seconds, err := r.prober.Probe(path); err == nil {
			md.Duration = &seconds
		}
	}

	applyDefaults(md, path)
	return *md
}

// supplementArtwork asks every other artwork-capable extractor for cover art
func (r *Resolver) supplementArtwork(path string, skip int) *string {
	for i, ex := range r.extractors {
		if i == skip {
			continue
		}
		source, ok := ex.(ArtworkExtractor)
		if !ok {
			continue
		}
		art, err := source.ExtractArtwork(path)
		if err != nil {
			continue
		}
		logger.Debug("album art taken from supplemental extractor",
			logger.String("extractor", ex.Name()),
			logger.String("path", path))
		return &art
	}
	return nil
}
