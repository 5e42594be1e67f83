package services

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// TagExtractor is the general multi-format reader (ID3v1/v2, MP4, FLAC, Ogg)
type TagExtractor struct{}

// NewTagExtractor creates the general tag extractor
func NewTagExtractor() *TagExtractor {
	return &TagExtractor{}
}

func (e *TagExtractor) Name() string {
	return "tag"
}

// Extract reads the common fields with dhowden/tag. It never reports a
// duration; that library does not decode audio frames.
func (e *TagExtractor) Extract(path string) (*Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Extractor: e.Name(), Path: path, Err: fmt.Errorf("failed to open file: %w", err)}
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return nil, &ExtractionError{Extractor: e.Name(), Path: path, Err: err}
	}

	md := &Metadata{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Genre:  optional(meta.Genre()),
		Album:  optional(meta.Album()),
	}

	if pic := meta.Picture(); pic != nil && len(pic.Data) > 0 {
		mime := pic.MIMEType
		if mime == "" {
			mime = pic.Ext
		}
		art := artworkDataURI(mime, pic.Data)
		md.AlbumArt = &art
	}

	return md, nil
}
