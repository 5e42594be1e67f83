package services

import (
	"errors"
	"fmt"

	"github.com/bogem/id3v2/v2"
)

var errNoID3Frames = errors.New("no ID3v2 frames")

// ID3Extractor reads MP3 files with bogem/id3v2. It is the fallback when the
// general reader rejects a file, and the supplemental source of cover art.
type ID3Extractor struct{}

// NewID3Extractor creates the MP3-specific extractor
func NewID3Extractor() *ID3Extractor {
	return &ID3Extractor{}
}

func (e *ID3Extractor) Name() string {
	return "id3"
}

// Extract reads TIT2, TPE1, TCON, TALB and the first APIC frame
func (e *ID3Extractor) Extract(path string) (*Metadata, error) {
	id3Tag, err := e.open(path)
	if err != nil {
		return nil, err
	}
	defer id3Tag.Close()

	md := &Metadata{
		Title:  id3Tag.Title(),
		Artist: id3Tag.Artist(),
		Genre:  optional(id3Tag.Genre()),
		Album:  optional(id3Tag.Album()),
	}

	if art, err := firstPicture(id3Tag); err == nil {
		md.AlbumArt = &art
	}

	return md, nil
}

// ExtractArtwork returns only the cover art as a data URI
func (e *ID3Extractor) ExtractArtwork(path string) (string, error) {
	id3Tag, err := e.open(path)
	if err != nil {
		return "", err
	}
	defer id3Tag.Close()

	art, err := firstPicture(id3Tag)
	if err != nil {
		return "", &ExtractionError{Extractor: e.Name(), Path: path, Err: err}
	}
	return art, nil
}

func (e *ID3Extractor) open(path string) (*id3v2.Tag, error) {
	id3Tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, &ExtractionError{Extractor: e.Name(), Path: path, Err: fmt.Errorf("failed to read id3 tag: %w", err)}
	}

	if id3Tag.Count() == 0 {
		id3Tag.Close()
		return nil, &ExtractionError{Extractor: e.Name(), Path: path, Err: errNoID3Frames}
	}

	return id3Tag, nil
}

func firstPicture(id3Tag *id3v2.Tag) (string, error) {
	for _, frame := range id3Tag.GetFrames(id3Tag.CommonID("Attached picture")) {
		pic, ok := frame.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		return artworkDataURI(pic.MimeType, pic.Picture), nil
	}
	return "", errors.New("no album art found with id3")
}
