package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"musicvault/logger"
	"musicvault/types"
)

// SupportedExtensions are the audio containers accepted for import
var SupportedExtensions = []string{".mp3", ".wav", ".ogg", ".flac", ".aac", ".m4a"}

// Importer copies audio files into managed storage and commits them to the catalog
type Importer struct {
	musicDir string
	resolver MetadataResolver
	prober   DurationProber
	catalog  *Catalog
	ids      *idGenerator
}

// NewImporter creates an importer. The id sequence resumes after the newest
// id already in the catalog. prober may be nil.
func NewImporter(musicDir string, resolver MetadataResolver, prober DurationProber, catalog *Catalog) *Importer {
	return &Importer{
		musicDir: musicDir,
		resolver: resolver,
		prober:   prober,
		catalog:  catalog,
		ids:      newIDGenerator(catalog.IDs()),
	}
}

// Import copies sourcePath to <music dir>/<base name>, resolves its metadata
// and adds a new track. Copy and extraction run without the catalog lock;
// only the final Add takes it. A destination with the same base name is
// overwritten. If anything after the copy fails the copy stays on disk.
func (im *Importer) Import(ctx context.Context, sourcePath string) (types.Track, error) {
	if err := validateSource(sourcePath); err != nil {
		return types.Track{}, err
	}

	if err := os.MkdirAll(im.musicDir, 0755); err != nil {
		return types.Track{}, fmt.Errorf("failed to create music directory: %w", err)
	}

	destPath, err := filepath.Abs(filepath.Join(im.musicDir, filepath.Base(sourcePath)))
	if err != nil {
		return types.Track{}, fmt.Errorf("failed to resolve destination path: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return types.Track{}, err
	}

	if err := copyFile(sourcePath, destPath); err != nil {
		return types.Track{}, err
	}

	md := im.resolver.Resolve(destPath)

	// A frame-accurate probe of the source replaces anything a tag claimed
	if im.prober != nil {
		if seconds, err := im.prober.Probe(sourcePath); err == nil {
			md.Duration = &seconds
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("import cancelled after copy, managed file left in place",
			logger.String("path", destPath))
		return types.Track{}, err
	}

	track := types.Track{
		ID:       im.ids.Next(),
		Title:    md.Title,
		Artist:   md.Artist,
		Path:     destPath,
		Favorite: false,
		Genre:    md.Genre,
		Album:    md.Album,
		AlbumArt: md.AlbumArt,
		Duration: md.Duration,
	}

	if err := im.catalog.Add(track); err != nil {
		return types.Track{}, fmt.Errorf("failed to save database: %w", err)
	}

	logger.Info("track imported",
		logger.String("id", track.ID),
		logger.String("title", track.Title),
		logger.String("path", destPath))

	return track, nil
}

func validateSource(sourcePath string) error {
	if strings.TrimSpace(sourcePath) == "" || !filepath.IsAbs(sourcePath) {
		return fmt.Errorf("%w: %q must be an absolute file path", ErrInvalidSourcePath, sourcePath)
	}

	if !isSupportedAudio(sourcePath) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(sourcePath))
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidSourcePath, sourcePath)
	}

	return nil
}

func isSupportedAudio(path string) bool {
	return hasExt(path, SupportedExtensions...)
}

// copyFile reads the whole source and writes it in one go
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to write destination file: %w", err)
	}

	return nil
}

