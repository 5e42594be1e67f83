package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"musicvault/logger"
	"musicvault/types"
)

// LibraryService is the operation surface exposed to the frontend
type LibraryService interface {
	Upload(ctx context.Context, sourcePath string) (types.Track, error)
	Get(id string) (types.Track, error)
	Delete(id string) error
	SetFavorite(id string, favorite bool) error
	ListAll() []types.Track
	ListFavorites() []types.Track
	Count() int
}

// EventPublisher receives an event after every successful mutation
type EventPublisher interface {
	PublishCatalogEvent(event types.CatalogEvent)
}

// Library coordinates catalog mutations with persistence. A failed
// mutation may still have changed the in-memory catalog, there is no
// rollback; callers re-read with ListAll.
type Library struct {
	catalog  *Catalog
	importer *Importer
	events   EventPublisher
}

// NewLibrary creates a library. events may be nil.
func NewLibrary(catalog *Catalog, importer *Importer, events EventPublisher) *Library {
	return &Library{
		catalog:  catalog,
		importer: importer,
		events:   events,
	}
}

// OpenLibrary builds the default stack for a data root: catalog file,
// managed music directory, tag extractors and duration probers
func OpenLibrary(catalogPath, musicDir string, useFFprobe bool, events EventPublisher) (*Library, error) {
	catalog, err := OpenCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	return buildLibrary(catalog, musicDir, NewDefaultProber(useFFprobe), events), nil
}

// buildLibrary gives the prober to the importer only. The resolver runs
// without one so each import walks the audio once.
func buildLibrary(catalog *Catalog, musicDir string, prober DurationProber, events EventPublisher) *Library {
	resolver := NewResolver(nil, NewTagExtractor(), NewID3Extractor())
	importer := NewImporter(musicDir, resolver, prober, catalog)
	return NewLibrary(catalog, importer, events)
}

// Upload imports a file and returns the new track
func (l *Library) Upload(ctx context.Context, sourcePath string) (types.Track, error) {
	track, err := l.importer.Import(ctx, sourcePath)
	if err != nil {
		logger.Error("upload failed",
			logger.String("source", sourcePath),
			logger.ErrorField(err))
		return types.Track{}, err
	}

	l.publish(types.CatalogEvent{
		Type:    types.EventTrackAdded,
		TrackID: track.ID,
		Track:   &track,
	})
	return track, nil
}

// Get returns one track or ErrTrackNotFound
func (l *Library) Get(id string) (types.Track, error) {
	return l.catalog.Get(id)
}

// Delete removes the catalog entry and its managed file. The removal is
// persisted even if the file could not be deleted.
func (l *Library) Delete(id string) error {
	removed, err := l.catalog.Remove(id, func(track types.Track) error {
		if err := os.Remove(track.Path); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	})
	if errors.Is(err, ErrTrackNotFound) {
		return err
	}

	// The entry is gone from memory even when the file or the save failed
	l.publish(types.CatalogEvent{
		Type:    types.EventTrackDeleted,
		TrackID: removed.ID,
	})

	if err != nil {
		logger.Error("delete failed", logger.String("id", id), logger.ErrorField(err))
		return err
	}

	logger.Info("track deleted", logger.String("id", id))
	return nil
}

// SetFavorite sets the favorite flag. Setting the current value again is a no-op
// apart from rewriting the same catalog.
func (l *Library) SetFavorite(id string, favorite bool) error {
	if err := l.catalog.SetFavorite(id, favorite); err != nil {
		return err
	}

	l.publish(types.CatalogEvent{
		Type:     types.EventFavoriteChanged,
		TrackID:  id,
		Favorite: &favorite,
	})
	return nil
}

// ListAll returns every track in import order
func (l *Library) ListAll() []types.Track {
	return l.catalog.All()
}

// ListFavorites returns the tracks marked favorite
func (l *Library) ListFavorites() []types.Track {
	return l.catalog.Favorites()
}

// Count returns the number of tracks
func (l *Library) Count() int {
	return l.catalog.Len()
}

func (l *Library) publish(event types.CatalogEvent) {
	if l.events == nil {
		return
	}
	event.Timestamp = time.Now()
	l.events.PublishCatalogEvent(event)
}
