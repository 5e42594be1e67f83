package services

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"musicvault/logger"
	"musicvault/types"
)

// catalogFile is the on-disk shape of the catalog
type catalogFile struct {
	Tracks map[string]types.Track `json:"tracks"`
}

// Catalog is the keyed collection of tracks and the sole writer of the
// catalog file. One mutex covers every operation including its disk I/O,
// so no two operations interleave and reads see all earlier writes.
type Catalog struct {
	mu     sync.Mutex
	path   string
	tracks map[string]types.Track
}

// OpenCatalog loads the catalog at path. A missing or malformed file yields
// an empty catalog that the next successful mutation overwrites. A file that
// exists but cannot be read is an error, so it is never overwritten.
func OpenCatalog(path string) (*Catalog, error) {
	tracks, err := loadTracks(path)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		path:   path,
		tracks: tracks,
	}, nil
}

func loadTracks(path string) (map[string]types.Track, error) {
	empty := make(map[string]types.Track)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read database: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.Warn("catalog is not valid JSON, starting empty",
			logger.String("path", path),
			logger.ErrorField(err))
		return empty, nil
	}
	if file.Tracks == nil {
		return empty, nil
	}

	logger.Info("catalog loaded",
		logger.String("path", path),
		logger.Int("tracks", len(file.Tracks)))
	return file.Tracks, nil
}

// Add inserts or replaces the track under its id and persists
func (c *Catalog) Add(track types.Track) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tracks[track.ID] = track
	return c.persistLocked()
}

// Remove drops the track, runs cleanup with the removed record and persists.
// Persisting is attempted even when cleanup fails; both errors are returned.
func (c *Catalog) Remove(id string, cleanup func(types.Track) error) (types.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	track, ok := c.tracks[id]
	if !ok {
		return types.Track{}, notFound(id)
	}
	delete(c.tracks, id)

	var cleanupErr error
	if cleanup != nil {
		cleanupErr = cleanup(track)
	}

	return track, errors.Join(cleanupErr, c.persistLocked())
}

// SetFavorite changes the favorite flag in place and persists
func (c *Catalog) SetFavorite(id string, favorite bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	track, ok := c.tracks[id]
	if !ok {
		return notFound(id)
	}
	track.Favorite = favorite
	c.tracks[id] = track

	return c.persistLocked()
}

// Get returns a copy of one track
func (c *Catalog) Get(id string) (types.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	track, ok := c.tracks[id]
	if !ok {
		return types.Track{}, notFound(id)
	}
	return track, nil
}

// All returns a snapshot of every track in import order
func (c *Catalog) All() []types.Track {
	return c.filter(func(types.Track) bool { return true })
}

// Favorites returns a snapshot of the tracks marked favorite
func (c *Catalog) Favorites() []types.Track {
	return c.filter(func(t types.Track) bool { return t.Favorite })
}

// IDs lists every id currently in the catalog
func (c *Catalog) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.tracks))
	for id := range c.tracks {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of tracks
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tracks)
}

func (c *Catalog) filter(keep func(types.Track) bool) []types.Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	tracks := make([]types.Track, 0, len(c.tracks))
	for _, t := range c.tracks {
		if keep(t) {
			tracks = append(tracks, t)
		}
	}
	sortTracks(tracks)
	return tracks
}

// persistLocked truncates and rewrites the catalog file. Caller holds c.mu.
func (c *Catalog) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(catalogFile{Tracks: c.tracks}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize database: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}

	return nil
}

// sortTracks orders by the timestamp inside the id, then by id
func sortTracks(tracks []types.Track) {
	slices.SortFunc(tracks, func(a, b types.Track) int {
		ma, okA := parseID(a.ID)
		mb, okB := parseID(b.ID)
		if okA && okB && ma != mb {
			return cmp.Compare(ma, mb)
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
