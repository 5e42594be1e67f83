package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"musicvault/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []types.CatalogEvent
}

func (r *recordingPublisher) PublishCatalogEvent(event types.CatalogEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) Events() []types.CatalogEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.CatalogEvent(nil), r.events...)
}

type testLibrary struct {
	*Library
	dataDir   string
	musicDir  string
	catalog   string
	sourceDir string
	events    *recordingPublisher
}

func newTestLibrary(t *testing.T) *testLibrary {
	t.Helper()

	dataDir := t.TempDir()
	tl := &testLibrary{
		dataDir:   dataDir,
		musicDir:  filepath.Join(dataDir, "music"),
		catalog:   filepath.Join(dataDir, "music_db.json"),
		sourceDir: t.TempDir(),
		events:    &recordingPublisher{},
	}
	tl.Library = mustOpenLibrary(t, tl.catalog, tl.musicDir, false, tl.events)
	return tl
}

func TestUploadTaggedFile(t *testing.T) {
	lib := newTestLibrary(t)
	source := writeTaggedMP3(t, lib.sourceDir, "test.mp3", mp3Tags{title: "Test Song", artist: "Test Artist"})

	track, err := lib.Upload(context.Background(), source)
	require.NoError(t, err)

	assert.Regexp(t, `^music_\d+$`, track.ID)
	assert.Equal(t, "Test Song", track.Title)
	assert.Equal(t, "Test Artist", track.Artist)
	assert.False(t, track.Favorite)
	assert.Nil(t, track.AlbumArt)
	assert.Equal(t, filepath.Join(lib.musicDir, "test.mp3"), track.Path)

	copied, err := os.ReadFile(track.Path)
	require.NoError(t, err)
	original, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, original, copied)

	// Persisted before Upload returned
	reloaded := mustOpenCatalog(t, lib.catalog)
	got, err := reloaded.Get(track.ID)
	require.NoError(t, err)
	assert.Equal(t, track, got)

	events := lib.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, types.EventTrackAdded, events[0].Type)
	assert.Equal(t, track.ID, events[0].TrackID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestUploadUntaggedFile(t *testing.T) {
	lib := newTestLibrary(t)
	source := writeUntaggedFile(t, lib.sourceDir, "mystery.mp3")

	track, err := lib.Upload(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, "mystery", track.Title)
	assert.Equal(t, UnknownArtist, track.Artist)
	assert.Nil(t, track.Genre)
	assert.Nil(t, track.Album)
	assert.Nil(t, track.AlbumArt)
	assert.Nil(t, track.Duration)
}

func TestUploadProbesDuration(t *testing.T) {
	lib := newTestLibrary(t)
	source := writeWAV(t, lib.sourceDir, "tone.wav", 8000, 2)

	track, err := lib.Upload(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, "tone", track.Title)
	assert.Equal(t, u64Ptr(2), track.Duration)
}

func TestUploadMP3Duration(t *testing.T) {
	lib := newTestLibrary(t)
	source := writeMP3Frames(t, lib.sourceDir, "framed.mp3", &mp3Tags{title: "Framed", artist: "Encoder"}, 300)

	track, err := lib.Upload(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, "Framed", track.Title)
	assert.Equal(t, "Encoder", track.Artist)
	assert.Equal(t, u64Ptr(300*mp3FrameSamples/44100), track.Duration)
}

func TestUploadMetadataOnlyFLAC(t *testing.T) {
	lib := newTestLibrary(t)
	source := writeFLAC(t, lib.sourceDir, "truncated.flac", 44100, 441000)

	var track types.Track
	var err error
	assert.NotPanics(t, func() {
		track, err = lib.Upload(context.Background(), source)
	})
	require.NoError(t, err)
	assert.Equal(t, "truncated", track.Title)
	assert.Equal(t, u64Ptr(10), track.Duration)
}

type countingProber struct {
	mu    sync.Mutex
	paths []string
	inner DurationProber
}

func (c *countingProber) Probe(path string) (uint64, error) {
	c.mu.Lock()
	c.paths = append(c.paths, path)
	c.mu.Unlock()
	return c.inner.Probe(path)
}

func TestUploadReadsDurationOnce(t *testing.T) {
	dataDir := t.TempDir()
	prober := &countingProber{inner: NewDefaultProber(false)}
	lib := buildLibrary(mustOpenCatalog(t, filepath.Join(dataDir, "music_db.json")), filepath.Join(dataDir, "music"), prober, nil)

	source := writeMP3Frames(t, t.TempDir(), "once.mp3", nil, 100)
	track, err := lib.Upload(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, []string{source}, prober.paths)
	assert.Equal(t, u64Ptr(100*mp3FrameSamples/44100), track.Duration)
}

func TestUploadRejectsInvalidSources(t *testing.T) {
	lib := newTestLibrary(t)
	textFile := writeFile(t, lib.sourceDir, "notes.txt", []byte("hello"))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"empty path", "", ErrInvalidSourcePath},
		{"relative path", "songs/a.mp3", ErrInvalidSourcePath},
		{"unsupported extension", textFile, ErrUnsupportedFormat},
		{"missing file", filepath.Join(lib.sourceDir, "gone.mp3"), os.ErrNotExist},
		{"directory", mkdir(t, lib.sourceDir, "album.flac"), ErrInvalidSourcePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.Upload(context.Background(), tt.path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, 0, lib.Count())
	assert.Empty(t, lib.events.Events())
}

func TestUploadCancelled(t *testing.T) {
	lib := newTestLibrary(t)
	source := writeUntaggedFile(t, lib.sourceDir, "late.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lib.Upload(ctx, source)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, lib.Count())
}

func TestConcurrentUploadsGetDistinctIDs(t *testing.T) {
	lib := newTestLibrary(t)
	sources := []string{
		writeTaggedMP3(t, lib.sourceDir, "a.mp3", mp3Tags{title: "A"}),
		writeTaggedMP3(t, lib.sourceDir, "b.mp3", mp3Tags{title: "B"}),
	}

	var wg sync.WaitGroup
	ids := make([]string, len(sources))
	errs := make([]error, len(sources))
	for i, source := range sources {
		wg.Add(1)
		i, source := i, source
		go func() {
			defer wg.Done()
			track, err := lib.Upload(context.Background(), source)
			ids[i], errs[i] = track.ID, err
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.NotEqual(t, ids[0], ids[1])
	assert.Equal(t, 2, lib.Count())
	assert.Equal(t, 2, mustOpenCatalog(t, lib.catalog).Len())
}

func TestSetFavorite(t *testing.T) {
	lib := newTestLibrary(t)
	track, err := lib.Upload(context.Background(), writeUntaggedFile(t, lib.sourceDir, "fav.mp3"))
	require.NoError(t, err)

	require.NoError(t, lib.SetFavorite(track.ID, true))
	require.NoError(t, lib.SetFavorite(track.ID, true))

	got, err := lib.Get(track.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)
	assert.Len(t, lib.ListFavorites(), 1)

	reloaded, err := mustOpenCatalog(t, lib.catalog).Get(track.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Favorite)

	require.NoError(t, lib.SetFavorite(track.ID, false))
	assert.Empty(t, lib.ListFavorites())

	events := lib.events.Events()
	require.Len(t, events, 4)
	assert.Equal(t, types.EventFavoriteChanged, events[3].Type)
	require.NotNil(t, events[3].Favorite)
	assert.False(t, *events[3].Favorite)

	assert.ErrorIs(t, lib.SetFavorite("music_0", true), ErrTrackNotFound)
}

func TestDelete(t *testing.T) {
	lib := newTestLibrary(t)
	track, err := lib.Upload(context.Background(), writeUntaggedFile(t, lib.sourceDir, "bye.mp3"))
	require.NoError(t, err)

	require.NoError(t, lib.Delete(track.ID))

	_, err = lib.Get(track.ID)
	assert.ErrorIs(t, err, ErrTrackNotFound)
	assert.NoFileExists(t, track.Path)
	assert.Equal(t, 0, mustOpenCatalog(t, lib.catalog).Len())

	events := lib.events.Events()
	require.Len(t, events, 2)
	assert.Equal(t, types.EventTrackDeleted, events[1].Type)
	assert.Equal(t, track.ID, events[1].TrackID)
}

func TestDeleteUnknownID(t *testing.T) {
	lib := newTestLibrary(t)
	track, err := lib.Upload(context.Background(), writeUntaggedFile(t, lib.sourceDir, "keep.mp3"))
	require.NoError(t, err)

	before, err := os.ReadFile(lib.catalog)
	require.NoError(t, err)

	err = lib.Delete("music_0")
	assert.ErrorIs(t, err, ErrTrackNotFound)

	after, err := os.ReadFile(lib.catalog)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.FileExists(t, track.Path)
	assert.Len(t, lib.events.Events(), 1)
}

func TestDeleteMissingFileStillRemovesEntry(t *testing.T) {
	lib := newTestLibrary(t)
	track, err := lib.Upload(context.Background(), writeUntaggedFile(t, lib.sourceDir, "vanished.mp3"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(track.Path))

	err = lib.Delete(track.ID)
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Equal(t, 0, lib.Count())
	assert.Equal(t, 0, mustOpenCatalog(t, lib.catalog).Len())
}

func TestListAllOrderAndReload(t *testing.T) {
	lib := newTestLibrary(t)
	for _, name := range []string{"one.mp3", "two.mp3", "three.mp3"} {
		_, err := lib.Upload(context.Background(), writeUntaggedFile(t, lib.sourceDir, name))
		require.NoError(t, err)
	}

	var titles []string
	for _, track := range lib.ListAll() {
		titles = append(titles, track.Title)
	}
	assert.Equal(t, []string{"one", "two", "three"}, titles)

	// A new library over the same data root sees the same tracks and keeps ids unique
	reopened := mustOpenLibrary(t, lib.catalog, lib.musicDir, false, nil)
	assert.Equal(t, lib.ListAll(), reopened.ListAll())

	track, err := reopened.Upload(context.Background(), writeUntaggedFile(t, lib.sourceDir, "four.mp3"))
	require.NoError(t, err)
	all := reopened.ListAll()
	assert.Equal(t, track.ID, all[len(all)-1].ID)
}

func TestInvalidCatalogLoadsEmpty(t *testing.T) {
	dataDir := t.TempDir()
	catalogPath := filepath.Join(dataDir, "music_db.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte("not json at all"), 0644))

	lib := mustOpenLibrary(t, catalogPath, filepath.Join(dataDir, "music"), false, nil)
	assert.Equal(t, 0, lib.Count())
	assert.Empty(t, lib.ListAll())
}

func mkdir(t *testing.T, parent, name string) string {
	t.Helper()
	path := filepath.Join(parent, name)
	require.NoError(t, os.Mkdir(path, 0755))
	return path
}
