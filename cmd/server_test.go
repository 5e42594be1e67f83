package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"musicvault/config"
	"musicvault/services"
	"musicvault/types"
	"musicvault/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DataDir:     t.TempDir(),
		CORSOrigins: []string{"http://localhost:1420"},
	}
	hub := websocket.NewHub()
	go hub.Run()

	library, err := services.OpenLibrary(cfg.CatalogPath(), cfg.MusicDir(), false, hub)
	require.NoError(t, err)
	r := NewRouter(cfg, library, hub)

	source := filepath.Join(t.TempDir(), "mystery.mp3")
	require.NoError(t, os.WriteFile(source, make([]byte, 256), 0644))

	body, _ := json.Marshal(types.UploadRequest{FilePath: source})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tracks", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var track types.Track
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &track))
	assert.Equal(t, "mystery", track.Title)
	assert.Equal(t, services.UnknownArtist, track.Artist)
	assert.FileExists(t, filepath.Join(cfg.MusicDir(), "mystery.mp3"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tracks", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list types.TrackListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, float64(1), status["tracks"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/tracks/"+track.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NoFileExists(t, track.Path)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tracks/"+track.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
