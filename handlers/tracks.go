package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"musicvault/services"
	"musicvault/types"

	"github.com/gin-gonic/gin"
)

// TrackHandler exposes the library operations over HTTP
type TrackHandler struct {
	library services.LibraryService
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(library services.LibraryService) *TrackHandler {
	return &TrackHandler{
		library: library,
	}
}

// UploadTrack imports the file named in the request body
func (h *TrackHandler) UploadTrack(c *gin.Context) {
	var req types.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "filePath is required"})
		return
	}

	track, err := h.library.Upload(c.Request.Context(), req.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, track)
}

// ListTracks returns every track, or only favorites with ?favorite=true
func (h *TrackHandler) ListTracks(c *gin.Context) {
	var tracks []types.Track
	if c.Query("favorite") == "true" {
		tracks = h.library.ListFavorites()
	} else {
		tracks = h.library.ListAll()
	}
	if tracks == nil {
		tracks = []types.Track{}
	}

	c.JSON(http.StatusOK, types.TrackListResponse{
		Tracks: tracks,
		Count:  len(tracks),
	})
}

// GetTrack returns one track by id
func (h *TrackHandler) GetTrack(c *gin.Context) {
	track, err := h.library.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, track)
}

// DeleteTrack removes a track and its managed file
func (h *TrackHandler) DeleteTrack(c *gin.Context) {
	id := c.Param("id")
	if err := h.library.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "track deleted",
		"id":      id,
	})
}

// SetFavorite sets or clears the favorite flag
func (h *TrackHandler) SetFavorite(c *gin.Context) {
	var req types.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "favorite is required"})
		return
	}

	id := c.Param("id")
	if err := h.library.SetFavorite(id, *req.Favorite); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"favorite": *req.Favorite,
	})
}

// respondError maps library errors onto status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrTrackNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUnsupportedFormat),
		errors.Is(err, services.ErrInvalidSourcePath):
		status = http.StatusBadRequest
	}

	c.JSON(status, types.ErrorResponse{Error: err.Error()})
}
