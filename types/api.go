package types

// UploadRequest is the body of POST /api/tracks
type UploadRequest struct {
	FilePath string `json:"filePath" binding:"required"`
}

// FavoriteRequest is the body of PUT /api/tracks/:id/favorite
type FavoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

// TrackListResponse is returned by GET /api/tracks
type TrackListResponse struct {
	Tracks []Track `json:"tracks"`
	Count  int     `json:"count"`
}

// ErrorResponse carries the error string of a failed operation
type ErrorResponse struct {
	Error string `json:"error"`
}
