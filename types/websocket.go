package types

import "time"

// CatalogEventType names a catalog mutation
type CatalogEventType string

const (
	EventTrackAdded      CatalogEventType = "track_added"
	EventTrackDeleted    CatalogEventType = "track_deleted"
	EventFavoriteChanged CatalogEventType = "favorite_changed"
)

// CatalogEvent is pushed to websocket listeners after a successful mutation
type CatalogEvent struct {
	Type      CatalogEventType `json:"type"`
	TrackID   string           `json:"trackId"`
	Track     *Track           `json:"track,omitempty"`
	Favorite  *bool            `json:"favorite,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
