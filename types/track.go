package types

// Track is one imported audio file in the catalog. The four pointer fields
// serialize as null when no extractor supplied a value.
type Track struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Path     string  `json:"path"`
	Favorite bool    `json:"favorite"`
	Genre    *string `json:"genre"`
	Album    *string `json:"album"`
	AlbumArt *string `json:"album_art"` // data:image/<subtype>;base64,<payload>
	Duration *uint64 `json:"duration"`  // seconds
}
