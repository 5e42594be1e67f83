package types

// ImportResult is the outcome of importing one file in a batch
type ImportResult struct {
	SourcePath string `json:"sourcePath"`
	Track      *Track `json:"track,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Succeeded reports whether the file made it into the catalog
func (r ImportResult) Succeeded() bool {
	return r.Track != nil && r.Error == ""
}
