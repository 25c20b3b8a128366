// Package server provides the HTTP server for the audio store API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// ChunkRequest carries the query parameters of a chunk fetch.
type ChunkRequest struct {
	// Name is the logical file name.
	Name string `validate:"required"`
	// Start is the first frame of the inclusive range.
	Start int `validate:"min=0"`
	// End is the last frame of the inclusive range.
	End int
}

// FileOutcome is the per-file result of a batch upload.
type FileOutcome struct {
	// Message describes the outcome in human-readable form.
	Message string `json:"message"`
	// Code is the HTTP status for this file alone.
	Code int `json:"code"`
}

// UploadResponse aggregates per-file outcomes of a batch upload.
type UploadResponse struct {
	// Files maps each submitted field name to its outcome.
	Files map[string]FileOutcome `json:"files"`
	// Code is the overall status: 200 when at least one file succeeded.
	Code int `json:"code"`
}

// ChunkResponse is the HTTP response for a chunk fetch.
type ChunkResponse struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	// Data is the rendered WAV clip, base64-encoded.
	Data string `json:"data"`
	Code int    `json:"code"`
}

// FileDownload is one entry of a download response.
type FileDownload struct {
	Name string `json:"name"`
	// Data is the stored WAV content, base64-encoded.
	Data string `json:"data"`
	Code int    `json:"code"`
}

// DownloadResponse is the HTTP response for a download request.
type DownloadResponse struct {
	Files []FileDownload `json:"files"`
	Code  int            `json:"code"`
}

// FileInfo is the metadata of one catalog entry.
type FileInfo struct {
	Name        string  `json:"name"`
	ContentHash string  `json:"content_hash"`
	Channels    int     `json:"channels"`
	FrameRate   int     `json:"framerate"`
	Frames      int     `json:"frames"`
	Duration    float64 `json:"duration"`
	CompType    string  `json:"comptype"`
}

// InfoResponse is the HTTP response for an info request.
type InfoResponse struct {
	Files []FileInfo `json:"files"`
	Code  int        `json:"code"`
}

// ListResponse is the HTTP response for a filtered listing.
type ListResponse struct {
	Files []string `json:"files"`
	Code  int      `json:"code"`
}

// ErrorResponse is the standard error response format. Code mirrors
// the HTTP status so clients can always parse a uniform shape.
type ErrorResponse struct {
	// Message is the human-readable error message.
	Message string `json:"message"`
	// Code is the HTTP status code.
	Code int `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
