package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/TSunny007/AudioStore/internal/catalog"
	"github.com/TSunny007/AudioStore/internal/chunk"
	"github.com/TSunny007/AudioStore/internal/wavcodec"
)

// defaultMaxUploadBytes bounds the in-memory size of a multipart
// upload before the rest spills to disk.
const defaultMaxUploadBytes = 64 << 20

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	catalog        *catalog.Service
	chunks         *chunk.Service
	validator      *validator.Validate
	logger         *slog.Logger
	maxUploadBytes int64
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithMaxUploadBytes overrides the multipart memory limit.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handlers) {
		h.maxUploadBytes = n
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalogSvc *catalog.Service, chunkSvc *chunk.Service, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		catalog:        catalogSvc,
		chunks:         chunkSvc,
		validator:      validator.New(),
		logger:         logger,
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Upload handles POST /post requests. Each named multipart payload is
// processed independently; one bad file never aborts its siblings. The
// overall status is 200 when at least one file was accepted.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.logger.Warn("failed to parse multipart form",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("failed to clean up multipart form",
				slog.String("error", err.Error()),
			)
		}
	}()

	if len(r.MultipartForm.File) < 2 {
		writeError(w, http.StatusBadRequest, "at least two named file payloads are required")
		return
	}

	outcomes := make(map[string]FileOutcome, len(r.MultipartForm.File))
	succeeded := 0
	for name, headers := range r.MultipartForm.File {
		content, err := readMultipartFile(headers[0])
		if err != nil {
			h.logger.Warn("failed to read uploaded file",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
			outcomes[name] = FileOutcome{Message: "unreadable payload", Code: http.StatusBadRequest}
			continue
		}

		outcome, err := h.catalog.Upload(r.Context(), name, content)
		if err != nil {
			h.logger.Error("upload failed",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to store file")
			return
		}

		switch outcome.Status {
		case catalog.StatusCreated:
			outcomes[name] = FileOutcome{Message: "created", Code: http.StatusCreated}
			succeeded++
		case catalog.StatusAlreadyExists:
			outcomes[name] = FileOutcome{Message: "already exists", Code: http.StatusOK}
			succeeded++
		case catalog.StatusRejected:
			outcomes[name] = FileOutcome{Message: "invalid audio", Code: http.StatusBadRequest}
		}
	}

	code := http.StatusOK
	if succeeded == 0 {
		code = http.StatusBadRequest
	}
	writeJSON(w, code, UploadResponse{Files: outcomes, Code: code})
}

// Chunk handles GET /chunk requests. The range is inclusive frame
// indices into the latest file stored under name.
func (h *Handlers) Chunk(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := strconv.Atoi(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be an integer")
		return
	}
	end, err := strconv.Atoi(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be an integer")
		return
	}

	req := ChunkRequest{Name: q.Get("name"), Start: start, End: end}
	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("chunk request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := h.chunks.Get(r.Context(), req.Name, req.Start, req.End)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			writeError(w, http.StatusNotFound, "file not found: "+req.Name)
		case errors.Is(err, wavcodec.ErrInvalidRange):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("chunk fetch failed",
				slog.String("name", req.Name),
				slog.Int("start", req.Start),
				slog.Int("end", req.End),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to fetch chunk")
		}
		return
	}

	writeJSON(w, http.StatusOK, ChunkResponse{
		Name:  req.Name,
		Start: req.Start,
		End:   req.End,
		Data:  base64.StdEncoding.EncodeToString(content),
		Code:  http.StatusOK,
	})
}

// Download handles GET /download requests. With a name parameter it
// returns every entry stored under that name; without one it returns
// everything. No match is a 400.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	files, err := h.catalog.Download(r.Context(), name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "file does not exist: "+name)
			return
		}
		h.logger.Error("download failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to download files")
		return
	}

	resp := DownloadResponse{Files: make([]FileDownload, 0, len(files)), Code: http.StatusOK}
	for i := range files {
		resp.Files = append(resp.Files, FileDownload{
			Name: files[i].Name,
			Data: base64.StdEncoding.EncodeToString(files[i].Data),
			Code: http.StatusOK,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Info handles GET /info requests. Same matching as Download, metadata
// only.
func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	files, err := h.catalog.Info(r.Context(), name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "file does not exist: "+name)
			return
		}
		h.logger.Error("info failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch file info")
		return
	}

	resp := InfoResponse{Files: make([]FileInfo, 0, len(files)), Code: http.StatusOK}
	for i := range files {
		resp.Files = append(resp.Files, FileInfo{
			Name:        files[i].Name,
			ContentHash: files[i].ContentHash.String(),
			Channels:    files[i].Channels,
			FrameRate:   files[i].FrameRate,
			Frames:      files[i].Frames,
			Duration:    files[i].Duration,
			CompType:    files[i].CompType,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /list requests. Filters are validated before any
// query runs; an unknown key rejects the whole request.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	filters, err := catalog.ParseFilters(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	names, err := h.catalog.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list files")
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{Files: names, Code: http.StatusOK})
}

// readMultipartFile reads one uploaded part fully into memory.
func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format. The
// status code is repeated in the body so every payload carries it.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Message: message,
		Code:    status,
	})
}
