package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TSunny007/AudioStore/internal/blob"
	"github.com/TSunny007/AudioStore/internal/catalog"
	"github.com/TSunny007/AudioStore/internal/chunk"
	"github.com/TSunny007/AudioStore/internal/wavcodec"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	catalogRepo := catalog.NewMemoryRepository()
	chunkRepo := chunk.NewMemoryRepository()
	blobs := blob.NewMemoryStore()

	catalogSvc := catalog.NewService(catalogRepo, blobs, chunkRepo, logger)
	chunkSvc := chunk.NewService(chunkRepo, catalogRepo, blobs, 0, logger)

	return NewHandlers(catalogSvc, chunkSvc, logger)
}

// makeWAV renders a mono 16-bit WAV; seed varies the content bytes.
func makeWAV(t *testing.T, rate, frames, seed int) []byte {
	t.Helper()
	data := make([]int, frames)
	for i := range data {
		data[i] = (i + seed) % 128
	}
	encoded, err := wavcodec.Encode(&wavcodec.Clip{
		Channels:  1,
		FrameRate: rate,
		BitDepth:  16,
		WavFormat: wavcodec.FormatPCM,
		PCM: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
			Data:           data,
			SourceBitDepth: 16,
		},
	})
	require.NoError(t, err)
	return encoded
}

// postFiles submits named payloads as a multipart form to the Upload
// handler and returns the recorder.
func postFiles(t *testing.T, h *Handlers, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, content := range files {
		fw, err := w.CreateFormFile(name, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/post", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
}

func TestUpload_TwoFilesCreated(t *testing.T) {
	h := newTestHandlers(t)

	rec := postFiles(t, h, map[string][]byte{
		"a.wav": makeWAV(t, 8000, 100, 0),
		"b.wav": makeWAV(t, 8000, 100, 1),
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[UploadResponse](t, rec)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, FileOutcome{Message: "created", Code: http.StatusCreated}, resp.Files["a.wav"])
	assert.Equal(t, FileOutcome{Message: "created", Code: http.StatusCreated}, resp.Files["b.wav"])
}

func TestUpload_RequiresTwoFiles(t *testing.T) {
	h := newTestHandlers(t)

	rec := postFiles(t, h, map[string][]byte{
		"only.wav": makeWAV(t, 8000, 100, 0),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[ErrorResponse](t, rec)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpload_DuplicateReportsAlreadyExists(t *testing.T) {
	h := newTestHandlers(t)
	files := map[string][]byte{
		"a.wav": makeWAV(t, 8000, 100, 0),
		"b.wav": makeWAV(t, 8000, 100, 1),
	}

	rec := postFiles(t, h, files)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postFiles(t, h, files)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[UploadResponse](t, rec)
	assert.Equal(t, FileOutcome{Message: "already exists", Code: http.StatusOK}, resp.Files["a.wav"])
	assert.Equal(t, FileOutcome{Message: "already exists", Code: http.StatusOK}, resp.Files["b.wav"])
}

func TestUpload_PartialSuccess(t *testing.T) {
	h := newTestHandlers(t)

	rec := postFiles(t, h, map[string][]byte{
		"good.wav": makeWAV(t, 8000, 100, 0),
		"bad.wav":  []byte("not a wav file at all"),
	})

	// One bad file never aborts its sibling; the batch still succeeds.
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[UploadResponse](t, rec)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, FileOutcome{Message: "created", Code: http.StatusCreated}, resp.Files["good.wav"])
	assert.Equal(t, FileOutcome{Message: "invalid audio", Code: http.StatusBadRequest}, resp.Files["bad.wav"])
}

func TestUpload_AllRejected(t *testing.T) {
	h := newTestHandlers(t)

	rec := postFiles(t, h, map[string][]byte{
		"bad1.wav": []byte("garbage"),
		"bad2.wav": []byte("more garbage"),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[UploadResponse](t, rec)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, http.StatusBadRequest, resp.Files["bad1.wav"].Code)
	assert.Equal(t, http.StatusBadRequest, resp.Files["bad2.wav"].Code)
}

func TestChunk_Success(t *testing.T) {
	h := newTestHandlers(t)
	rec := postFiles(t, h, map[string][]byte{
		"a.wav": makeWAV(t, 8000, 1000, 0),
		"b.wav": makeWAV(t, 8000, 1000, 1),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/chunk?name=a.wav&start=100&end=299", nil)
	rec = httptest.NewRecorder()
	h.Chunk(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[ChunkResponse](t, rec)
	assert.Equal(t, "a.wav", resp.Name)
	assert.Equal(t, 100, resp.Start)
	assert.Equal(t, 299, resp.End)
	assert.Equal(t, http.StatusOK, resp.Code)

	raw, err := base64.StdEncoding.DecodeString(resp.Data)
	require.NoError(t, err)
	clip, err := wavcodec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 200, clip.FrameCount())
}

func TestChunk_MissingName(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/chunk?start=0&end=10", nil)
	rec := httptest.NewRecorder()
	h.Chunk(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChunk_NonIntegerBounds(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/chunk?name=a.wav&start=zero&end=10", nil)
	rec := httptest.NewRecorder()
	h.Chunk(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[ErrorResponse](t, rec)
	assert.Contains(t, resp.Message, "start")
}

func TestChunk_NegativeStart(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/chunk?name=a.wav&start=-1&end=10", nil)
	rec := httptest.NewRecorder()
	h.Chunk(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChunk_UnknownName(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/chunk?name=missing.wav&start=0&end=10", nil)
	rec := httptest.NewRecorder()
	h.Chunk(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeJSON[ErrorResponse](t, rec)
	assert.Contains(t, resp.Message, "missing.wav")
}

func TestDownload_ByName(t *testing.T) {
	h := newTestHandlers(t)
	content := makeWAV(t, 8000, 100, 0)
	rec := postFiles(t, h, map[string][]byte{
		"a.wav": content,
		"b.wav": makeWAV(t, 8000, 100, 1),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/download?name=a.wav", nil)
	rec = httptest.NewRecorder()
	h.Download(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[DownloadResponse](t, rec)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "a.wav", resp.Files[0].Name)
	assert.Equal(t, base64.StdEncoding.EncodeToString(content), resp.Files[0].Data)
}

func TestDownload_All(t *testing.T) {
	h := newTestHandlers(t)
	rec := postFiles(t, h, map[string][]byte{
		"a.wav": makeWAV(t, 8000, 100, 0),
		"b.wav": makeWAV(t, 8000, 100, 1),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	rec = httptest.NewRecorder()
	h.Download(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[DownloadResponse](t, rec)
	assert.Len(t, resp.Files, 2)
}

func TestDownload_UnknownName(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/download?name=missing.wav", nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[ErrorResponse](t, rec)
	assert.Contains(t, resp.Message, "missing.wav")
}

func TestInfo_ReturnsMetadata(t *testing.T) {
	h := newTestHandlers(t)
	rec := postFiles(t, h, map[string][]byte{
		"a.wav": makeWAV(t, 44100, 88200, 0),
		"b.wav": makeWAV(t, 8000, 100, 1),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/info?name=a.wav", nil)
	rec = httptest.NewRecorder()
	h.Info(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[InfoResponse](t, rec)
	require.Len(t, resp.Files, 1)
	info := resp.Files[0]
	assert.Equal(t, "a.wav", info.Name)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 44100, info.FrameRate)
	assert.Equal(t, 88200, info.Frames)
	assert.InDelta(t, 2.0, info.Duration, 1e-9)
	assert.Equal(t, "pcm_16", info.CompType)
	assert.NotEmpty(t, info.ContentHash)
}

func TestInfo_UnknownName(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/info?name=missing.wav", nil)
	rec := httptest.NewRecorder()
	h.Info(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_RejectsUnknownFilter(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/list?loudness=11", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[ErrorResponse](t, rec)
	assert.Contains(t, resp.Message, "loudness")
}

func TestList_CombinedFilters(t *testing.T) {
	h := newTestHandlers(t)
	rec := postFiles(t, h, map[string][]byte{
		"short.wav": makeWAV(t, 44100, 44100, 0),
		"long.wav":  makeWAV(t, 44100, 88200, 1),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/list?minduration=1.0&maxframerate=48000", nil)
	rec = httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[ListResponse](t, rec)
	assert.ElementsMatch(t, []string{"short.wav", "long.wav"}, resp.Files)

	req = httptest.NewRequest(http.MethodGet, "/list?minduration=1.5", nil)
	rec = httptest.NewRecorder()
	h.List(rec, req)

	resp = decodeJSON[ListResponse](t, rec)
	assert.Equal(t, []string{"long.wav"}, resp.Files)
}

// Two seconds of 44.1kHz mono audio, listed by duration, then a one
// second chunk cut from the front.
func TestTwoSecondFileOneSecondChunk(t *testing.T) {
	h := newTestHandlers(t)
	rec := postFiles(t, h, map[string][]byte{
		"a.wav":     makeWAV(t, 44100, 88200, 0),
		"other.wav": makeWAV(t, 8000, 100, 1),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/list?minduration=1.5", nil)
	rec = httptest.NewRecorder()
	h.List(rec, req)
	listResp := decodeJSON[ListResponse](t, rec)
	assert.Equal(t, []string{"a.wav"}, listResp.Files)

	req = httptest.NewRequest(http.MethodGet, "/chunk?name=a.wav&start=0&end=44099", nil)
	rec = httptest.NewRecorder()
	h.Chunk(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	chunkResp := decodeJSON[ChunkResponse](t, rec)
	raw, err := base64.StdEncoding.DecodeString(chunkResp.Data)
	require.NoError(t, err)
	clip, err := wavcodec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 44100, clip.FrameCount())
	assert.InDelta(t, 1.0, clip.Duration(), 1e-9)
}
