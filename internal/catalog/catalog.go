// Package catalog maps logical file names to content digests and
// per-digest format metadata, deduplicating uploads. It provides the
// upload/download/info/list use cases over the repository, blob store,
// and WAV codec.
package catalog

import (
	"errors"

	"github.com/TSunny007/AudioStore/internal/digest"
)

var (
	// ErrNotFound is returned when no catalog entry matches a name.
	ErrNotFound = errors.New("audio file not found")

	// ErrInvalidQuery is returned for a list filter key outside the
	// allow-list, or a filter value that does not parse as a number.
	ErrInvalidQuery = errors.New("invalid query parameter")
)

// AudioFile is one catalog row: a logical name bound to a content
// digest plus the format metadata decoded from the blob at insertion
// time. Rows are immutable; metadata is never re-derived, so it always
// matches the decoded properties of the bytes at ContentHash.
type AudioFile struct {
	// Name is the user-supplied logical name. Not unique: re-uploading
	// different content under the same name adds a second row with a
	// different digest.
	Name string
	// ContentHash identifies the blob holding the raw bytes.
	ContentHash digest.Digest
	// Channels is the number of interleaved channels per frame.
	Channels int
	// FrameRate is the sample rate in frames per second.
	FrameRate int
	// Frames is the total PCM frame count.
	Frames int
	// Duration is Frames / FrameRate in seconds, computed at insert.
	Duration float64
	// CompType tags the sample encoding and bit depth, e.g. "pcm_16".
	CompType string
}

// UploadStatus is the per-file result of an upload.
type UploadStatus string

const (
	// StatusCreated indicates new content was stored under the name.
	StatusCreated UploadStatus = "CREATED"
	// StatusAlreadyExists indicates the exact (name, digest) pair was
	// previously uploaded. Not an error: the upload is an idempotent
	// no-op.
	StatusAlreadyExists UploadStatus = "ALREADY_EXISTS"
	// StatusRejected indicates the payload is not a valid WAV file.
	// Nothing is persisted for a rejected upload.
	StatusRejected UploadStatus = "REJECTED"
)

// UploadOutcome reports what happened to a single uploaded file.
type UploadOutcome struct {
	Name   string
	Status UploadStatus
}

// FileContent pairs a catalog row with its raw bytes for download.
type FileContent struct {
	Name string
	Data []byte
}
