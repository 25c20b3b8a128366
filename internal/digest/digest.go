// Package digest computes content identities for stored audio blobs.
// A digest is a 32-byte BLAKE3 hash of the raw bytes; two uploads with
// the same digest are treated as the same content for deduplication.
package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Size is the digest length in bytes.
const Size = 32

// Digest is a 32-byte BLAKE3 hash of a byte blob.
type Digest [Size]byte

// Sum computes the digest of data. It is a total function: any byte
// sequence, including empty, has a digest.
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// String returns the canonical hex encoding. This is the form stored in
// the database and used in log output.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Parse decodes a 64-character hex string into a Digest.
func Parse(s string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("parse digest: %w", err)
	}
	if len(decoded) != Size {
		return d, fmt.Errorf("parse digest: got %d bytes, want %d", len(decoded), Size)
	}
	copy(d[:], decoded)
	return d, nil
}
