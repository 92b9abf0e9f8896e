// Package cas computes the content digests recorded for generated documents
// and commits files to disk atomically.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// ErrDigestMismatch is returned when content does not match its recorded digests.
var ErrDigestMismatch = errors.New("digest mismatch")

// HashResult contains both SHA-256 and BLAKE3 hashes of a blob.
type HashResult struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// Equal reports whether both digests match.
func (h *HashResult) Equal(other *HashResult) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.SHA256 == other.SHA256 && h.BLAKE3 == other.BLAKE3
}

// Hash computes the SHA-256 hash of the given data.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Blake3Hash computes the BLAKE3 hash of the given data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Sum computes both digests of data.
func Sum(data []byte) *HashResult {
	return &HashResult{SHA256: Hash(data), BLAKE3: Blake3Hash(data)}
}

// SumReader computes both digests of everything read from r and returns the
// number of bytes consumed.
func SumReader(r io.Reader) (*HashResult, int64, error) {
	s := sha256.New()
	b := blake3.New()
	n, err := io.Copy(io.MultiWriter(s, b), r)
	if err != nil {
		return nil, n, err
	}
	return &HashResult{
		SHA256: hex.EncodeToString(s.Sum(nil)),
		BLAKE3: hex.EncodeToString(b.Sum(nil)),
	}, n, nil
}

// SumFile computes both digests of the file at path.
func SumFile(path string) (*HashResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, _, err := SumReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return h, nil
}

// Verify checks data against the expected digests.
func Verify(data []byte, want *HashResult) error {
	got := Sum(data)
	if !got.Equal(want) {
		return fmt.Errorf("%w: sha256 %s, want %s", ErrDigestMismatch, got.SHA256, want.SHA256)
	}
	return nil
}
