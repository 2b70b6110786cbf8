// Package biometric holds the pure biometric primitives: capture digests,
// embedding similarity, and the extraction boundary that turns a raw capture
// into both.
package biometric

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Algorithm names a 256-bit digest function.
type Algorithm string

const (
	AlgorithmSHA256  Algorithm = "sha256"
	AlgorithmBLAKE2b Algorithm = "blake2b"
)

// DigestLength is the length of a rendered digest: 256 bits as lowercase hex.
const DigestLength = 64

// Hasher computes exact-match keys for biometric captures.
type Hasher struct {
	algo Algorithm
}

// NewHasher returns a hasher for algo. An empty algorithm selects SHA-256.
func NewHasher(algo Algorithm) (*Hasher, error) {
	switch algo {
	case "":
		algo = AlgorithmSHA256
	case AlgorithmSHA256, AlgorithmBLAKE2b:
	default:
		return nil, fmt.Errorf("unsupported digest algorithm %q", algo)
	}
	return &Hasher{algo: algo}, nil
}

// Algorithm reports the configured digest function.
func (h *Hasher) Algorithm() Algorithm { return h.algo }

// Digest is deterministic and one-way; the same payload always yields the same
// 64-character hex string.
func (h *Hasher) Digest(payload []byte) string {
	var sum [32]byte
	switch h.algo {
	case AlgorithmBLAKE2b:
		sum = blake2b.Sum256(payload)
	default:
		sum = sha256.Sum256(payload)
	}
	return hex.EncodeToString(sum[:])
}

// ValidDigest reports whether s has the shape of a rendered digest.
func ValidDigest(s string) bool {
	if len(s) != DigestLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
