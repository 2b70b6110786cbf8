package biometric

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
)

// EmbeddingSize is the fixed embedding length for this deployment.
const EmbeddingSize = 384

// ErrEmptyCapture is returned for a zero-length capture payload.
var ErrEmptyCapture = errors.New("empty biometric capture")

// Sample is what the core consumes from a capture: an exact-match digest and an
// optional embedding for fuzzy ranking.
type Sample struct {
	Digest    string
	Embedding []float64
}

// Extractor turns a raw capture into a Sample. A real face-recognition model
// plugs in here without touching the checkpoint engine.
type Extractor interface {
	Extract(ctx context.Context, payload []byte) (Sample, error)
}

// FeatureExtractor is a deterministic stand-in model. It feature-hashes 4-byte
// shingles of the payload into EmbeddingSize signed buckets and L2-normalizes
// the result, so identical captures always produce identical embeddings.
type FeatureExtractor struct {
	hasher *Hasher
	size   int
}

// NewFeatureExtractor builds an extractor that digests with hasher.
func NewFeatureExtractor(hasher *Hasher) *FeatureExtractor {
	return &FeatureExtractor{hasher: hasher, size: EmbeddingSize}
}

func (e *FeatureExtractor) Extract(ctx context.Context, payload []byte) (Sample, error) {
	if len(payload) == 0 {
		return Sample{}, ErrEmptyCapture
	}
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}
	return Sample{
		Digest:    e.hasher.Digest(payload),
		Embedding: e.embed(payload),
	}, nil
}

// Digest hashes a capture without computing an embedding (fingerprints).
func (e *FeatureExtractor) Digest(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", ErrEmptyCapture
	}
	return e.hasher.Digest(payload), nil
}

const shingle = 4

func (e *FeatureExtractor) embed(payload []byte) []float64 {
	vec := make([]float64, e.size)
	last := len(payload) - shingle
	if last < 0 {
		last = 0
	}
	fh := fnv.New64a()
	for i := 0; i <= last; i++ {
		end := min(i+shingle, len(payload))
		fh.Reset()
		_, _ = fh.Write(payload[i:end])
		h := fh.Sum64()
		bucket := int(h % uint64(e.size))
		if h>>63 == 1 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
