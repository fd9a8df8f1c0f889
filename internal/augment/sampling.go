package augment

import (
	"context"
	"math/rand"
	"time"

	"gymforge/internal/services/tesseract"
	"gymforge/internal/services/vlm"
)

// Completer issues a single chat completion. *vlm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req vlm.Request) (string, error)
}

// Recognizer extracts positioned words from an image. *tesseract.Client
// satisfies it.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) ([]tesseract.Word, error)
}

type options struct {
	rng *rand.Rand
}

// Option adjusts augmenter construction.
type Option func(*options)

// WithRand fixes the sampling source, pinning candidate selection in
// tests.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// sampleIndices returns up to max distinct indices in [0, n), chosen
// uniformly without replacement.
func sampleIndices(rng *rand.Rand, n, max int) []int {
	if n <= 0 || max <= 0 {
		return nil
	}
	indices := rng.Perm(n)
	if max < len(indices) {
		indices = indices[:max]
	}
	return indices
}
