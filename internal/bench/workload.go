package bench

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"math/rand"

	"github.com/zeebo/blake3"
)

const (
	HashSHA256 = "sha256"
	HashBLAKE3 = "blake3"
)

// ErrUnknownHash is returned for a Config.Hash that names no workload.
var ErrUnknownHash = errors.New("unknown hash algorithm")

// checkEvery is how many loop iterations run between context checks.
const checkEvery = 1 << 12

func newHasher(name string) (func() hash.Hash, error) {
	switch name {
	case HashSHA256:
		return sha256.New, nil
	case HashBLAKE3:
		return func() hash.Hash { return blake3.New() }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHash, name)
	}
}

// sink keeps workload results observable so the loops are not elided.
type sink struct {
	ints   int64
	floats float64
	bytes  byte
}

func randomWorkload(ctx context.Context, rng *rand.Rand, iterations int, out *sink) error {
	var sum int64
	for i := 0; i < iterations; i++ {
		if i%checkEvery == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		sum += int64(rng.Intn(1000))
	}
	out.ints += sum
	return nil
}

func matrixWorkload(ctx context.Context, rng *rand.Rand, size int, out *sink) error {
	a := make([]float64, size*size)
	b := make([]float64, size*size)
	c := make([]float64, size*size)
	for i := range a {
		a[i] = rng.Float64()
		b[i] = rng.Float64()
	}

	for i := 0; i < size; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for j := 0; j < size; j++ {
			var acc float64
			for k := 0; k < size; k++ {
				acc += a[i*size+k] * b[k*size+j]
			}
			c[i*size+j] = acc
		}
	}
	out.floats += c[len(c)-1]
	return nil
}

func hashWorkload(ctx context.Context, rng *rand.Rand, newHash func() hash.Hash, iterations, bufSize int, out *sink) error {
	h := newHash()
	buf := make([]byte, bufSize)
	var digest []byte
	for i := 0; i < iterations; i++ {
		if i%checkEvery == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		rng.Read(buf)
		h.Reset()
		h.Write(buf)
		digest = h.Sum(digest[:0])
	}
	if len(digest) > 0 {
		out.bytes ^= digest[0]
	}
	return nil
}
