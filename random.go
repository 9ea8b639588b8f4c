// random.go: Buffered cryptographically secure random source.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package streamcrypt

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	goerrors "github.com/agilira/go-errors"
)

// randomPoolSize is the size of the internal entropy buffer. The pool is
// refilled in full from the OS source whenever a request cannot be served
// from the remaining bytes.
const randomPoolSize = 4096

// SecureRandomPool is a thread-safe random source that amortizes reads from
// the OS CSPRNG through an internal buffer. A single pool is safe for use by
// any number of goroutines; the lock is held only for the duration of a
// buffer copy, never across an I/O wait on the consumer side.
//
// The zero value is not usable; construct pools with NewSecureRandomPool or
// NewSecureRandomPoolFromSource.
type SecureRandomPool struct {
	mu     sync.Mutex
	source io.Reader
	buf    []byte
	cursor int // next unused offset into buf
}

// NewSecureRandomPool creates a pool backed by the operating system CSPRNG.
//
// The internal buffer is filled lazily on first use and refilled on demand
// for the lifetime of the pool.
func NewSecureRandomPool() *SecureRandomPool {
	return NewSecureRandomPoolFromSource(rand.Reader)
}

// NewSecureRandomPoolFromSource creates a pool backed by an arbitrary byte
// source. This exists so tests can substitute a deterministic source; for
// production use the source must be cryptographically secure.
func NewSecureRandomPoolFromSource(source io.Reader) *SecureRandomPool {
	return &SecureRandomPool{
		source: source,
		buf:    make([]byte, randomPoolSize),
		cursor: randomPoolSize, // force a fill on first use
	}
}

// NextBytes fills b with random bytes.
//
// Requests of at least the pool size bypass the buffer and read from the
// underlying source directly, so a single large request cannot thrash the
// pool for other callers. Smaller requests are served from the buffer,
// refilling it first when the remaining bytes are insufficient.
//
// A nil buffer is rejected with ErrInvalidArgument. A source failure is
// fatal and propagates wrapped in ErrRandomSource.
func (p *SecureRandomPool) NextBytes(b []byte) error {
	if b == nil {
		richErr := goerrors.New(ErrCodeInvalidArgument, "destination buffer cannot be nil")
		return fmt.Errorf("%w: %w", ErrInvalidArgument, richErr)
	}
	if len(b) == 0 {
		return nil
	}

	if len(b) >= len(p.buf) {
		if _, err := io.ReadFull(p.source, b); err != nil {
			richErr := goerrors.Wrap(err, ErrCodeRandomSource, "failed to read from random source")
			return fmt.Errorf("%w: %w", ErrRandomSource, richErr)
		}
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextBytesLocked(b)
}

// nextBytesLocked serves a request smaller than the pool from the buffer.
// Callers must hold p.mu.
func (p *SecureRandomPool) nextBytesLocked(b []byte) error {
	if len(p.buf)-p.cursor < len(b) {
		if _, err := io.ReadFull(p.source, p.buf); err != nil {
			richErr := goerrors.Wrap(err, ErrCodeRandomSource, "failed to refill random pool")
			return fmt.Errorf("%w: %w", ErrRandomSource, richErr)
		}
		p.cursor = 0
	}
	copy(b, p.buf[p.cursor:p.cursor+len(b)])
	p.cursor += len(b)
	return nil
}

// nextUint32 draws 4 bytes from the pool and interprets them as an unsigned
// 32-bit integer. All higher-level draws build on this primitive.
func (p *SecureRandomPool) nextUint32() (uint32, error) {
	var raw [4]byte
	p.mu.Lock()
	err := p.nextBytesLocked(raw[:])
	p.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw[:]), nil
}

// NextInt32 returns a uniformly distributed value in [0, 2^31-1).
//
// The draw masks off the sign bit and rejects the maximum representable
// value, so every returned 31-bit value is equally likely.
func (p *SecureRandomPool) NextInt32() (int32, error) {
	for {
		u, err := p.nextUint32()
		if err != nil {
			return 0, err
		}
		v := int32(u & math.MaxInt32) // #nosec G115 -- sign bit masked off above
		if v != math.MaxInt32 {
			return v, nil
		}
	}
}

// NextInt32N returns a uniformly distributed value in [0, maxExclusive).
// maxExclusive must be at least 1.
func (p *SecureRandomPool) NextInt32N(maxExclusive int32) (int32, error) {
	if maxExclusive < 1 {
		richErr := goerrors.New(ErrCodeInvalidArgument, fmt.Sprintf("maxExclusive must be at least 1, got %d", maxExclusive))
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, richErr)
	}
	return p.NextInt32Range(0, maxExclusive)
}

// NextInt32Range returns a uniformly distributed value in [min, maxExclusive).
//
// Draws above the largest multiple of the range width are rejected and
// retried, eliminating modulo bias for non-power-of-two ranges.
func (p *SecureRandomPool) NextInt32Range(min, maxExclusive int32) (int32, error) {
	if min >= maxExclusive {
		richErr := goerrors.New(ErrCodeInvalidArgument, fmt.Sprintf("min %d must be below maxExclusive %d", min, maxExclusive))
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, richErr)
	}

	diff := int64(maxExclusive) - int64(min)
	limit := (uint64(1) << 32) / uint64(diff) * uint64(diff)
	for {
		u, err := p.nextUint32()
		if err != nil {
			return 0, err
		}
		if uint64(u) >= limit {
			continue
		}
		return int32(int64(min) + int64(u)%diff), nil
	}
}

// NextFloat64 returns a uniformly distributed value in [0, 1).
func (p *SecureRandomPool) NextFloat64() (float64, error) {
	u, err := p.nextUint32()
	if err != nil {
		return 0, err
	}
	return float64(u) / (1 << 32), nil
}
