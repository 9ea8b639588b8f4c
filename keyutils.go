// keyutils.go: Key generation, fingerprinting, and zeroization helpers.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package streamcrypt

import (
	"crypto/sha256"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// defaultRandom is the process-wide random pool. It is shared by every
// codec created through NewCodec and by the package-level generators below;
// its buffer is filled lazily on first use and never torn down.
var defaultRandom = NewSecureRandomPool()

// GenerateKey generates a cryptographically secure random key of KeySize
// bytes, suitable for direct use with the AES-256 chunk cipher.
//
// Example:
//
//	key, err := streamcrypt.GenerateKey()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(len(key)) // Output: 32
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if err := defaultRandom.NextBytes(key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateNonce generates a cryptographically secure random nonce of the
// given size. For the stream codec the size is NonceSize (12 bytes).
func GenerateNonce(size int) ([]byte, error) {
	if size <= 0 {
		richErr := goerrors.New(ErrCodeInvalidArgument, "nonce size must be positive")
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, richErr)
	}
	nonce := make([]byte, size)
	if err := defaultRandom.NextBytes(nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// Zeroize overwrites a byte slice with zeros so key material does not
// outlive its use. The slice is modified in place.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// KeyFingerprint returns a short non-cryptographic identifier for key or
// passphrase material: the first 8 bytes of its SHA-256 hash, hex encoded.
// Useful for cache keys and logging without exposing the material itself.
func KeyFingerprint(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	hash := sha256.Sum256(key)
	return fmt.Sprintf("%016x", hash[:8])
}
