// cipher.go: AEAD chunk primitive and per-passphrase cipher caching.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package streamcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

// chunkCipher is the authenticated-encryption capability the codec's framing
// logic is written against. The container stores the tag before the
// ciphertext, so Seal hands both back as separate slices; the concrete AEAD
// implementation can vary without touching the framing code.
type chunkCipher interface {
	// Seal encrypts plaintext under the stream nonce, appending the result
	// to dst. The returned ciphertext has the same length as the plaintext
	// and the tag is TagSize bytes; both alias dst's backing array.
	Seal(dst, nonce, plaintext []byte) (ciphertext, tag []byte)

	// Open verifies tag against ciphertext and the stream nonce, appending
	// the recovered plaintext to dst. No plaintext is produced when
	// verification fails.
	Open(dst, nonce, ciphertext, tag []byte) ([]byte, error)
}

// gcmChunkCipher implements chunkCipher with AES-256-GCM and 16-byte tags.
type gcmChunkCipher struct {
	aead cipher.AEAD
}

func newGCMChunkCipher(key []byte) (*gcmChunkCipher, error) {
	if len(key) != KeySize {
		richErr := goerrors.New(ErrCodeInvalidKey, fmt.Sprintf("key must be %d bytes for AES-256, got %d", KeySize, len(key)))
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeySize, richErr)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeCipherInit, "failed to create AES cipher")
	}
	aead, err := cipher.NewGCMWithTagSize(block, TagSize)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeCipherInit, "failed to create GCM mode")
	}
	return &gcmChunkCipher{aead: aead}, nil
}

func (c *gcmChunkCipher) Seal(dst, nonce, plaintext []byte) ([]byte, []byte) {
	sealed := c.aead.Seal(dst, nonce, plaintext, nil)
	return sealed[:len(plaintext)], sealed[len(plaintext):]
}

func (c *gcmChunkCipher) Open(dst, nonce, ciphertext, tag []byte) ([]byte, error) {
	// GCM consumes ciphertext and tag contiguously; reassemble them in a
	// pooled scratch buffer since the wire carries the tag first.
	sealedBuf := getBuffer(len(ciphertext) + len(tag))
	defer putBuffer(sealedBuf)
	sealed := (*sealedBuf)[:0]
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	return c.aead.Open(dst, nonce, sealed, nil)
}

// Cipher cache tuning. Entries idle longer than cipherCacheIdleTTL are
// evicted once the cache grows past cipherCacheMaxEntries.
const (
	cipherCacheMaxEntries = 64
	cipherCacheIdleTTL    = 10 * time.Minute
)

type cipherCacheEntry struct {
	cipher   chunkCipher
	lastUsed time.Time
}

// cipherCache memoizes the PBKDF2 derivation and AEAD construction per
// passphrase fingerprint, so repeated operations under the same passphrase
// skip the deliberately slow KDF.
type cipherCache struct {
	mu      sync.RWMutex
	entries map[string]*cipherCacheEntry
}

func newCipherCache() *cipherCache {
	return &cipherCache{entries: make(map[string]*cipherCacheEntry)}
}

func (cc *cipherCache) get(fingerprint string) (chunkCipher, bool) {
	cc.mu.RLock()
	entry, ok := cc.entries[fingerprint]
	cc.mu.RUnlock()
	if !ok {
		return nil, false
	}

	cc.mu.Lock()
	entry.lastUsed = timecache.CachedTime()
	cc.mu.Unlock()
	return entry.cipher, true
}

func (cc *cipherCache) put(fingerprint string, cipher chunkCipher) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if len(cc.entries) >= cipherCacheMaxEntries {
		cc.evictStaleLocked()
	}
	cc.entries[fingerprint] = &cipherCacheEntry{
		cipher:   cipher,
		lastUsed: timecache.CachedTime(),
	}
}

// evictStaleLocked drops entries that have been idle past the TTL.
// Callers must hold cc.mu for writing.
func (cc *cipherCache) evictStaleLocked() {
	cutoff := timecache.CachedTime().Add(-cipherCacheIdleTTL)
	for fp, entry := range cc.entries {
		if entry.lastUsed.Before(cutoff) {
			delete(cc.entries, fp)
		}
	}
}

// cipherFor returns the chunk cipher for a passphrase, deriving the key and
// constructing the AEAD on first use. The derived key is wiped as soon as
// the cipher has been built.
func (c *Codec) cipherFor(passphrase string) (chunkCipher, error) {
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}

	fingerprint := KeyFingerprint([]byte(passphrase))
	if cached, ok := c.cache.get(fingerprint); ok {
		return cached, nil
	}

	key := DeriveKey(passphrase)
	defer Zeroize(key)

	sealer, err := newGCMChunkCipher(key)
	if err != nil {
		return nil, err
	}
	c.cache.put(fingerprint, sealer)
	return sealer, nil
}
