// keyutils_test.go: Test cases for key utilities.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package streamcrypt_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/quarkshare/streamcrypt"
)

// TestGenerateKey verifies generated keys have the right size and vary.
func TestGenerateKey(t *testing.T) {
	first, err := streamcrypt.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	if len(first) != streamcrypt.KeySize {
		t.Fatalf("Expected %d-byte key, got %d", streamcrypt.KeySize, len(first))
	}

	second, err := streamcrypt.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Error("Two generated keys should not be identical")
	}
}

// TestGenerateNonce verifies sizes and argument validation.
func TestGenerateNonce(t *testing.T) {
	nonce, err := streamcrypt.GenerateNonce(streamcrypt.NonceSize)
	if err != nil {
		t.Fatalf("GenerateNonce failed: %v", err)
	}
	if len(nonce) != streamcrypt.NonceSize {
		t.Errorf("Expected %d-byte nonce, got %d", streamcrypt.NonceSize, len(nonce))
	}

	if _, err := streamcrypt.GenerateNonce(0); !errors.Is(err, streamcrypt.ErrInvalidArgument) {
		t.Errorf("GenerateNonce(0) should fail with ErrInvalidArgument, got %v", err)
	}
	if _, err := streamcrypt.GenerateNonce(-1); !errors.Is(err, streamcrypt.ErrInvalidArgument) {
		t.Errorf("GenerateNonce(-1) should fail with ErrInvalidArgument, got %v", err)
	}
}

// TestZeroize verifies in-place wiping.
func TestZeroize(t *testing.T) {
	data := []byte("sensitive-key-material")
	streamcrypt.Zeroize(data)

	for i, b := range data {
		if b != 0 {
			t.Errorf("Byte %d not zeroed: %v", i, b)
		}
	}
}

// TestKeyFingerprint verifies fingerprints are stable, distinct, and empty
// for empty input.
func TestKeyFingerprint(t *testing.T) {
	key := []byte("some-key-material")

	fp := streamcrypt.KeyFingerprint(key)
	if len(fp) != 16 {
		t.Errorf("Fingerprint should be 16 hex characters, got %d", len(fp))
	}
	if fp != streamcrypt.KeyFingerprint(key) {
		t.Error("Fingerprint should be stable for the same input")
	}
	if fp == streamcrypt.KeyFingerprint([]byte("other-key-material")) {
		t.Error("Distinct inputs should not share a fingerprint")
	}
	if streamcrypt.KeyFingerprint(nil) != "" {
		t.Error("Empty input should yield an empty fingerprint")
	}
}
