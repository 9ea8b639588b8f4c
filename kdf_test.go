// kdf_test.go: Test cases for passphrase key derivation.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package streamcrypt_test

import (
	"bytes"
	"testing"

	"github.com/quarkshare/streamcrypt"
)

// TestDeriveKeyDeterministic verifies the same passphrase always derives
// the same key.
func TestDeriveKeyDeterministic(t *testing.T) {
	first := streamcrypt.DeriveKey("my-passphrase")
	second := streamcrypt.DeriveKey("my-passphrase")

	if len(first) != streamcrypt.KeySize {
		t.Fatalf("Derived key should be %d bytes, got %d", streamcrypt.KeySize, len(first))
	}
	if !bytes.Equal(first, second) {
		t.Error("Same passphrase should derive the same key every time")
	}
}

// TestDeriveKeyDistinct verifies distinct passphrases derive distinct keys.
func TestDeriveKeyDistinct(t *testing.T) {
	keys := map[string][]byte{
		"alpha":  streamcrypt.DeriveKey("alpha"),
		"beta":   streamcrypt.DeriveKey("beta"),
		"alpha ": streamcrypt.DeriveKey("alpha "), // trailing space matters
	}

	for a, ka := range keys {
		for b, kb := range keys {
			if a != b && bytes.Equal(ka, kb) {
				t.Errorf("Passphrases %q and %q derived the same key", a, b)
			}
		}
	}
}

// TestDeriveKeyDefaultPassphrase verifies the empty passphrase selects the
// published default constant.
func TestDeriveKeyDefaultPassphrase(t *testing.T) {
	fromEmpty := streamcrypt.DeriveKey("")
	fromDefault := streamcrypt.DeriveKey(streamcrypt.DefaultPassphrase)

	if !bytes.Equal(fromEmpty, fromDefault) {
		t.Error("Empty passphrase should derive the default passphrase key")
	}
}

// TestDeriveKeyNotDegenerate guards against an all-zero derivation.
func TestDeriveKeyNotDegenerate(t *testing.T) {
	key := streamcrypt.DeriveKey("entropy-check")

	allZero := true
	for _, b := range key {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Error("Derived key should not be all zeros")
	}
}
