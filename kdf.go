// kdf.go: Passphrase-based key derivation for the stream codec.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package streamcrypt

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
)

// KeySize is the size of the derived AES-256 key in bytes.
const KeySize = 32

// KDFIterations is the PBKDF2 iteration count. Part of the wire contract:
// changing it makes existing containers undecryptable.
const KDFIterations = 4096

// DefaultPassphrase is used when the caller supplies an empty passphrase.
//
// It is a published constant, so the default path is a convenience, not a
// defense against anyone holding this source.
const DefaultPassphrase = "qs.streamcrypt.default.v1"

// kdfSalt is deliberately fixed and shared by every user of the codec: the
// same passphrase must derive the same key on every host that handles a
// container. It is not a secret.
var kdfSalt = []byte{
	0x8e, 0x1f, 0x5a, 0xd2, 0x4b, 0x90, 0x33, 0xc7,
	0x61, 0x2d, 0xae, 0x74, 0x09, 0xf8, 0x56, 0xbb,
}

// DeriveKey derives the 32-byte AES-256 key for a passphrase using
// PBKDF2-HMAC-SHA512 with the fixed salt and iteration count.
//
// The derivation is a pure function of the passphrase: the same passphrase
// yields the same key, deterministically, every time. An empty passphrase
// substitutes DefaultPassphrase.
//
// Example:
//
//	key := streamcrypt.DeriveKey("correct horse battery staple")
//	fmt.Println(len(key)) // Output: 32
func DeriveKey(passphrase string) []byte {
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	return pbkdf2.Key([]byte(passphrase), kdfSalt, KDFIterations, KeySize, sha512.New)
}
