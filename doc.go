// Package streamcrypt implements streaming authenticated encryption for
// arbitrarily large byte streams under a passphrase-derived key.
//
// This package offers:
//   - AES-256-GCM chunked stream encryption and decryption with per-chunk
//     authentication, bounded memory use, and cooperative cancellation
//   - PBKDF2-HMAC-SHA512 passphrase key derivation with a fixed salt and
//     iteration count, so the same passphrase always derives the same key
//   - A thread-safe buffered cryptographically secure random source
//     providing bytes, unbiased integers, and doubles
//   - Cipher caching per passphrase and buffer pooling sized to the codec's
//     working set
//
// # Quick Start
//
// Encrypting and decrypting a stream:
//
//	codec := streamcrypt.NewCodec()
//
//	var encrypted bytes.Buffer
//	if err := codec.Encrypt(ctx, input, &encrypted, "my-passphrase"); err != nil {
//		log.Fatal(err)
//	}
//
//	var decrypted bytes.Buffer
//	if err := codec.Decrypt(ctx, &encrypted, &decrypted, "my-passphrase"); err != nil {
//		log.Fatal(err)
//	}
//
// Both operations are single-pass: chunks are read, sealed or opened, and
// written one at a time, so a multi-gigabyte stream costs the same memory as
// a small one.
//
// # Container Format
//
// Encrypt produces a self-describing container:
//
//	[nonce: 12 bytes]
//	repeat {
//	  [tag: 16 bytes]
//	  [ciphertext chunk: up to 32768 bytes, last chunk may be shorter]
//	}
//
// Ciphertext chunks are exactly as long as the plaintext they carry; empty
// input yields a container holding only the nonce. The chunk size, nonce
// size, tag size, KDF parameters, and fixed salt are all part of the wire
// contract and must match on both sides.
//
// Note that one stream nonce covers every chunk of a container. Containers
// are passphrase-protected transport envelopes, not a general-purpose AEAD
// mode; see the repository design notes before reusing the format elsewhere.
//
// # Random Source
//
// SecureRandomPool buffers reads from the OS CSPRNG and serves bytes,
// rejection-sampled integers, and doubles to any number of goroutines:
//
//	pool := streamcrypt.NewSecureRandomPool()
//	v, err := pool.NextInt32Range(10, 20) // uniform in [10, 20)
//
// Requests as large as the pool bypass the buffer entirely, so bulk reads
// never starve other callers.
//
// # Error Handling
//
// All failures are fatal: the codec performs no retries and no
// partial-success reporting, and callers must discard partially written
// output. Errors carry a package sentinel for errors.Is checks alongside a
// coded rich error from github.com/agilira/go-errors:
//
//	err := codec.Decrypt(ctx, in, out, passphrase)
//	if errors.Is(err, streamcrypt.ErrAuthentication) {
//		// wrong passphrase or tampered container
//	}
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0
package streamcrypt
