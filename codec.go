// codec.go: Chunked authenticated stream encryption and decryption.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package streamcrypt

import (
	"context"
	"errors"
	"fmt"
	"io"

	goerrors "github.com/agilira/go-errors"
)

// Container format constants. These values are part of the wire format and
// must match exactly on both sides for interoperability.
const (
	// ChunkSize is the maximum plaintext bytes carried by a single chunk.
	// Only the final chunk of a stream may be shorter.
	ChunkSize = 32 * 1024

	// NonceSize is the size of the stream nonce written at the start of
	// every container.
	NonceSize = 12

	// TagSize is the size of the GCM authentication tag preceding each
	// ciphertext chunk.
	TagSize = 16
)

// Public standard errors for drop-in compatibility.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidArgument is returned when a nil stream, nil buffer, or
	// invalid range is passed to the codec or the random pool. It is
	// always raised before any I/O occurs.
	ErrInvalidArgument = errors.New("streamcrypt: invalid argument")

	// ErrInvalidKeySize is returned when a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.New("streamcrypt: invalid key size")

	// ErrNonceRead is returned when a container ends before a full stream
	// nonce could be read.
	ErrNonceRead = errors.New("streamcrypt: could not read nonce")

	// ErrTagRead is returned when a container ends in the middle of a
	// chunk tag.
	ErrTagRead = errors.New("streamcrypt: could not read tag")

	// ErrTrailingData is returned when bytes remain in the input after the
	// final chunk of a container.
	ErrTrailingData = errors.New("streamcrypt: input was not read until the end")

	// ErrAuthentication is returned when a chunk tag does not verify:
	// wrong passphrase, tampered ciphertext, or a corrupted tag.
	ErrAuthentication = errors.New("streamcrypt: chunk authentication failed")

	// ErrRandomSource is returned when the underlying CSPRNG fails.
	ErrRandomSource = errors.New("streamcrypt: random source failure")

	// ErrIO is returned when the input or output stream itself fails.
	ErrIO = errors.New("streamcrypt: stream i/o failure")
)

// Error codes for rich error handling
const (
	ErrCodeInvalidArgument = "STREAM_INVALID_ARGUMENT"
	ErrCodeInvalidKey      = "STREAM_INVALID_KEY"
	ErrCodeCipherInit      = "STREAM_CIPHER_INIT"
	ErrCodeNonceGen        = "STREAM_NONCE_GEN"
	ErrCodeNonceRead       = "STREAM_NONCE_READ"
	ErrCodeTagRead         = "STREAM_TAG_READ"
	ErrCodeChunkRead       = "STREAM_CHUNK_READ"
	ErrCodeTrailingData    = "STREAM_TRAILING_DATA"
	ErrCodeAuthFailed      = "STREAM_AUTH_FAILED"
	ErrCodeWrite           = "STREAM_WRITE"
	ErrCodeRandomSource    = "STREAM_RANDOM_SOURCE"
)

// Codec encrypts and decrypts byte streams in authenticated chunks under a
// passphrase-derived AES-256 key.
//
// A Codec is safe for concurrent use: each Encrypt/Decrypt call owns its
// nonce and scratch buffers, and the only shared state (the random pool and
// the cipher cache) is internally synchronized. Both operations are fully
// sequential single-pass streams, so memory use is bounded by ChunkSize
// regardless of stream length.
type Codec struct {
	random *SecureRandomPool
	cache  *cipherCache
}

// NewCodec creates a codec backed by the process-wide random pool.
func NewCodec() *Codec {
	return NewCodecWithRandom(defaultRandom)
}

// NewCodecWithRandom creates a codec drawing stream nonces from the given
// pool. Passing nil falls back to the process-wide pool. Injecting a pool
// built on a deterministic source makes encryption reproducible in tests.
func NewCodecWithRandom(pool *SecureRandomPool) *Codec {
	if pool == nil {
		pool = defaultRandom
	}
	return &Codec{
		random: pool,
		cache:  newCipherCache(),
	}
}

// Encrypt reads plaintext from input and writes an encrypted container to
// output. An empty passphrase selects DefaultPassphrase.
//
// The container starts with a 12-byte stream nonce followed by one
// `tag || ciphertext` record per plaintext chunk of up to ChunkSize bytes.
// Empty input produces a container holding only the nonce.
//
// Cancellation is observed at chunk boundaries. On cancellation or any
// failure the operation aborts immediately; whatever prefix was already
// written remains in output and must be discarded by the caller.
func (c *Codec) Encrypt(ctx context.Context, input io.Reader, output io.Writer, passphrase string) error {
	if input == nil || output == nil {
		richErr := goerrors.New(ErrCodeInvalidArgument, "input and output streams cannot be nil")
		return fmt.Errorf("%w: %w", ErrInvalidArgument, richErr)
	}

	sealer, err := c.cipherFor(passphrase)
	if err != nil {
		return err
	}

	nonceBuf := getBuffer(NonceSize)
	defer putBuffer(nonceBuf)
	nonce := (*nonceBuf)[:NonceSize]

	if err := c.random.NextBytes(nonce); err != nil {
		return err
	}
	if _, err := output.Write(nonce); err != nil {
		richErr := goerrors.Wrap(err, ErrCodeWrite, "failed to write stream nonce")
		return fmt.Errorf("%w: %w", ErrIO, richErr)
	}

	plainBuf := getBuffer(ChunkSize)
	defer putBuffer(plainBuf)
	plain := (*plainBuf)[:ChunkSize]

	sealedBuf := getBuffer(ChunkSize + TagSize)
	defer putBuffer(sealedBuf)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := io.ReadFull(input, plain)
		if err == io.EOF {
			return nil
		}
		last := err == io.ErrUnexpectedEOF
		if err != nil && !last {
			richErr := goerrors.Wrap(err, ErrCodeChunkRead, "failed to read plaintext chunk")
			return fmt.Errorf("%w: %w", ErrIO, richErr)
		}

		ciphertext, tag := sealer.Seal((*sealedBuf)[:0], nonce, plain[:n])

		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := output.Write(tag); err != nil {
			richErr := goerrors.Wrap(err, ErrCodeWrite, "failed to write chunk tag")
			return fmt.Errorf("%w: %w", ErrIO, richErr)
		}
		if _, err := output.Write(ciphertext); err != nil {
			richErr := goerrors.Wrap(err, ErrCodeWrite, "failed to write ciphertext chunk")
			return fmt.Errorf("%w: %w", ErrIO, richErr)
		}

		if last {
			return nil
		}
	}
}

// Decrypt reads an encrypted container from input and writes the recovered
// plaintext to output. An empty passphrase selects DefaultPassphrase.
//
// Each chunk is verified before any of its plaintext is emitted; a failed
// tag aborts the whole operation. A chunk shorter than ChunkSize is only
// valid as the last one in the container; data appended past the true end
// of a container is always rejected, as a framing error or an
// authentication failure depending on where it lands. The caller must
// discard partial output on failure.
func (c *Codec) Decrypt(ctx context.Context, input io.Reader, output io.Writer, passphrase string) error {
	if input == nil || output == nil {
		richErr := goerrors.New(ErrCodeInvalidArgument, "input and output streams cannot be nil")
		return fmt.Errorf("%w: %w", ErrInvalidArgument, richErr)
	}

	sealer, err := c.cipherFor(passphrase)
	if err != nil {
		return err
	}

	nonceBuf := getBuffer(NonceSize)
	defer putBuffer(nonceBuf)
	nonce := (*nonceBuf)[:NonceSize]

	if _, err := io.ReadFull(input, nonce); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			richErr := goerrors.New(ErrCodeNonceRead, "container truncated inside stream nonce")
			return fmt.Errorf("%w: %w", ErrNonceRead, richErr)
		}
		richErr := goerrors.Wrap(err, ErrCodeNonceRead, "failed to read stream nonce")
		return fmt.Errorf("%w: %w", ErrIO, richErr)
	}

	tagBuf := getBuffer(TagSize)
	defer putBuffer(tagBuf)
	tag := (*tagBuf)[:TagSize]

	cipherBuf := getBuffer(ChunkSize)
	defer putBuffer(cipherBuf)
	ciphertext := (*cipherBuf)[:ChunkSize]

	plainBuf := getBuffer(ChunkSize)
	defer putBuffer(plainBuf)

	sawShortChunk := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tn, err := io.ReadFull(input, tag)
		if err == io.EOF {
			// Clean end of container.
			return nil
		}
		if tn > 0 && sawShortChunk {
			// A chunk shorter than ChunkSize is only produced at the end
			// of a container, so any tag bytes after one are residual
			// input that was never part of the stream.
			richErr := goerrors.New(ErrCodeTrailingData, "data found after the final chunk")
			return fmt.Errorf("%w: %w", ErrTrailingData, richErr)
		}
		if err == io.ErrUnexpectedEOF {
			richErr := goerrors.New(ErrCodeTagRead, fmt.Sprintf("container truncated inside chunk tag: got %d of %d bytes", tn, TagSize))
			return fmt.Errorf("%w: %w", ErrTagRead, richErr)
		}
		if err != nil {
			richErr := goerrors.Wrap(err, ErrCodeTagRead, "failed to read chunk tag")
			return fmt.Errorf("%w: %w", ErrIO, richErr)
		}

		n, err := io.ReadFull(input, ciphertext)
		switch err {
		case nil:
		case io.EOF, io.ErrUnexpectedEOF:
			sawShortChunk = true
		default:
			richErr := goerrors.Wrap(err, ErrCodeChunkRead, "failed to read ciphertext chunk")
			return fmt.Errorf("%w: %w", ErrIO, richErr)
		}

		plain, err := sealer.Open((*plainBuf)[:0], nonce, ciphertext[:n], tag)
		if err != nil {
			richErr := goerrors.Wrap(err, ErrCodeAuthFailed, "chunk failed authentication")
			return fmt.Errorf("%w: %w", ErrAuthentication, richErr)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := output.Write(plain); err != nil {
			richErr := goerrors.Wrap(err, ErrCodeWrite, "failed to write plaintext chunk")
			return fmt.Errorf("%w: %w", ErrIO, richErr)
		}
	}
}
