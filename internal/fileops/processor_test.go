// processor_test.go: Test cases for the file-level front end.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package fileops

import (
	"context"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarkshare/streamcrypt"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeTestFile(t *testing.T, dir, name string, size int) (string, []byte) {
	t.Helper()
	payload := make([]byte, size)
	_, err := rand.Read(payload)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, payload, 0o600))
	return path, payload
}

// TestProcessorRoundTrip encrypts files in place, decrypts them back, and
// compares contents.
func TestProcessorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	aPath, aPayload := writeTestFile(t, dir, "a.bin", 100)
	bPath, bPayload := writeTestFile(t, dir, "b.bin", 40_000)

	enc, err := NewProcessor(Config{
		Passphrase: "file-test",
		Suffix:     DefaultSuffix,
		Parallel:   2,
		Files:      []string{aPath, bPath},
	}, testLogger())
	require.NoError(t, err)
	require.NoError(t, enc.Run(ctx))

	require.FileExists(t, aPath+DefaultSuffix)
	require.FileExists(t, bPath+DefaultSuffix)

	// Remove the originals so decryption demonstrably recreates them.
	require.NoError(t, os.Remove(aPath))
	require.NoError(t, os.Remove(bPath))

	dec, err := NewProcessor(Config{
		Passphrase: "file-test",
		Suffix:     DefaultSuffix,
		Parallel:   2,
		Decrypt:    true,
		Files:      []string{aPath + DefaultSuffix, bPath + DefaultSuffix},
	}, testLogger())
	require.NoError(t, err)
	require.NoError(t, dec.Run(ctx))

	gotA, err := os.ReadFile(aPath)
	require.NoError(t, err)
	assert.Equal(t, aPayload, gotA)

	gotB, err := os.ReadFile(bPath)
	require.NoError(t, err)
	assert.Equal(t, bPayload, gotB)
}

// TestProcessorWrongPassphraseRemovesOutput verifies a failed decryption
// leaves no partial output file behind.
func TestProcessorWrongPassphraseRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	path, _ := writeTestFile(t, dir, "secret.bin", 10_000)

	enc, err := NewProcessor(Config{
		Passphrase: "correct",
		Suffix:     DefaultSuffix,
		Parallel:   1,
		Files:      []string{path},
	}, testLogger())
	require.NoError(t, err)
	require.NoError(t, enc.Run(ctx))
	require.NoError(t, os.Remove(path))

	dec, err := NewProcessor(Config{
		Passphrase: "wrong",
		Suffix:     DefaultSuffix,
		Parallel:   1,
		Decrypt:    true,
		Files:      []string{path + DefaultSuffix},
	}, testLogger())
	require.NoError(t, err)

	err = dec.Run(ctx)
	require.ErrorIs(t, err, streamcrypt.ErrAuthentication)
	assert.NoFileExists(t, path, "failed decryption must not leave partial plaintext")
}

// TestProcessorSuffixRequiredForDecrypt verifies decryption refuses inputs
// without the configured suffix.
func TestProcessorSuffixRequiredForDecrypt(t *testing.T) {
	dir := t.TempDir()
	path, _ := writeTestFile(t, dir, "plain.bin", 10)

	dec, err := NewProcessor(Config{
		Passphrase: "x",
		Suffix:     DefaultSuffix,
		Parallel:   1,
		Decrypt:    true,
		Files:      []string{path},
	}, testLogger())
	require.NoError(t, err)

	assert.Error(t, dec.Run(context.Background()))
}

// TestConfigValidate covers the configuration guard rails.
func TestConfigValidate(t *testing.T) {
	valid := Config{Suffix: DefaultSuffix, Parallel: 1, Files: []string{"f"}}
	assert.NoError(t, valid.Validate())

	missingSuffix := valid
	missingSuffix.Suffix = ""
	assert.Error(t, missingSuffix.Validate())

	badParallel := valid
	badParallel.Parallel = 0
	assert.Error(t, badParallel.Validate())

	noFiles := valid
	noFiles.Files = nil
	assert.Error(t, noFiles.Validate())
}
