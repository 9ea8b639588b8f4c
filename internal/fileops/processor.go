// processor.go: Concurrent file-level front end over the stream codec.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

// Package fileops turns the streaming codec into a file tool: each input
// file is encrypted or decrypted into a sibling file whose name carries the
// configured suffix, with a bounded number of files in flight at once.
package fileops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/quarkshare/streamcrypt"
)

// DefaultSuffix is appended to encrypted files and stripped on decryption.
const DefaultSuffix = ".scx"

// Config carries the runtime options for a processing run.
type Config struct {
	// Passphrase protects the files; empty selects the codec's built-in
	// default passphrase.
	Passphrase string

	// Suffix derives the output name: appended when encrypting, required
	// and stripped when decrypting.
	Suffix string

	// Parallel bounds how many files are processed concurrently.
	Parallel int

	// Decrypt selects the direction.
	Decrypt bool

	// Files are the input paths.
	Files []string
}

// Validate rejects configurations the processor cannot run with.
func (c Config) Validate() error {
	if c.Suffix == "" {
		return errors.New("suffix cannot be empty")
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	if len(c.Files) == 0 {
		return errors.New("no input files given")
	}
	return nil
}

// Processor runs the codec over a set of files.
type Processor struct {
	cfg   Config
	codec *streamcrypt.Codec
	log   *logrus.Logger
}

// NewProcessor validates the configuration and creates a processor.
// A nil logger falls back to the logrus standard logger.
func NewProcessor(cfg Config, log *logrus.Logger) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Processor{
		cfg:   cfg,
		codec: streamcrypt.NewCodec(),
		log:   log,
	}, nil
}

// Run processes every configured file, at most cfg.Parallel at a time.
// The first failure cancels the remaining work; files already completed
// stay on disk, failed outputs are removed.
func (p *Processor) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.cfg.Parallel)

	for _, path := range p.cfg.Files {
		group.Go(func() error {
			return p.processFile(ctx, path)
		})
	}

	return group.Wait()
}

// processFile encrypts or decrypts a single file into its derived sibling.
// A partially written output is removed on any failure: the codec's streams
// are void unless they complete.
func (p *Processor) processFile(ctx context.Context, path string) error {
	outPath, err := p.outputPath(path)
	if err != nil {
		return err
	}

	in, err := os.Open(path) // #nosec G304 -- paths come from the CLI invocation
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(outPath) // #nosec G304 -- derived from the CLI input path
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}

	if p.cfg.Decrypt {
		err = p.codec.Decrypt(ctx, in, out, p.cfg.Passphrase)
	} else {
		err = p.codec.Encrypt(ctx, in, out, p.cfg.Passphrase)
	}
	if err != nil {
		_ = out.Close()
		_ = os.Remove(outPath)
		return fmt.Errorf("processing %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(outPath)
		return fmt.Errorf("finalizing %s: %w", outPath, err)
	}

	p.log.WithFields(logrus.Fields{
		"input":  path,
		"output": outPath,
		"mode":   p.mode(),
	}).Info("file processed")

	return nil
}

// outputPath derives the sibling output name from the configured suffix.
func (p *Processor) outputPath(path string) (string, error) {
	if p.cfg.Decrypt {
		if !strings.HasSuffix(path, p.cfg.Suffix) {
			return "", fmt.Errorf("%s: encrypted files must carry the %q suffix", path, p.cfg.Suffix)
		}
		return strings.TrimSuffix(path, p.cfg.Suffix), nil
	}
	return path + p.cfg.Suffix, nil
}

func (p *Processor) mode() string {
	if p.cfg.Decrypt {
		return "decrypt"
	}
	return "encrypt"
}
