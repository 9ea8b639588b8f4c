// Package commands provides the command-line interface for the streamcrypt
// tool: encryption and decryption of files through the streaming codec,
// with flag and environment variable handling via cobra.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0
package commands

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/quarkshare/streamcrypt/internal/fileops"
)

// run hands a validated configuration to the file processor.
func run(ctx context.Context, cfg fileops.Config) error {
	proc, err := fileops.NewProcessor(cfg, logrus.StandardLogger())
	if err != nil {
		return err
	}
	return proc.Run(ctx)
}
