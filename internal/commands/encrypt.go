// encrypt.go: Encrypt subcommand.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"github.com/spf13/cobra"

	"github.com/quarkshare/streamcrypt/internal/fileops"
)

// NewEncryptCommand creates the cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *fileops.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] files...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Files = args
			cfg.Decrypt = false

			return run(cmd.Context(), *cfg)
		},
	}
}
