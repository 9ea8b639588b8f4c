// decrypt.go: Decrypt subcommand.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"github.com/spf13/cobra"

	"github.com/quarkshare/streamcrypt/internal/fileops"
)

// NewDecryptCommand creates the cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *fileops.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] files...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Files = args
			cfg.Decrypt = true

			return run(cmd.Context(), *cfg)
		},
	}
}
