// root.go: Root command wiring shared flags for the subcommands.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quarkshare/streamcrypt/internal/fileops"
)

// NewRootCommand creates the root command with the flags shared by every
// subcommand. The passphrase defaults to the STREAMCRYPT_PASSPHRASE
// environment variable so it can be kept out of shell history.
func NewRootCommand(version string) *cobra.Command {
	cfg := &fileops.Config{}
	var verbose bool

	cmd := &cobra.Command{
		Use:          "streamcrypt",
		Short:        "Encrypt and decrypt files with passphrase-protected streaming AES-256-GCM",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&cfg.Passphrase, "passphrase", "p",
		os.Getenv("STREAMCRYPT_PASSPHRASE"),
		"passphrase protecting the files (empty selects the built-in default)")
	cmd.PersistentFlags().StringVar(&cfg.Suffix, "suffix", fileops.DefaultSuffix,
		"suffix appended to encrypted files and stripped on decryption")
	cmd.PersistentFlags().IntVarP(&cfg.Parallel, "parallel", "j", runtime.NumCPU(),
		"maximum number of files processed concurrently")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	cmd.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
	)

	return cmd
}
