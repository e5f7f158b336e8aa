// Package cli implements the obsc command-line front end (spec.md §6):
// pack, list, and extract subcommands over the container/manifest
// pipeline, grounded on the teacher's internal/cli package (cobra root +
// subcommands, interactive/piped passphrase entry, single-line progress
// reporter) generalized from one fixed volume format to the registry-driven
// engine.
package cli

import (
	"github.com/spf13/cobra"

	obscerrors "github.com/obscurcore/obsc/internal/errors"
)

// Exit codes per spec.md §6.
const (
	ExitSuccess            = 0
	ExitBadConfiguration   = 2
	ExitAuthenticationFail = 3
	ExitKeyNotFound        = 4
	ExitFormatError        = 5
)

var rootCmd = &cobra.Command{
	Use:   "obsc",
	Short: "Pack and extract OBSC containers",
	Long: `obsc packages one or more items into a single authenticated,
multiplexed container, and extracts them back out.

Every item is individually encrypted and MAC'd; the package index (the
manifest) is itself encrypted and MAC'd under a key derived either from a
passphrase or from a UM1 hybrid key agreement with a recipient's static
public key; the resulting ciphertext spans are woven together by one of
three payload layouts (simple, frameshift, fabric) before being written to
the container.`,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Execute runs the CLI and returns the process exit code spec.md §6 names.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// exitCodeFor maps a typed engine error to spec.md §6's exit code scheme.
func exitCodeFor(err error) int {
	switch {
	case obscerrors.Is(err, obscerrors.ErrNoMatchingKey):
		return ExitKeyNotFound
	case obscerrors.Is(err, obscerrors.ErrTruncatedHeader),
		obscerrors.Is(err, obscerrors.ErrTruncatedManifest),
		obscerrors.Is(err, obscerrors.ErrTruncatedPayload),
		obscerrors.Is(err, obscerrors.ErrSchemaVersionUnsupported),
		obscerrors.Is(err, obscerrors.ErrInvalidPadding):
		return ExitFormatError
	}
	var mac *obscerrors.MacMismatch
	if obscerrors.As(err, &mac) {
		return ExitAuthenticationFail
	}
	var payloadAuth *obscerrors.PayloadAuthFail
	if obscerrors.As(err, &payloadAuth) {
		return ExitAuthenticationFail
	}
	var cfg *obscerrors.InvalidConfiguration
	if obscerrors.As(err, &cfg) {
		return ExitBadConfiguration
	}
	var keySize *obscerrors.KeySizeMismatch
	if obscerrors.As(err, &keySize) {
		return ExitBadConfiguration
	}
	var nonceSize *obscerrors.NonceSizeMismatch
	if obscerrors.As(err, &nonceSize) {
		return ExitBadConfiguration
	}
	return ExitFormatError
}
