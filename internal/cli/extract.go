package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/obscurcore/obsc/internal/container"
	"github.com/obscurcore/obsc/internal/keyagreement"
	"github.com/obscurcore/obsc/internal/manifest"
	"github.com/obscurcore/obsc/internal/prekey"
	"github.com/obscurcore/obsc/internal/registry"
)

func init() {
	extractCmd.SilenceErrors = true
	extractCmd.SilenceUsage = true
	listCmd.SilenceErrors = true
	listCmd.SilenceUsage = true
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(listCmd)

	for _, c := range []*cobra.Command{extractCmd, listCmd} {
		c.Flags().StringVarP(&extractInput, "input", "i", "", "container path")
		c.Flags().StringVarP(&extractPassword, "password", "p", "", "symmetric passphrase (prompted if omitted and no receiver key given)")
		c.Flags().StringArrayVar(&extractSecretFiles, "secret-file", nil, "additional secret file combined with the passphrase into the pre-key (repeatable; must match what pack used)")
		c.Flags().BoolVar(&extractOrderedSecrets, "ordered-secrets", false, "combine --password/--secret-file in the order given instead of order-independently (must match what pack used)")
		c.Flags().StringVar(&extractReceiverPriv, "receiver-privkey", "", "hex-encoded X25519 receiver static private key (UM1-hybrid containers)")
		_ = c.MarkFlagRequired("input")
	}
	extractCmd.Flags().StringVarP(&extractOutDir, "output", "o", "", "directory to write extracted items into")
	_ = extractCmd.MarkFlagRequired("output")
}

var (
	extractInput          string
	extractOutDir         string
	extractPassword       string
	extractSecretFiles    []string
	extractOrderedSecrets bool
	extractReceiverPriv   string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract an OBSC container's items to a directory",
	RunE:  runExtract,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List an OBSC container's items without writing them to disk",
	RunE:  runList,
}

func buildKeyProvider() (manifest.KeyProvider, error) {
	if extractReceiverPriv != "" {
		privBytes, err := decodeHex(extractReceiverPriv, "--receiver-privkey")
		if err != nil {
			return nil, err
		}
		kp, err := keyagreement.FromPrivate(registry.CurveX25519, privBytes)
		if err != nil {
			return nil, fmt.Errorf("--receiver-privkey: %w", err)
		}
		return manifest.NewReceiverProvider(kp), nil
	}

	password := extractPassword
	if password == "" {
		pw, err := ReadPasswordFromStdinOrPrompt()
		if err != nil {
			return nil, err
		}
		password = pw
	}

	secrets := [][]byte{[]byte(password)}
	for _, path := range extractSecretFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading --secret-file %s: %w", path, err)
		}
		secrets = append(secrets, data)
	}
	return manifest.NewPasswordProvider(prekey.Combine(secrets, extractOrderedSecrets)), nil
}

// ReadPasswordFromStdinOrPrompt reads a passphrase from a piped stdin when
// available, else prompts interactively without confirmation.
func ReadPasswordFromStdinOrPrompt() (string, error) {
	if !isTerminal() {
		return ReadPasswordFromStdin()
	}
	pw, _, err := ReadPasswordInteractive(false)
	return pw, err
}

func runExtract(cmd *cobra.Command, args []string) error {
	keys, err := buildKeyProvider()
	if err != nil {
		return err
	}

	in, err := os.Open(extractInput)
	if err != nil {
		return fmt.Errorf("opening %s: %w", extractInput, err)
	}
	defer in.Close()

	session := container.New()
	defer session.Close()

	result, err := session.Extract(container.ExtractRequest{Input: in, Keys: keys})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(extractOutDir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", extractOutDir, err)
	}
	for _, item := range result.Items {
		dest := filepath.Join(extractOutDir, filepath.Base(item.Path))
		if err := os.WriteFile(dest, item.Plaintext, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
	}
	fmt.Fprintf(os.Stderr, "extracted %d item(s) to %s\n", len(result.Items), extractOutDir)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	keys, err := buildKeyProvider()
	if err != nil {
		return err
	}

	in, err := os.Open(extractInput)
	if err != nil {
		return fmt.Errorf("opening %s: %w", extractInput, err)
	}
	defer in.Close()

	session := container.New()
	defer session.Close()

	result, err := session.Extract(container.ExtractRequest{Input: in, Keys: keys})
	if err != nil {
		return err
	}

	if result.Comment != "" {
		fmt.Printf("comment: %s\n", result.Comment)
	}
	for _, item := range result.Items {
		fmt.Printf("%-8s %10d  %s\n", item.Type.String(), len(item.Plaintext), item.Path)
	}
	return nil
}
