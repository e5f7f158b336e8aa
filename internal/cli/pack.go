package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/obscurcore/obsc/internal/container"
	"github.com/obscurcore/obsc/internal/kdf"
	"github.com/obscurcore/obsc/internal/keyagreement"
	"github.com/obscurcore/obsc/internal/manifest"
	"github.com/obscurcore/obsc/internal/prekey"
	"github.com/obscurcore/obsc/internal/registry"
)

func init() {
	packCmd.SilenceErrors = true
	packCmd.SilenceUsage = true
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().StringArrayVarP(&packInputs, "input", "i", nil, "item to pack (repeatable)")
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "output container path")
	packCmd.Flags().StringVar(&packScheme, "scheme", "simple", "payload layout: simple, frameshift, fabric")
	packCmd.Flags().StringVarP(&packPassword, "password", "p", "", "symmetric passphrase (prompted if omitted and no receiver key given)")
	packCmd.Flags().StringArrayVar(&packSecretFiles, "secret-file", nil, "additional secret file combined with the passphrase into the pre-key (repeatable)")
	packCmd.Flags().BoolVar(&packOrderedSecrets, "ordered-secrets", false, "combine --password/--secret-file in the order given instead of order-independently")
	packCmd.Flags().StringVar(&packReceiverPub, "receiver-pubkey", "", "hex-encoded X25519 receiver static public key (enables UM1-hybrid)")
	packCmd.Flags().StringVar(&packSenderPriv, "sender-privkey", "", "hex-encoded X25519 sender static private key, required with --receiver-pubkey")
	packCmd.Flags().StringVarP(&packComment, "comment", "c", "", "plaintext comment stored in the header")
	packCmd.Flags().BoolVar(&packTrailerMAC, "trailer-mac", false, "append a whole-container trailer MAC")
	packCmd.Flags().BoolVar(&packKeyConfirm, "key-confirmation", true, "embed a key-confirmation blob")
	packCmd.Flags().BoolVarP(&packQuiet, "quiet", "q", false, "suppress progress output")
	_ = packCmd.MarkFlagRequired("input")
	_ = packCmd.MarkFlagRequired("output")
}

var (
	packInputs         []string
	packOutput         string
	packScheme         string
	packPassword       string
	packSecretFiles    []string
	packOrderedSecrets bool
	packReceiverPub    string
	packSenderPriv     string
	packComment        string
	packTrailerMAC     bool
	packKeyConfirm     bool
	packQuiet          bool
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Pack items into an OBSC container",
	RunE:  runPack,
}

func layoutFlag(name string) (manifest.LayoutScheme, error) {
	switch name {
	case "simple":
		return manifest.LayoutSimple, nil
	case "frameshift":
		return manifest.LayoutFrameshift, nil
	case "fabric":
		return manifest.LayoutFabric, nil
	default:
		return 0, fmt.Errorf("unknown --scheme %q (want simple, frameshift, fabric)", name)
	}
}

func runPack(cmd *cobra.Command, args []string) error {
	layout, err := layoutFlag(packScheme)
	if err != nil {
		return err
	}

	items := make([]manifest.ItemInput, 0, len(packInputs))
	for _, path := range packInputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		items = append(items, manifest.ItemInput{
			Path:      filepath.Base(path),
			Type:      manifest.ItemFile,
			Plaintext: data,
			Cipher:    registry.CipherXChaCha20,
			MAC:       registry.MACBLAKE2bKeyed,
		})
	}

	opts := manifest.WriteOptions{
		ManifestCipher:  registry.CipherXChaCha20,
		ManifestMAC:     registry.MACBLAKE2bKeyed,
		KDFParams:       kdf.DefaultParams(registry.KDFScrypt),
		KeyConfirmation: packKeyConfirm,
		TrailerMAC:      packTrailerMAC,
		Layout:          layout,
		Entropy:         manifest.EntropyStreamCipherCsprng,
		MinPadding:      16,
		MaxPadding:      256,
		MinStripe:       64,
		MaxStripe:       1024,
		Comment:         packComment,
	}

	session := container.New()
	defer session.Close()

	if packReceiverPub != "" {
		if packSenderPriv == "" {
			return fmt.Errorf("--sender-privkey is required with --receiver-pubkey")
		}
		senderPrivBytes, err := decodeHex(packSenderPriv, "--sender-privkey")
		if err != nil {
			return err
		}
		receiverPubBytes, err := decodeHex(packReceiverPub, "--receiver-pubkey")
		if err != nil {
			return err
		}
		senderKP, err := keyagreement.FromPrivate(registry.CurveX25519, senderPrivBytes)
		if err != nil {
			return fmt.Errorf("--sender-privkey: %w", err)
		}
		opts.Scheme = manifest.SchemeUM1Hybrid
		opts.Curve = registry.CurveX25519
		opts.SenderStatic = senderKP
		opts.ReceiverStaticPublic = receiverPubBytes
	} else {
		opts.Scheme = manifest.SchemeSymmetricDirect
		password := packPassword
		if password == "" {
			pw, _, err := ReadPasswordInteractive(true)
			if err != nil {
				return err
			}
			password = pw
		}

		secrets := [][]byte{[]byte(password)}
		for _, path := range packSecretFiles {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading --secret-file %s: %w", path, err)
			}
			secrets = append(secrets, data)
		}
		preKey := prekey.Combine(secrets, packOrderedSecrets)
		if len(packSecretFiles) > 0 && prekey.IsDegenerate(preKey) {
			return fmt.Errorf("pack: combined pre-key secrets cancel out to all-zero (duplicate --secret-file entries under unordered combination?)")
		}
		opts.PreKey = preKey
	}

	reporter := NewReporter(packQuiet)
	reporter.Progress(0, "packing")
	result, err := session.Pack(container.PackRequest{Items: items, Options: opts})
	if err != nil {
		reporter.PrintError("%v", err)
		return err
	}
	if err := os.WriteFile(packOutput, result.Bytes, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", packOutput, err)
	}
	reporter.Finish()
	reporter.PrintSuccess("packed %d item(s) into %s (%d bytes)", len(items), packOutput, len(result.Bytes))
	return nil
}
