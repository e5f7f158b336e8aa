package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Picocrypt/zxcvbn-go"
	"golang.org/x/term"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordEmpty    = errors.New("password cannot be empty")
)

func isTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// readPasswordSecure reads a password from stdin without echo, falling
// back to a buffered line read when stdin is not a terminal (piped input).
func readPasswordSecure(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if !isTerminal() {
		reader := bufio.NewReader(os.Stdin)
		pw, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(pw, "\r\n"), nil
	}

	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// ReadPasswordInteractive prompts for a passphrase, confirming it when
// confirm is set (packaging), and reports its zxcvbn strength score so a
// caller can warn before deriving a key from a weak passphrase.
func ReadPasswordInteractive(confirm bool) (string, int, error) {
	password, err := readPasswordSecure("Passphrase: ")
	if err != nil {
		return "", 0, err
	}
	if password == "" {
		return "", 0, ErrPasswordEmpty
	}
	if confirm {
		again, err := readPasswordSecure("Confirm passphrase: ")
		if err != nil {
			return "", 0, err
		}
		if password != again {
			return "", 0, ErrPasswordMismatch
		}
	}
	score := zxcvbn.PasswordStrength(password, nil).Score
	return password, score, nil
}

// ReadPasswordFromStdin reads one line from stdin without the terminal
// echo suppression, for scripted/piped invocations.
func ReadPasswordFromStdin() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	pw, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading passphrase from stdin: %w", err)
	}
	return strings.TrimRight(pw, "\r\n"), nil
}
