package provision

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
)

// privateKey is a private key read from the host before any provisioning call.
type privateKey struct {
	path    string
	name    string
	content string
}

// loadPrivateKeys resolves every privkeys entry up front so that a bad entry
// fails the whole pass before anything is declared.
func (c *Configurator) loadPrivateKeys(paths []string) ([]privateKey, error) {
	if len(paths) == 0 {
		return nil, &ValidationError{Field: "privkeys", Err: ErrNoPrivateKeys}
	}

	keys := make([]privateKey, 0, len(paths))
	for i, p := range paths {
		field := fmt.Sprintf("privkeys[%d]", i)

		expanded, err := c.expand(p)
		if err != nil {
			return nil, &ValidationError{Field: field, Value: p, Err: ErrPrivateKeyNotFound}
		}
		exists, err := afero.Exists(c.fs, expanded)
		if err != nil || !exists {
			return nil, &ValidationError{Field: field, Value: p, Err: ErrPrivateKeyNotFound}
		}

		data, err := afero.ReadFile(c.fs, expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key %s: %w", p, err)
		}

		c.log.Debug("Private key found", "path", expanded, "type", privateKeyType(data))
		keys = append(keys, privateKey{
			path:    expanded,
			name:    filepath.Base(expanded),
			content: strings.TrimRight(string(data), "\r\n"),
		})
	}

	return keys, nil
}

// privateKeyType names the key algorithm for logging; encrypted keys can't be
// inspected without their passphrase.
func privateKeyType(data []byte) string {
	key, err := ssh.ParseRawPrivateKey(data)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			if missing.PublicKey != nil {
				return missing.PublicKey.Type() + " (encrypted)"
			}
			return "encrypted"
		}
		return "unknown"
	}

	signer, err := ssh.NewSignerFromKey(key)
	if err != nil {
		return "unknown"
	}
	return signer.PublicKey().Type()
}

// readPublicKey returns the trimmed authorized_keys line at path, or "" when the
// file is missing or unreadable.
func (c *Configurator) readPublicKey(path string) string {
	expanded, err := c.expand(path)
	if err != nil {
		c.log.Warn("Public key path is invalid", "path", path, "error", err)
		return ""
	}

	data, err := afero.ReadFile(c.fs, expanded)
	if err != nil {
		c.log.Warn("Public key is not readable, skipping", "path", expanded, "error", err)
		return ""
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		c.log.Warn("Public key is empty, skipping", "path", expanded)
		return ""
	}

	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(content))
	if err != nil {
		c.log.Warn("Public key does not parse as an authorized key, injecting as-is", "path", expanded, "error", err)
	} else {
		c.log.Debug("Public key found", "path", expanded, "type", pub.Type(), "fingerprint", ssh.FingerprintSHA256(pub))
	}

	return content
}
