// Package tokencache persists the Google authorization artifact between
// sync runs.
package tokencache

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/gradescope-sync/internal/crypto"
)

// Cache is the on-disk home of the authorized-user token. It is seeded
// from the environment in CI and reused as a local cache otherwise;
// when a passphrase is configured the artifact is encrypted at rest.
type Cache struct {
	path string
	enc  *crypto.Encryptor
}

// New creates a Cache at path, expanding a leading ~ and creating the
// parent directory if needed. An empty passphrase disables encryption.
func New(path, passphrase string) (*Cache, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating token directory: %w", err)
		}
	}

	return &Cache{
		path: path,
		enc:  crypto.NewEncryptor(passphrase),
	}, nil
}

// Seed decodes a base64 artifact (as passed through the environment)
// and writes it to the cache, overwriting whatever was there.
func (c *Cache) Seed(encoded string) error {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return fmt.Errorf("decoding token from environment: %w", err)
	}
	return c.Save(data)
}

// Exists reports whether a cached artifact is on disk.
func (c *Cache) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// Load reads and, when configured, decrypts the cached artifact. A
// plaintext file read with a configured passphrase passes through
// unchanged, so enabling encryption later does not orphan old caches.
func (c *Cache) Load() ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("reading token cache: %w", err)
	}

	plain, err := c.enc.Decrypt(string(data))
	if err != nil {
		return nil, fmt.Errorf("decrypting token cache: %w", err)
	}
	return []byte(plain), nil
}

// Save encrypts (when configured) and writes the artifact with
// owner-only permissions.
func (c *Cache) Save(data []byte) error {
	out, err := c.enc.Encrypt(string(data))
	if err != nil {
		return fmt.Errorf("encrypting token cache: %w", err)
	}
	if err := os.WriteFile(c.path, []byte(out), 0600); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}
	return nil
}

// Path returns the on-disk location of the cache.
func (c *Cache) Path() string {
	return c.path
}
