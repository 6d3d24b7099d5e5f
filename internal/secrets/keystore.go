// Package secrets keeps the node API key out of config.json by storing it in
// the OS keychain.
package secrets

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/99designs/keyring"
)

const (
	keychainService = "dappai"
	apiKeyRef       = keychainService + ".api-key"

	// PasswordEnv unlocks the encrypted file backend on hosts without a
	// keychain service.
	PasswordEnv = "DAPPAI_KEYRING_PASSWORD"
)

// ErrNotFound is returned when no API key has been stored.
var ErrNotFound = errors.New("api key not found in keychain")

// Keystore wraps OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

// New wraps an already opened keyring.
func New(ring keyring.Keyring) *Keystore {
	return &Keystore{ring: ring}
}

// Open returns a keystore backed by the OS keychain. dir holds the encrypted
// file backend used when no keychain service is reachable.
func Open(dir string, password keyring.PromptFunc) (*Keystore, error) {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
		FileDir:                  filepath.Join(dir, "keys"),
		FilePasswordFunc:         password,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		if ring, err = keyring.Open(cfg); err != nil {
			return nil, fmt.Errorf("opening keychain: %w", err)
		}
	}
	return &Keystore{ring: ring}, nil
}

// SetAPIKey stores the node API key.
func (k *Keystore) SetAPIKey(key string) error {
	if key == "" {
		return errors.New("api key is empty")
	}
	err := k.ring.Set(keyring.Item{
		Key:   apiKeyRef,
		Data:  []byte(key),
		Label: "dappai node API key",
	})
	if err != nil {
		return fmt.Errorf("keychain store: %w", err)
	}
	return nil
}

// APIKey returns the stored API key or ErrNotFound.
func (k *Keystore) APIKey() (string, error) {
	item, err := k.ring.Get(apiKeyRef)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// DeleteAPIKey removes the stored API key. It returns ErrNotFound when there
// is nothing to remove.
func (k *Keystore) DeleteAPIKey() error {
	if _, err := k.APIKey(); err != nil {
		return err
	}
	if err := k.ring.Remove(apiKeyRef); err != nil {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}
