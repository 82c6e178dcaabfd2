package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "jira-stats"

// ErrNotFound is returned when no token is stored for a user
var ErrNotFound = errors.New("no token stored")

// Open returns the system keyring used for Jira API tokens
func Open() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/jira-stats/credentials",
		FilePasswordFunc:         keyring.TerminalPrompt,
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Token retrieves the API token stored for username
func Token(ring keyring.Keyring, username string) (string, error) {
	item, err := ring.Get(username)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("getting token for %q: %w", username, ErrNotFound)
		}
		return "", fmt.Errorf("getting token for %q: %w", username, err)
	}

	return string(item.Data), nil
}

// StoreToken stores the API token for username
func StoreToken(ring keyring.Keyring, username, token string) error {
	err := ring.Set(keyring.Item{
		Key:         username,
		Data:        []byte(token),
		Label:       fmt.Sprintf("Jira API token for %s", username),
		Description: "Jira API token",
	})
	if err != nil {
		return fmt.Errorf("storing token for %q: %w", username, err)
	}

	return nil
}
