package secrets

import (
	"context"
	"sync"

	"message-board/backend/pkg/logger"
)

// Manager provides access to secrets from various sources
type Manager interface {
	// GetSecret retrieves a secret by key
	GetSecret(ctx context.Context, key string) (string, error)

	// GetSecretWithDefault retrieves a secret with a default value if not found
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

var (
	mu             sync.RWMutex
	defaultManager Manager
)

// Init installs a Vault-backed manager configured from the environment
func Init(log *logger.Logger) error {
	manager, err := NewVaultManager(VaultConfigFromEnv(), log)
	if err != nil {
		return err
	}
	SetManager(manager)
	return nil
}

// GetSecret retrieves a secret from the default manager
func GetSecret(ctx context.Context, key string) (string, error) {
	m := current()
	if m == nil {
		return "", ErrManagerNotInitialized
	}
	return m.GetSecret(ctx, key)
}

// GetSecretWithDefault retrieves a secret, returning defaultValue when no
// manager is installed or the secret cannot be read
func GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	m := current()
	if m == nil {
		return defaultValue
	}
	return m.GetSecretWithDefault(ctx, key, defaultValue)
}

// SetManager replaces the default secrets manager
func SetManager(manager Manager) {
	mu.Lock()
	defer mu.Unlock()
	defaultManager = manager
}

func current() Manager {
	mu.RLock()
	defer mu.RUnlock()
	return defaultManager
}
