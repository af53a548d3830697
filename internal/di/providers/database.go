package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/samber/do/v2"

	"github.com/smartspb/mediabot/internal/config"
	"github.com/smartspb/mediabot/internal/logger"
	"github.com/smartspb/mediabot/internal/store/sqlite"
)

// InstanceLockHandle holds the data directory lock for the life of the process.
type InstanceLockHandle struct {
	*flock.Flock
}

// Shutdown implements do.ShutdownerWithError.
func (h *InstanceLockHandle) Shutdown() error {
	return h.Unlock()
}

// ProvideInstanceLock takes an exclusive lock on the data directory. Two
// processes polling with the same token would steal each other's updates.
func ProvideInstanceLock(i do.Injector) (*InstanceLockHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(cfg.Storage.DataPath, lockFileName)
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another instance is running (lock held on %s)", path)
	}

	log.Debug("Instance lock acquired", "path", path)
	return &InstanceLockHandle{Flock: lock}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.ShutdownerWithError.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	_ = do.MustInvoke[*InstanceLockHandle](i)

	db, err := sqlite.Open(cfg.Storage.DatabasePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Storage.DatabasePath)
	return &StoreHandle{Store: db}, nil
}
