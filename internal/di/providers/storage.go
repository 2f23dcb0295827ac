package providers

import (
	"errors"

	"github.com/samber/do/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/config"
	"github.com/paperdeskapp/paperdesk-server/internal/logger"
	"github.com/paperdeskapp/paperdesk-server/internal/store"
	"github.com/paperdeskapp/paperdesk-server/internal/store/sqlite"
)

// BackendHandle wraps the storage backend with shutdown capability.
type BackendHandle struct {
	store.Backend
}

// Shutdown implements do.Shutdownable.
func (h *BackendHandle) Shutdown() error {
	return h.Close()
}

// ProvideBackend selects and opens the storage backend. The Badger store is
// primary; when it cannot open (or fallback is forced) the process runs on
// the SQLite fallback, which keeps annotation state but not document bytes.
func ProvideBackend(i do.Injector) (*BackendHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Storage.ForceFallback {
		fallback, err := sqlite.Open(cfg.FallbackStorePath(), log.Logger)
		if err != nil {
			return nil, err
		}
		log.Warn("Fallback storage forced by configuration, document uploads are session-only",
			"path", cfg.FallbackStorePath())
		return &BackendHandle{Backend: store.NewAdapter(fallback, nil, log.Logger)}, nil
	}

	primary, err := store.Open(cfg.PrimaryStorePath(), log.Logger)
	if err != nil {
		log.Warn("Primary storage unavailable, degrading to fallback",
			"path", cfg.PrimaryStorePath(), "error", err)

		fallback, fbErr := sqlite.Open(cfg.FallbackStorePath(), log.Logger)
		if fbErr != nil {
			return nil, errors.Join(err, fbErr)
		}
		return &BackendHandle{Backend: store.NewAdapter(fallback, nil, log.Logger)}, nil
	}

	log.Info("Database initialized", "path", cfg.PrimaryStorePath())

	// The spare catches snapshot writes when the primary fails mid-session.
	var spare store.Backend
	if fallback, fbErr := sqlite.Open(cfg.FallbackStorePath(), log.Logger); fbErr != nil {
		log.Warn("Fallback storage unavailable, continuing without spare", "error", fbErr)
	} else {
		spare = fallback
	}

	return &BackendHandle{Backend: store.NewAdapter(primary, spare, log.Logger)}, nil
}
