package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/config"
	"github.com/paperdeskapp/paperdesk-server/internal/logger"
	"github.com/paperdeskapp/paperdesk-server/internal/render"
	"github.com/paperdeskapp/paperdesk-server/internal/service"
)

// ProvideRenderer provides the PDF renderer.
func ProvideRenderer(i do.Injector) (render.Renderer, error) {
	return render.NewFitzRenderer(), nil
}

// WorkspaceHandle wraps the workspace with shutdown capability.
type WorkspaceHandle struct {
	*service.Workspace
}

// Shutdown implements do.Shutdownable.
func (h *WorkspaceHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Workspace.Shutdown(ctx)
}

// logAlerts surfaces persistence degradation; the frontend polls /health
// for the same signal.
type logAlerts struct {
	log *logger.Logger
}

func (a *logAlerts) PersistenceDegraded(backend string, err error) {
	a.log.Error("Persistence degraded, edits are at risk", "backend", backend, "error", err)
}

// ProvideWorkspace provides the loaded workspace session.
func ProvideWorkspace(i do.Injector) (*WorkspaceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	backendHandle := do.MustInvoke[*BackendHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	renderer := do.MustInvoke[render.Renderer](i)

	ws := service.New(backendHandle.Backend, renderer, indexHandle.SearchIndex, service.Options{
		AutosaveDelay: cfg.Workspace.AutosaveDelay,
		Logger:        log.Logger,
		Alerts:        &logAlerts{log: log},
	})

	if err := ws.Load(context.Background()); err != nil {
		return nil, err
	}

	return &WorkspaceHandle{Workspace: ws}, nil
}
