// Package di provides dependency injection configuration for the PaperDesk server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/config"
	"github.com/paperdeskapp/paperdesk-server/internal/di/providers"
	"github.com/paperdeskapp/paperdesk-server/internal/logger"
	"github.com/paperdeskapp/paperdesk-server/internal/render"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideBackend)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Rendering and workspace session
	do.Provide(injector, providers.ProvideRenderer)
	do.Provide(injector, providers.ProvideWorkspace)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.BackendHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[render.Renderer](injector)
	_ = do.MustInvoke[*providers.WorkspaceHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
