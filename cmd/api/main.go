// Package main provides the entry point for the PaperDesk server application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/di"
	"github.com/paperdeskapp/paperdesk-server/internal/di/providers"
	"github.com/paperdeskapp/paperdesk-server/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Shutdown all services in reverse order.
	// The DI container handles shutdown order automatically.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// The workspace flushes its final snapshot before the backend closes;
	// make both explicit since they use wrapper types.
	if wsHandle, err := do.Invoke[*providers.WorkspaceHandle](injector); err == nil {
		if err := wsHandle.Shutdown(); err != nil {
			log.Error("Failed to shut down workspace", "error", err)
		}
	}

	if backendHandle, err := do.Invoke[*providers.BackendHandle](injector); err == nil {
		log.Info("Closing database...")
		if err := backendHandle.Shutdown(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}

	if searchHandle, err := do.Invoke[*providers.SearchIndexHandle](injector); err == nil {
		log.Info("Closing search index...")
		if err := searchHandle.Shutdown(); err != nil {
			log.Error("Failed to close search index", "error", err)
		}
	}

	log.Info("Desk is clear. Goodbye.")
}
