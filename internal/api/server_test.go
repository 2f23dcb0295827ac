package api

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/paperdeskapp/paperdesk-server/internal/config"
	"github.com/paperdeskapp/paperdesk-server/internal/render"
	"github.com/paperdeskapp/paperdesk-server/internal/search"
	"github.com/paperdeskapp/paperdesk-server/internal/service"
	"github.com/paperdeskapp/paperdesk-server/internal/store"
)

// testServer bundles the server with the pieces tests poke at directly.
type testServer struct {
	*Server
	api       humatest.TestAPI
	backend   *store.MemoryBackend
	workspace *service.Workspace
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := store.NewMemoryBackend()

	idx, err := search.NewSearchIndex(search.Options{
		IndexPath: filepath.Join(t.TempDir(), "search.bleve"),
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	ws := service.New(backend, render.NewFakeRenderer("alpha page text", "beta page text"), idx, service.Options{
		AutosaveDelay: 20 * time.Millisecond,
		Logger:        logger,
	})
	require.NoError(t, ws.Load(t.Context()))
	t.Cleanup(func() { _ = ws.Shutdown(context.Background()) })

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:           "PaperDesk API Test",
			AllowedOrigins: []string{"*"},
		},
		Workspace: config.WorkspaceConfig{
			AutosaveDelay:  20 * time.Millisecond,
			MaxUploadBytes: 1 << 20,
		},
	}

	srv := NewServer(ws, cfg, logger)

	return &testServer{
		Server:    srv,
		api:       humatest.Wrap(t, srv.api),
		backend:   backend,
		workspace: ws,
	}
}

// activePaperID returns the ID of the bootstrap paper Load created.
func (ts *testServer) activePaperID() string {
	return ts.workspace.ActiveTabID()
}
