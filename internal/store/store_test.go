package store

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	s, err := Open(t.TempDir(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	return s, func() {
		require.NoError(t, s.Close())
	}
}

func testState() *domain.AppState {
	state := domain.NewAppState()
	p := domain.NewPaper("tab-one", "Thesis Draft")
	p.Notes = "chapter two needs work"
	p.Highlights = []domain.Highlight{
		{
			ID:    "hl-one",
			Text:  "conclusion",
			Page:  3,
			Rects: []domain.Rect{{Left: 10, Top: 20, Width: 110, Height: 14}},
			Color: domain.ColorYellow,
			Scale: 1.5,
		},
	}
	state.Append(p)
	state.Append(domain.NewPaper("tab-two", "Untitled Paper"))
	state.ActiveTabID = "tab-two"
	return state
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := t.Context()

	require.NoError(t, s.SaveAppState(ctx, testState()))

	loaded, err := s.LoadAppState(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	require.Len(t, loaded.Tabs, 2)
	assert.Equal(t, "tab-two", loaded.ActiveTabID)
	assert.Equal(t, "Thesis Draft", loaded.Tabs[0].Name)
	assert.Equal(t, "chapter two needs work", loaded.Tabs[0].Notes)
	require.Len(t, loaded.Tabs[0].Highlights, 1)
	assert.Equal(t, 1.5, loaded.Tabs[0].Highlights[0].Scale)
}

func TestStoreLoadEmpty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	loaded, err := s.LoadAppState(t.Context())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStoreSaveRemovesStaleTabs(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := t.Context()

	require.NoError(t, s.SaveAppState(ctx, testState()))

	// A new snapshot without tab-one must not resurrect it on load.
	next := domain.NewAppState()
	next.Append(domain.NewPaper("tab-two", "Kept"))
	require.NoError(t, s.SaveAppState(ctx, next))

	loaded, err := s.LoadAppState(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Tabs, 1)
	assert.Equal(t, "tab-two", loaded.Tabs[0].ID)
	assert.Equal(t, "Kept", loaded.Tabs[0].Name)
}

func TestStoreTabOrderPreserved(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := t.Context()

	state := domain.NewAppState()
	for _, id := range []string{"tab-c", "tab-a", "tab-b"} {
		state.Append(domain.NewPaper(id, id))
	}
	require.NoError(t, s.SaveAppState(ctx, state))

	loaded, err := s.LoadAppState(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Tabs, 3)
	assert.Equal(t, "tab-c", loaded.Tabs[0].ID)
	assert.Equal(t, "tab-a", loaded.Tabs[1].ID)
	assert.Equal(t, "tab-b", loaded.Tabs[2].ID)
}

func TestStoreDocumentBlobs(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := t.Context()

	assert.True(t, s.Capabilities().DocumentBlobs)

	data := []byte("%PDF-1.7 fake")
	require.NoError(t, s.PutDocumentBlob(ctx, "tab-one", data, "paper.pdf"))

	got, err := s.GetDocumentBlob(ctx, "tab-one")
	require.NoError(t, err)
	assert.Equal(t, data, got.Data)
	assert.Equal(t, "paper.pdf", got.FileName)
	assert.False(t, got.UploadedAt.IsZero())

	require.NoError(t, s.DeleteDocumentBlob(ctx, "tab-one"))

	_, err = s.GetDocumentBlob(ctx, "tab-one")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, s.DeleteDocumentBlob(ctx, "tab-one"))
}
