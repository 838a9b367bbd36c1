package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallio/recall/pkg/models"
)

func TestChatHistoryStore_LoadMissingSession(t *testing.T) {
	s := NewChatHistoryStore(t.TempDir())

	history, err := s.Load(context.Background(), 1, "default")
	require.NoError(t, err)
	require.NotNil(t, history)
	assert.Empty(t, history.Messages)
	assert.Empty(t, history.Session.Provider)
}

func TestChatHistoryStore_SaveThenLoad(t *testing.T) {
	s := NewChatHistoryStore(t.TempDir())
	ctx := context.Background()

	history := &models.ChatHistory{
		Messages: []models.ChatMessage{
			{Role: models.RoleUser, Content: "hello"},
			{Role: models.RoleAssistant, Content: "hi", Provider: "openai", Model: "gpt-5.2"},
		},
		Session: models.SessionMeta{Provider: "openai", Model: "gpt-5.2"},
	}
	require.NoError(t, s.Save(ctx, 5, "work", history))

	loaded, err := s.Load(ctx, 5, "work")
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, models.RoleAssistant, loaded.Messages[1].Role)
	assert.Equal(t, "gpt-5.2", loaded.Messages[1].Model)
	assert.Equal(t, "openai", loaded.Session.Provider)
}

func TestChatHistoryStore_SessionsAreIndependent(t *testing.T) {
	s := NewChatHistoryStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, 5, "work", &models.ChatHistory{
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "about work"}},
	}))

	other, err := s.Load(ctx, 5, "personal")
	require.NoError(t, err)
	assert.Empty(t, other.Messages)
}

func TestChatHistoryStore_CorruptFileStartsEmpty(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "chat_history", "5", "default.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	s := NewChatHistoryStore(root)
	history, err := s.Load(context.Background(), 5, "default")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
}

func TestImportLegacyHistories(t *testing.T) {
	root := t.TempDir()
	legacyDir := filepath.Join(root, "chat_history")
	require.NoError(t, os.MkdirAll(legacyDir, 0o755))

	// bare-array shape
	require.NoError(t, os.WriteFile(
		filepath.Join(legacyDir, "3.json"),
		[]byte(`[{"role": "user", "content": "old question"}]`),
		0o644,
	))
	// object shape
	require.NoError(t, os.WriteFile(
		filepath.Join(legacyDir, "4.json"),
		[]byte(`{"messages": [{"role": "assistant", "content": "old answer"}]}`),
		0o644,
	))
	// not a user file, must be skipped
	require.NoError(t, os.WriteFile(filepath.Join(legacyDir, "notes.json"), []byte("[]"), 0o644))

	imported, err := ImportLegacyHistories(root)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	s := NewChatHistoryStore(root)
	history, err := s.Load(context.Background(), 3, models.DefaultSessionID)
	require.NoError(t, err)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "old question", history.Messages[0].Content)

	// legacy flat files are gone, per-session files exist
	assert.NoFileExists(t, filepath.Join(legacyDir, "3.json"))
	assert.NoFileExists(t, filepath.Join(legacyDir, "4.json"))
	assert.FileExists(t, filepath.Join(legacyDir, "3", "default.json"))
}

func TestImportLegacyHistories_SkipsExistingTargets(t *testing.T) {
	root := t.TempDir()
	s := NewChatHistoryStore(root)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, 3, models.DefaultSessionID, &models.ChatHistory{
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "current"}},
	}))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "chat_history", "3.json"),
		[]byte(`[{"role": "user", "content": "stale"}]`),
		0o644,
	))

	imported, err := ImportLegacyHistories(root)
	require.NoError(t, err)
	assert.Zero(t, imported)

	history, err := s.Load(ctx, 3, models.DefaultSessionID)
	require.NoError(t, err)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "current", history.Messages[0].Content)
}

func TestImportLegacyHistories_NoDirectory(t *testing.T) {
	imported, err := ImportLegacyHistories(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, imported)
}
