package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/recallio/recall/pkg/models"
	"github.com/recallio/recall/pkg/store"
)

const chatHistoryDir = "chat_history"

var _ models.ChatHistoryStore = &ChatHistoryStore{}

// ChatHistoryStore persists conversations as one JSON file per
// (user, session) under <root>/chat_history/<userID>/<sessionID>.json.
type ChatHistoryStore struct {
	snapshots *SnapshotStore
}

func NewChatHistoryStore(root string) *ChatHistoryStore {
	return &ChatHistoryStore{snapshots: NewSnapshotStore(root)}
}

func historyKey(userID int64, sessionID string) string {
	return fmt.Sprintf("%s/%d/%s.json", chatHistoryDir, userID, models.NormalizeSessionID(sessionID))
}

// Load returns the persisted history for a session. An absent or unreadable
// snapshot degrades to an empty history with a logged warning.
func (s *ChatHistoryStore) Load(
	ctx context.Context,
	userID int64,
	sessionID string,
) (*models.ChatHistory, error) {
	_ = ctx
	empty := &models.ChatHistory{Messages: []models.ChatMessage{}}

	data, found, err := s.snapshots.Read(historyKey(userID, sessionID))
	if err != nil {
		return nil, err
	}
	if !found {
		return empty, nil
	}

	var history models.ChatHistory
	if err := json.Unmarshal(data, &history); err != nil {
		log.Warnf("corrupt chat history for user %d session %q, starting empty: %v",
			userID, sessionID, err)
		return empty, nil
	}
	if history.Messages == nil {
		history.Messages = []models.ChatMessage{}
	}
	return &history, nil
}

func (s *ChatHistoryStore) Save(
	ctx context.Context,
	userID int64,
	sessionID string,
	history *models.ChatHistory,
) error {
	_ = ctx
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return store.NewStorageError("failed to encode chat history", err)
	}
	return s.snapshots.Write(historyKey(userID, sessionID), data)
}

// ImportLegacyHistories migrates pre-session flat history files
// (chat_history/<userID>.json) into the per-session layout under the
// "default" session. Files that already have a per-session counterpart are
// left alone. This is a one-time operation run via the CLI, not a dual-read
// path. Returns the number of files imported.
func ImportLegacyHistories(root string) (int, error) {
	dir := filepath.Join(root, chatHistoryDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, store.NewStorageError("failed to read "+dir, err)
	}

	snapshots := NewSnapshotStore(root)
	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		var userID int64
		if _, err := fmt.Sscanf(entry.Name(), "%d.json", &userID); err != nil {
			log.Warnf("skipping unrecognized legacy history file %s", entry.Name())
			continue
		}

		target := historyKey(userID, models.DefaultSessionID)
		if _, found, err := snapshots.Read(target); err != nil {
			return imported, err
		} else if found {
			log.Infof("user %d already has a default session history, skipping import", userID)
			continue
		}

		legacyPath := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(legacyPath)
		if err != nil {
			return imported, store.NewStorageError("failed to read "+legacyPath, err)
		}

		history, ok := decodeLegacyHistory(data)
		if !ok {
			log.Warnf("legacy history file %s is unreadable, skipping", entry.Name())
			continue
		}

		migrated, err := json.MarshalIndent(history, "", "  ")
		if err != nil {
			return imported, store.NewStorageError("failed to encode migrated history", err)
		}
		if err := snapshots.Write(target, migrated); err != nil {
			return imported, err
		}
		if err := os.Remove(legacyPath); err != nil {
			return imported, store.NewStorageError("failed to remove "+legacyPath, err)
		}
		imported++
	}

	return imported, nil
}

// decodeLegacyHistory accepts both legacy shapes: a bare message array and
// the {messages, session} object.
func decodeLegacyHistory(data []byte) (*models.ChatHistory, bool) {
	var history models.ChatHistory
	if err := json.Unmarshal(data, &history); err == nil && history.Messages != nil {
		return &history, true
	}

	var messages []models.ChatMessage
	if err := json.Unmarshal(data, &messages); err == nil {
		return &models.ChatHistory{Messages: messages}, true
	}

	return nil, false
}
