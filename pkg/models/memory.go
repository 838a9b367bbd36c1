package models

import (
	"context"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

const DefaultSessionID = "default"
const maxSessionIDLength = 64

// NormalizeSessionID strips a session id down to [A-Za-z0-9_-], caps its
// length, and falls back to DefaultSessionID when nothing is left. Session
// ids become file names downstream, so normalization is a domain rule, not a
// storage detail.
func NormalizeSessionID(sessionID string) string {
	var sb strings.Builder
	for _, ch := range sessionID {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			sb.WriteRune(ch)
		}
	}
	normalized := sb.String()
	if len(normalized) > maxSessionIDLength {
		normalized = normalized[:maxSessionIDLength]
	}
	if normalized == "" {
		return DefaultSessionID
	}
	return normalized
}

// ChatMessage is one turn of a persisted conversation. Assistant messages
// carry the provider/model pair that produced them.
type ChatMessage struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// SessionMeta pins the provider/model pair for a session. It is set lazily
// on the first turn and reused until the caller explicitly overrides it.
type SessionMeta struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// ChatHistory is the durable form of one (user, session) conversation.
type ChatHistory struct {
	Messages []ChatMessage `json:"messages"`
	Session  SessionMeta   `json:"session"`
}

// ChatHistoryStore persists conversations per (user, session).
type ChatHistoryStore interface {
	// Load returns the persisted history, or an empty one if none exists or
	// the snapshot is unreadable.
	Load(ctx context.Context, userID int64, sessionID string) (*ChatHistory, error)
	Save(ctx context.Context, userID int64, sessionID string, history *ChatHistory) error
}

// ChatTurnRequest is one inbound chat message, with an optional explicit
// provider/model override. Provider and model must be supplied together.
type ChatTurnRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
}

// ChatTurnResponse is the assistant reply plus the session meta in effect
// after the turn.
type ChatTurnResponse struct {
	SessionID string      `json:"session_id"`
	Reply     string      `json:"reply"`
	Session   SessionMeta `json:"session"`
}
