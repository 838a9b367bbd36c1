package models

import "context"

// Assistant is the core surface consumed by the routing layer. The
// authenticated userID is supplied by the auth collaborator; the core never
// re-validates identity.
type Assistant interface {
	// Ingest chunks, embeds, and stores document bodies in the user's
	// document store. Returns the number of records created.
	Ingest(ctx context.Context, userID int64, docs []Document) (int, error)
	// Query embeds the query and ranks the user's document store.
	Query(ctx context.Context, userID int64, query string, topK int) ([]RankedResult, error)
	// ChatTurn runs one conversation turn: persist the user message,
	// retrieve and blend context, call the chat capability, persist the
	// reply.
	ChatTurn(ctx context.Context, userID int64, req *ChatTurnRequest) (*ChatTurnResponse, error)
	// History returns the persisted conversation for a session.
	History(ctx context.Context, userID int64, sessionID string) (*ChatHistory, error)

	Remember(ctx context.Context, userID int64, text string) error
	// ListMemory returns one page of memory texts plus the store's total
	// record count.
	ListMemory(ctx context.Context, userID int64, offset, limit int) ([]string, int, error)
	DeleteMemory(ctx context.Context, userID int64, index int) error
	ClearMemory(ctx context.Context, userID int64) error
}
