package models

import "context"

// StoreKind discriminates the two per-user vector collections. They share an
// implementation but are logically and physically disjoint.
type StoreKind string

const (
	DocumentStoreKind StoreKind = "documents"
	MemoryStoreKind   StoreKind = "memory"
)

// Document is a raw document body submitted for ingestion. Upload parsing
// happens upstream; recall only sees text.
type Document struct {
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
}

// RecordMeta is the closed set of optional metadata fields carried by a
// vector record.
type RecordMeta struct {
	SourceID   string `json:"source_id,omitempty"`
	ChunkIndex int    `json:"chunk_index,omitempty"`
	UserID     int64  `json:"user_id,omitempty"`
}

// VectorRecord pairs a text with its embedding. A record is immutable once
// added; ID is unique within its store.
type VectorRecord struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	Embedding []float32  `json:"embedding"`
	Meta      RecordMeta `json:"meta,omitempty"`
}

// RankedResult is a record scored against a query embedding. Ephemeral,
// never persisted.
type RankedResult struct {
	Record VectorRecord `json:"record"`
	Score  float64      `json:"score"`
}

// ResultSet is a labeled, rank-ordered result list from a single store.
type ResultSet struct {
	Label   string         `json:"label"`
	Results []RankedResult `json:"results"`
}

// ContextItem is one blended context entry attributed to the source it first
// appeared in.
type ContextItem struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// VectorStore is a per-(user, kind) append-only record collection backed by
// a durable snapshot. Implementations serialize mutation+flush internally;
// embedding happens outside that critical section.
type VectorStore interface {
	// Add embeds texts and appends one record per text. texts and metas must
	// be the same length.
	Add(ctx context.Context, texts []string, metas []RecordMeta) ([]VectorRecord, error)
	// DeleteByID removes the record with the given id. Returns a
	// NotFoundError if no record has it.
	DeleteByID(ctx context.Context, id int64) error
	// DeleteByIndex removes the record at the given insertion-order index.
	// Returns a NotFoundError if the index is out of range.
	DeleteByIndex(ctx context.Context, index int) error
	// Clear empties the store. Idempotent.
	Clear(ctx context.Context) error
	// List returns records in stable insertion order. Out-of-range offsets
	// return an empty slice.
	List(ctx context.Context, offset, limit int) ([]VectorRecord, error)
	// All returns a copy of every record, in insertion order.
	All(ctx context.Context) ([]VectorRecord, error)
	Count(ctx context.Context) (int, error)
}

// StoreManager hands out the single live VectorStore instance for a
// (userID, kind) pair, creating and loading it lazily.
type StoreManager interface {
	GetStore(ctx context.Context, userID int64, kind StoreKind) (VectorStore, error)
}
