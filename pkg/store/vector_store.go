// Package store implements the per-user vector record stores: an in-memory
// working set per (user, kind) pair, flushed to a durable snapshot after
// every mutation, behind a bounded LRU of live instances.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/recallio/recall/internal"
	"github.com/recallio/recall/pkg/models"
)

var log = internal.GetLogger()

// SnapshotStore is the durable-storage collaborator. Absent keys are not an
// error; a Write either fully replaces the prior snapshot or leaves it
// intact.
type SnapshotStore interface {
	Read(key string) (data []byte, found bool, err error)
	Write(key string, data []byte) error
}

// snapshot is the durable form of one vector store.
type snapshot struct {
	Dimensions int                   `json:"dimensions"`
	NextID     int64                 `json:"next_id"`
	Records    []models.VectorRecord `json:"records"`
}

var _ models.VectorStore = &VectorStore{}

// VectorStore is the single live working set for one (user, kind) pair.
// A mutex owned by the Manager serializes load-mutate-flush; embedding runs
// before the critical section so external calls never hold the lock.
type VectorStore struct {
	userID     int64
	kind       models.StoreKind
	dimensions int
	embedder   models.EmbeddingsClient
	snapshots  SnapshotStore

	// mu guards everything below. Shared with the Manager so an evicted and
	// reloaded store contends on the same lock.
	mu      *sync.Mutex
	loaded  bool
	nextID  int64
	records []models.VectorRecord
}

func NewVectorStore(
	userID int64,
	kind models.StoreKind,
	dimensions int,
	embedder models.EmbeddingsClient,
	snapshots SnapshotStore,
	mu *sync.Mutex,
) *VectorStore {
	return &VectorStore{
		userID:     userID,
		kind:       kind,
		dimensions: dimensions,
		embedder:   embedder,
		snapshots:  snapshots,
		mu:         mu,
		nextID:     1,
	}
}

func (vs *VectorStore) snapshotKey() string {
	return fmt.Sprintf("%s/%d.json", vs.kind, vs.userID)
}

// ensureLoaded populates the working set from the last durable snapshot.
// Callers must hold vs.mu. An absent or structurally invalid snapshot
// degrades to an empty store with a logged warning; it never fails the
// caller.
func (vs *VectorStore) ensureLoaded() error {
	if vs.loaded {
		return nil
	}

	data, found, err := vs.snapshots.Read(vs.snapshotKey())
	if err != nil {
		return NewStorageError("failed to read snapshot", err)
	}
	vs.loaded = true
	if !found {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warnf(
			"corrupt %s snapshot for user %d, starting empty: %v",
			vs.kind, vs.userID, err,
		)
		return nil
	}
	if !vs.validSnapshot(&snap) {
		return nil
	}

	vs.nextID = snap.NextID
	vs.records = snap.Records
	return nil
}

// validSnapshot structurally validates a decoded snapshot. Violations are
// treated like corruption: warn and start empty.
func (vs *VectorStore) validSnapshot(snap *snapshot) bool {
	if snap.Dimensions != vs.dimensions {
		log.Warnf(
			"%s snapshot for user %d has dimensions %d, store is configured for %d; starting empty",
			vs.kind, vs.userID, snap.Dimensions, vs.dimensions,
		)
		return false
	}
	if snap.NextID < 1 {
		log.Warnf("%s snapshot for user %d has invalid next_id; starting empty", vs.kind, vs.userID)
		return false
	}
	seen := make(map[int64]struct{}, len(snap.Records))
	for _, r := range snap.Records {
		if len(r.Embedding) != snap.Dimensions {
			log.Warnf(
				"%s snapshot for user %d has a record with embedding width %d; starting empty",
				vs.kind, vs.userID, len(r.Embedding),
			)
			return false
		}
		if _, dup := seen[r.ID]; dup || r.ID >= snap.NextID {
			log.Warnf("%s snapshot for user %d has invalid record ids; starting empty", vs.kind, vs.userID)
			return false
		}
		seen[r.ID] = struct{}{}
	}
	return true
}

// flush writes the full working set back. The snapshot store guarantees the
// prior snapshot survives a failed write.
func (vs *VectorStore) flush() error {
	data, err := json.Marshal(snapshot{
		Dimensions: vs.dimensions,
		NextID:     vs.nextID,
		Records:    vs.records,
	})
	if err != nil {
		return NewStorageError("failed to encode snapshot", err)
	}
	if err := vs.snapshots.Write(vs.snapshotKey(), data); err != nil {
		return NewStorageError("failed to write snapshot", err)
	}
	return nil
}

// Add embeds texts and appends one record per text, then flushes. The
// embedding call happens before the store lock is taken: a cancelled request
// leaves the store fully untouched, and a completed flush is the commit
// point.
func (vs *VectorStore) Add(
	ctx context.Context,
	texts []string,
	metas []models.RecordMeta,
) ([]models.VectorRecord, error) {
	if len(texts) != len(metas) {
		return nil, models.NewDataIntegrityError(
			fmt.Sprintf("texts (%d) and metas (%d) must pair up", len(texts), len(metas)), nil,
		)
	}
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := vs.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(texts) {
		return nil, models.NewDataIntegrityError("embedding count does not match text count", nil)
	}
	for _, e := range embeddings {
		if len(e) != vs.dimensions {
			return nil, models.NewDataIntegrityError(
				fmt.Sprintf("embedding width %d does not match store dimensions %d", len(e), vs.dimensions),
				nil,
			)
		}
	}

	vs.mu.Lock()
	defer vs.mu.Unlock()
	if err := vs.ensureLoaded(); err != nil {
		return nil, err
	}

	existing := make(map[int64]struct{}, len(vs.records))
	for _, r := range vs.records {
		existing[r.ID] = struct{}{}
	}

	added := make([]models.VectorRecord, len(texts))
	for i := range texts {
		id := vs.nextID
		if _, collision := existing[id]; collision {
			return nil, models.NewDataIntegrityError(
				fmt.Sprintf("record id %d already exists in %s store for user %d", id, vs.kind, vs.userID),
				nil,
			)
		}
		vs.nextID++
		added[i] = models.VectorRecord{
			ID:        id,
			Text:      texts[i],
			Embedding: embeddings[i],
			Meta:      metas[i],
		}
	}

	vs.records = append(vs.records, added...)
	if err := vs.flush(); err != nil {
		// roll the working set back so memory matches the durable snapshot
		vs.records = vs.records[:len(vs.records)-len(added)]
		vs.nextID -= int64(len(added))
		return nil, err
	}

	return added, nil
}

// DeleteByID removes the record with the given id.
func (vs *VectorStore) DeleteByID(ctx context.Context, id int64) error {
	_ = ctx
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if err := vs.ensureLoaded(); err != nil {
		return err
	}

	index := -1
	for i, r := range vs.records {
		if r.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return models.NewNotFoundError(fmt.Sprintf("%s record with id %d", vs.kind, id))
	}

	removed := vs.records[index]
	vs.records = append(vs.records[:index], vs.records[index+1:]...)
	if err := vs.flush(); err != nil {
		vs.records = append(vs.records[:index], append([]models.VectorRecord{removed}, vs.records[index:]...)...)
		return err
	}
	return nil
}

// DeleteByIndex removes the record at the given insertion-order index. Text,
// embedding, and metadata travel together, so removal is atomic by
// construction.
func (vs *VectorStore) DeleteByIndex(ctx context.Context, index int) error {
	_ = ctx
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if err := vs.ensureLoaded(); err != nil {
		return err
	}

	if index < 0 || index >= len(vs.records) {
		return models.NewNotFoundError(fmt.Sprintf("%s record at index %d", vs.kind, index))
	}

	removed := vs.records[index]
	vs.records = append(vs.records[:index], vs.records[index+1:]...)
	if err := vs.flush(); err != nil {
		// restore; the durable snapshot still holds the record
		vs.records = append(vs.records[:index], append([]models.VectorRecord{removed}, vs.records[index:]...)...)
		return err
	}
	return nil
}

// Clear empties the store. Idempotent; record ids are not reused.
func (vs *VectorStore) Clear(ctx context.Context) error {
	_ = ctx
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if err := vs.ensureLoaded(); err != nil {
		return err
	}

	prior := vs.records
	vs.records = nil
	if err := vs.flush(); err != nil {
		vs.records = prior
		return err
	}
	return nil
}

// List returns records in stable insertion order. Out-of-range offsets
// return an empty slice, never an error. limit < 0 means "to the end".
func (vs *VectorStore) List(ctx context.Context, offset, limit int) ([]models.VectorRecord, error) {
	_ = ctx
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if err := vs.ensureLoaded(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(vs.records) {
		return []models.VectorRecord{}, nil
	}
	end := len(vs.records)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]models.VectorRecord, end-offset)
	copy(out, vs.records[offset:end])
	return out, nil
}

// All returns a copy of every record, in insertion order.
func (vs *VectorStore) All(ctx context.Context) ([]models.VectorRecord, error) {
	return vs.List(ctx, 0, -1)
}

func (vs *VectorStore) Count(ctx context.Context) (int, error) {
	_ = ctx
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if err := vs.ensureLoaded(); err != nil {
		return 0, err
	}
	return len(vs.records), nil
}
