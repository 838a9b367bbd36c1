package store

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/recallio/recall/config"
	"github.com/recallio/recall/pkg/models"
)

type storeKey struct {
	userID int64
	kind   models.StoreKind
}

var _ models.StoreManager = &Manager{}

// Manager hands out the single live VectorStore per (user, kind). Live
// instances sit in a bounded LRU; an evicted store is simply dropped (every
// mutation has already been flushed) and reloaded from its snapshot on the
// next touch.
type Manager struct {
	cfg       *config.Config
	embedder  models.EmbeddingsClient
	snapshots SnapshotStore

	mu    sync.Mutex
	cache *lru.Cache[storeKey, *VectorStore]
	// locks outlive cache entries so a reloaded store serializes against
	// stragglers still holding its previous incarnation.
	locks map[storeKey]*sync.Mutex
}

func NewManager(
	cfg *config.Config,
	embedder models.EmbeddingsClient,
	snapshots SnapshotStore,
) (*Manager, error) {
	cache, err := lru.New[storeKey, *VectorStore](cfg.Store.MaxOpenStores)
	if err != nil {
		return nil, NewStorageError("failed to create store cache", err)
	}

	return &Manager{
		cfg:       cfg,
		embedder:  embedder,
		snapshots: snapshots,
		cache:     cache,
		locks:     make(map[storeKey]*sync.Mutex),
	}, nil
}

// GetStore returns the live store for (userID, kind), creating it lazily.
// Stores for different users never share records or locks.
func (m *Manager) GetStore(
	ctx context.Context,
	userID int64,
	kind models.StoreKind,
) (models.VectorStore, error) {
	_ = ctx
	key := storeKey{userID: userID, kind: kind}

	m.mu.Lock()
	defer m.mu.Unlock()

	if vs, ok := m.cache.Get(key); ok {
		return vs, nil
	}

	keyLock, ok := m.locks[key]
	if !ok {
		keyLock = &sync.Mutex{}
		m.locks[key] = keyLock
	}

	vs := NewVectorStore(
		userID,
		kind,
		m.cfg.Embeddings.Dimensions,
		m.embedder,
		m.snapshots,
		keyLock,
	)
	m.cache.Add(key, vs)

	return vs, nil
}
