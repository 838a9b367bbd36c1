// Package assistant implements the core retrieval-augmented assistant: the
// write path from raw documents to per-user vector records, the read path
// from a query to ranked results, and the chat turn that blends both stores
// into a provider prompt.
package assistant

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"

	"github.com/recallio/recall/config"
	"github.com/recallio/recall/internal"
	"github.com/recallio/recall/pkg/chunker"
	"github.com/recallio/recall/pkg/models"
	"github.com/recallio/recall/pkg/search"
)

var log = internal.GetLogger()

const (
	memoryContextLabel    = "Relevant memory"
	documentsContextLabel = "Relevant documents"

	tokenEncoding = "cl100k_base"
)

var _ models.Assistant = &Service{}

// Service wires the chunker, embedder, stores, history, and model catalog
// into the models.Assistant surface consumed by the HTTP layer.
type Service struct {
	cfg       *config.Config
	embedder  models.EmbeddingsClient
	stores    models.StoreManager
	histories models.ChatHistoryStore
	catalog   models.ModelCatalog

	tkm *tiktoken.Tiktoken

	// mu guards sessionLocks. Chat histories are load-modify-save against a
	// single snapshot file, so turns for one (user, session) must serialize
	// the same way the store Manager serializes vector store mutations.
	mu           sync.Mutex
	sessionLocks map[sessionKey]*sync.Mutex
}

type sessionKey struct {
	userID    int64
	sessionID string
}

func NewService(
	cfg *config.Config,
	embedder models.EmbeddingsClient,
	stores models.StoreManager,
	histories models.ChatHistoryStore,
	catalog models.ModelCatalog,
) *Service {
	tkm, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		log.Warnf("failed to load %s encoding, token budget falls back to word counts: %v",
			tokenEncoding, err)
	}
	return &Service{
		cfg:          cfg,
		embedder:     embedder,
		stores:       stores,
		histories:    histories,
		catalog:      catalog,
		tkm:          tkm,
		sessionLocks: make(map[sessionKey]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing turns for one (user, session)
// pair, creating it on first use. Locks are never removed, so every turn on
// a session contends on the same mutex.
func (s *Service) sessionLock(userID int64, sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{userID: userID, sessionID: sessionID}
	lock, ok := s.sessionLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.sessionLocks[key] = lock
	}
	return lock
}

// Ingest chunks and embeds document bodies into the user's document store.
// Documents without an id get a generated one. Documents with no text are
// skipped; an ingest that produces no chunks at all is a caller error.
func (s *Service) Ingest(ctx context.Context, userID int64, docs []models.Document) (int, error) {
	if len(docs) == 0 {
		return 0, models.NewBadRequestError("no documents provided")
	}

	var texts []string
	var metas []models.RecordMeta
	for _, doc := range docs {
		if doc.DocumentID == "" {
			doc.DocumentID = uuid.New().String()
		}
		chunks := chunker.ChunkDocument(
			doc.DocumentID, doc.Content,
			s.cfg.Retrieval.ChunkSize, s.cfg.Retrieval.ChunkOverlap,
		)
		for _, c := range chunks {
			texts = append(texts, c.Text)
			metas = append(metas, models.RecordMeta{
				SourceID:   c.SourceID,
				ChunkIndex: c.Index,
				UserID:     userID,
			})
		}
	}
	if len(texts) == 0 {
		return 0, models.NewBadRequestError("documents contain no text")
	}

	store, err := s.stores.GetStore(ctx, userID, models.DocumentStoreKind)
	if err != nil {
		return 0, err
	}
	records, err := store.Add(ctx, texts, metas)
	if err != nil {
		return 0, err
	}

	log.Debugf("ingested %d chunks from %d documents for user %d", len(records), len(docs), userID)
	return len(records), nil
}

// Query ranks the user's document store against the query text. topK <= 0
// uses the configured default.
func (s *Service) Query(
	ctx context.Context,
	userID int64,
	query string,
	topK int,
) ([]models.RankedResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewBadRequestError("query cannot be empty")
	}
	if topK <= 0 {
		topK = s.cfg.Retrieval.TopK
	}

	queryEmbedding, err := s.embedOne(ctx, query)
	if err != nil {
		return nil, err
	}

	store, err := s.stores.GetStore(ctx, userID, models.DocumentStoreKind)
	if err != nil {
		return nil, err
	}
	records, err := store.All(ctx)
	if err != nil {
		return nil, err
	}

	return search.Rank(queryEmbedding, records, topK)
}

// Remember appends one fact to the user's memory store.
func (s *Service) Remember(ctx context.Context, userID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewBadRequestError("memory text cannot be empty")
	}

	store, err := s.stores.GetStore(ctx, userID, models.MemoryStoreKind)
	if err != nil {
		return err
	}
	_, err = store.Add(ctx, []string{text}, []models.RecordMeta{{UserID: userID}})
	return err
}

// ListMemory returns one page of memory texts in insertion order, plus the
// total record count so callers can paginate.
func (s *Service) ListMemory(ctx context.Context, userID int64, offset, limit int) ([]string, int, error) {
	store, err := s.stores.GetStore(ctx, userID, models.MemoryStoreKind)
	if err != nil {
		return nil, 0, err
	}
	records, err := store.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	return texts, total, nil
}

func (s *Service) DeleteMemory(ctx context.Context, userID int64, index int) error {
	store, err := s.stores.GetStore(ctx, userID, models.MemoryStoreKind)
	if err != nil {
		return err
	}
	return store.DeleteByIndex(ctx, index)
}

func (s *Service) ClearMemory(ctx context.Context, userID int64) error {
	store, err := s.stores.GetStore(ctx, userID, models.MemoryStoreKind)
	if err != nil {
		return err
	}
	return store.Clear(ctx)
}

// History returns the persisted conversation for a session.
func (s *Service) History(
	ctx context.Context,
	userID int64,
	sessionID string,
) (*models.ChatHistory, error) {
	return s.histories.Load(ctx, userID, sessionID)
}

func (s *Service) embedOne(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) != 1 {
		return nil, models.NewDataIntegrityError("expected exactly one embedding", nil)
	}
	return embeddings[0], nil
}
