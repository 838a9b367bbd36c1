package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallio/recall/pkg/models"
	"github.com/recallio/recall/pkg/store"
	"github.com/recallio/recall/pkg/store/filestore"
	"github.com/recallio/recall/pkg/testutils"
)

func setupStore(t *testing.T, userID int64, kind models.StoreKind) (models.VectorStore, string) {
	t.Helper()
	dataDir := t.TempDir()
	manager, err := store.NewManager(
		testutils.NewTestConfig(dataDir),
		testutils.NewFakeEmbedder(),
		filestore.NewSnapshotStore(dataDir),
	)
	require.NoError(t, err)

	vs, err := manager.GetStore(context.Background(), userID, kind)
	require.NoError(t, err)
	return vs, dataDir
}

func reopenStore(t *testing.T, dataDir string, userID int64, kind models.StoreKind) models.VectorStore {
	t.Helper()
	manager, err := store.NewManager(
		testutils.NewTestConfig(dataDir),
		testutils.NewFakeEmbedder(),
		filestore.NewSnapshotStore(dataDir),
	)
	require.NoError(t, err)

	vs, err := manager.GetStore(context.Background(), userID, kind)
	require.NoError(t, err)
	return vs
}

func addTexts(t *testing.T, vs models.VectorStore, userID int64, texts ...string) []models.VectorRecord {
	t.Helper()
	metas := make([]models.RecordMeta, len(texts))
	for i := range texts {
		metas[i] = models.RecordMeta{UserID: userID, ChunkIndex: i}
	}
	records, err := vs.Add(context.Background(), texts, metas)
	require.NoError(t, err)
	return records
}

func TestVectorStore_AddAssignsSequentialIDs(t *testing.T) {
	vs, _ := setupStore(t, 1, models.DocumentStoreKind)

	records := addTexts(t, vs, 1, "first chunk", "second chunk", "third chunk")
	require.Len(t, records, 3)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, int64(2), records[1].ID)
	assert.Equal(t, int64(3), records[2].ID)
	assert.Len(t, records[0].Embedding, testutils.TestEmbeddingDimensions)
}

func TestVectorStore_PersistsAcrossReload(t *testing.T) {
	vs, dataDir := setupStore(t, 7, models.MemoryStoreKind)
	addTexts(t, vs, 7, "the cat sat on the mat", "water boils at one hundred degrees")

	reloaded := reopenStore(t, dataDir, 7, models.MemoryStoreKind)
	records, err := reloaded.All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "the cat sat on the mat", records[0].Text)
	assert.Equal(t, int64(2), records[1].ID)

	// ids continue from the persisted counter, not from 1
	more := addTexts(t, reloaded, 7, "a third fact")
	assert.Equal(t, int64(3), more[0].ID)
}

func TestVectorStore_AddMismatchedMetas(t *testing.T) {
	vs, _ := setupStore(t, 1, models.DocumentStoreKind)

	_, err := vs.Add(context.Background(), []string{"one", "two"}, []models.RecordMeta{{}})
	assert.ErrorIs(t, err, models.ErrDataIntegrity)
}

func TestVectorStore_AddEmbedderUnavailable(t *testing.T) {
	dataDir := t.TempDir()
	embedder := testutils.NewFakeEmbedder()
	embedder.Unavailable = true
	manager, err := store.NewManager(
		testutils.NewTestConfig(dataDir),
		embedder,
		filestore.NewSnapshotStore(dataDir),
	)
	require.NoError(t, err)
	vs, err := manager.GetStore(context.Background(), 1, models.DocumentStoreKind)
	require.NoError(t, err)

	_, err = vs.Add(context.Background(), []string{"text"}, []models.RecordMeta{{}})
	assert.ErrorIs(t, err, models.ErrUnavailable)

	count, err := vs.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVectorStore_DeleteByIndex(t *testing.T) {
	vs, _ := setupStore(t, 1, models.MemoryStoreKind)
	addTexts(t, vs, 1, "fact zero", "fact one", "fact two")

	err := vs.DeleteByIndex(context.Background(), 1)
	require.NoError(t, err)

	records, err := vs.All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	// surviving records keep their order and ids
	assert.Equal(t, "fact zero", records[0].Text)
	assert.Equal(t, "fact two", records[1].Text)
	assert.Equal(t, int64(3), records[1].ID)
}

func TestVectorStore_DeleteByID(t *testing.T) {
	vs, _ := setupStore(t, 1, models.MemoryStoreKind)
	records := addTexts(t, vs, 1, "fact zero", "fact one", "fact two")

	err := vs.DeleteByID(context.Background(), records[1].ID)
	require.NoError(t, err)

	remaining, err := vs.All(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "fact zero", remaining[0].Text)
	assert.Equal(t, "fact two", remaining[1].Text)

	// a second delete of the same id is NotFound
	err = vs.DeleteByID(context.Background(), records[1].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestVectorStore_DeleteByIndexOutOfRange(t *testing.T) {
	vs, _ := setupStore(t, 1, models.MemoryStoreKind)
	addTexts(t, vs, 1, "a", "b", "c", "d", "e")

	testCases := []struct {
		name  string
		index int
	}{
		{"negative", -1},
		{"equal to count", 5},
		{"past the end", 17},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := vs.DeleteByIndex(context.Background(), tc.index)
			assert.ErrorIs(t, err, models.ErrNotFound)
		})
	}

	count, err := vs.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestVectorStore_ClearIsIdempotentAndIDsNotReused(t *testing.T) {
	vs, _ := setupStore(t, 1, models.MemoryStoreKind)
	addTexts(t, vs, 1, "a", "b")

	require.NoError(t, vs.Clear(context.Background()))
	require.NoError(t, vs.Clear(context.Background()))

	count, err := vs.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	records := addTexts(t, vs, 1, "after clear")
	assert.Equal(t, int64(3), records[0].ID)
}

func TestVectorStore_ListPagination(t *testing.T) {
	vs, _ := setupStore(t, 1, models.DocumentStoreKind)
	addTexts(t, vs, 1, "r0", "r1", "r2", "r3", "r4")

	testCases := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{"full range", 0, -1, []string{"r0", "r1", "r2", "r3", "r4"}},
		{"window", 1, 2, []string{"r1", "r2"}},
		{"limit past end", 3, 10, []string{"r3", "r4"}},
		{"offset past end", 9, 2, []string{}},
		{"negative offset clamps", -3, 2, []string{"r0", "r1"}},
		{"zero limit", 2, 0, []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := vs.List(context.Background(), tc.offset, tc.limit)
			require.NoError(t, err)
			texts := make([]string, len(records))
			for i, r := range records {
				texts[i] = r.Text
			}
			assert.Equal(t, tc.want, texts)
		})
	}
}

func TestVectorStore_CorruptSnapshotStartsEmpty(t *testing.T) {
	dataDir := t.TempDir()
	snapshotPath := filepath.Join(dataDir, "documents", "3.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(snapshotPath), 0o755))
	require.NoError(t, os.WriteFile(snapshotPath, []byte("{not json"), 0o644))

	vs := reopenStore(t, dataDir, 3, models.DocumentStoreKind)
	count, err := vs.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	// the store is usable again and the next flush replaces the corrupt file
	addTexts(t, vs, 3, "fresh start")
	reloaded := reopenStore(t, dataDir, 3, models.DocumentStoreKind)
	records, err := reloaded.All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fresh start", records[0].Text)
}

func TestVectorStore_WrongDimensionsSnapshotStartsEmpty(t *testing.T) {
	dataDir := t.TempDir()
	snapshotPath := filepath.Join(dataDir, "memory", "4.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(snapshotPath), 0o755))
	require.NoError(t, os.WriteFile(
		snapshotPath,
		[]byte(`{"dimensions": 3, "next_id": 2, "records": [{"id": 1, "text": "old", "embedding": [1, 0, 0]}]}`),
		0o644,
	))

	vs := reopenStore(t, dataDir, 4, models.MemoryStoreKind)
	count, err := vs.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
