// Package filestore persists store snapshots and chat histories as flat
// JSON files under the configured data directory.
package filestore

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/recallio/recall/internal"
	"github.com/recallio/recall/pkg/store"
)

var log = internal.GetLogger()

var _ store.SnapshotStore = &SnapshotStore{}

// SnapshotStore reads and writes snapshots keyed by slash-separated paths
// relative to root. Writes go to a temp file in the target directory
// followed by a rename, so a failed write leaves the prior snapshot intact.
type SnapshotStore struct {
	root string
}

func NewSnapshotStore(root string) *SnapshotStore {
	return &SnapshotStore{root: root}
}

func (s *SnapshotStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *SnapshotStore) Read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.NewStorageError("failed to read "+key, err)
	}
	return data, true, nil
}

func (s *SnapshotStore) Write(key string, data []byte) error {
	path := s.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store.NewStorageError("failed to create "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return store.NewStorageError("failed to create temp file for "+key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return store.NewStorageError("failed to write "+key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return store.NewStorageError("failed to close temp file for "+key, err)
	}

	// rename is the commit point
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return store.NewStorageError("failed to replace "+key, err)
	}

	log.Debugf("flushed %s (%s)", key, humanize.Bytes(uint64(len(data))))
	return nil
}
