package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FileStore keeps save slots as JSON files under dir/<room>/<slot>.json.
// It backs development setups without a database and the tests.
type FileStore struct {
	dir    string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFileStore creates a store rooted at dir; the directory is created
// lazily on first save.
func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{dir: dir, logger: logger}
}

// Save writes the snapshot atomically: temp file then rename.
func (s *FileStore) Save(ctx context.Context, roomID, slot string, snapshot []byte) error {
	path, err := s.slotPath(roomID, slot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, snapshot, 0o644); err != nil {
		return fmt.Errorf("write save file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit save file: %w", err)
	}

	s.logger.Debug("snapshot saved",
		zap.String("room_id", roomID),
		zap.String("slot", slot),
		zap.String("path", path),
	)
	return nil
}

// Load reads the snapshot stored under the slot.
func (s *FileStore) Load(ctx context.Context, roomID, slot string) ([]byte, error) {
	path, err := s.slotPath(roomID, slot)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read save file: %w", err)
	}
	return data, nil
}

// List returns the room's slots, sorted by slot name.
func (s *FileStore) List(ctx context.Context, roomID string) ([]SaveRecord, error) {
	roomID = strings.TrimSpace(roomID)
	if err := validateName(roomID, "room id"); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, roomID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read save dir: %w", err)
	}

	var records []SaveRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		records = append(records, SaveRecord{
			RoomID:    roomID,
			Slot:      strings.TrimSuffix(name, ".json"),
			Bytes:     int(info.Size()),
			CreatedAt: info.ModTime(),
			UpdatedAt: info.ModTime(),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Slot < records[j].Slot })
	return records, nil
}

// Delete removes the slot file.
func (s *FileStore) Delete(ctx context.Context, roomID, slot string) error {
	path, err := s.slotPath(roomID, slot)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete save file: %w", err)
	}
	return nil
}

// slotPath validates both identifiers and maps them to a file path.
// Identifiers never become path components unchecked.
func (s *FileStore) slotPath(roomID, slot string) (string, error) {
	roomID = strings.TrimSpace(roomID)
	slot = strings.TrimSpace(slot)
	if err := validateName(roomID, "room id"); err != nil {
		return "", err
	}
	if err := validateName(slot, "slot"); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, roomID, slot+".json"), nil
}

func validateName(name, what string) error {
	if name == "" {
		return fmt.Errorf("%s is required", what)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid %s %q", what, name)
	}
	return nil
}
