package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidID is returned when an id cannot be used as a path segment.
var ErrInvalidID = errors.New("invalid mail id")

// FileContentStore keeps each message as JSON under
// <root>/<batchID>/<messageID>.json.
type FileContentStore struct {
	root string
}

// NewFileContentStore creates a store rooted at dir. The directory is
// created on first save.
func NewFileContentStore(dir string) *FileContentStore {
	return &FileContentStore{root: dir}
}

// Root returns the store directory.
func (s *FileContentStore) Root() string {
	return s.root
}

// Save writes msg atomically, replacing earlier content.
func (s *FileContentStore) Save(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(msg.BatchID(), msg.ID())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mail %s: %w", msg.ID(), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create batch directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mail-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write mail %s: %w", msg.ID(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write mail %s: %w", msg.ID(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("store mail %s: %w", msg.ID(), err)
	}
	return nil
}

// Load reads a stored message.
func (s *FileContentStore) Load(ctx context.Context, batchID, messageID string) (*Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(batchID, messageID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("mail %s in batch %s: %w", messageID, batchID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read mail %s: %w", messageID, err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode mail %s: %w", messageID, err)
	}
	return &msg, nil
}

// Delete removes a stored message and its batch directory once empty.
func (s *FileContentStore) Delete(ctx context.Context, batchID, messageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(batchID, messageID)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete mail %s: %w", messageID, err)
	}
	// Fails while other mails of the batch remain.
	_ = os.Remove(filepath.Dir(path))
	return nil
}

func (s *FileContentStore) path(batchID, messageID string) (string, error) {
	for _, id := range []string{batchID, messageID} {
		if !validID(id) {
			return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return filepath.Join(s.root, batchID, messageID+".json"), nil
}

func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`+"\x00")
}
