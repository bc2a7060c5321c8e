package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// JSONStore keeps every user in a single JSON document keyed by username.
// Saving rewrites the whole document, so it must have a single writer.
type JSONStore struct {
	registry *category.Registry
	now      func() time.Time
	path     string
}

// NewJSONStore creates a store backed by the document at path.
// The file does not need to exist yet.
func NewJSONStore(path string, registry *category.Registry) (*JSONStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: registry", ErrNilParameter)
	}
	return &JSONStore{
		path:     path,
		registry: registry,
		now:      time.Now,
	}, nil
}

// Path returns the location of the backing document.
func (s *JSONStore) Path() string {
	return s.path
}

// Load returns the user stored under username.
func (s *JSONStore) Load(ctx context.Context, username string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}

	doc := s.readDocument()
	raw, ok := doc[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, common.ErrNotFound)
	}

	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		slog.Warn("Unreadable user record, treating as missing",
			"username", username,
			"path", s.path,
			"error", err)
		return nil, fmt.Errorf("user %q: %w", username, common.ErrNotFound)
	}

	return decodeUser(s.registry, username, rec, s.now()), nil
}

// Save replaces the user's record and rewrites the document.
func (s *JSONStore) Save(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}

	rec, err := encodeUser(user)
	if err != nil {
		return err
	}
	encoded, err := marshalJSON(rec)
	if err != nil {
		return fmt.Errorf("failed to encode user %q: %w", user.Username, err)
	}

	doc := s.readDocument()
	doc[user.Username] = encoded

	if err := s.writeDocument(doc); err != nil {
		return err
	}

	slog.Debug("Saved user",
		"username", user.Username,
		"transactions", user.Len(),
		"path", s.path)
	return nil
}

// Exists reports whether a record for username is present.
func (s *JSONStore) Exists(ctx context.Context, username string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	_, ok := s.readDocument()[username]
	return ok, nil
}

// Usernames lists every stored username in ascending order.
func (s *JSONStore) Usernames(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	doc := s.readDocument()
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op; the document is only open while it is read or written.
func (s *JSONStore) Close() error {
	return nil
}

// readDocument loads the whole document. A missing or unparseable file is an empty store.
func (s *JSONStore) readDocument() map[string]json.RawMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Cannot read data file, treating as empty", "path", s.path, "error", err)
		}
		return make(map[string]json.RawMessage)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]json.RawMessage)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		slog.Warn("Data file is corrupted, treating as empty", "path", s.path, "error", err)
		return make(map[string]json.RawMessage)
	}
	return doc
}

// writeDocument replaces the file through a temporary file in the same directory.
func (s *JSONStore) writeDocument(doc map[string]json.RawMessage) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary data file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close data file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
