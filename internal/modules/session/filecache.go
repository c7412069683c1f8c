package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type fileCache struct{ path string }

// NewFileCache keeps the active session in a JSON file next to the register
// process, for standalone installs without redis.
func NewFileCache(path string) Cache {
	return &fileCache{path: path}
}

func (c *fileCache) Load(_ context.Context) (*Session, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read session cache: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session cache: %w", err)
	}
	return &s, nil
}

func (c *fileCache) Store(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	// write-then-rename so a crash never leaves a half-written cache
	tmp := c.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write session cache: %w", err)
	}
	return os.Rename(tmp, c.path)
}

func (c *fileCache) Clear(_ context.Context) error {
	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
