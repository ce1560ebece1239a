package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/shopindream/storefront/cart/internal/store"
	"github.com/shopindream/storefront/internal/log"
)

// FileStore keeps the serialized cart in a single JSON file, one file per
// session. Writes go through a temp file and rename so a crash mid-write
// leaves the previous state intact.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(c context.Context) ([]store.LineItem, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileStore Load").
		Str(log.KeyStoragePath, f.path).
		Logger()

	payload, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed reading cart file with error=%w", err)
	}

	items, err := decode(payload)
	if err != nil {
		// Corrupt persisted state is treated as "no cart", never as a failure.
		logger.Warn().Err(err).Msg("persisted cart is corrupt, recovering to empty cart")
		return nil, nil
	}
	return items, nil
}

func (f *FileStore) Save(c context.Context, items []store.LineItem) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed creating cart storage dir with error=%w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("failed writing cart file with error=%w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed replacing cart file with error=%w", err)
	}
	return nil
}

func (f *FileStore) Erase(c context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed removing cart file with error=%w", err)
	}
	return nil
}
