package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore keeps base images as flat files under a single directory.
// The directory is created on demand. The memory tier above it is
// per-process; the disk tier is what survives restarts.
type DiskStore struct {
	dir    string
	logger *slog.Logger
}

func NewDiskStore(dir string, logger *slog.Logger) (*DiskStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve avatar dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &DiskStore{dir: abs, logger: logger}, nil
}

// path resolves the on-disk location for a key and rejects anything that
// would escape the configured directory.
func (d *DiskStore) path(userID int64, resolution int) (string, error) {
	p := filepath.Join(d.dir, objectName(userID, resolution))
	if !strings.HasPrefix(p, d.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: resolved path escapes avatar dir", ErrInvalidKey)
	}
	return p, nil
}

func (d *DiskStore) Read(_ context.Context, userID int64, resolution int) ([]byte, time.Time, error) {
	p, err := d.path(userID, resolution)
	if err != nil {
		return nil, time.Time{}, err
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("stat source image: %w", err)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("read source image: %w", err)
	}
	return data, info.ModTime(), nil
}

func (d *DiskStore) Write(_ context.Context, userID int64, resolution int, data []byte) error {
	p, err := d.path(userID, resolution)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create avatar dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write source image: %w", err)
	}
	d.logger.Debug("source image persisted", "path", p, "size", len(data))
	return nil
}

func (d *DiskStore) Remove(_ context.Context, userID int64, resolution int) error {
	p, err := d.path(userID, resolution)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove source image: %w", err)
	}
	return nil
}
