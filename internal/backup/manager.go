package backup

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/storage"
)

const (
	namePrefix = "snapshot-"
	timeLayout = "20060102T150405Z"
)

// Manager names, uploads and restores snapshot archives.
type Manager struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewManager returns a manager writing to store.
func NewManager(store Store, log zerolog.Logger) *Manager {
	return &Manager{store: store, log: log, now: time.Now}
}

// ArchiveName returns the object name for a snapshot taken at t.
func ArchiveName(t time.Time) string {
	return namePrefix + t.UTC().Format(timeLayout) + storage.ArchiveExt
}

// Push compresses s and uploads it under a timestamped name, which it returns.
func (m *Manager) Push(ctx context.Context, s *catalog.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := storage.WriteArchive(&buf, s); err != nil {
		return "", err
	}

	name := ArchiveName(m.now())
	size := int64(buf.Len())
	if err := m.store.Put(ctx, name, &buf, size); err != nil {
		return "", err
	}
	m.log.Info().Str("name", name).Int64("bytes", size).Int("papers", len(s.Papers)).Msg("backup pushed")
	return name, nil
}

// List returns the stored snapshot archives, oldest first.
func (m *Manager) List(ctx context.Context) ([]Object, error) {
	all, err := m.store.List(ctx, namePrefix)
	if err != nil {
		return nil, err
	}
	var out []Object
	for _, o := range all {
		if strings.HasPrefix(o.Name, namePrefix) && strings.HasSuffix(o.Name, storage.ArchiveExt) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Latest returns the name of the newest archive.
func (m *Manager) Latest(ctx context.Context) (string, error) {
	objects, err := m.List(ctx)
	if err != nil {
		return "", err
	}
	if len(objects) == 0 {
		return "", fmt.Errorf("%w: no snapshots stored", ErrNotFound)
	}
	// Timestamped names sort chronologically
	return objects[len(objects)-1].Name, nil
}

// Pull downloads and decodes the named archive, or the newest one when
// name is empty. The returned name is the archive actually read.
func (m *Manager) Pull(ctx context.Context, name string) (*catalog.Snapshot, string, error) {
	if name == "" {
		latest, err := m.Latest(ctx)
		if err != nil {
			return nil, "", err
		}
		name = latest
	}

	rc, err := m.store.Get(ctx, name)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	s, err := storage.ReadArchive(rc)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", name, err)
	}
	m.log.Info().Str("name", name).Int("papers", len(s.Papers)).Msg("backup pulled")
	return s, name, nil
}
