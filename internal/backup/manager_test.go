package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/config"
)

// memStore is an in-memory Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(_ context.Context, name string, r io.Reader, size int64) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return nil
}

func (m *memStore) Get(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) List(_ context.Context, prefix string) ([]Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Object
	for name, data := range m.objects {
		if strings.HasPrefix(name, prefix) {
			out = append(out, Object{Name: name, Size: int64(len(data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func newTestManager(store Store, times ...time.Time) *Manager {
	m := NewManager(store, zerolog.Nop())
	i := 0
	m.now = func() time.Time {
		t := times[i]
		i++
		return t
	}
	return m
}

func snapshotWith(titles ...string) *catalog.Snapshot {
	c := catalog.New()
	for _, title := range titles {
		c.Insert(catalog.Draft{Title: title, Venue: "ICML", Year: 2020})
	}
	return c.Snapshot()
}

func TestArchiveName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "snapshot-20260304T040607Z.jsonl.zst", ArchiveName(ts))
}

func TestPushPull(t *testing.T) {
	store := newMemStore()
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	m := newTestManager(store, t1, t2)
	ctx := context.Background()

	first, err := m.Push(ctx, snapshotWith("a"))
	require.NoError(t, err)
	second, err := m.Push(ctx, snapshotWith("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, ArchiveName(t1), first)
	assert.Equal(t, ArchiveName(t2), second)

	// Latest by default
	s, name, err := m.Pull(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, second, name)
	assert.Len(t, s.Papers, 2)

	// Explicit name
	s, _, err = m.Pull(ctx, first)
	require.NoError(t, err)
	assert.Len(t, s.Papers, 1)

	restored, err := catalog.Restore(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"icml"}, restored.Labels(catalog.KindVenue))
}

func TestList_IgnoresForeignObjects(t *testing.T) {
	store := newMemStore()
	store.objects["snapshot-notes.txt"] = []byte("x")
	store.objects["other.jsonl.zst"] = []byte("x")
	m := newTestManager(store, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	name, err := m.Push(context.Background(), snapshotWith("a"))
	require.NoError(t, err)

	objects, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, name, objects[0].Name)
	assert.Positive(t, objects[0].Size)
}

func TestPull_Errors(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	m := newTestManager(store)

	_, _, err := m.Pull(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound, "empty bucket")

	_, _, err = m.Pull(ctx, "snapshot-missing.jsonl.zst")
	assert.ErrorIs(t, err, ErrNotFound)

	store.objects["snapshot-bad.jsonl.zst"] = []byte("not zstd")
	_, _, err = m.Pull(ctx, "snapshot-bad.jsonl.zst")
	assert.Error(t, err)
}

func TestPush_StoreError(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("bucket is read-only")
	m := newTestManager(store, time.Now())

	_, err := m.Push(context.Background(), snapshotWith("a"))
	assert.ErrorContains(t, err, "read-only")
}

func TestDial(t *testing.T) {
	_, err := Dial(config.BackupConfig{Bucket: "papers"})
	assert.ErrorIs(t, err, config.ErrBackupNotConfigured)

	s, err := Dial(config.BackupConfig{Endpoint: "localhost:9000", Bucket: "papers", Prefix: "/laptop/"})
	require.NoError(t, err)
	assert.Equal(t, "laptop/snapshot-x", s.key("snapshot-x"))

	s = NewMinioStore(nil, "papers", "")
	assert.Equal(t, "snapshot-x", s.key("snapshot-x"))
}
