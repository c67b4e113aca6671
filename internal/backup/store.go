// Package backup pushes compressed library snapshots to an S3-compatible
// bucket and pulls them back.
package backup

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when a named backup does not exist.
var ErrNotFound = errors.New("backup not found")

// Object describes one stored backup.
type Object struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Store is the object storage a Manager writes to.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	Get(ctx context.Context, name string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]Object, error)
}
