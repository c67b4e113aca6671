// Package storage persists catalog snapshots as JSONL, as zstd-compressed
// archives, and as a SQLite full-text mirror.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// WriteSnapshot encodes s as JSONL: a header line carrying pool state and
// venue indexes, then one line per paper record.
func WriteSnapshot(w io.Writer, s *catalog.Snapshot) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding snapshot header: %w", err)
	}
	for _, r := range s.Papers {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding paper %d: %w", r.ID, err)
		}
	}
	return bw.Flush()
}

// ReadSnapshot decodes a JSONL snapshot written by WriteSnapshot. Empty
// input yields an empty snapshot.
func ReadSnapshot(r io.Reader) (*catalog.Snapshot, error) {
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	var s *catalog.Snapshot
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		if s == nil {
			s = &catalog.Snapshot{}
			if err := json.Unmarshal(line, s); err != nil {
				return nil, fmt.Errorf("parsing header on line %d: %w", lineNum, err)
			}
			continue
		}

		var rec catalog.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		s.Papers = append(s.Papers, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	if s == nil {
		return &catalog.Snapshot{Version: catalog.SnapshotVersion}, nil
	}
	return s, nil
}

// Load reads the snapshot file at path. A missing file is an empty library.
func Load(path string) (*catalog.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &catalog.Snapshot{Version: catalog.SnapshotVersion}, nil
		}
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// Save writes s to path, replacing the file only once the new content is
// fully written.
func Save(path string, s *catalog.Snapshot) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteSnapshot(w, s)
	})
}

func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
