package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

// ArchiveExt is the file extension of compressed snapshots.
const ArchiveExt = ".jsonl.zst"

// WriteArchive writes s as a zstd-compressed JSONL stream.
func WriteArchive(w io.Writer, s *catalog.Snapshot) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("creating compressor: %w", err)
	}
	if err := WriteSnapshot(enc, s); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

// ReadArchive reads a snapshot written by WriteArchive.
func ReadArchive(r io.Reader) (*catalog.Snapshot, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer dec.Close()

	s, err := ReadSnapshot(dec)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return s, nil
}

// SaveArchive writes a compressed snapshot to path.
func SaveArchive(path string, s *catalog.Snapshot) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteArchive(w, s)
	})
}

// LoadArchive reads a compressed snapshot from path.
func LoadArchive(path string) (*catalog.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()
	return ReadArchive(f)
}
