// Package tracklog buffers position records in memory and writes them to
// flash in coalesced batches. The storage medium has a limited write-cycle
// budget, so individual records are never written through: they accumulate
// in a fixed arena and hit the durable log only when the arena runs out of
// room or the hourly flush comes around.
package tracklog

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// Store appends one whole batch to the durable log. A batch must be observed
// in full or not at all; no partial-record durability is assumed beyond
// that.
type Store interface {
	Append(batch []byte) error
}

// FileStore appends batches to a single file. The filesystem is abstracted
// so tests run against an in-memory one.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore creates a store writing to path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Append opens the log in append mode, writes the batch, and closes it. The
// file handle is not kept open between flushes — flushes are rare and an
// open handle would pin the card driver.
func (s *FileStore) Append(batch []byte) error {
	f, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open track log: %w", err)
	}
	if _, err := f.Write(batch); err != nil {
		f.Close()
		return fmt.Errorf("write track log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close track log: %w", err)
	}
	return nil
}
