// Package store implements the data persistence layer for relationships and
// chat histories, backed by plain JSON snapshot files.
//
// Both stores follow the same durability contract:
//
//   - The full in-memory map is serialized after every mutating operation
//     (write-through, no batching).
//   - Snapshots are pretty-printed UTF-8 JSON keyed by "{platform}_{userId}".
//   - Writes go to a temp file in the target directory and are renamed into
//     place, so a crash mid-write never corrupts the previous snapshot.
//   - A corrupt or unreadable file on load is logged and treated as an empty
//     store; a failed write is logged and in-memory state stays authoritative
//     until the next successful write.
//
// Storage errors never propagate out of this package as panics or fatal
// conditions; they are downgraded to warnings at the store boundary.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// readSnapshot loads the JSON document at path into v. A missing file is
// reported distinctly so callers can skip the warning on first run.
func readSnapshot(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// writeSnapshot atomically replaces the document at path with the
// pretty-printed JSON encoding of v.
func writeSnapshot(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// isMissing reports whether err means the snapshot file does not exist yet.
func isMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
