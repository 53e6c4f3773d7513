package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

const backupLayout = "20060102-150405"

// sqlitePath strips the file: scheme and query string from a SQLite DSN.
func sqlitePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

// rebuildStore moves an existing database out of the way so the batch starts
// from an empty store. Unless noBackup is set the file is first copied to
// <path>.bak-<timestamp>; the returned backup path is empty when none was made.
func rebuildStore(path string, noBackup bool, now time.Time) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	var backup string
	if !noBackup {
		backup = path + ".bak-" + now.Format(backupLayout)
		if err := copyFile(path, backup); err != nil {
			return "", fmt.Errorf("backup %s: %w", path, err)
		}
	}
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return backup, fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return backup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
