package fsutil

import (
	"fmt"
	"io"
)

// ReadRange reads the byte range [start, start+length) of the named file
// through fsys, opening an independent handle so concurrent callers (one
// per worker in the multithreaded file-parse driver) don't share file
// cursor state.
func ReadRange(fsys FileSystem, name string, start, length int64) ([]byte, error) {
	if start < 0 || length < 0 {
		return nil, fmt.Errorf("fsutil: negative range [%d, %d)", start, start+length)
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if start > 0 {
		if _, err := io.CopyN(io.Discard, f, start); err != nil {
			return nil, fmt.Errorf("fsutil: seeking to offset %d: %w", start, err)
		}
	}

	buf := make([]byte, length)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("fsutil: reading %d bytes at offset %d: %w", length, start, err)
	}
	return buf[:n], nil
}

// FileSize returns the size in bytes of the named file via fsys.Stat.
func FileSize(fsys FileSystem, name string) (int64, error) {
	info, err := fsys.Stat(name)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
