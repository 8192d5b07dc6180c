package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteLine truncates-and-writes s (plus a trailing newline) to path,
// creating parent directories as needed.
func WriteLine(path, s string) error {
	if err := os.MkdirAll(parentDir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s+"\n"), 0o600)
}

// ReadFirstLine opens path and returns its first line, without the
// trailing newline.
func ReadFirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", nil
}

// WriteInt truncate-and-writes n as a single decimal integer followed by
// a newline.
func WriteInt(path string, n int) error {
	return WriteLine(path, strconv.Itoa(n))
}

// ReadInt reads the single decimal integer stored at path.
func ReadInt(path string) (int, error) {
	line, err := ReadFirstLine(path)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("store: malformed integer file %s: %w", path, err)
	}
	return n, nil
}

// WriteBlob writes the exact bytes of data to path, creating parent
// directories as needed.
func WriteBlob(path string, data []byte) error {
	if err := os.MkdirAll(parentDir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ReadBlob reads the entire contents of path.
func ReadBlob(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func parentDir(path string) string {
	return filepath.Dir(path)
}
