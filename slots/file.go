package slots

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultFileName is the slot file name used when none is configured
const DefaultFileName = "cbsaves.txt"

const keyPrefix = "CB"

// parseKey returns the slot index of a key line such as "CB7"
func parseKey(line string) (int, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, keyPrefix) {
		return 0, false
	}
	digits := line[len(keyPrefix):]
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > NumSlots {
		return 0, false
	}
	return n, true
}

// Decode reads a slot file. Each occupied slot is a key line "CB{i}"
// followed by a content line. Lines that are not a valid key are skipped,
// so one bad line does not shift the pairs after it.
func Decode(r io.Reader) (map[int]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read slot file: %w", err)
		}
	}

	result := make(map[int]string)
	for i := 0; i < len(lines); i++ {
		idx, ok := parseKey(lines[i])
		if !ok || i+1 >= len(lines) {
			continue
		}
		i++
		if lines[i] != "" {
			result[idx] = lines[i]
		}
	}

	return result, nil
}

// Encode writes every non-empty slot of table in ascending order
func Encode(w io.Writer, table []string) error {
	bw := bufio.NewWriter(w)
	for i := 1; i < len(table) && i <= NumSlots; i++ {
		if table[i] == "" {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s%d\n%s\n", keyPrefix, i, table[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// readFile loads a slot file. A missing file is not an error.
func readFile(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[int]string{}, nil
		}
		return nil, fmt.Errorf("failed to open slot file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// writeFile replaces the slot file through a temporary file and a rename, so
// a crash mid-write leaves the previous file intact
func writeFile(path string, table []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create slot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp slot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, table); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write slot file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync slot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close slot file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace slot file: %w", err)
	}
	return nil
}
