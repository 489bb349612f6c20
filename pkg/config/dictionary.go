package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxDictionaryLine bounds a single dictionary entry.
const maxDictionaryLine = 64 * 1024

// ReadDictionary reads one password per line. Entries are normalised to
// Unicode NFC and trailing carriage returns are dropped; blank lines are
// skipped. Surrounding spaces are kept because they are part of a password.
func ReadDictionary(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxDictionaryLine)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		words = append(words, NormalizePassword(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return words, nil
}

// LoadDictionary reads a dictionary file. An empty file is an error.
func LoadDictionary(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()

	words, err := ReadDictionary(f)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("dictionary %s is empty", path)
	}
	return words, nil
}

// NormalizePassword converts s to Unicode NFC so that visually identical
// input compares equal to dictionary entries.
func NormalizePassword(s string) string {
	return norm.NFC.String(s)
}
