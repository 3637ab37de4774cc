package lexicon

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
)

// ChunkPattern matches lexicon chunk files inside a data directory.
const ChunkPattern = "*.json.gz"

// ChunkFileName returns the canonical name for the chunk with the given
// ordinal, e.g. lexicon_0001.json.gz.
func ChunkFileName(ordinal int) string {
	return fmt.Sprintf("lexicon_%04d.json.gz", ordinal)
}

// ReadChunk decodes a single chunk file: a gzip-compressed flat JSON object
// of romanized key to Sinhala value.
func ReadChunk(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	defer zr.Close()

	entries := make(map[string]string)
	if err := json.NewDecoder(zr).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	return entries, nil
}

// WriteChunk writes entries as one chunk file in the format ReadChunk
// expects.
func WriteChunk(path string, entries map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(entries); err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("encoding chunk %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
