package lexicon

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ChunkInfo describes one chunk file on disk.
type ChunkInfo struct {
	Filename string
	Entries  int
	Err      error
}

// LoadStats summarizes a chunk-directory load.
type LoadStats struct {
	AvailableChunks int
	LoadedChunks    int
	FailedChunks    int
	Entries         int
}

// ChunkLoader reads a directory of compressed lexicon chunks. Loading is
// synchronous and happens once at startup. A chunk that fails to open,
// decompress, or parse is skipped with a warning so one damaged file never
// blocks the rest of the dictionary.
type ChunkLoader struct {
	dirPath string
}

// NewChunkLoader creates a loader for the given data directory.
func NewChunkLoader(dirPath string) *ChunkLoader {
	return &ChunkLoader{dirPath: dirPath}
}

// AvailableChunks lists chunk files sorted by filename. Later chunks win on
// key collision, so the sorted order keeps merges deterministic.
func (cl *ChunkLoader) AvailableChunks() ([]string, error) {
	if stat, err := os.Stat(cl.dirPath); err != nil {
		return nil, fmt.Errorf("lexicon data directory: %w", err)
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("lexicon data directory %s is not a directory", cl.dirPath)
	}

	files, err := filepath.Glob(filepath.Join(cl.dirPath, ChunkPattern))
	if err != nil {
		return nil, fmt.Errorf("scanning for chunk files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadAll merges every readable chunk by union.
func (cl *ChunkLoader) LoadAll() (map[string]string, LoadStats, error) {
	files, err := cl.AvailableChunks()
	if err != nil {
		return nil, LoadStats{}, err
	}

	stats := LoadStats{AvailableChunks: len(files)}
	if len(files) == 0 {
		log.Warnf("No lexicon chunks found in %s, starting with an empty main lexicon", cl.dirPath)
		return map[string]string{}, stats, nil
	}

	merged := make(map[string]string)
	for _, file := range files {
		entries, err := ReadChunk(file)
		if err != nil {
			log.Warnf("Skipping lexicon chunk %s: %v", filepath.Base(file), err)
			stats.FailedChunks++
			continue
		}
		for k, v := range entries {
			merged[strings.ToLower(k)] = v
		}
		stats.LoadedChunks++
		log.Debugf("Loaded chunk %s: %d entries", filepath.Base(file), len(entries))
	}
	stats.Entries = len(merged)
	return merged, stats, nil
}

// Inspect loads each chunk individually, reporting per-chunk entry counts
// and failures. Used by the dictionary tooling to validate a data
// directory.
func (cl *ChunkLoader) Inspect() ([]ChunkInfo, error) {
	files, err := cl.AvailableChunks()
	if err != nil {
		return nil, err
	}

	infos := make([]ChunkInfo, 0, len(files))
	for _, file := range files {
		info := ChunkInfo{Filename: file}
		entries, err := ReadChunk(file)
		if err != nil {
			info.Err = err
		} else {
			info.Entries = len(entries)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// LoadMain populates the main layer from a chunk directory. The directory
// itself being unreadable is an error; individual bad chunks are skipped
// and counted in the returned stats.
func (l *Lexicon) LoadMain(dirPath string) (LoadStats, error) {
	entries, stats, err := NewChunkLoader(dirPath).LoadAll()
	if err != nil {
		return stats, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range entries {
		l.main[k] = v
		l.mainTrie.Set(patricia.Prefix(k), v)
		l.values[v] = struct{}{}
	}
	l.stats = stats
	log.Debugf("Main lexicon loaded: %d entries from %d/%d chunks",
		stats.Entries, stats.LoadedChunks, stats.AvailableChunks)
	return stats, nil
}
