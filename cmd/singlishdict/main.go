// Copyright 2025 The Singlish Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements singlishdict, the lexicon chunk tool.

It converts a tab-separated word map into the gzip-compressed JSON
chunks the singlish binary loads, and validates existing chunk
directories:

	singlishdict -in wordmap.tsv -out data
	singlishdict -check data

Input lines are romanized<TAB>sinhala. Blank lines and lines starting
with '#' are skipped, keys are lowercased, and a repeated key keeps the
last value seen.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/helabasa/singlish/internal/logger"
	"github.com/helabasa/singlish/internal/utils"
	"github.com/helabasa/singlish/pkg/config"
	"github.com/helabasa/singlish/pkg/lexicon"
)

func main() {
	input := flag.String("in", "", "TSV word map to convert (romanized<TAB>sinhala per line)")
	outDir := flag.String("out", "data", "Directory to write chunk files into")
	chunkSize := flag.Int("chunk", config.DefaultConfig().Dict.ChunkSize, "Entries per chunk file")
	check := flag.String("check", "", "Validate an existing chunk directory and exit")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	logg := logger.Default("singlishdict")
	if *debugMode {
		logg = logger.NewWithConfig("singlishdict", log.DebugLevel, false, true, log.TextFormatter)
	}

	if *check != "" {
		os.Exit(runCheck(logg, *check))
	}
	if *input == "" {
		logg.Error("nothing to do: pass -in to build chunks or -check to validate a directory")
		flag.Usage()
		os.Exit(2)
	}
	if err := runBuild(logg, *input, *outDir, *chunkSize); err != nil {
		logg.Errorf("Build failed: %v", err)
		os.Exit(1)
	}
}

// runBuild converts one TSV word map into numbered chunk files.
func runBuild(logg *log.Logger, input, outDir string, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = config.DefaultConfig().Dict.ChunkSize
	}
	start := time.Now()

	entries, skipped, err := readWordMap(logg, input)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no usable entries in %s", input)
	}
	if err := utils.EnsureDir(outDir); err != nil {
		return err
	}

	// Sorted keys keep chunk contents deterministic across rebuilds.
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	chunks := 0
	for lo := 0; lo < len(keys); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(keys) {
			hi = len(keys)
		}
		chunk := make(map[string]string, hi-lo)
		for _, k := range keys[lo:hi] {
			chunk[k] = entries[k]
		}
		chunks++
		path := filepath.Join(outDir, lexicon.ChunkFileName(chunks))
		if err := lexicon.WriteChunk(path, chunk); err != nil {
			return err
		}
		logg.Debugf("wrote %s (%d entries)", path, len(chunk))
	}

	logg.Infof("Wrote %s entries into %d chunks in %v",
		utils.FormatWithCommas(len(keys)), chunks, time.Since(start).Round(time.Millisecond))
	if skipped > 0 {
		logg.Warnf("Skipped %d unusable lines", skipped)
	}
	return nil
}

// readWordMap parses a TSV word map into a key-value map. Lines that are
// not a key<TAB>value pair, or whose value carries no Sinhala text, are
// counted as skipped.
func readWordMap(logg *log.Logger, path string) (map[string]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	entries := make(map[string]string)
	skipped := 0
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "\t")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			logg.Debugf("line %d: not a key<TAB>value pair", lineNo)
			skipped++
			continue
		}
		if !utils.ContainsSinhala(value) {
			logg.Debugf("line %d: value %q has no Sinhala text", lineNo, value)
			skipped++
			continue
		}
		entries[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return entries, skipped, nil
}

// runCheck validates every chunk in dir and reports totals. The return
// value is the process exit code.
func runCheck(logg *log.Logger, dir string) int {
	loader := lexicon.NewChunkLoader(dir)
	infos, err := loader.Inspect()
	if err != nil {
		logg.Errorf("Inspecting %s: %v", dir, err)
		return 1
	}
	if len(infos) == 0 {
		logg.Warnf("No chunk files in %s", dir)
		return 1
	}

	total, bad := 0, 0
	for _, info := range infos {
		if info.Err != nil {
			logg.Errorf("%s: %v", filepath.Base(info.Filename), info.Err)
			bad++
			continue
		}
		logg.Infof("%s: %s entries", filepath.Base(info.Filename), utils.FormatWithCommas(info.Entries))
		total += info.Entries
	}
	logg.Infof("%d chunks, %s entries total", len(infos), utils.FormatWithCommas(total))
	if bad > 0 {
		logg.Errorf("%d chunks unreadable", bad)
		return 1
	}
	return 0
}
