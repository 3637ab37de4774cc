// Copyright 2025 The Singlish Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the Singlish transliteration server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

Singlish converts romanized Sinhala into Sinhala script as you type. A
lexicon of known words drives candidate suggestions ranked by match
quality, and words the lexicon does not know fall back to rule-based
phonetic transliteration, so typing never dead-ends. The process can
operate as a MessagePack IPC server for integration with text editors,
or as a CLI application for testing and debugging.

The lexicon loads from gzip-compressed JSON chunks so large word maps
start quickly and damaged chunks degrade to warnings rather than
failures. Words taught during a session land in a personal lexicon file
that shadows the main lexicon and survives restarts.

# Usage

Start the server with default settings:

	singlish

Use a custom data directory and enable debug mode:

	singlish -data /path/to/chunks -d

Run in CLI mode for interactive testing:

	singlish -c -limit 5

The data directory should contain chunk files named lexicon_NNNN.json.gz
where NNNN orders the chunks. Later chunks win when a romanized key
repeats, which lets small correction chunks override the base word map.

# Configuration

Runtime configuration is managed through a TOML file covering engine
behavior, lexicon locations, and CLI defaults:

	[engine]
	max_candidates = 9
	debounce_ms = 30
	recovery_window = 10

	[dict]
	data_dir = "data"
	user_file = "sinhalawordmap.json"
	watch_user = true

The config file is automatically created with defaults if it doesn't
exist. Unreadable values fall back to defaults key by key rather than
discarding the whole file.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Key events
are processed synchronously with timing information included in
responses.

Send a key event:

	{"id": "k1", "op": "key", "ch": "m"}

Receive the pending word and ranked candidates:

	{"id": "k1", "s": [{"w": "මම", "r": 1}], "c": 1, "hl": 0, "b": "m", "st": "none", "t": 0}

A delimiter key commits the highlighted candidate and reports the
committed text; "accept" picks a candidate by rank, "teach" records a
personal mapping, and "spell" flags unknown Sinhala words. See the
server package for the full message reference.

# Server Mode

The default mode starts a MessagePack IPC server that processes events
from stdin and writes responses to stdout. The server owns the session
document: every commit is applied as a single atomic replacement, so a
host editor can mirror the document state message by message.

	srv := server.NewServer(lex, appConfig)
	err := srv.Start()

Closing stdin shuts the session down cleanly and flushes the personal
lexicon to disk.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging
the input engine. Lines are fed through the engine as keystrokes,
digits 1-9 pick candidates, and ':' commands reach the lexicon and
document directly (:teach, :rev, :spell, :undo, :stats).

	inputHandler := cli.NewInputHandler(lex, appConfig, limit, plain)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new
features before deploying to server mode. Candidate lists arrive
through the engine's debounced callback, the same path an editor
frontend uses.

# Input Engine

The core typing behavior is provided by the ime package, which buffers
the romanized word under composition, tracks its span in the document,
and commits through lookup with a phonetic fallback.

	engine := ime.New(doc, lex, ime.Options{})
	engine.HandleCharacter('m')
	res := engine.HandleDelimiter(' ')

The engine survives concurrent document edits: a commit whose target
span no longer matches the buffered word aborts without touching the
document instead of corrupting nearby text.

# Command Line Flags

The following flags control application behavior:

	-data string
	    Directory containing lexicon chunk files (default from config)
	-user string
	    Path to the personal lexicon file (default from config)
	-config string
	    Path to a custom config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of candidates to display in CLI mode
	-plain
	    Disable color output in CLI mode

The application automatically resolves data and config paths relative
to the executable location, supporting both development and production
deployments.

# Personal Lexicon

Taught words are held in memory immediately and written to the personal
lexicon file on shutdown and after each teach. When watching is enabled
the file is reloaded on external modification, so several sessions can
share one personal word map.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/helabasa/singlish/internal/cli"
	"github.com/helabasa/singlish/internal/utils"
	"github.com/helabasa/singlish/pkg/config"
	"github.com/helabasa/singlish/pkg/lexicon"
	"github.com/helabasa/singlish/pkg/server"
)

const (
	Version = "0.4.0-beta"
	AppName = "singlish"
	gh      = "https://github.com/helabasa/singlish"
)

// sigHandler exits cleanly on OS signals, flushing the personal lexicon
// first so taught words survive the session.
func sigHandler(lex *lexicon.Lexicon) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		lex.StopWatch()
		if err := lex.SaveUser(); err != nil {
			log.Warnf("Saving personal lexicon: %v", err)
		}
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	binaryDir := flag.String("data", "", "Directory containing the lexicon chunk files (default from config)")
	userFile := flag.String("user", "", "Path to the personal lexicon file (default from config)")
	configFile := flag.String("config", "", "Path to a custom config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of candidates to display in CLI mode")
	plain := flag.Bool("plain", defaultConfig.CLI.Plain, "Disable color output in CLI mode")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	// Initialize path resolver for robust path handling
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to initialize path resolver: %v", err)
		log.Print("Either env is not set or system is not supported")
		os.Exit(1)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activeConfig, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Warnf("Config load failed, using built-in defaults: %v", err)
		appConfig = config.DefaultConfig()
	}

	// Pathfinder for the chunk dir
	dataDir := *binaryDir
	if dataDir == "" {
		dataDir = appConfig.Dict.DataDir
	}
	resolvedDataDir, err := pathResolver.GetDataDir(dataDir)
	if err != nil {
		log.Errorf("Failed to resolve data dir: (%v)", err)
		os.Exit(1)
	}
	log.Debugf("Using data dir at: %s", resolvedDataDir)

	lex := lexicon.New()
	stats, err := lex.LoadMain(resolvedDataDir)
	if err != nil {
		log.Warnf("Main lexicon unavailable, running phonetic-only: %v", err)
	} else {
		log.Debugf("Lexicon init done: %d entries from %d/%d chunks",
			stats.Entries, stats.LoadedChunks, stats.AvailableChunks)
	}

	userPath, err := pathResolver.GetUserLexiconPath(*userFile, appConfig.Dict.UserFile)
	if err != nil {
		log.Warnf("No writable location for the personal lexicon: %v", err)
	} else {
		log.Debugf("Personal lexicon at: %s", userPath)
		if err := lex.LoadUser(userPath); err != nil {
			log.Warnf("Loading personal lexicon: %v", err)
		}
		if appConfig.Dict.WatchUser {
			if err := lex.WatchUser(); err != nil {
				log.Warnf("Watching personal lexicon: %v", err)
			}
		}
	}

	sigHandler(lex)

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "limit", *limit, "plain", *plain)

		inputHandler := cli.NewInputHandler(lex, appConfig, *limit, *plain)
		if err := inputHandler.Start(); err != nil {
			log.Errorf("CLI error: %v", err)
			os.Exit(1)
		}
		lex.StopWatch()
		if err := lex.SaveUser(); err != nil {
			log.Warnf("Saving personal lexicon: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(lex, appConfig)

	showStartupInfo(resolvedDataDir, config.GetActiveConfigPath(activeConfig))

	if err := srv.Start(); err != nil {
		log.Errorf("Server error: %v", err)
		os.Exit(1)
	}
	lex.StopWatch()
}

// showVersionInfo prints the styled version banner.
func showVersionInfo() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ Singlish ] Types Sinhala the way you say it!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir, configPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" Singlish ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("data dir: ( %s )", dataDir)
	log.Infof("config: ( %s )", configPath)
	log.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
