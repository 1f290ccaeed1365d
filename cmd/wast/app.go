package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/Zuo-Peng/wa-stats/internal/config"
	"github.com/Zuo-Peng/wa-stats/internal/index"
	"github.com/Zuo-Peng/wa-stats/internal/scan"
)

// app is what every command needs: the loaded config and a logger.
type app struct {
	cfg *config.Config
	log *slog.Logger
}

func loadApp(debug bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &app{cfg: cfg, log: log}, nil
}

func (a *app) openDB() (*index.DB, error) {
	db, err := index.OpenDB(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

// refresh brings the cache up to date before a query.
func (a *app) refresh(db *index.DB) {
	st, err := index.IndexAll(db, a.cfg.ChatsDir, a.cfg.ParseOptions(), a.log)
	if err != nil {
		a.log.Warn("index", "err", err)
		return
	}
	a.log.Debug("index", "stats", st.String())
}

// resolveChat accepts a path to an export or a chat key below chats_dir.
func (a *app) resolveChat(arg string) (scan.FileInfo, error) {
	candidates := []string{arg}
	if !filepath.IsAbs(arg) {
		candidates = append(candidates,
			filepath.Join(a.cfg.ChatsDir, filepath.FromSlash(arg)+".txt"),
			filepath.Join(a.cfg.ChatsDir, filepath.FromSlash(arg)),
		)
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return scan.Stat(a.cfg.ChatsDir, p)
		}
	}
	return scan.FileInfo{}, fmt.Errorf("chat not found: %s (looked in %s)", arg, a.cfg.ChatsDir)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// terminalWidth falls back to 80 columns when stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
