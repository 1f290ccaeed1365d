package index

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
	"github.com/Zuo-Peng/wa-stats/internal/record"
	"github.com/Zuo-Peng/wa-stats/internal/scan"
)

type Stats struct {
	Scanned  int
	Updated  int
	Skipped  int
	Pruned   int
	Errors   int
	Messages int // messages written by this run
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d messages=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors, s.Messages)
}

// IndexAll brings the cache in line with the chat files below chatsDir.
// Per-file failures are logged and counted, never returned.
func IndexAll(db *DB, chatsDir string, opts parse.Options, log *slog.Logger) (Stats, error) {
	var stats Stats

	if err := db.UseParseOptions(opts); err != nil {
		return stats, fmt.Errorf("parse options: %w", err)
	}

	files, err := scan.ScanChats(chatsDir)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		seenKeys[fi.Key] = struct{}{}

		needs, err := needsUpdate(db, fi)
		if err != nil {
			stats.Errors++
			log.Warn("check cache", "chat", fi.Key, "err", err)
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		result, err := parseFile(fi, opts)
		if err != nil {
			stats.Errors++
			log.Warn("parse", "path", fi.Path, "err", err)
			continue
		}
		if err := indexChat(db, fi, result); err != nil {
			stats.Errors++
			log.Warn("index", "path", fi.Path, "err", err)
			continue
		}
		if d := result.Diagnostics; d.Skipped() > 0 {
			log.Debug("dropped lines", "chat", fi.Key, "diagnostics", d.String())
		}
		stats.Updated++
		stats.Messages += len(result.Messages)
	}

	// prune chats whose files no longer exist
	pruned, err := pruneChats(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

// LoadChat returns the store of one chat file, from the cache when it is
// current and by parsing (and caching) the file otherwise. In strict mode
// a chat with dropped lines fails with *parse.SkipError either way.
func LoadChat(db *DB, fi scan.FileInfo, opts parse.Options, log *slog.Logger) (*record.Store, error) {
	if err := db.UseParseOptions(opts); err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}

	needs, err := needsUpdate(db, fi)
	if err != nil {
		return nil, err
	}

	var s *record.Store
	if needs {
		result, err := parseFile(fi, opts)
		if err != nil {
			return nil, err
		}
		if err := indexChat(db, fi, result); err != nil {
			// the parse is still good, only the cache is stale
			log.Warn("index", "path", fi.Path, "err", err)
		}
		s = record.FromResult(fi.Key, result)
	} else {
		log.Debug("cache hit", "chat", fi.Key)
		s, err = loadCached(db, fi.Key, opts)
		if err != nil {
			return nil, err
		}
	}

	if opts.Strict && s.Diagnostics().Skipped() > 0 {
		return nil, &parse.SkipError{Diagnostics: s.Diagnostics()}
	}
	return s, nil
}

// parseFile never runs in strict mode so that the cache always holds the
// lenient parse and its diagnostics.
func parseFile(fi scan.FileInfo, opts parse.Options) (*parse.ParseResult, error) {
	opts.Strict = false
	return parse.ParseFile(fi.Path, opts)
}

func loadCached(db *DB, chatKey string, opts parse.Options) (*record.Store, error) {
	chat, err := db.GetChatByKey(chatKey)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %s not in cache", chatKey)
	}
	rows, err := db.GetMessages(chatKey)
	if err != nil {
		return nil, err
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	msgs := make([]parse.Message, len(rows))
	for i, r := range rows {
		msgs[i] = parse.NewMessage(time.Unix(r.Ts, 0).In(loc), r.Sender, r.Body, r.LineNumber)
	}
	return record.New(chatKey, msgs, chat.Diagnostics), nil
}

func needsUpdate(db *DB, fi scan.FileInfo) (bool, error) {
	info, err := db.GetChatInfo(fi.Key)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new chat
	}
	return info.Mtime != fi.Mtime || info.Size != fi.Size, nil
}

func indexChat(db *DB, fi scan.FileInfo, result *parse.ParseResult) error {
	diag, err := sonic.MarshalString(result.Diagnostics)
	if err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}

	var firstAt, lastAt int64
	if n := len(result.Messages); n > 0 {
		firstAt = result.Messages[0].Timestamp.Unix()
		lastAt = result.Messages[n-1].Timestamp.Unix()
	}

	// delete old data first
	if err := db.DeleteChat(fi.Key); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO chats (chat_key, file_path, mtime, size, message_count, skipped, first_at, last_at, diagnostics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fi.Key,
		fi.Path,
		fi.Mtime,
		fi.Size,
		len(result.Messages),
		result.Diagnostics.Skipped(),
		firstAt,
		lastAt,
		diag,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (chat_key, seq, ts, sender, body, line_number)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range result.Messages {
		_, err := stmt.Exec(fi.Key, i, m.Timestamp.Unix(), m.Sender, m.Body, m.LineNumber)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneChats(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllChatKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteChat(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
