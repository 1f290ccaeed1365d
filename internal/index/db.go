package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS chats (
    chat_key      TEXT PRIMARY KEY,
    file_path     TEXT NOT NULL,
    mtime         INTEGER NOT NULL DEFAULT 0,
    size          INTEGER NOT NULL DEFAULT 0,
    message_count INTEGER NOT NULL DEFAULT 0,
    skipped       INTEGER NOT NULL DEFAULT 0,
    first_at      INTEGER NOT NULL DEFAULT 0,
    last_at       INTEGER NOT NULL DEFAULT 0,
    diagnostics   TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS messages (
    chat_key    TEXT NOT NULL,
    seq         INTEGER NOT NULL,
    ts          INTEGER NOT NULL,
    sender      TEXT NOT NULL,
    body        TEXT NOT NULL,
    line_number INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (chat_key, seq)
);

CREATE INDEX IF NOT EXISTS messages_sender ON messages(chat_key, sender);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    body,
    content=messages,
    content_rowid=rowid,
    tokenize='unicode61 remove_diacritics 2'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, body) VALUES (new.rowid, new.body);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.rowid, old.body);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.rowid, old.body);
    INSERT INTO messages_fts(rowid, body) VALUES (new.rowid, new.body);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one connection so :memory: databases are shared across queries
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.setMeta("schema_version", schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return d, nil
}

// schemaVersion should be bumped whenever message parsing logic changes
// to force a full re-parse.
const schemaVersion = "1"

func (d *DB) setMeta(key, value string) error {
	var old string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&old)
	if err == nil && old == value {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	// force re-parse by resetting all chat mtime/size to 0
	if _, err := d.db.Exec("UPDATE chats SET mtime = 0, size = 0"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// UseParseOptions invalidates every cached chat when the options that
// shape parsed messages differ from the ones the cache was built with.
func (d *DB) UseParseOptions(opts parse.Options) error {
	return d.setMeta("parse_options", fingerprint(opts))
}

func fingerprint(opts parse.Options) string {
	loc := "Local"
	if opts.Location != nil {
		loc = opts.Location.String()
	}
	placeholder := opts.MediaPlaceholder
	if placeholder == "" {
		placeholder = parse.DefaultMediaPlaceholder
	}
	return loc + "\x00" + placeholder
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type ChatInfo struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetChatInfo(chatKey string) (*ChatInfo, error) {
	var info ChatInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM chats WHERE chat_key = ?",
		chatKey,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (d *DB) AllChatKeys() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT chat_key FROM chats")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

func (d *DB) DeleteChat(chatKey string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE chat_key = ?", chatKey); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM chats WHERE chat_key = ?", chatKey); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) ChatCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM chats").Scan(&n)
	return n, err
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

type ChatRow struct {
	ChatKey      string
	FilePath     string
	MessageCount int
	Skipped      int
	FirstAt      int64
	LastAt       int64
	Diagnostics  parse.Diagnostics
}

const chatColumns = "chat_key, file_path, message_count, skipped, first_at, last_at, diagnostics"

func scanChat(sc interface{ Scan(...any) error }) (*ChatRow, error) {
	var c ChatRow
	var diag string
	if err := sc.Scan(&c.ChatKey, &c.FilePath, &c.MessageCount, &c.Skipped, &c.FirstAt, &c.LastAt, &diag); err != nil {
		return nil, err
	}
	if err := sonic.UnmarshalString(diag, &c.Diagnostics); err != nil {
		return nil, fmt.Errorf("chat %s diagnostics: %w", c.ChatKey, err)
	}
	return &c, nil
}

func (d *DB) GetChatByKey(chatKey string) (*ChatRow, error) {
	c, err := scanChat(d.db.QueryRow("SELECT "+chatColumns+" FROM chats WHERE chat_key = ?", chatKey))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// ListChats returns every cached chat, most recently active first.
func (d *DB) ListChats() ([]ChatRow, error) {
	rows, err := d.db.Query("SELECT " + chatColumns + " FROM chats ORDER BY last_at DESC, chat_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChatRow
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

type MessageRow struct {
	ChatKey    string
	Seq        int
	Ts         int64 // unix seconds
	Sender     string
	Body       string
	LineNumber int
}

const messageColumns = "chat_key, seq, ts, sender, body, line_number"

func scanMessages(rows *sql.Rows) ([]MessageRow, error) {
	defer rows.Close()
	var out []MessageRow
	for rows.Next() {
		var m MessageRow
		if err := rows.Scan(&m.ChatKey, &m.Seq, &m.Ts, &m.Sender, &m.Body, &m.LineNumber); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (d *DB) GetMessages(chatKey string) ([]MessageRow, error) {
	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE chat_key = ? ORDER BY seq",
		chatKey,
	)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

func (d *DB) GetMessage(chatKey string, seq int) (*MessageRow, error) {
	var m MessageRow
	err := d.db.QueryRow(
		"SELECT "+messageColumns+" FROM messages WHERE chat_key = ? AND seq = ?",
		chatKey, seq,
	).Scan(&m.ChatKey, &m.Seq, &m.Ts, &m.Sender, &m.Body, &m.LineNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMessagesWindow returns up to context messages on each side of hitSeq.
// Seq numbers are dense, so the window is a plain range query. With
// hitSeq < 0 the whole chat is returned and hitIdx is -1. total is the
// number of messages in the chat.
func (d *DB) GetMessagesWindow(chatKey string, hitSeq, context int) (msgs []MessageRow, hitIdx int, total int, err error) {
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM messages WHERE chat_key = ?", chatKey,
	).Scan(&total)
	if err != nil {
		return nil, -1, 0, err
	}

	lo, hi := 0, total-1
	if hitSeq >= 0 {
		lo = max(hitSeq-context, 0)
		hi = min(hitSeq+context, total-1)
	}

	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE chat_key = ? AND seq BETWEEN ? AND ? ORDER BY seq",
		chatKey, lo, hi,
	)
	if err != nil {
		return nil, -1, 0, err
	}
	msgs, err = scanMessages(rows)
	if err != nil {
		return nil, -1, 0, err
	}

	hitIdx = -1
	for i, m := range msgs {
		if m.Seq == hitSeq {
			hitIdx = i
			break
		}
	}
	return msgs, hitIdx, total, nil
}
