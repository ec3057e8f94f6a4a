package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"slidechat/internal/deck"
)

var ErrDraftNotFound = errors.New("draft not found")

// SQLiteStore 基于 SQLite (WAL 模式) 的持久化实现
// SQLiteStore implements Store using SQLite with WAL mode
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore 创建并初始化 SQLite 数据库
// NewSQLiteStore creates and initializes a SQLite database
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// 启用 WAL 模式和优化 PRAGMA / Enable WAL and performance PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prefs (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL DEFAULT '{}',
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS drafts (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL DEFAULT '',
		size          TEXT NOT NULL DEFAULT '',
		last_modified TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS draft_slides (
		draft_id TEXT NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
		seq      INTEGER NOT NULL,
		title    TEXT NOT NULL DEFAULT '',
		layout   TEXT NOT NULL DEFAULT 'boxes',
		content  TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY(draft_id, seq)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close 关闭数据库连接 / Close the database connection
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// --- Preferences ---

// GetPref decodes the value stored under key into v. It reports false when
// the key is absent, leaving v untouched.
func (s *SQLiteStore) GetPref(key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key=?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load pref %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode pref %s: %w", key, err)
	}
	return true, nil
}

func (s *SQLiteStore) SetPref(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode pref %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(data), nowUTC())
	if err != nil {
		return fmt.Errorf("save pref %s: %w", key, err)
	}
	return nil
}

// --- Drafts ---

// SaveDraft 保存草稿；id 为空时生成新 id，已存在的草稿整体覆盖
// SaveDraft stores a snapshot. An empty id creates a new draft; an existing
// id has its slides replaced wholesale.
func (s *SQLiteStore) SaveDraft(id string, meta deck.Metadata, slides []deck.Slide) (DraftMeta, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	now := nowUTC()

	tx, err := s.db.Begin()
	if err != nil {
		return DraftMeta{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO drafts (id, name, size, last_modified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, size=excluded.size,
			last_modified=excluded.last_modified, updated_at=excluded.updated_at`,
		id, meta.Name, meta.Size, meta.LastModified, now, now); err != nil {
		return DraftMeta{}, fmt.Errorf("upsert draft: %w", err)
	}

	// 清除旧幻灯片 / Clear old slides
	if _, err := tx.Exec("DELETE FROM draft_slides WHERE draft_id=?", id); err != nil {
		return DraftMeta{}, fmt.Errorf("delete old slides: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO draft_slides (draft_id, seq, title, layout, content)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return DraftMeta{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, sl := range slides {
		content := sl.Content
		if content == nil {
			content = []deck.Bullet{}
		}
		data, err := json.Marshal(content)
		if err != nil {
			return DraftMeta{}, fmt.Errorf("encode slide %d: %w", i, err)
		}
		layout := sl.Layout
		if layout == "" {
			layout = deck.LayoutBoxes
		}
		if _, err := stmt.Exec(id, i, sl.Title, string(layout), string(data)); err != nil {
			return DraftMeta{}, fmt.Errorf("insert slide %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return DraftMeta{}, fmt.Errorf("commit draft: %w", err)
	}
	return s.loadDraftMeta(id)
}

func (s *SQLiteStore) loadDraftMeta(id string) (DraftMeta, error) {
	row := s.db.QueryRow(`
		SELECT d.id, d.name, d.size, d.last_modified, d.created_at, d.updated_at,
			(SELECT COUNT(*) FROM draft_slides WHERE draft_id=d.id)
		FROM drafts d WHERE d.id=?`, id)
	var dm DraftMeta
	err := row.Scan(&dm.ID, &dm.Metadata.Name, &dm.Metadata.Size, &dm.Metadata.LastModified,
		&dm.CreatedAt, &dm.UpdatedAt, &dm.SlideCount)
	if errors.Is(err, sql.ErrNoRows) {
		return DraftMeta{}, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return DraftMeta{}, fmt.Errorf("load draft: %w", err)
	}
	return dm, nil
}

func (s *SQLiteStore) LoadDraft(id string) (DraftMeta, []deck.Slide, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DraftMeta{}, nil, fmt.Errorf("draft id is empty")
	}
	dm, err := s.loadDraftMeta(id)
	if err != nil {
		return DraftMeta{}, nil, err
	}

	rows, err := s.db.Query(`
		SELECT seq, title, layout, content FROM draft_slides WHERE draft_id=? ORDER BY seq`, id)
	if err != nil {
		return DraftMeta{}, nil, fmt.Errorf("query slides: %w", err)
	}
	defer rows.Close()

	slides := make([]deck.Slide, 0, dm.SlideCount)
	for rows.Next() {
		var (
			sl      deck.Slide
			layout  string
			content string
		)
		if err := rows.Scan(&sl.Index, &sl.Title, &layout, &content); err != nil {
			return DraftMeta{}, nil, fmt.Errorf("scan slide: %w", err)
		}
		sl.Layout = deck.LayoutType(layout)
		if err := json.Unmarshal([]byte(content), &sl.Content); err != nil {
			return DraftMeta{}, nil, fmt.Errorf("decode slide %d: %w", sl.Index, err)
		}
		slides = append(slides, sl)
	}
	return dm, slides, rows.Err()
}

func (s *SQLiteStore) ListDrafts() ([]DraftMeta, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.name, d.size, d.last_modified, d.created_at, d.updated_at,
			(SELECT COUNT(*) FROM draft_slides WHERE draft_id=d.id)
		FROM drafts d ORDER BY d.updated_at DESC, d.id`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []DraftMeta
	for rows.Next() {
		var dm DraftMeta
		if err := rows.Scan(&dm.ID, &dm.Metadata.Name, &dm.Metadata.Size, &dm.Metadata.LastModified,
			&dm.CreatedAt, &dm.UpdatedAt, &dm.SlideCount); err != nil {
			continue
		}
		out = append(out, dm)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteDraft(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// foreign_keys 只作用于单个连接，显式删除 / The pragma is per connection, delete explicitly
	if _, err := tx.Exec(`DELETE FROM draft_slides WHERE draft_id=?`, id); err != nil {
		return fmt.Errorf("delete draft slides: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM drafts WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	return tx.Commit()
}

// --- Helpers ---

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
