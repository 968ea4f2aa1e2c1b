package state

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteRepository 以 SQLite 保存状态
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

// NewSQLiteRepository 打开（或创建）状态数据库
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite 单连接
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	r := &SQLiteRepository{db: db, path: dbPath}
	if err := r.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return r, nil
}

func (r *SQLiteRepository) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := r.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Location 数据库路径
func (r *SQLiteRepository) Location() string {
	return r.path
}

// Load 读取状态，从未保存过时返回 nil
func (r *SQLiteRepository) Load() (*Envelope, error) {
	meta, err := r.loadMeta()
	if err != nil {
		return nil, err
	}
	versionText, ok := meta["version"]
	if !ok {
		return nil, nil
	}
	version, err := strconv.Atoi(versionText)
	if err != nil {
		return nil, fmt.Errorf("%w: version %q", ErrMalformedState, versionText)
	}

	env := &Envelope{
		Version: version,
		SavedAt: meta["saved_at"],
		State:   map[string]any{},
	}

	rows, err := r.db.Query("SELECT cell_key, done, planned_day FROM cell_state")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var done sql.NullInt64
		var plannedDay sql.NullString
		if err := rows.Scan(&key, &done, &plannedDay); err != nil {
			return nil, err
		}
		switch {
		case done.Valid:
			env.State[key] = done.Int64 != 0
		case plannedDay.Valid:
			env.State[key] = plannedDay.String
		}
	}
	return env, rows.Err()
}

func (r *SQLiteRepository) loadMeta() (map[string]string, error) {
	rows, err := r.db.Query("SELECT key, value FROM state_meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		meta[key] = value
	}
	return meta, rows.Err()
}

// Save 整体覆盖保存
func (r *SQLiteRepository) Save(env *Envelope) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM cell_state"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO cell_state (cell_key, done, planned_day) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range env.State {
		switch v := value.(type) {
		case bool:
			done := 0
			if v {
				done = 1
			}
			_, err = stmt.Exec(key, done, nil)
		case string:
			_, err = stmt.Exec(key, nil, v)
		default:
			err = fmt.Errorf("unsupported state value for %s: %T", key, value)
		}
		if err != nil {
			return err
		}
	}

	upsert := `
		INSERT INTO state_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := tx.Exec(upsert, "version", strconv.Itoa(env.Version)); err != nil {
		return err
	}
	if _, err := tx.Exec(upsert, "saved_at", env.SavedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// Close 关闭数据库连接
func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
