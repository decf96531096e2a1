package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// DriverName は Unicode 対応の関数を登録した database/sql ドライバ名です。
const DriverName = "sqlite3_employees"

// UnicodeLowerFunc は Unicode の大文字小文字を畳み込む SQL 関数名です。
// SQLite 組み込みの lower() は ASCII しか変換しません。
const UnicodeLowerFunc = "unicode_lower"

var registerOnce sync.Once

func registerDriver() {
	registerOnce.Do(func() {
		sql.Register(DriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc(UnicodeLowerFunc, strings.ToLower, true)
			},
		})
	})
}

const schema = `
CREATE TABLE IF NOT EXISTS employees (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    department TEXT NOT NULL,
    salary REAL NOT NULL CHECK (salary >= 30000 AND salary <= 500000),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS employees_email_lower_key ON employees (lower(email));
CREATE INDEX IF NOT EXISTS employees_name_idx ON employees (name);
CREATE INDEX IF NOT EXISTS employees_department_idx ON employees (department);
`

// Open は SQLite データベースを開き、スキーマが無ければ作成します。
// 書き込みの競合を避けるため接続は 1 本に制限します。
func Open(ctx context.Context, path string) (*sql.DB, error) {
	registerDriver()

	db, err := sql.Open(DriverName, fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate は employees テーブルとインデックスを作成します。既に存在する場合は何もしません。
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}
