// Package journal — append-only журнал операций галереи в sqlite.
//
// Это НЕ кэш коллекции: ни записи, ни URL сюда не попадают, только факт
// операции (sync, delete, bulk_delete, download) с количеством и временем.
// Best effort: ошибка журнала логируется и не роняет операцию.
package journal

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ilkoid/kadr/pkg/utils"
)

// Entry — одна строка журнала.
type Entry struct {
	ID        int64
	Op        string // "sync", "delete", "bulk_delete", "download"
	Key       string // Ключ объекта, "" для операций над коллекцией
	Count     int    // Сколько объектов затронуто
	CreatedAt time.Time
}

// Journal пишет операции в sqlite файл.
type Journal struct {
	db *sql.DB
}

// New открывает (или создаёт) журнал по указанному пути.
func New(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &Journal{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS operations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			op TEXT NOT NULL,
			key TEXT NOT NULL DEFAULT '',
			count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)
	`)
	return err
}

// Record пишет одну операцию. Ошибки только логируются — журнал
// не имеет права ронять удаление или синхронизацию.
func (j *Journal) Record(ctx context.Context, op, key string, count int) {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO operations (op, key, count, created_at)
		VALUES (?, ?, ?, ?)
	`, op, key, count, time.Now())
	if err != nil {
		utils.Warn("journal write failed", "op", op, "err", err)
	}
}

// Recent возвращает последние limit операций, новые первыми.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, op, key, count, created_at
		FROM operations
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Op, &e.Key, &e.Count, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close закрывает базу.
func (j *Journal) Close() error {
	return j.db.Close()
}
