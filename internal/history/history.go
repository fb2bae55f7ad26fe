package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/sjzar/gamefreeze/internal/errors"
)

const (
	// ActionFreeze 冻结动作
	ActionFreeze = "freeze"
	// ActionResume 恢复动作
	ActionResume = "resume"
)

const initSQL = `
CREATE TABLE IF NOT EXISTS freeze_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	pid INTEGER NOT NULL,
	name TEXT NOT NULL,
	action TEXT NOT NULL,
	memory_bytes INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_freeze_events_created_at ON freeze_events(created_at);
`

// Event 一次冻结/恢复动作的历史记录
type Event struct {
	ID          int64     `json:"id"`
	PID         uint32    `json:"pid"`
	Name        string    `json:"name"`
	Action      string    `json:"action"`
	MemoryBytes uint64    `json:"memory_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service 动作历史服务，把每次冻结/恢复落到本地 sqlite
// 历史记录是旁路功能，写入失败只记日志，不影响冻结流程
type Service struct {
	path string
	db   *sql.DB
}

func NewService(path string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.HistoryOpenFailed(path, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.HistoryOpenFailed(path, err)
	}

	if _, err := db.Exec(initSQL); err != nil {
		db.Close()
		return nil, errors.HistoryOpenFailed(path, err)
	}

	return &Service{path: path, db: db}, nil
}

// Record 记录一次动作
func (s *Service) Record(action string, pid uint32, name string, memoryBytes uint64) {
	_, err := s.db.Exec(
		"INSERT INTO freeze_events(pid, name, action, memory_bytes) VALUES(?, ?, ?, ?)",
		pid, name, action, memoryBytes,
	)
	if err != nil {
		log.Warn().Err(err).Str("action", action).Uint32("pid", pid).Msg("写入历史记录失败")
	}
}

// List 按时间倒序返回最近的动作记录
func (s *Service) List(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(
		"SELECT id, pid, name, action, memory_bytes, created_at FROM freeze_events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, errors.HistoryQueryFailed("list", err)
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.PID, &e.Name, &e.Action, &e.MemoryBytes, &e.CreatedAt); err != nil {
			return nil, errors.HistoryQueryFailed("scan", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.HistoryQueryFailed("rows", err)
	}

	return events, nil
}

func (s *Service) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
