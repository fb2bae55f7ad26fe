package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/gamefreeze/internal/errors"
	"github.com/sjzar/gamefreeze/internal/model"
)

// Store 冻结记录的持久化能力，用于进程崩溃后的恢复
// 存储始终整体替换，不做增量修改，避免崩溃排查时读到半个文件
type Store interface {
	// Save 原子性地用 records 覆盖整个存储，空集合表示清空
	Save(records []model.FrozenRecord) error
	// Load 返回上次保存的记录集；文件缺失或损坏返回 nil，不视为错误
	Load() ([]model.FrozenRecord, error)
	// Delete 删除存储文件，文件不存在时为空操作
	Delete() error
}

// stateFile 磁盘上的存储格式
type stateFile struct {
	FrozenProcesses []model.FrozenRecord `json:"frozen_processes"`
}

// FileStore 基于 JSON 文件的 Store 实现
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path 存储文件路径
func (s *FileStore) Path() string {
	return s.path
}

// Save 先写入同目录下的临时文件再重命名，保证并发读取方不会看到写了一半的内容
func (s *FileStore) Save(records []model.FrozenRecord) error {
	if records == nil {
		records = []model.FrozenRecord{}
	}

	b, err := json.MarshalIndent(&stateFile{FrozenProcesses: records}, "", "  ")
	if err != nil {
		return errors.StateSaveFailed(s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.StateSaveFailed(s.path, err)
	}
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return errors.StateSaveFailed(s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.StateSaveFailed(s.path, err)
	}

	return nil
}

// Load 读取上次保存的记录集
// 损坏的文件按"无历史状态"处理，只记日志，绝不让启动失败
func (s *FileStore) Load() ([]model.FrozenRecord, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		log.Warn().Err(err).Str("path", s.path).Msg("读取状态文件失败，按无历史状态处理")
		return nil, nil
	}

	var state stateFile
	if err := json.Unmarshal(b, &state); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("状态文件损坏，按无历史状态处理")
		return nil, nil
	}

	return state.FrozenProcesses, nil
}

func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.StateDeleteFailed(s.path, err)
	}
	return nil
}
