package util

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultWorkDir 返回默认工作目录，状态文件、历史库与日志都放在这里
func DefaultWorkDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.ExpandEnv("${USERPROFILE}"), "Documents", "gamefreeze")
	case "darwin":
		return filepath.Join(os.ExpandEnv("${HOME}"), "Documents", "gamefreeze")
	default:
		return filepath.Join(os.ExpandEnv("${HOME}"), ".local", "share", "gamefreeze")
	}
}

// PrepareDir 确保目录存在
func PrepareDir(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(path, 0755)
		}
		return err
	}
	if !stat.IsDir() {
		return os.ErrInvalid
	}
	return nil
}
