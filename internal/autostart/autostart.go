package autostart

import (
	"os"

	"github.com/sjzar/gamefreeze/internal/errors"
)

const AppName = "GameFreeze"

// Service 管理开机自启注册，注册后系统登录时以无界面模式启动守护进程
type Service struct {
	exePath string
}

func NewService() (*Service, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, errors.AutostartFailed("locate executable", err)
	}
	return &Service{exePath: exePath}, nil
}
