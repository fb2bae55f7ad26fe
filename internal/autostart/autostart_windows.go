//go:build windows

package autostart

import (
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/sjzar/gamefreeze/internal/errors"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// Install 在当前用户的 Run 键下注册自启动项
func (s *Service) Install() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return errors.AutostartFailed("open run key", err)
	}
	defer key.Close()

	command := fmt.Sprintf(`"%s" daemon`, s.exePath)
	if err := key.SetStringValue(AppName, command); err != nil {
		return errors.AutostartFailed("set run value", err)
	}
	return nil
}

// Uninstall 删除自启动项，未注册时为空操作
func (s *Service) Uninstall() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return errors.AutostartFailed("open run key", err)
	}
	defer key.Close()

	if err := key.DeleteValue(AppName); err != nil && err != registry.ErrNotExist {
		return errors.AutostartFailed("delete run value", err)
	}
	return nil
}

// Installed 检查自启动项是否已注册
func (s *Service) Installed() (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false, errors.AutostartFailed("open run key", err)
	}
	defer key.Close()

	if _, _, err := key.GetStringValue(AppName); err != nil {
		if err == registry.ErrNotExist {
			return false, nil
		}
		return false, errors.AutostartFailed("query run value", err)
	}
	return true, nil
}
