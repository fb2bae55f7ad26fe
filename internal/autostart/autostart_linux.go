//go:build linux

package autostart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sjzar/gamefreeze/internal/errors"
)

func (s *Service) desktopPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", "gamefreeze.desktop"), nil
}

// Install 写入 XDG autostart 桌面项
func (s *Service) Install() error {
	path, err := s.desktopPath()
	if err != nil {
		return errors.AutostartFailed("locate autostart dir", err)
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s daemon
X-GNOME-Autostart-enabled=true
`, AppName, s.exePath)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.AutostartFailed("prepare autostart dir", err)
	}
	if err := os.WriteFile(path, []byte(entry), 0644); err != nil {
		return errors.AutostartFailed("write desktop entry", err)
	}
	return nil
}

// Uninstall 删除桌面项，未注册时为空操作
func (s *Service) Uninstall() error {
	path, err := s.desktopPath()
	if err != nil {
		return errors.AutostartFailed("locate autostart dir", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.AutostartFailed("remove desktop entry", err)
	}
	return nil
}

// Installed 检查桌面项是否存在
func (s *Service) Installed() (bool, error) {
	path, err := s.desktopPath()
	if err != nil {
		return false, errors.AutostartFailed("locate autostart dir", err)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.AutostartFailed("stat desktop entry", err)
	}
	return true, nil
}
