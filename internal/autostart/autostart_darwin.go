//go:build darwin

package autostart

import (
	"os"
	"path/filepath"

	"howett.net/plist"

	"github.com/sjzar/gamefreeze/internal/errors"
)

const launchAgentLabel = "com.sjzar.gamefreeze"

// launchAgent launchd 配置，登录时以无界面模式拉起守护进程
type launchAgent struct {
	Label            string   `plist:"Label"`
	ProgramArguments []string `plist:"ProgramArguments"`
	RunAtLoad        bool     `plist:"RunAtLoad"`
	KeepAlive        bool     `plist:"KeepAlive"`
}

func (s *Service) agentPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "LaunchAgents", launchAgentLabel+".plist"), nil
}

// Install 写入 LaunchAgent plist
func (s *Service) Install() error {
	path, err := s.agentPath()
	if err != nil {
		return errors.AutostartFailed("locate launch agent dir", err)
	}

	agent := launchAgent{
		Label:            launchAgentLabel,
		ProgramArguments: []string{s.exePath, "daemon"},
		RunAtLoad:        true,
		KeepAlive:        false,
	}

	data, err := plist.MarshalIndent(agent, plist.XMLFormat, "\t")
	if err != nil {
		return errors.AutostartFailed("marshal launch agent", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.AutostartFailed("prepare launch agent dir", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.AutostartFailed("write launch agent", err)
	}
	return nil
}

// Uninstall 删除 LaunchAgent plist，未注册时为空操作
func (s *Service) Uninstall() error {
	path, err := s.agentPath()
	if err != nil {
		return errors.AutostartFailed("locate launch agent dir", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.AutostartFailed("remove launch agent", err)
	}
	return nil
}

// Installed 检查 LaunchAgent 是否存在
func (s *Service) Installed() (bool, error) {
	path, err := s.agentPath()
	if err != nil {
		return false, errors.AutostartFailed("locate launch agent dir", err)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.AutostartFailed("stat launch agent", err)
	}
	return true, nil
}
