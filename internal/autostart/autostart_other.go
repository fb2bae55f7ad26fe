//go:build !windows && !darwin && !linux

package autostart

import (
	"runtime"

	"github.com/sjzar/gamefreeze/internal/errors"
)

func (s *Service) Install() error {
	return errors.AutostartUnsupported(runtime.GOOS)
}

func (s *Service) Uninstall() error {
	return errors.AutostartUnsupported(runtime.GOOS)
}

func (s *Service) Installed() (bool, error) {
	return false, errors.AutostartUnsupported(runtime.GOOS)
}
