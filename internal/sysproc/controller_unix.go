//go:build !windows

package sysproc

import (
	"syscall"

	"github.com/sjzar/gamefreeze/internal/errors"
)

// SystemController 非 Windows 实现，使用 SIGSTOP/SIGCONT 整体挂起进程
type SystemController struct{}

func NewController() *SystemController {
	return &SystemController{}
}

func (c *SystemController) Suspend(pid uint32) error {
	if err := syscall.Kill(int(pid), syscall.SIGSTOP); err != nil {
		return classify(pid, err, true)
	}
	return nil
}

// Resume 对运行中的进程发送 SIGCONT 是无害的空操作，天然幂等
func (c *SystemController) Resume(pid uint32) error {
	if err := syscall.Kill(int(pid), syscall.SIGCONT); err != nil {
		return classify(pid, err, false)
	}
	return nil
}

func classify(pid uint32, err error, suspend bool) error {
	switch err {
	case syscall.ESRCH:
		return errors.ProcessNotFound(pid)
	case syscall.EPERM:
		return errors.ProcessAccessDenied(pid, err)
	}
	if suspend {
		return errors.SuspendFailed(pid, err)
	}
	return errors.ResumeFailed(pid, err)
}
