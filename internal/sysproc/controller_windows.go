//go:build windows

package sysproc

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/sjzar/gamefreeze/internal/errors"
)

// SystemController Windows 实现，通过 Toolhelp 线程快照逐线程挂起/恢复
type SystemController struct{}

func NewController() *SystemController {
	return &SystemController{}
}

func (c *SystemController) Suspend(pid uint32) error {
	n, err := c.eachThread(pid, func(h windows.Handle) bool {
		ret, _ := windows.SuspendThread(h)
		return ret != 0xffffffff
	})
	if err != nil {
		return errors.SuspendFailed(pid, err)
	}
	if n == 0 {
		// 一个线程都没挂起成功，通常是进程已退出或权限不足
		if !processExists(pid) {
			return errors.ProcessNotFound(pid)
		}
		return errors.ProcessAccessDenied(pid, nil)
	}
	return nil
}

func (c *SystemController) Resume(pid uint32) error {
	n, err := c.eachThread(pid, func(h windows.Handle) bool {
		ret, _ := windows.ResumeThread(h)
		return ret != 0xffffffff
	})
	if err != nil {
		return errors.ResumeFailed(pid, err)
	}
	if n == 0 {
		if !processExists(pid) {
			return errors.ProcessNotFound(pid)
		}
		return errors.ProcessAccessDenied(pid, nil)
	}
	return nil
}

// eachThread 遍历目标进程的线程并执行 fn，返回执行成功的线程数
func (c *SystemController) eachThread(pid uint32, fn func(h windows.Handle) bool) (int, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ThreadEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	count := 0
	err = windows.Thread32First(snapshot, &entry)
	for err == nil {
		if entry.OwnerProcessID == pid {
			h, openErr := windows.OpenThread(windows.THREAD_SUSPEND_RESUME, false, entry.ThreadID)
			if openErr == nil {
				if fn(h) {
					count++
				}
				windows.CloseHandle(h)
			}
		}
		err = windows.Thread32Next(snapshot, &entry)
	}

	return count, nil
}

func processExists(pid uint32) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return false
	}
	windows.CloseHandle(h)
	return true
}
