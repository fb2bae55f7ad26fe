//go:build !windows

package sysproc

// ForegroundPID 非 Windows 平台没有统一的前台窗口概念，始终返回 0
// 策略层对 0 的处理等价于"没有前台进程"
func (e *SystemEnumerator) ForegroundPID() (uint32, error) {
	return 0, nil
}
