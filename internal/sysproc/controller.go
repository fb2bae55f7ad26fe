package sysproc

// Controller 进程冻结/恢复能力
// 实现需要区分三类失败：进程不存在、权限不足、其他系统错误，
// 分别对应 errors.ProcessNotFound / errors.ProcessAccessDenied / errors.SuspendFailed(ResumeFailed)
type Controller interface {
	// Suspend 挂起目标进程的全部线程
	Suspend(pid uint32) error
	// Resume 恢复目标进程的全部线程，对未冻结的进程调用是无害的
	Resume(pid uint32) error
}
