package errors

import (
	"fmt"
	"net/http"
)

// 进程枚举相关错误

// EnumerateFailed 创建进程枚举失败错误
func EnumerateFailed(cause error) *AppError {
	return New(ErrTypeEnumeration, "failed to enumerate processes", cause, http.StatusInternalServerError).WithStack()
}

// ForegroundQueryFailed 创建前台窗口查询失败错误
func ForegroundQueryFailed(cause error) *AppError {
	return New(ErrTypeEnumeration, "failed to query foreground window", cause, http.StatusInternalServerError).WithStack()
}

// 进程控制相关错误，区分进程不存在、权限不足与未知失败

// ProcessNotFound 创建进程不存在错误
func ProcessNotFound(pid uint32) *AppError {
	return New(ErrTypeNotFound, fmt.Sprintf("process not found: %d", pid), nil, http.StatusNotFound).WithStack()
}

// ProcessAccessDenied 创建进程访问被拒绝错误
func ProcessAccessDenied(pid uint32, cause error) *AppError {
	return New(ErrTypePermission, fmt.Sprintf("access denied to process %d", pid), cause, http.StatusForbidden).WithStack()
}

// SuspendFailed 创建进程冻结失败错误
func SuspendFailed(pid uint32, cause error) *AppError {
	return New(ErrTypeControl, fmt.Sprintf("failed to suspend process %d", pid), cause, http.StatusInternalServerError).WithStack()
}

// ResumeFailed 创建进程恢复失败错误
func ResumeFailed(pid uint32, cause error) *AppError {
	return New(ErrTypeControl, fmt.Sprintf("failed to resume process %d", pid), cause, http.StatusInternalServerError).WithStack()
}

// 持久化相关错误

// StateSaveFailed 创建状态保存失败错误
func StateSaveFailed(path string, cause error) *AppError {
	return New(ErrTypePersistence, fmt.Sprintf("failed to save state: %s", path), cause, http.StatusInternalServerError).WithStack()
}

// StateDeleteFailed 创建状态删除失败错误
func StateDeleteFailed(path string, cause error) *AppError {
	return New(ErrTypePersistence, fmt.Sprintf("failed to delete state: %s", path), cause, http.StatusInternalServerError).WithStack()
}

// 历史记录相关错误

// HistoryOpenFailed 创建历史库打开失败错误
func HistoryOpenFailed(path string, cause error) *AppError {
	return New(ErrTypeHistory, fmt.Sprintf("failed to open history db: %s", path), cause, http.StatusInternalServerError).WithStack()
}

// HistoryQueryFailed 创建历史库查询失败错误
func HistoryQueryFailed(operation string, cause error) *AppError {
	return New(ErrTypeHistory, fmt.Sprintf("history query failed: %s", operation), cause, http.StatusInternalServerError).WithStack()
}

// 自启动相关错误

// AutostartFailed 创建自启动注册失败错误
func AutostartFailed(operation string, cause error) *AppError {
	return New(ErrTypeAutostart, fmt.Sprintf("autostart %s failed", operation), cause, http.StatusInternalServerError).WithStack()
}

// AutostartUnsupported 创建平台不支持自启动错误
func AutostartUnsupported(platform string) *AppError {
	return New(ErrTypeAutostart, fmt.Sprintf("autostart not supported on %s", platform), nil, http.StatusBadRequest).WithStack()
}
