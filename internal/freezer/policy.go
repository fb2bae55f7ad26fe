package freezer

import "github.com/sjzar/gamefreeze/internal/model"

// DefaultThresholdMB 默认内存阈值
const DefaultThresholdMB = 100

// Config 冻结策略配置
type Config struct {
	// ThresholdBytes 内存阈值，低于该值的进程不值得冻结
	ThresholdBytes uint64
	// KeepCommunication 是否保护通讯类应用
	KeepCommunication bool
}

// DefaultConfig 返回默认策略配置（100MB，不保护通讯应用）
func DefaultConfig() Config {
	return Config{
		ThresholdBytes: DefaultThresholdMB * 1024 * 1024,
	}
}

// Eligible 判断进程是否可以安全冻结，规则按顺序求值，命中即返回：
//  1. 前台进程不冻结
//  2. 系统关键进程不冻结
//  3. 游戏相关进程不冻结
//  4. 开启通讯保护时，通讯类进程不冻结
//  5. 内存占用达到阈值才冻结
//
// 内存读数缺失或为零时只会落入规则 5 返回 false，不视为错误
func Eligible(p *model.Snapshot, conf Config) bool {
	return ProtectionReason(p, conf) == ""
}

// ProtectionReason 返回进程不可冻结的原因，可冻结时返回空字符串
// 求值顺序与 Eligible 的规则顺序一致，输出用于 list 命令的 protected 视图
func ProtectionReason(p *model.Snapshot, conf Config) string {
	if p.IsForeground {
		return "foreground"
	}
	if p.Category == model.CategoryCritical {
		return "critical process"
	}
	if p.Category == model.CategoryGaming {
		return "gaming process"
	}
	if conf.KeepCommunication && p.Category == model.CategoryCommunication {
		return "communication protected"
	}
	if p.MemoryBytes < conf.ThresholdBytes {
		return "below memory threshold"
	}
	return ""
}
