package model

import "time"

// Category 进程类别，类别之间存在固定的优先级顺序
type Category int

const (
	// CategoryUnknown 未匹配任何规则的进程
	CategoryUnknown Category = iota
	// CategoryCritical 系统关键进程，任何情况下不允许冻结
	CategoryCritical
	// CategoryGaming 游戏相关进程（启动器、反作弊、游戏本体）
	CategoryGaming
	// CategoryCommunication 通讯类应用
	CategoryCommunication
	// CategoryBackground 后台服务类进程
	CategoryBackground
	// CategoryProductivity 浏览器、办公、开发类应用
	CategoryProductivity
)

func (c Category) String() string {
	switch c {
	case CategoryCritical:
		return "Critical"
	case CategoryGaming:
		return "Gaming"
	case CategoryCommunication:
		return "Communication"
	case CategoryBackground:
		return "Background"
	case CategoryProductivity:
		return "Productivity"
	default:
		return "Unknown"
	}
}

// Snapshot 单次枚举得到的进程快照，创建后不再修改
type Snapshot struct {
	PID          uint32   `json:"pid"`
	Name         string   `json:"name"`
	ExePath      string   `json:"exe_path,omitempty"`
	MemoryBytes  uint64   `json:"memory_bytes"`
	IsForeground bool     `json:"is_foreground"`
	Category     Category `json:"-"`
}

// CategoryName 输出用的类别名称
func (s *Snapshot) CategoryName() string {
	return s.Category.String()
}

// MemoryMB 以 MB 为单位的内存占用，仅用于展示
func (s *Snapshot) MemoryMB() uint64 {
	return s.MemoryBytes / (1024 * 1024)
}

// FrozenRecord 持久化的冻结记录，一个 PID 在记录集中至多出现一次
type FrozenRecord struct {
	PID      uint32 `json:"pid"`
	Name     string `json:"name"`
	FrozenAt int64  `json:"frozen_at"`
}

// NewFrozenRecord 以当前时间创建冻结记录
func NewFrozenRecord(pid uint32, name string) FrozenRecord {
	return FrozenRecord{
		PID:      pid,
		Name:     name,
		FrozenAt: time.Now().Unix(),
	}
}

// Age 记录距今的时长
func (r FrozenRecord) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(r.FrozenAt, 0))
}
