package sysproc

import (
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/sjzar/gamefreeze/internal/errors"
	"github.com/sjzar/gamefreeze/internal/model"
)

// Enumerator 进程枚举能力，核心逻辑只依赖该接口，便于注入测试替身
type Enumerator interface {
	// List 返回当前运行进程的快照，快照中至多一个进程 IsForeground 为 true
	List() ([]*model.Snapshot, error)
	// ForegroundPID 返回前台窗口所属进程 PID，无前台窗口时返回 0
	ForegroundPID() (uint32, error)
}

// SystemEnumerator 基于 gopsutil 的真实进程枚举实现
type SystemEnumerator struct{}

func NewEnumerator() *SystemEnumerator {
	return &SystemEnumerator{}
}

// List 枚举所有进程并读取名称与内存占用
// 单个进程读取失败（枚举窗口内进程退出、权限不足）时跳过该进程，不中断整体枚举
func (e *SystemEnumerator) List() ([]*model.Snapshot, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, errors.EnumerateFailed(err)
	}

	fgPID, err := e.ForegroundPID()
	if err != nil {
		log.Debug().Err(err).Msg("查询前台进程失败，按无前台处理")
		fgPID = 0
	}

	result := make([]*model.Snapshot, 0, len(procs))
	for _, p := range procs {
		if p.Pid <= 0 {
			continue
		}

		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}

		var memoryBytes uint64
		if mem, err := p.MemoryInfo(); err == nil && mem != nil {
			memoryBytes = mem.RSS
		}

		// 可执行文件路径仅用于展示，读不到不影响决策
		exePath, _ := p.Exe()

		result = append(result, &model.Snapshot{
			PID:          uint32(p.Pid),
			Name:         name,
			ExePath:      exePath,
			MemoryBytes:  memoryBytes,
			IsForeground: fgPID != 0 && uint32(p.Pid) == fgPID,
		})
	}

	return result, nil
}
