package freezer

import (
	"sort"
	"sync"

	"github.com/sjzar/gamefreeze/internal/model"
	"github.com/sjzar/gamefreeze/internal/sysproc"
)

// Engine 冻结引擎，协调进程枚举、类别判定与冻结策略
// 自身不持有持久状态，只保存注入的配置；副作用全部发生在协作者内部
type Engine struct {
	enumerator  sysproc.Enumerator
	controller  sysproc.Controller
	categorizer *Categorizer

	mu   sync.RWMutex
	conf Config
}

func NewEngine(enumerator sysproc.Enumerator, controller sysproc.Controller, conf Config) *Engine {
	return &Engine{
		enumerator:  enumerator,
		controller:  controller,
		categorizer: NewCategorizer(),
		conf:        conf,
	}
}

// Config 返回当前配置副本
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.conf
}

// SetConfig 更新配置，供配置热加载使用
func (e *Engine) SetConfig(conf Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.conf = conf
}

// Snapshot 枚举全部进程并填充类别
func (e *Engine) Snapshot() ([]*model.Snapshot, error) {
	procs, err := e.enumerator.List()
	if err != nil {
		return nil, err
	}
	for _, p := range procs {
		p.Category = e.categorizer.Categorize(p.Name)
	}
	return procs, nil
}

// FindGaming 返回所有游戏相关进程，结果为空表示没有游戏在运行
func (e *Engine) FindGaming() ([]*model.Snapshot, error) {
	procs, err := e.Snapshot()
	if err != nil {
		return nil, err
	}

	result := make([]*model.Snapshot, 0)
	for _, p := range procs {
		if p.Category == model.CategoryGaming {
			result = append(result, p)
		}
	}
	return result, nil
}

// FindSafeToFreeze 返回可以安全冻结的进程，按内存占用降序排列
// 内存相同的进程保持枚举顺序
func (e *Engine) FindSafeToFreeze() ([]*model.Snapshot, error) {
	procs, err := e.Snapshot()
	if err != nil {
		return nil, err
	}

	conf := e.Config()
	result := make([]*model.Snapshot, 0)
	for _, p := range procs {
		if Eligible(p, conf) {
			result = append(result, p)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MemoryBytes > result[j].MemoryBytes
	})

	return result, nil
}

// FindProtected 返回所有不可冻结的进程及其保护原因，按枚举顺序排列
func (e *Engine) FindProtected() ([]*model.Snapshot, []string, error) {
	procs, err := e.Snapshot()
	if err != nil {
		return nil, nil, err
	}

	conf := e.Config()
	result := make([]*model.Snapshot, 0)
	reasons := make([]string, 0)
	for _, p := range procs {
		if reason := ProtectionReason(p, conf); reason != "" {
			result = append(result, p)
			reasons = append(reasons, reason)
		}
	}
	return result, reasons, nil
}

// Freeze 冻结指定进程，失败原样上抛，由调用方决定是否继续
func (e *Engine) Freeze(pid uint32) error {
	return e.controller.Suspend(pid)
}

// Resume 恢复指定进程
// 对已在运行的进程调用属于良性空操作，控制器负责区分具体错误
func (e *Engine) Resume(pid uint32) error {
	return e.controller.Resume(pid)
}
