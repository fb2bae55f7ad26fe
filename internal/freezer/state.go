package freezer

import (
	"sort"
	"sync"
)

// State 守护进程的运行时状态，所有字段由单把互斥锁保护
// 监控循环与控制面（TUI/HTTP）并发访问，临界区内只做状态读写
type State struct {
	mu           sync.Mutex
	frozenPIDs   map[uint32]struct{}
	gameDetected bool
	enabled      bool
}

func NewState() *State {
	return &State{
		frozenPIDs: make(map[uint32]struct{}),
		enabled:    true,
	}
}

// AddFrozen 记录一个已冻结的进程
func (s *State) AddFrozen(pid uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozenPIDs[pid] = struct{}{}
}

// RemoveFrozen 移除冻结记录，pid 不存在时为空操作
func (s *State) RemoveFrozen(pid uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.frozenPIDs, pid)
}

// DrainFrozen 取出并清空全部冻结记录，返回按 PID 升序的列表
func (s *State) DrainFrozen() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	pids := make([]uint32, 0, len(s.frozenPIDs))
	for pid := range s.frozenPIDs {
		pids = append(pids, pid)
	}
	s.frozenPIDs = make(map[uint32]struct{})

	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

// FrozenPIDs 返回当前冻结集合的副本
func (s *State) FrozenPIDs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	pids := make([]uint32, 0, len(s.frozenPIDs))
	for pid := range s.frozenPIDs {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

// FrozenCount 当前冻结的进程数
func (s *State) FrozenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frozenPIDs)
}

// SetGameDetected 更新游戏检测标记
func (s *State) SetGameDetected(detected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameDetected = detected
}

// GameDetected 当前是否处于 GameActive 状态
func (s *State) GameDetected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameDetected
}

// SetEnabled 启用/停用自动冻结
// 停用只抑制后续冻结动作，不会恢复已冻结的进程，游戏检测照常进行
func (s *State) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled 自动冻结是否启用
func (s *State) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// ToggleEnabled 切换启用状态并返回新值
func (s *State) ToggleEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = !s.enabled
	return s.enabled
}
