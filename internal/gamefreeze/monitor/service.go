package monitor

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/gamefreeze/internal/errors"
	"github.com/sjzar/gamefreeze/internal/freezer"
	"github.com/sjzar/gamefreeze/internal/gamefreeze/conf"
	"github.com/sjzar/gamefreeze/internal/history"
	"github.com/sjzar/gamefreeze/internal/model"
	"github.com/sjzar/gamefreeze/internal/persistence"
)

// Service 监控服务，驱动 Idle 与 GameActive 之间的状态迁移
//
// 每个轮询周期检测游戏进程：检测信号出现的上升沿触发冻结，消失的下降沿触发恢复，
// 信号不变时不做任何动作。enabled 只抑制冻结动作，检测始终进行，
// 游戏运行期间重新启用时会补执行一次挂起的冻结，不需要新的边沿触发
type Service struct {
	conf    *conf.Service
	engine  *freezer.Engine
	state   *freezer.State
	store   persistence.Store
	history *history.Service // 可以为 nil，历史记录是旁路功能

	// pendingFreeze 游戏已检测到但冻结被 enabled=false 抑制
	pendingFreeze bool

	// frozenMeta 记录冻结时的进程信息，恢复时用于日志、历史记录与释放内存统计
	metaMu     sync.Mutex
	frozenMeta map[uint32]frozenEntry

	interval time.Duration

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

type frozenEntry struct {
	record      model.FrozenRecord
	memoryBytes uint64
}

func NewService(confService *conf.Service, engine *freezer.Engine, state *freezer.State,
	store persistence.Store, historyService *history.Service) *Service {
	c := confService.GetConfig()
	return &Service{
		conf:       confService,
		engine:     engine,
		state:      state,
		store:      store,
		history:    historyService,
		frozenMeta: make(map[uint32]frozenEntry),
		interval:   c.Interval(),
	}
}

// Start 启动监控：先执行崩溃恢复，再拉起轮询循环
func (s *Service) Start() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.running {
		return nil
	}

	// 崩溃恢复必须在监控循环启动之前完成
	report := persistence.Recover(s.store, s.engine)
	if report.Resumed+report.Skipped+report.Stale > 0 {
		log.Info().
			Int("resumed", report.Resumed).
			Int("skipped", report.Skipped).
			Int("stale", report.Stale).
			Msg("崩溃恢复完成")
	}

	c := s.conf.GetConfig()
	s.state.SetEnabled(c.Enabled)
	s.interval = c.Interval()

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running = true
	go s.loop()

	log.Info().
		Dur("interval", s.interval).
		Uint64("threshold_bytes", s.engine.Config().ThresholdBytes).
		Bool("keep_communication", s.engine.Config().KeepCommunication).
		Msg("监控服务已启动")
	return nil
}

// Stop 停止监控并执行退出协议：恢复全部被冻结的进程、落盘空记录集
// 这是系统的核心安全保证，无论当前处于什么状态都会执行
func (s *Service) Stop() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if !s.running {
		return nil
	}

	close(s.stopCh)
	<-s.doneCh
	s.running = false

	s.resumeAll("shutdown")
	return nil
}

// ApplyConfig 应用新配置，供配置热加载与控制面调用
func (s *Service) ApplyConfig(c *conf.Config) {
	s.engine.SetConfig(c.FreezerConfig())
	s.state.SetEnabled(c.Enabled)

	s.runMu.Lock()
	s.interval = c.Interval()
	s.runMu.Unlock()
}

func (s *Service) currentInterval() time.Duration {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.interval
}

func (s *Service) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.currentInterval())
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := s.RunCycle(); err != nil {
				// 枚举失败只影响本轮，下个周期重试
				log.Warn().Err(err).Msg("本轮检测失败")
			}
			ticker.Reset(s.currentInterval())
		}
	}
}

// RunCycle 执行一个监控周期，状态迁移逻辑集中在这里以便单独测试
func (s *Service) RunCycle() error {
	gaming, err := s.engine.FindGaming()
	if err != nil {
		return err
	}

	gamingRunning := len(gaming) > 0
	wasDetected := s.state.GameDetected()

	switch {
	case gamingRunning && !wasDetected:
		// Idle -> GameActive
		s.state.SetGameDetected(true)
		log.Info().Str("game", gaming[0].Name).Msg("检测到游戏启动")
		if s.state.Enabled() {
			s.freezeBurst()
		} else {
			log.Info().Msg("自动冻结已停用，跳过冻结")
			s.pendingFreeze = true
		}

	case gamingRunning && wasDetected:
		// 游戏运行期间重新启用，补执行被抑制的冻结
		if s.pendingFreeze && s.state.Enabled() {
			s.pendingFreeze = false
			s.freezeBurst()
		}

	case !gamingRunning && wasDetected:
		// GameActive -> Idle
		s.state.SetGameDetected(false)
		s.pendingFreeze = false
		log.Info().Msg("游戏已退出，恢复被冻结的进程")
		s.resumeAll("game exited")
	}

	return nil
}

// freezeBurst 冻结当前所有符合策略的进程并持久化记录
// 个别进程冻结失败不中断序列，已成功的部分照常落盘，
// 崩溃恢复的账目与现实的偏差不会超过一次失败的调用。
// 落盘总是写完整的跟踪集合，手动冻结的进程不会被本轮记录覆盖掉
func (s *Service) freezeBurst() {
	safe, err := s.engine.FindSafeToFreeze()
	if err != nil {
		log.Warn().Err(err).Msg("枚举可冻结进程失败")
		return
	}
	if len(safe) == 0 {
		log.Info().Msg("没有符合冻结条件的进程")
		return
	}

	records := make([]model.FrozenRecord, 0, len(safe))
	var freed uint64
	for _, p := range safe {
		if err := s.engine.Freeze(p.PID); err != nil {
			log.Warn().Err(err).Uint32("pid", p.PID).Str("name", p.Name).Msg("冻结失败")
			continue
		}

		record := model.NewFrozenRecord(p.PID, p.Name)
		records = append(records, record)
		s.state.AddFrozen(p.PID)

		s.metaMu.Lock()
		s.frozenMeta[p.PID] = frozenEntry{record: record, memoryBytes: p.MemoryBytes}
		s.metaMu.Unlock()

		if s.history != nil {
			s.history.Record(history.ActionFreeze, p.PID, p.Name, p.MemoryBytes)
		}
		log.Info().Uint32("pid", p.PID).Str("name", p.Name).Uint64("memory_mb", p.MemoryMB()).Msg("已冻结")
		freed += p.MemoryBytes
	}

	s.persist(s.currentRecords())
	log.Info().Int("count", len(records)).Uint64("freed_mb", freed/(1024*1024)).Msg("冻结完成")
}

// resumeAll 恢复全部被跟踪的进程并落盘剩余记录集，全部成功时即为空集
func (s *Service) resumeAll(reason string) {
	pids := s.state.DrainFrozen()
	if len(pids) == 0 {
		// 即使没有冻结中的进程也清一次盘，保证磁盘与内存一致
		s.persist(nil)
		return
	}

	resumed := 0
	for _, pid := range pids {
		s.metaMu.Lock()
		meta := s.frozenMeta[pid]
		s.metaMu.Unlock()

		// 恢复失败的进程保留跟踪与记录，下次恢复或崩溃恢复时重试
		if err := s.engine.Resume(pid); err != nil {
			log.Warn().Err(err).Uint32("pid", pid).Msg("恢复失败")
			s.state.AddFrozen(pid)
			continue
		}

		s.metaMu.Lock()
		delete(s.frozenMeta, pid)
		s.metaMu.Unlock()

		if s.history != nil {
			s.history.Record(history.ActionResume, pid, meta.record.Name, 0)
		}
		log.Info().Uint32("pid", pid).Str("name", meta.record.Name).Msg("已恢复")
		resumed++
	}

	s.persist(s.currentRecords())
	log.Info().Int("count", resumed).Str("reason", reason).Msg("恢复完成")
}

// persist 落盘完整记录集，失败重试一次；持久化失败不阻塞冻结/恢复本身
func (s *Service) persist(records []model.FrozenRecord) {
	if err := s.store.Save(records); err != nil {
		log.Warn().Err(err).Msg("保存状态失败，重试一次")
		if err := s.store.Save(records); err != nil {
			log.Error().Err(err).Msg("保存状态失败，崩溃恢复可能不完整")
		}
	}
}

// Status 监控状态快照，供 TUI 与 HTTP 控制面展示
type Status struct {
	Running     bool     `json:"running"`
	Enabled     bool     `json:"enabled"`
	GameActive  bool     `json:"game_active"`
	FrozenCount int      `json:"frozen_count"`
	FrozenPIDs  []uint32 `json:"frozen_pids"`
	FreedBytes  uint64   `json:"freed_bytes"`
	IntervalSec int      `json:"interval_sec"`
}

// GetStatus 返回当前状态
func (s *Service) GetStatus() Status {
	s.metaMu.Lock()
	var freed uint64
	for _, entry := range s.frozenMeta {
		freed += entry.memoryBytes
	}
	s.metaMu.Unlock()

	s.runMu.Lock()
	running := s.running
	interval := s.interval
	s.runMu.Unlock()

	return Status{
		Running:     running,
		Enabled:     s.state.Enabled(),
		GameActive:  s.state.GameDetected(),
		FrozenCount: s.state.FrozenCount(),
		FrozenPIDs:  s.state.FrozenPIDs(),
		FreedBytes:  freed,
		IntervalSec: int(interval / time.Second),
	}
}

// SetEnabled 启用/停用自动冻结并持久化到配置
// 停用不会恢复已冻结的进程，只抑制后续冻结
func (s *Service) SetEnabled(enabled bool) error {
	s.state.SetEnabled(enabled)
	return s.conf.SetConfig("enabled", enabled)
}

// FreezePID 手动冻结指定进程并纳入统一跟踪
// 关键进程与游戏进程拒绝冻结，避免手动操作破坏系统
func (s *Service) FreezePID(pid uint32) error {
	procs, err := s.engine.Snapshot()
	if err != nil {
		return err
	}

	var target *model.Snapshot
	for _, p := range procs {
		if p.PID == pid {
			target = p
			break
		}
	}
	if target == nil {
		return errors.ProcessNotFound(pid)
	}
	if target.Category == model.CategoryCritical {
		return errors.ErrInvalidArg("refuse to freeze critical process " + target.Name)
	}
	if target.Category == model.CategoryGaming {
		return errors.ErrInvalidArg("refuse to freeze gaming process " + target.Name)
	}

	if err := s.engine.Freeze(pid); err != nil {
		return err
	}

	record := model.NewFrozenRecord(pid, target.Name)
	s.state.AddFrozen(pid)
	s.metaMu.Lock()
	s.frozenMeta[pid] = frozenEntry{record: record, memoryBytes: target.MemoryBytes}
	s.metaMu.Unlock()

	if s.history != nil {
		s.history.Record(history.ActionFreeze, pid, target.Name, target.MemoryBytes)
	}
	log.Info().Uint32("pid", pid).Str("name", target.Name).Msg("已手动冻结")

	s.persist(s.currentRecords())
	return nil
}

// ResumePID 手动恢复指定进程
// 对未被跟踪的进程同样有效，进程本就在运行时属于良性空操作
func (s *Service) ResumePID(pid uint32) error {
	if err := s.engine.Resume(pid); err != nil {
		return err
	}

	s.state.RemoveFrozen(pid)
	s.metaMu.Lock()
	meta, tracked := s.frozenMeta[pid]
	delete(s.frozenMeta, pid)
	s.metaMu.Unlock()

	if s.history != nil {
		s.history.Record(history.ActionResume, pid, meta.record.Name, 0)
	}
	if tracked {
		log.Info().Uint32("pid", pid).Str("name", meta.record.Name).Msg("已手动恢复")
	} else {
		log.Info().Uint32("pid", pid).Msg("已手动恢复（未被跟踪的进程）")
	}

	s.persist(s.currentRecords())
	return nil
}

// currentRecords 当前跟踪集合的完整记录，持久化总是写整个集合
func (s *Service) currentRecords() []model.FrozenRecord {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()

	records := make([]model.FrozenRecord, 0, len(s.frozenMeta))
	for _, entry := range s.frozenMeta {
		records = append(records, entry.record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].PID < records[j].PID })
	return records
}
