package gamefreeze

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/gamefreeze/internal/errors"
	"github.com/sjzar/gamefreeze/internal/freezer"
	"github.com/sjzar/gamefreeze/internal/gamefreeze/conf"
	"github.com/sjzar/gamefreeze/internal/gamefreeze/ctx"
	"github.com/sjzar/gamefreeze/internal/gamefreeze/http"
	"github.com/sjzar/gamefreeze/internal/gamefreeze/monitor"
	"github.com/sjzar/gamefreeze/internal/history"
	"github.com/sjzar/gamefreeze/internal/model"
	"github.com/sjzar/gamefreeze/internal/persistence"
	"github.com/sjzar/gamefreeze/internal/sysproc"
	"github.com/sjzar/gamefreeze/pkg/util"
)

// Manager 管理 GameFreeze 应用
type Manager struct {
	ctx  *ctx.Context
	conf *conf.Service

	// Services
	engine  *freezer.Engine
	state   *freezer.State
	store   persistence.Store
	history *history.Service
	monitor *monitor.Service
	http    *http.Service
	watcher *conf.Watcher

	// Terminal UI
	app *App
}

func New() *Manager {
	return &Manager{}
}

// init 构建全部服务，历史库打开失败不阻止启动
func (m *Manager) init(configPath string) error {
	var err error
	m.conf, err = conf.NewService(configPath)
	if err != nil {
		return err
	}

	m.ctx = ctx.New(m.conf)

	config := m.conf.GetConfig()
	if err := util.PrepareDir(config.GetWorkDir()); err != nil {
		return errors.Config("prepare work dir failed", err)
	}

	m.engine = freezer.NewEngine(sysproc.NewEnumerator(), sysproc.NewController(), config.FreezerConfig())
	m.state = freezer.NewState()
	m.store = persistence.NewFileStore(config.StateFilePath())

	m.history, err = history.NewService(config.HistoryFilePath())
	if err != nil {
		log.Warn().Err(err).Msg("打开历史库失败，历史记录不可用")
		m.history = nil
	}

	m.monitor = monitor.NewService(m.conf, m.engine, m.state, m.store, m.history)
	m.http = http.NewService(config, m.monitor, m.engine, m.history)

	return nil
}

// Run 启动交互模式：监控服务 + 终端UI
func (m *Manager) Run(configPath string) error {
	if err := m.init(configPath); err != nil {
		return err
	}

	if err := m.monitor.Start(); err != nil {
		return err
	}

	if m.ctx.HTTPEnabled {
		if err := m.StartService(); err != nil {
			m.StopService()
		}
	}

	m.startConfigWatcher()

	// 启动终端UI
	m.app = NewApp(m.ctx, m)
	m.app.Run() // 阻塞

	return m.shutdown()
}

// CommandDaemon 无界面模式运行，直到收到退出信号
func (m *Manager) CommandDaemon(configPath string) error {
	if err := m.init(configPath); err != nil {
		return err
	}

	if err := m.monitor.Start(); err != nil {
		return err
	}

	if m.ctx.HTTPEnabled {
		if err := m.StartService(); err != nil {
			log.Warn().Err(err).Msg("启动 HTTP 服务失败")
		}
	}

	m.startConfigWatcher()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	log.Info().Msg("收到退出信号")
	return m.shutdown()
}

// shutdown 按依赖的反序停止服务，监控服务最后停止以保证退出协议执行
func (m *Manager) shutdown() error {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	if m.http != nil {
		m.http.Stop()
	}

	var err error
	if m.monitor != nil {
		err = m.monitor.Stop()
	}

	if m.history != nil {
		m.history.Close()
	}
	return err
}

func (m *Manager) startConfigWatcher() {
	watcher, err := conf.NewWatcher(m.conf, func(c *conf.Config) {
		m.monitor.ApplyConfig(c)
		m.ctx.Refresh()
	})
	if err != nil {
		log.Warn().Err(err).Msg("配置热加载不可用")
		return
	}
	m.watcher = watcher
}

// StartService 启动 HTTP 服务
func (m *Manager) StartService() error {
	if err := m.http.Start(); err != nil {
		return err
	}

	// 更新状态
	m.ctx.SetHTTPEnabled(true)

	return nil
}

// StopService 停止 HTTP 服务
func (m *Manager) StopService() error {
	if err := m.http.Stop(); err != nil {
		return err
	}

	// 更新状态
	m.ctx.SetHTTPEnabled(false)

	return nil
}

// SetHTTPAddr 设置 HTTP 服务地址，支持纯端口与带协议前缀的写法
func (m *Manager) SetHTTPAddr(text string) error {
	var addr string
	if util.IsNumeric(text) {
		addr = fmt.Sprintf("127.0.0.1:%s", text)
	} else if strings.HasPrefix(text, "http://") {
		addr = strings.TrimPrefix(text, "http://")
	} else if strings.HasPrefix(text, "https://") {
		addr = strings.TrimPrefix(text, "https://")
	} else {
		addr = text
	}
	m.ctx.SetHTTPAddr(addr)
	return nil
}

// ToggleEnabled 切换自动冻结开关并返回新状态
func (m *Manager) ToggleEnabled() (bool, error) {
	enabled := !m.state.Enabled()
	if err := m.monitor.SetEnabled(enabled); err != nil {
		return enabled, err
	}
	m.ctx.Refresh()
	return enabled, nil
}

// CommandList 列出进程，kind 为 candidates/gaming/all，format 为 table/json/csv
func (m *Manager) CommandList(configPath string, kind string, format string) (string, error) {
	if err := m.initCommand(configPath); err != nil {
		return "", err
	}

	var procs []*model.Snapshot
	var reasons []string
	var err error
	switch kind {
	case "candidates":
		procs, err = m.engine.FindSafeToFreeze()
	case "gaming":
		procs, err = m.engine.FindGaming()
	case "protected":
		procs, reasons, err = m.engine.FindProtected()
	case "all":
		procs, err = m.engine.Snapshot()
	default:
		return "", errors.ErrInvalidArg("kind must be candidates, gaming, protected or all")
	}
	if err != nil {
		return "", err
	}

	return formatProcesses(procs, reasons, format)
}

// CommandFreeze 一次性冻结指定进程并登记冻结记录，供守护进程崩溃恢复使用
func (m *Manager) CommandFreeze(configPath string, pid uint32) error {
	if err := m.initCommand(configPath); err != nil {
		return err
	}

	procs, err := m.engine.Snapshot()
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
	if target.Category == model.CategoryCritical || target.Category == model.CategoryGaming {
		return errors.ErrInvalidArg("refuse to freeze " + target.CategoryName() + " process " + target.Name)
	}

	if err := m.engine.Freeze(pid); err != nil {
		return err
	}

	records, _ := m.store.Load()
	for _, r := range records {
		if r.PID == pid {
			return nil
		}
	}
	records = append(records, model.NewFrozenRecord(pid, target.Name))
	return m.store.Save(records)
}

// CommandResume 一次性恢复指定进程并清理冻结记录
func (m *Manager) CommandResume(configPath string, pid uint32) error {
	if err := m.initCommand(configPath); err != nil {
		return err
	}

	if err := m.engine.Resume(pid); err != nil {
		return err
	}

	records, _ := m.store.Load()
	remaining := make([]model.FrozenRecord, 0, len(records))
	for _, r := range records {
		if r.PID != pid {
			remaining = append(remaining, r)
		}
	}
	return m.store.Save(remaining)
}

// initCommand 构建一次性命令需要的最小服务集
func (m *Manager) initCommand(configPath string) error {
	var err error
	m.conf, err = conf.NewService(configPath)
	if err != nil {
		return err
	}

	config := m.conf.GetConfig()
	m.engine = freezer.NewEngine(sysproc.NewEnumerator(), sysproc.NewController(), config.FreezerConfig())
	m.store = persistence.NewFileStore(config.StateFilePath())
	return nil
}

// formatProcesses 输出进程列表，reasons 不为空时附加保护原因列（protected 视图）
func formatProcesses(procs []*model.Snapshot, reasons []string, format string) (string, error) {
	reason := func(i int) string {
		if i < len(reasons) {
			return reasons[i]
		}
		return ""
	}

	switch format {
	case "", "table":
		var sb strings.Builder
		w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
		if reasons != nil {
			fmt.Fprintln(w, "PID\tNAME\tMEMORY\tCATEGORY\tREASON")
		} else {
			fmt.Fprintln(w, "PID\tNAME\tMEMORY\tCATEGORY\tFOREGROUND")
		}
		for i, p := range procs {
			last := reason(i)
			if reasons == nil {
				if p.IsForeground {
					last = "*"
				} else {
					last = ""
				}
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.PID, p.Name, util.HumanSize(p.MemoryBytes), p.CategoryName(), last)
		}
		w.Flush()
		return sb.String(), nil
	case "json":
		type item struct {
			PID          uint32 `json:"pid"`
			Name         string `json:"name"`
			MemoryBytes  uint64 `json:"memory_bytes"`
			Category     string `json:"category"`
			IsForeground bool   `json:"is_foreground"`
			Reason       string `json:"reason,omitempty"`
		}
		items := make([]item, 0, len(procs))
		for i, p := range procs {
			items = append(items, item{p.PID, p.Name, p.MemoryBytes, p.CategoryName(), p.IsForeground, reason(i)})
		}
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "csv":
		var sb strings.Builder
		w := csv.NewWriter(&sb)
		header := []string{"pid", "name", "memory_bytes", "category", "foreground"}
		if reasons != nil {
			header = append(header, "reason")
		}
		w.Write(header)
		for i, p := range procs {
			row := []string{
				fmt.Sprint(p.PID),
				p.Name,
				fmt.Sprint(p.MemoryBytes),
				p.CategoryName(),
				fmt.Sprint(p.IsForeground),
			}
			if reasons != nil {
				row = append(row, reason(i))
			}
			w.Write(row)
		}
		w.Flush()
		return sb.String(), w.Error()
	default:
		return "", errors.ErrInvalidArg("format must be table, json or csv")
	}
}
