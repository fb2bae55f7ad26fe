package gamefreeze

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sjzar/gamefreeze/internal/autostart"
	"github.com/sjzar/gamefreeze/internal/gamefreeze/ctx"
	"github.com/sjzar/gamefreeze/internal/model"
	"github.com/sjzar/gamefreeze/internal/ui/footer"
	"github.com/sjzar/gamefreeze/internal/ui/form"
	"github.com/sjzar/gamefreeze/internal/ui/help"
	"github.com/sjzar/gamefreeze/internal/ui/infobar"
	"github.com/sjzar/gamefreeze/internal/ui/menu"
	"github.com/sjzar/gamefreeze/pkg/util"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	RefreshInterval = 1000 * time.Millisecond
)

type App struct {
	*tview.Application

	ctx         *ctx.Context
	m           *Manager
	stopRefresh chan struct{}

	// page
	mainPages *tview.Pages
	infoBar   *infobar.InfoBar
	tabPages  *tview.Pages
	footer    *footer.Footer

	// tab
	menu      *menu.Menu
	help      *help.Help
	activeTab int
	tabCount  int
}

func NewApp(ctx *ctx.Context, m *Manager) *App {
	app := &App{
		ctx:         ctx,
		m:           m,
		Application: tview.NewApplication(),
		mainPages:   tview.NewPages(),
		infoBar:     infobar.New(),
		tabPages:    tview.NewPages(),
		footer:      footer.New(),
		menu:        menu.New("主菜单"),
		help:        help.New(),
		stopRefresh: make(chan struct{}),
	}

	app.initMenu()

	app.updateMenuItemsState()

	return app
}

func (a *App) Run() error {

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.infoBar, infobar.InfoBarViewHeight, 0, false).
		AddItem(a.tabPages, 0, 1, true).
		AddItem(a.footer, 1, 1, false)

	a.mainPages.AddPage("main", flex, true, true)

	a.tabPages.
		AddPage("0", a.menu, true, true).
		AddPage("1", a.help, true, false)
	a.tabCount = 2

	a.SetInputCapture(a.inputCapture)

	go a.refresh()

	if err := a.SetRoot(a.mainPages, true).EnableMouse(false).Run(); err != nil {
		return err
	}

	return nil
}

func (a *App) Stop() {
	if a.stopRefresh != nil {
		close(a.stopRefresh)
		a.stopRefresh = nil
	}
	a.Application.Stop()
}

func (a *App) updateMenuItemsState() {
	for _, item := range a.menu.GetItems() {
		// 更新自动冻结菜单项
		if item.Index == 2 {
			if a.m.state.Enabled() {
				item.Name = "停用自动冻结"
				item.Description = "检测照常进行，只是不再冻结进程"
			} else {
				item.Name = "启用自动冻结"
				item.Description = "游戏仍在运行时会立即补执行冻结"
			}
		}

		// 更新HTTP服务菜单项
		if item.Index == 5 {
			if a.ctx.HTTPEnabled {
				item.Name = "停止 HTTP 服务"
				item.Description = "停止本地 HTTP 控制接口"
			} else {
				item.Name = "启动 HTTP 服务"
				item.Description = "启动本地 HTTP 控制接口"
			}
		}
	}
}

func (a *App) switchTab(step int) {
	index := (a.activeTab + step) % a.tabCount
	if index < 0 {
		index = a.tabCount - 1
	}
	a.activeTab = index
	a.tabPages.SwitchToPage(fmt.Sprint(a.activeTab))
}

func (a *App) refresh() {
	tick := time.NewTicker(RefreshInterval)
	defer tick.Stop()

	for {
		select {
		case <-a.stopRefresh:
			return
		case <-tick.C:
			status := a.m.monitor.GetStatus()

			if status.GameActive {
				a.infoBar.UpdateState("[green]GameActive[white]")
			} else {
				a.infoBar.UpdateState("Idle")
			}
			if status.Enabled {
				a.infoBar.UpdateEnabled("[green][已启用][white]")
			} else {
				a.infoBar.UpdateEnabled("[yellow][已停用][white]")
			}
			a.infoBar.UpdateFrozen(status.FrozenCount, util.HumanSize(status.FreedBytes))
			a.infoBar.UpdatePolicy(
				fmt.Sprintf("%ds", status.IntervalSec),
				fmt.Sprintf("%d MB", a.ctx.ThresholdMB),
			)
			if a.ctx.HTTPEnabled {
				a.infoBar.UpdateHTTPServer(fmt.Sprintf("[green][已启动][white] [%s]", a.ctx.HTTPAddr))
			} else {
				a.infoBar.UpdateHTTPServer("[未启动]")
			}
			a.infoBar.UpdateWorkDir(a.ctx.WorkDir)

			a.Draw()
		}
	}
}

func (a *App) inputCapture(event *tcell.EventKey) *tcell.EventKey {

	// 如果当前页面不是主页面，ESC 键返回主页面
	if a.mainPages.HasPage("submenu") && event.Key() == tcell.KeyEscape {
		a.mainPages.RemovePage("submenu")
		a.mainPages.SwitchToPage("main")
		return nil
	}

	if a.tabPages.HasFocus() {
		switch event.Key() {
		case tcell.KeyLeft:
			a.switchTab(-1)
			return nil
		case tcell.KeyRight:
			a.switchTab(1)
			return nil
		}
	}

	switch event.Key() {
	case tcell.KeyCtrlC:
		a.Stop()
	}

	return event
}

func (a *App) initMenu() {
	toggleFreeze := &menu.Item{
		Index:       2,
		Name:        "停用自动冻结",
		Description: "检测照常进行，只是不再冻结进程",
		Selected: func(i *menu.Item) {
			enabled, err := a.m.ToggleEnabled()
			a.updateMenuItemsState()
			if err != nil {
				a.showError(err)
				return
			}
			if enabled {
				a.showInfo("已启用自动冻结")
			} else {
				a.showInfo("已停用自动冻结，已冻结的进程等游戏退出后恢复")
			}
		},
	}

	candidates := &menu.Item{
		Index:       3,
		Name:        "查看冻结候选",
		Description: "列出满足冻结条件的进程，Enter 可手动冻结",
		Selected:    a.candidatesSelected,
	}

	frozen := &menu.Item{
		Index:       4,
		Name:        "查看已冻结进程",
		Description: "列出当前被冻结的进程，Enter 可手动恢复",
		Selected:    a.frozenSelected,
	}

	httpServer := &menu.Item{
		Index:       5,
		Name:        "启动 HTTP 服务",
		Description: "启动本地 HTTP 控制接口",
		Selected: func(i *menu.Item) {
			modal := tview.NewModal()

			// 根据当前服务状态执行不同操作
			if !a.ctx.HTTPEnabled {
				modal.SetText("正在启动 HTTP 服务...")
				a.mainPages.AddPage("modal", modal, true, true)
				a.SetFocus(modal)

				go func() {
					err := a.m.StartService()

					// 在主线程中更新UI
					a.QueueUpdateDraw(func() {
						if err != nil {
							modal.SetText("启动 HTTP 服务失败: " + err.Error())
						} else {
							modal.SetText("已启动 HTTP 服务")
						}

						a.updateMenuItemsState()

						modal.AddButtons([]string{"OK"})
						modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
							a.mainPages.RemovePage("modal")
						})
						a.SetFocus(modal)
					})
				}()
			} else {
				modal.SetText("正在停止 HTTP 服务...")
				a.mainPages.AddPage("modal", modal, true, true)
				a.SetFocus(modal)

				go func() {
					err := a.m.StopService()

					// 在主线程中更新UI
					a.QueueUpdateDraw(func() {
						if err != nil {
							modal.SetText("停止 HTTP 服务失败: " + err.Error())
						} else {
							modal.SetText("已停止 HTTP 服务")
						}

						a.updateMenuItemsState()

						modal.AddButtons([]string{"OK"})
						modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
							a.mainPages.RemovePage("modal")
						})
						a.SetFocus(modal)
					})
				}()
			}
		},
	}

	setting := &menu.Item{
		Index:       6,
		Name:        "设置",
		Description: "设置应用程序选项",
		Selected:    a.settingSelected,
	}

	a.menu.AddItem(toggleFreeze)
	a.menu.AddItem(candidates)
	a.menu.AddItem(frozen)
	a.menu.AddItem(httpServer)
	a.menu.AddItem(setting)

	a.menu.AddItem(&menu.Item{
		Index:       7,
		Name:        "退出",
		Description: "恢复全部被冻结的进程并退出",
		Selected: func(i *menu.Item) {
			a.Stop()
		},
	})
}

// candidatesSelected 展示冻结候选列表
func (a *App) candidatesSelected(i *menu.Item) {
	procs, err := a.m.engine.FindSafeToFreeze()
	if err != nil {
		a.showError(err)
		return
	}

	subMenu := menu.NewSubMenu("冻结候选")

	if len(procs) == 0 {
		subMenu.AddItem(&menu.Item{
			Index:       1,
			Name:        "无冻结候选",
			Description: "没有满足冻结条件的进程",
		})
	}

	for idx, p := range procs {
		subMenu.AddItem(&menu.Item{
			Index:       idx + 1,
			Name:        fmt.Sprintf("%s [%d]", p.Name, p.PID),
			Description: fmt.Sprintf("%s  %s", util.HumanSize(p.MemoryBytes), p.CategoryName()),
			Selected: func(p *model.Snapshot) func(*menu.Item) {
				return func(*menu.Item) {
					a.mainPages.RemovePage("submenu")
					if err := a.m.monitor.FreezePID(p.PID); err != nil {
						a.showError(err)
						return
					}
					a.showInfo(fmt.Sprintf("已冻结 %s [%d]", p.Name, p.PID))
				}
			}(p),
		})
	}

	a.mainPages.AddPage("submenu", subMenu, true, true)
	a.SetFocus(subMenu)
}

// frozenSelected 展示已冻结进程列表
func (a *App) frozenSelected(i *menu.Item) {
	pids := a.m.state.FrozenPIDs()

	subMenu := menu.NewSubMenu("已冻结进程")

	if len(pids) == 0 {
		subMenu.AddItem(&menu.Item{
			Index:       1,
			Name:        "无已冻结进程",
			Description: "当前没有被冻结的进程",
		})
	}

	for idx, pid := range pids {
		subMenu.AddItem(&menu.Item{
			Index:       idx + 1,
			Name:        fmt.Sprintf("PID %d", pid),
			Description: "Enter 恢复该进程",
			Selected: func(pid uint32) func(*menu.Item) {
				return func(*menu.Item) {
					a.mainPages.RemovePage("submenu")
					if err := a.m.monitor.ResumePID(pid); err != nil {
						a.showError(err)
						return
					}
					a.showInfo(fmt.Sprintf("已恢复 PID %d", pid))
				}
			}(pid),
		})
	}

	a.mainPages.AddPage("submenu", subMenu, true, true)
	a.SetFocus(subMenu)
}

// settingItem 表示一个设置项
type settingItem struct {
	name        string
	description string
	action      func()
}

func (a *App) settingSelected(i *menu.Item) {

	settings := []settingItem{
		{
			name:        "设置轮询间隔",
			description: "配置游戏检测的轮询周期（秒）",
			action:      a.settingInterval,
		},
		{
			name:        "设置内存阈值",
			description: "配置进入冻结候选的最小内存占用（MB）",
			action:      a.settingThreshold,
		},
		{
			name:        "设置通讯应用保护",
			description: "游戏期间是否保留 Discord 等通讯应用",
			action:      a.settingKeepCommunication,
		},
		{
			name:        "设置 HTTP 服务地址",
			description: "配置 HTTP 服务监听的地址",
			action:      a.settingHTTPPort,
		},
		{
			name:        "设置开机自启",
			description: "登录系统时自动以无界面模式启动",
			action:      a.settingAutostart,
		},
	}

	subMenu := menu.NewSubMenu("设置")
	for idx, setting := range settings {
		item := &menu.Item{
			Index:       idx + 1,
			Name:        setting.name,
			Description: setting.description,
			Selected: func(action func()) func(*menu.Item) {
				return func(*menu.Item) {
					action()
				}
			}(setting.action),
		}
		subMenu.AddItem(item)
	}

	a.mainPages.AddPage("submenu", subMenu, true, true)
	a.SetFocus(subMenu)
}

// settingInterval 设置轮询间隔
func (a *App) settingInterval() {
	formView := form.NewForm("设置轮询间隔")

	tempInterval := strconv.Itoa(a.ctx.IntervalSec)

	formView.AddInputField("间隔（秒）", tempInterval, 0, nil, func(text string) {
		tempInterval = text
	})

	formView.AddButton("保存", func() {
		seconds, err := strconv.Atoi(tempInterval)
		if err != nil || seconds <= 0 {
			a.mainPages.RemovePage("submenu2")
			a.showError(fmt.Errorf("无效的间隔: %s", tempInterval))
			return
		}
		a.ctx.SetInterval(seconds)
		a.m.monitor.ApplyConfig(a.m.conf.GetConfig())
		a.mainPages.RemovePage("submenu2")
		a.showInfo(fmt.Sprintf("轮询间隔已设置为 %d 秒", seconds))
	})

	formView.AddButton("取消", func() {
		a.mainPages.RemovePage("submenu2")
	})

	a.mainPages.AddPage("submenu2", formView, true, true)
	a.SetFocus(formView)
}

// settingThreshold 设置内存阈值
func (a *App) settingThreshold() {
	formView := form.NewForm("设置内存阈值")

	tempThreshold := strconv.Itoa(a.ctx.ThresholdMB)

	formView.AddInputField("阈值（MB）", tempThreshold, 0, nil, func(text string) {
		tempThreshold = text
	})

	formView.AddButton("保存", func() {
		mb, err := strconv.Atoi(tempThreshold)
		if err != nil || mb <= 0 {
			a.mainPages.RemovePage("submenu2")
			a.showError(fmt.Errorf("无效的阈值: %s", tempThreshold))
			return
		}
		a.ctx.SetThresholdMB(mb)
		a.m.monitor.ApplyConfig(a.m.conf.GetConfig())
		a.mainPages.RemovePage("submenu2")
		a.showInfo(fmt.Sprintf("内存阈值已设置为 %d MB", mb))
	})

	formView.AddButton("取消", func() {
		a.mainPages.RemovePage("submenu2")
	})

	a.mainPages.AddPage("submenu2", formView, true, true)
	a.SetFocus(formView)
}

// settingKeepCommunication 设置通讯应用保护
func (a *App) settingKeepCommunication() {
	formView := form.NewForm("设置通讯应用保护")

	tempKeep := a.ctx.KeepCommunication

	formView.AddCheckbox("游戏期间保留通讯应用", tempKeep, func(checked bool) {
		tempKeep = checked
	})

	formView.AddButton("保存", func() {
		a.ctx.SetKeepCommunication(tempKeep)
		a.m.monitor.ApplyConfig(a.m.conf.GetConfig())
		a.mainPages.RemovePage("submenu2")
		if tempKeep {
			a.showInfo("游戏期间将保留通讯应用")
		} else {
			a.showInfo("通讯应用将按内存阈值参与冻结")
		}
	})

	formView.AddButton("取消", func() {
		a.mainPages.RemovePage("submenu2")
	})

	a.mainPages.AddPage("submenu2", formView, true, true)
	a.SetFocus(formView)
}

// settingAutostart 设置开机自启
func (a *App) settingAutostart() {
	s, err := autostart.NewService()
	if err != nil {
		a.showError(err)
		return
	}
	installed, err := s.Installed()
	if err != nil {
		a.showError(err)
		return
	}

	formView := form.NewForm("设置开机自启")

	tempEnabled := installed
	formView.AddCheckbox("开机自启", tempEnabled, func(checked bool) {
		tempEnabled = checked
	})

	formView.AddButton("保存", func() {
		a.mainPages.RemovePage("submenu2")
		if tempEnabled == installed {
			return
		}
		var err error
		if tempEnabled {
			err = s.Install()
		} else {
			err = s.Uninstall()
		}
		if err != nil {
			a.showError(err)
			return
		}
		if tempEnabled {
			a.showInfo("已注册开机自启")
		} else {
			a.showInfo("已取消开机自启")
		}
	})

	formView.AddButton("取消", func() {
		a.mainPages.RemovePage("submenu2")
	})

	a.mainPages.AddPage("submenu2", formView, true, true)
	a.SetFocus(formView)
}

// settingHTTPPort 设置 HTTP 端口
func (a *App) settingHTTPPort() {
	formView := form.NewForm("设置 HTTP 地址")

	tempHTTPAddr := a.ctx.HTTPAddr

	formView.AddInputField("地址", tempHTTPAddr, 0, nil, func(text string) {
		tempHTTPAddr = text
	})

	formView.AddButton("保存", func() {
		a.m.SetHTTPAddr(tempHTTPAddr)
		a.mainPages.RemovePage("submenu2")
		a.showInfo("HTTP 地址已设置为 " + a.ctx.HTTPAddr)
	})

	formView.AddButton("取消", func() {
		a.mainPages.RemovePage("submenu2")
	})

	a.mainPages.AddPage("submenu2", formView, true, true)
	a.SetFocus(formView)
}

// showModal 显示一个模态对话框
func (a *App) showModal(text string, buttons []string, doneFunc func(buttonIndex int, buttonLabel string)) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons(buttons).
		SetDoneFunc(doneFunc)

	a.mainPages.AddPage("modal", modal, true, true)
	a.SetFocus(modal)
}

// showError 显示错误对话框
func (a *App) showError(err error) {
	a.showModal(err.Error(), []string{"OK"}, func(buttonIndex int, buttonLabel string) {
		a.mainPages.RemovePage("modal")
	})
}

// showInfo 显示信息对话框
func (a *App) showInfo(text string) {
	a.showModal(text, []string{"OK"}, func(buttonIndex int, buttonLabel string) {
		a.mainPages.RemovePage("modal")
	})
}
