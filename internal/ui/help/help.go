package help

import (
	"fmt"

	"github.com/sjzar/gamefreeze/internal/ui/style"

	"github.com/rivo/tview"
)

const (
	Title     = "help"
	ShowTitle = "帮助"
	Content   = `[yellow]GameFreeze 使用指南[white]

[green]基本操作:[white]
• 使用 [yellow]←→[white] 键在主菜单和帮助页面之间切换
• 使用 [yellow]↑↓[white] 键在菜单项之间移动
• 按 [yellow]Enter[white] 选择菜单项
• 按 [yellow]Esc[white] 返回上一级菜单
• 按 [yellow]Ctrl+C[white] 退出程序

[green]工作原理:[white]
GameFreeze 周期性扫描系统进程，检测到游戏启动时自动冻结占用内存的后台进程，
为游戏腾出资源；游戏退出后自动恢复所有被冻结的进程。

[yellow]进程分类:[white]
• Critical  - 系统关键进程，任何情况下不会被冻结
• Gaming    - 游戏进程与启动器、反作弊组件
• Communication - 通讯应用（Discord 等），可配置为游戏期间保留
• Background / Productivity - 冻结候选，按内存占用从大到小处理

[yellow]冻结条件:[white]
• 不是前台窗口进程
• 不属于 Critical / Gaming 类别
• 内存占用达到阈值（默认 100 MB，可在设置中修改）

[green]菜单说明:[white]
• 停用/启用自动冻结 - 只影响后续冻结动作，游戏检测照常进行，
  已冻结的进程等游戏退出后恢复
• 查看进程 - 列出冻结候选、游戏进程和完整进程快照
• 启动 HTTP 服务 - 提供本地控制接口，方便脚本调用
• 设置 - 修改轮询间隔、内存阈值等选项

[green]HTTP API 使用:[white]
• 运行状态: [yellow]GET http://localhost:5040/api/v1/status[white]
• 冻结候选: [yellow]GET http://localhost:5040/api/v1/candidates[white]
• 手动冻结: [yellow]POST http://localhost:5040/api/v1/freeze/:pid[white]
• 手动恢复: [yellow]POST http://localhost:5040/api/v1/resume/:pid[white]
• 动作历史: [yellow]GET http://localhost:5040/api/v1/history[white]

[green]常见问题:[white]
• 冻结失败提示权限不足时，请以管理员身份运行
• 程序异常退出后重新启动会自动恢复上次冻结的进程
• 超过一小时的冻结记录会被跳过，系统可能已复用该 PID

[green]数据安全:[white]
• 所有操作均在本地完成，不会上传任何数据
• 退出程序时会恢复全部被冻结的进程
`
)

type Help struct {
	*tview.TextView
	title string
}

func New() *Help {
	help := &Help{
		TextView: tview.NewTextView(),
		title:    Title,
	}

	help.SetDynamicColors(true)
	help.SetRegions(true)
	help.SetWrap(true)
	help.SetTextAlign(tview.AlignLeft)
	help.SetBorder(true)
	help.SetBorderColor(style.BorderColor)
	help.SetTitle(ShowTitle)

	fmt.Fprint(help, Content)

	return help
}
