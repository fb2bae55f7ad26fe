package infobar

import (
	"fmt"

	"github.com/sjzar/gamefreeze/internal/ui/style"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	Title = "infobar"
)

// InfoBarViewHeight info bar height.
const (
	InfoBarViewHeight = 4
	stateRow          = 0
	frozenRow         = 1
	policyRow         = 2
	httpServerRow     = 3

	// 列索引
	labelCol1 = 0 // 第一列标签
	valueCol1 = 1 // 第一列值
	labelCol2 = 2 // 第二列标签
	valueCol2 = 3 // 第二列值
)

// InfoBar implements the info bar primitive.
type InfoBar struct {
	*tview.Box
	title string
	table *tview.Table
}

// New returns info bar view.
func New() *InfoBar {
	table := tview.NewTable()
	headerColor := style.InfoBarItemFgColor

	// State 和 Auto Freeze 行
	table.SetCell(
		stateRow,
		labelCol1,
		tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, "State:")),
	)
	table.SetCell(stateRow, valueCol1, tview.NewTableCell(""))

	table.SetCell(
		stateRow,
		labelCol2,
		tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, "Auto Freeze:")),
	)
	table.SetCell(stateRow, valueCol2, tview.NewTableCell(""))

	// Frozen 和 Freed Memory 行
	table.SetCell(
		frozenRow,
		labelCol1,
		tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, "Frozen:")),
	)
	table.SetCell(frozenRow, valueCol1, tview.NewTableCell(""))

	table.SetCell(
		frozenRow,
		labelCol2,
		tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, "Freed Memory:")),
	)
	table.SetCell(frozenRow, valueCol2, tview.NewTableCell(""))

	// Interval 和 Threshold 行
	table.SetCell(
		policyRow,
		labelCol1,
		tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, "Interval:")),
	)
	table.SetCell(policyRow, valueCol1, tview.NewTableCell(""))

	table.SetCell(
		policyRow,
		labelCol2,
		tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, "Threshold:")),
	)
	table.SetCell(policyRow, valueCol2, tview.NewTableCell(""))

	// HTTP Server 和 Work Dir 行
	table.SetCell(
		httpServerRow,
		labelCol1,
		tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, "HTTP Server:")),
	)
	table.SetCell(httpServerRow, valueCol1, tview.NewTableCell(""))

	table.SetCell(
		httpServerRow,
		labelCol2,
		tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, "Work Dir:")),
	)
	table.SetCell(httpServerRow, valueCol2, tview.NewTableCell(""))

	// infobar
	infoBar := &InfoBar{
		Box:   tview.NewBox(),
		title: Title,
		table: table,
	}

	return infoBar
}

// UpdateState 更新守护状态（Idle / GameActive）
func (info *InfoBar) UpdateState(state string) {
	info.table.GetCell(stateRow, valueCol1).SetText(state)
}

// UpdateEnabled 更新自动冻结开关状态
func (info *InfoBar) UpdateEnabled(enabled string) {
	info.table.GetCell(stateRow, valueCol2).SetText(enabled)
}

// UpdateFrozen 更新冻结计数与释放内存
func (info *InfoBar) UpdateFrozen(count int, freed string) {
	info.table.GetCell(frozenRow, valueCol1).SetText(fmt.Sprintf("%d", count))
	info.table.GetCell(frozenRow, valueCol2).SetText(freed)
}

// UpdatePolicy 更新轮询间隔与内存阈值
func (info *InfoBar) UpdatePolicy(interval string, threshold string) {
	info.table.GetCell(policyRow, valueCol1).SetText(interval)
	info.table.GetCell(policyRow, valueCol2).SetText(threshold)
}

// UpdateHTTPServer updates HTTP Server value.
func (info *InfoBar) UpdateHTTPServer(server string) {
	info.table.GetCell(httpServerRow, valueCol1).SetText(server)
}

// UpdateWorkDir 更新数据目录
func (info *InfoBar) UpdateWorkDir(dir string) {
	info.table.GetCell(httpServerRow, valueCol2).SetText(dir)
}

// Draw draws this primitive onto the screen.
func (info *InfoBar) Draw(screen tcell.Screen) {
	info.Box.DrawForSubclass(screen, info)
	info.Box.SetBorder(false)

	x, y, width, height := info.GetInnerRect()

	info.table.SetRect(x, y, width, height)
	info.table.SetBorder(false)
	info.table.Draw(screen)
}
