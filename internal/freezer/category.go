package freezer

import (
	"strings"

	"github.com/sjzar/gamefreeze/internal/model"
)

// rule 一条类别匹配规则，exact 为全名匹配，contains 为子串匹配
// 规则表按优先级排列，命中即返回，运行期不会调整顺序
type rule struct {
	category model.Category
	exact    []string
	contains []string
}

var rules = []rule{
	{
		category: model.CategoryCritical,
		exact: []string{
			"system",
			"smss.exe",
			"csrss.exe",
			"wininit.exe",
			"services.exe",
			"lsass.exe",
			"svchost.exe",
			"winlogon.exe",
			"explorer.exe",
			"dwm.exe",
			"textinputhost.exe",
			"searchhost.exe",
			"startmenuexperiencehost.exe",
		},
	},
	{
		category: model.CategoryGaming,
		contains: []string{
			// 启动器
			"steam",
			"epic",
			"origin",
			"gog",
			"battle.net",
			"battlenet",
			"uplay",
			"ubisoft",
			"riotclient",
			// 反作弊
			"easyanticheat",
			"battleye",
			"vanguard",
		},
	},
	{
		category: model.CategoryCommunication,
		contains: []string{
			"discord",
			"slack",
			"teams",
			"telegram",
			"signal",
			"whatsapp",
			"zoom",
			"skype",
			"mumble",
			"teamspeak",
			"ventrilo",
			"element",
		},
	},
	{
		category: model.CategoryBackground,
		contains: []string{
			"updater",
			"update",
			"helper",
			"sync",
			"backup",
			"nvidia",
			"amd",
			"geforce",
			"radeon",
			"onedrive",
			"dropbox",
			"google drive",
			"toolbox",
		},
	},
	{
		category: model.CategoryProductivity,
		contains: []string{
			"chrome",
			"firefox",
			"edge",
			"opera",
			"brave",
			"vivaldi",
			"excel",
			"word",
			"powerpoint",
			"outlook",
			"onenote",
			"vscode",
			"code",
			"pycharm",
			"intellij",
			"rider",
			"sublime",
			"spotify",
			"vlc",
			"itunes",
			"notion",
			"obsidian",
		},
	},
}

// Categorizer 根据进程名称判定类别，无状态，可并发使用
type Categorizer struct {
	rules []rule
}

func NewCategorizer() *Categorizer {
	return &Categorizer{rules: rules}
}

// Categorize 判定进程类别，匹配大小写不敏感
// 游戏本体常以 game.exe 之类命名，单独处理；未命中任何规则返回 Unknown
func (c *Categorizer) Categorize(name string) model.Category {
	lower := strings.ToLower(name)

	for _, r := range c.rules {
		for _, e := range r.exact {
			if lower == e {
				return r.category
			}
		}
		for _, sub := range r.contains {
			if strings.Contains(lower, sub) {
				return r.category
			}
		}
		if r.category == model.CategoryGaming &&
			strings.Contains(lower, "game") && strings.Contains(lower, ".exe") {
			return model.CategoryGaming
		}
	}

	return model.CategoryUnknown
}

// IsCritical 判断是否为系统关键进程
func (c *Categorizer) IsCritical(name string) bool {
	return c.Categorize(name) == model.CategoryCritical
}
