package conf

import (
	"path/filepath"
	"time"

	"github.com/sjzar/gamefreeze/internal/freezer"
	"github.com/sjzar/gamefreeze/pkg/util"
)

const (
	DefaultHTTPAddr    = "127.0.0.1:5040"
	DefaultIntervalSec = 60
)

// Config 应用配置，JSON 文件存放在 ~/.gamefreeze，环境变量前缀 GAMEFREEZE
type Config struct {
	ConfigDir string `mapstructure:"-" json:"config_dir"`

	// 监控参数
	IntervalSec       int  `mapstructure:"interval" json:"interval"`
	ThresholdMB       int  `mapstructure:"threshold_mb" json:"threshold_mb"`
	KeepCommunication bool `mapstructure:"keep_communication" json:"keep_communication"`
	Enabled           bool `mapstructure:"enabled" json:"enabled"`

	// HTTP 控制接口
	HTTPEnabled bool   `mapstructure:"http_enabled" json:"http_enabled"`
	HTTPAddr    string `mapstructure:"http_addr" json:"http_addr"`

	// 数据目录，状态文件与历史库都在这里
	WorkDir string `mapstructure:"work_dir" json:"work_dir"`
}

var Defaults = map[string]any{
	"interval":           DefaultIntervalSec,
	"threshold_mb":       freezer.DefaultThresholdMB,
	"keep_communication": false,
	"enabled":            true,
	"http_enabled":       false,
	"http_addr":          DefaultHTTPAddr,
}

// Interval 监控轮询间隔
func (c *Config) Interval() time.Duration {
	if c.IntervalSec <= 0 {
		return DefaultIntervalSec * time.Second
	}
	return time.Duration(c.IntervalSec) * time.Second
}

// FreezerConfig 转换为冻结策略配置
func (c *Config) FreezerConfig() freezer.Config {
	threshold := c.ThresholdMB
	if threshold <= 0 {
		threshold = freezer.DefaultThresholdMB
	}
	return freezer.Config{
		ThresholdBytes:    uint64(threshold) * 1024 * 1024,
		KeepCommunication: c.KeepCommunication,
	}
}

// GetWorkDir 数据目录，未配置时使用平台默认位置
func (c *Config) GetWorkDir() string {
	if c.WorkDir != "" {
		return c.WorkDir
	}
	return util.DefaultWorkDir()
}

// StateFilePath 冻结记录文件路径
func (c *Config) StateFilePath() string {
	return filepath.Join(c.GetWorkDir(), "frozen_state.json")
}

// HistoryFilePath 历史库文件路径
func (c *Config) HistoryFilePath() string {
	return filepath.Join(c.GetWorkDir(), "history.db")
}

// GetHTTPAddr 控制接口监听地址
func (c *Config) GetHTTPAddr() string {
	if c.HTTPAddr == "" {
		return DefaultHTTPAddr
	}
	return c.HTTPAddr
}
