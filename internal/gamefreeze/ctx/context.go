package ctx

import (
	"sync"

	"github.com/sjzar/gamefreeze/internal/gamefreeze/conf"
)

// Context 应用的共享视图状态，TUI 与服务层都从这里读取配置镜像
type Context struct {
	conf *conf.Service
	mu   sync.RWMutex

	// 监控配置镜像
	IntervalSec       int
	ThresholdMB       int
	KeepCommunication bool
	Enabled           bool

	// HTTP服务相关状态
	HTTPEnabled bool
	HTTPAddr    string

	// 数据目录
	WorkDir string
}

func New(conf *conf.Service) *Context {
	ctx := &Context{
		conf: conf,
	}

	ctx.Refresh()

	return ctx
}

// Refresh 从配置服务重新加载镜像
func (c *Context) Refresh() {
	config := c.conf.GetConfig()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.IntervalSec = int(config.Interval().Seconds())
	c.ThresholdMB = config.ThresholdMB
	if c.ThresholdMB <= 0 {
		c.ThresholdMB = int(config.FreezerConfig().ThresholdBytes / (1024 * 1024))
	}
	c.KeepCommunication = config.KeepCommunication
	c.Enabled = config.Enabled
	c.HTTPEnabled = config.HTTPEnabled
	c.HTTPAddr = config.GetHTTPAddr()
	c.WorkDir = config.GetWorkDir()
}

func (c *Context) SetHTTPEnabled(enabled bool) {
	c.mu.Lock()
	c.HTTPEnabled = enabled
	c.mu.Unlock()
	c.conf.SetConfig("http_enabled", enabled)
}

func (c *Context) SetHTTPAddr(addr string) {
	c.mu.Lock()
	c.HTTPAddr = addr
	c.mu.Unlock()
	c.conf.SetConfig("http_addr", addr)
}

func (c *Context) SetInterval(seconds int) {
	c.mu.Lock()
	c.IntervalSec = seconds
	c.mu.Unlock()
	c.conf.SetConfig("interval", seconds)
}

func (c *Context) SetThresholdMB(mb int) {
	c.mu.Lock()
	c.ThresholdMB = mb
	c.mu.Unlock()
	c.conf.SetConfig("threshold_mb", mb)
}

func (c *Context) SetKeepCommunication(keep bool) {
	c.mu.Lock()
	c.KeepCommunication = keep
	c.mu.Unlock()
	c.conf.SetConfig("keep_communication", keep)
}
