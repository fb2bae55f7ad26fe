package conf

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher 监控配置文件变化并触发热加载
// 编辑器保存配置时常见 Rename+Create 序列，因此监控所在目录而非文件本身
type Watcher struct {
	service  *Service
	watcher  *fsnotify.Watcher
	onChange func(*Config)

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewWatcher 创建配置监控，onChange 在配置重新加载成功后被调用
func NewWatcher(service *Service, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		service:  service,
		watcher:  fw,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}

	configFile := service.ConfigFile()
	if err := fw.Add(filepath.Dir(configFile)); err != nil {
		fw.Close()
		return nil, err
	}

	go w.loop(configFile)
	return w, nil
}

func (w *Watcher) loop(configFile string) {
	base := filepath.Base(configFile)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if err := w.service.Load(); err != nil {
				log.Warn().Err(err).Msg("配置热加载失败，保留当前配置")
				continue
			}
			log.Info().Msg("配置文件已更新")
			if w.onChange != nil {
				w.onChange(w.service.GetConfig())
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("配置监控错误")
		case <-w.stopCh:
			return
		}
	}
}

// Stop 停止监控
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
}
