package conf

import (
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/gamefreeze/internal/errors"
	"github.com/sjzar/gamefreeze/pkg/config"
)

const (
	AppName      = "gamefreeze"
	EnvPrefix    = "GAMEFREEZE"
	EnvConfigDir = "GAMEFREEZE_DIR"
)

// Service 配置服务
type Service struct {
	cm     *config.Manager
	config *Config
	mu     sync.RWMutex
}

// NewService 创建配置服务并加载配置
func NewService(configPath string) (*Service, error) {
	if configPath == "" {
		configPath = os.Getenv(EnvConfigDir)
	}

	cm, err := config.New(AppName, configPath, "", EnvPrefix, true)
	if err != nil {
		return nil, errors.Config("init config failed", err)
	}
	config.SetDefaults(cm.Viper, Defaults)

	s := &Service{cm: cm}
	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Load 加载配置
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conf := &Config{}
	if err := s.cm.Load(conf); err != nil {
		return errors.Config("load config failed", err)
	}
	conf.ConfigDir = s.cm.Path
	s.config = conf
	return nil
}

// GetConfig 获取配置副本
func (s *Service) GetConfig() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// 返回配置副本
	configCopy := *s.config
	return &configCopy
}

// SetConfig 更新单个配置项并写回配置文件
func (s *Service) SetConfig(key string, value any) error {
	if err := s.cm.SetConfig(key, value); err != nil {
		return errors.Config("update config failed", err)
	}
	return s.Load()
}

// ConfigFile 配置文件路径，热加载监控使用
func (s *Service) ConfigFile() string {
	return s.cm.ConfigFile()
}

// MustGetConfig GetConfig 的便捷包装，配置服务未初始化时直接退出
func (s *Service) MustGetConfig() *Config {
	conf := s.GetConfig()
	if conf == nil {
		log.Fatal().Msg("config service not initialized")
	}
	return conf
}
