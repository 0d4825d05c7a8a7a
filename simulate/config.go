package simulate

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// Instance 配置文件里的一台设备：行为脚本加监听参数
type Instance struct {
	Device   `mapstructure:",squash"`
	Protocol string `mapstructure:"protocol"`
	Listen   string `mapstructure:"listen"`
}

// Config simdev的设备清单
type Config struct {
	Devices []Instance `mapstructure:"devices"`
}

// LoadConfig 读取模拟器的YAML清单
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read simulate config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal simulate config: %w", err)
	}
	if len(cfg.Devices) == 0 {
		return nil, fmt.Errorf("simulate config %s lists no devices", path)
	}
	return &cfg, nil
}

// Manager 持有一批已启动的模拟设备
type Manager struct {
	servers []*Server
}

// Start 按清单拉起所有设备。任何一台起不来就整体回滚
func Start(cfg *Config) (*Manager, error) {
	m := &Manager{}
	for i := range cfg.Devices {
		inst := &cfg.Devices[i]
		var (
			srv *Server
			err error
		)
		switch strings.ToLower(inst.Protocol) {
		case "", "ssh":
			srv, err = StartSSH(&inst.Device, inst.Listen)
		case "telnet":
			srv, err = StartTelnet(&inst.Device, inst.Listen)
		default:
			err = fmt.Errorf("unknown protocol %q", inst.Protocol)
		}
		if err != nil {
			m.Stop()
			return nil, fmt.Errorf("failed to start device %s: %w", inst.Name, err)
		}
		m.servers = append(m.servers, srv)
	}
	logger.Infof("simulate: %d devices started", len(m.servers))
	return m, nil
}

// Stop 停掉所有设备
func (m *Manager) Stop() {
	for _, srv := range m.servers {
		srv.Stop()
	}
}
