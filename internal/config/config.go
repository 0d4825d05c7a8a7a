package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/devaccesspro/devaccesspro/internal/connect"
)

// Config 应用配置结构
type Config struct {
	Connect  ConnectConfig  `mapstructure:"connect"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Log      LogConfig      `mapstructure:"log"`
	Simulate SimulateConfig `mapstructure:"simulate"`
}

// ConnectConfig 会话建立与命令执行的超时参数
type ConnectConfig struct {
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	StepTimeout    time.Duration `mapstructure:"step_timeout"`    // 登录阶段单次expect
	PageTimeout    time.Duration `mapstructure:"page_timeout"`    // 翻页续页检查
	CommandTimeout time.Duration `mapstructure:"command_timeout"` // 普通命令
	RadiusRetries  int           `mapstructure:"radius_retries"`
	// Accounts 未在清单里指定凭据的设备用这组默认凭据
	Accounts []connect.Account `mapstructure:"accounts"`
	Secret   string            `mapstructure:"secret"`
}

// BatchConfig 批量采集配置
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SimulateConfig 设备模拟服务配置
type SimulateConfig struct {
	Enable     bool   `mapstructure:"enable"`
	ConfigPath string `mapstructure:"config_path"`
}

var globalConfig *Config

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")

	setDefaults()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("../configs")
		viper.AddConfigPath("../../configs")
	}

	viper.SetEnvPrefix("DEVACCESS")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// 没有配置文件时全部走默认值，CLI场景常见
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &config
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("connect.dial_timeout", 10*time.Second)
	viper.SetDefault("connect.step_timeout", 10*time.Second)
	viper.SetDefault("connect.page_timeout", 3*time.Second)
	viper.SetDefault("connect.command_timeout", 10*time.Second)
	viper.SetDefault("connect.radius_retries", 3)

	viper.SetDefault("batch.workers", 8)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "console")
	viper.SetDefault("log.file_path", "./logs/devaccess.log")
	viper.SetDefault("log.max_size", 50)
	viper.SetDefault("log.max_backups", 5)
	viper.SetDefault("log.max_age", 14)

	viper.SetDefault("simulate.enable", false)
	viper.SetDefault("simulate.config_path", "./simulate/simulate.yaml")
}

// Get 获取全局配置
func Get() *Config {
	return globalConfig
}

// TransportConfig 由配置生成一次连接尝试的传输参数
func (c *Config) TransportConfig(host, protocol string) *connect.TransportConfig {
	return &connect.TransportConfig{
		Protocol:      protocol,
		Host:          host,
		DialTimeout:   c.Connect.DialTimeout,
		StepTimeout:   c.Connect.StepTimeout,
		RadiusRetries: c.Connect.RadiusRetries,
	}
}

// DefaultCredentials 配置里的默认凭据集
func (c *Config) DefaultCredentials() connect.Credentials {
	return connect.Credentials{
		Accounts: c.Connect.Accounts,
		Secret:   c.Connect.Secret,
	}
}
