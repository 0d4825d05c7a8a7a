package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/config"
	"github.com/devaccesspro/devaccesspro/internal/connect"
	"github.com/devaccesspro/devaccesspro/internal/service"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

var (
	flagConfig   string
	flagHost     string
	flagProtocol string
	flagLogin    string
	flagPassword string
	flagSecret   string
)

var rootCmd = &cobra.Command{
	Use:   "devaccess",
	Short: "网络设备交互式会话采集与管理工具",
	Long:  "通过SSH/telnet登录交换机，自动识别厂商并执行端口查询、配置和批量采集。",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		return logger.Init(logger.Config{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			FilePath:   cfg.Log.FilePath,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		})
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "配置文件路径，默认搜索./configs/config.yaml")
	rootCmd.PersistentFlags().StringVarP(&flagHost, "host", "H", "", "设备地址，host或host:port")
	rootCmd.PersistentFlags().StringVarP(&flagProtocol, "protocol", "P", connect.ProtoSSH, "连接协议 ssh|telnet")
	rootCmd.PersistentFlags().StringVarP(&flagLogin, "login", "l", "", "登录名，不填用配置里的凭据")
	rootCmd.PersistentFlags().StringVarP(&flagPassword, "password", "p", "", "登录口令")
	rootCmd.PersistentFlags().StringVarP(&flagSecret, "secret", "s", "", "提权口令")

	rootCmd.AddCommand(
		interfacesCmd, vlansCmd, macCmd, portCmd,
		describeCmd, saveCmd, infoCmd, batchCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// credentials 命令行凭据优先，没给的话退回配置文件里的默认凭据
func credentials(cfg *config.Config) connect.Credentials {
	if flagLogin == "" {
		creds := cfg.DefaultCredentials()
		if flagSecret != "" {
			creds.Secret = flagSecret
		}
		return creds
	}
	return connect.Credentials{
		Accounts: []connect.Account{{Login: flagLogin, Password: flagPassword}},
		Secret:   flagSecret,
	}
}

// withDriver 打开会话、识别厂商，把驱动交给具体命令，收尾统一关会话
func withDriver(fn func(d driver.Driver) error) error {
	if flagHost == "" {
		return fmt.Errorf("--host is required")
	}
	cfg := config.Get()
	d, err := service.Open(context.Background(), cfg.TransportConfig(flagHost, flagProtocol), credentials(cfg))
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}
