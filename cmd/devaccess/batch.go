package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devaccesspro/devaccesspro/internal/config"
	"github.com/devaccesspro/devaccesspro/internal/service"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

var flagInventory string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "按设备清单并发采集端口清单",
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := service.LoadInventory(flagInventory)
		if err != nil {
			return err
		}

		// 批量任务跑得久，跟踪配置文件随时切日志级别
		stopWatch, err := config.WatchLogLevel()
		if err != nil {
			logger.Warnf("config watch unavailable: %v", err)
		} else {
			defer stopWatch()
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		results := service.RunBatch(ctx, config.Get(), inv)

		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
				fmt.Printf("%-20s FAILED  %v\n", res.Host, res.Err)
				continue
			}
			fmt.Printf("%-20s %s %s  %d ports\n", res.Host, res.Info.Vendor, res.Info.Model, len(res.Interfaces))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d devices failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&flagInventory, "inventory", "i", "", "设备清单YAML文件")
	_ = batchCmd.MarkFlagRequired("inventory")
}
