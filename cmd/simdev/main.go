package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/devaccesspro/devaccesspro/pkg/logger"
	"github.com/devaccesspro/devaccesspro/simulate"
)

// simdev 独立拉起脚本化模拟设备，联调和演示用
func main() {
	configPath := flag.String("config", "simulate/simulate.yaml", "模拟设备清单")
	level := flag.String("level", "debug", "日志级别")
	flag.Parse()

	if err := logger.Init(logger.Config{Level: *level, Format: "text", Output: "console"}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := simulate.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("failed to load simulate config: %v", err)
	}
	mgr, err := simulate.Start(cfg)
	if err != nil {
		logger.Fatalf("failed to start simulate devices: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("simdev shutting down")
	mgr.Stop()
}
