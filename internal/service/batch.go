package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/config"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// BatchResult 一台设备的采集结果。Err非空时其余字段不可信
type BatchResult struct {
	Host       string
	Info       driver.DeviceInfo
	Interfaces []collect.InterfaceRow
	Err        error
}

// RunBatch 对清单里的每台设备开独立会话并发采集端口清单。
// 并发度由batch.workers限制，单台失败不影响其他设备
func RunBatch(ctx context.Context, cfg *config.Config, inv *Inventory) []BatchResult {
	results := make([]BatchResult, len(inv.Devices))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Batch.Workers)

	for i, dev := range inv.Devices {
		g.Go(func() error {
			results[i] = collectOne(ctx, cfg, inv, dev)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func collectOne(ctx context.Context, cfg *config.Config, inv *Inventory, dev DeviceEntry) BatchResult {
	res := BatchResult{Host: dev.Host}

	creds := inv.CredentialsFor(dev, cfg.DefaultCredentials())
	d, err := Open(ctx, cfg.TransportConfig(dev.Host, dev.Protocol), creds)
	if err != nil {
		logger.WithDevice(dev.Host).Warnf("batch collect failed: %v", err)
		res.Err = err
		return res
	}
	defer d.Close()

	res.Info = d.Info()
	res.Interfaces, res.Err = d.GetInterfaces()
	return res
}
