package service

import (
	"context"

	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/connect"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// Open 完整走一遍"协商-识别-构造"：认证出会话，分类出驱动。
// 分类失败时会话一定被关掉，不会泄漏半开的流
func Open(ctx context.Context, cfg *connect.TransportConfig, creds connect.Credentials) (driver.Driver, error) {
	sess, err := connect.Open(ctx, cfg, creds)
	if err != nil {
		return nil, err
	}
	d, err := driver.Classify(sess, cfg.Host, creds.Secret)
	if err != nil {
		_ = sess.Close()
		return nil, err
	}
	info := d.Info()
	logger.WithDevice(cfg.Host).Infof("device classified: vendor=%s model=%s", info.Vendor, info.Model)
	return d, nil
}
