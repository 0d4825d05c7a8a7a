package driver

import (
	"github.com/sirupsen/logrus"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// Base 各平台驱动的公共骨架：会话、执行器、设备快照和特权标记。
// 平台包组合它，不做继承链
type Base struct {
	Exec       *Executor
	Platform   string // collect注册表里的平台键
	Privileged bool

	info DeviceInfo
}

// NewBase 组装公共骨架
func NewBase(platform string, info DeviceInfo, exec *Executor) *Base {
	return &Base{
		Exec:     exec,
		Platform: platform,
		info:     info,
	}
}

// Info 返回构造时固化的设备快照
func (b *Base) Info() DeviceInfo {
	return b.info
}

// SetInfo 构造探测阶段补齐字段用，构造完成后不再调用
func (b *Base) SetInfo(info DeviceInfo) {
	b.info = info
}

// Log 设备维度的日志入口
func (b *Base) Log() *logrus.Entry {
	return logger.WithDevice(b.info.Host)
}

// Parse 把原始输出交给(平台,命令)对应的解析插件
func (b *Base) Parse(command, port, raw string) collect.Rows {
	return collect.Parse(collect.ParseContext{
		Platform: b.Platform,
		Command:  command,
		Port:     port,
	}, raw)
}

// Close 关闭底层会话，只有第一次关闭真正动流
func (b *Base) Close() error {
	return b.Exec.Session().Close()
}

// RequirePrivilege 需要特权的操作统一在入口卡权限，未提权拒绝而不是打挂会话
func (b *Base) RequirePrivilege(vendor, op string) error {
	if !b.Privileged {
		return &UnsupportedError{Vendor: vendor, Op: op, Why: "privileged mode unavailable"}
	}
	return nil
}
