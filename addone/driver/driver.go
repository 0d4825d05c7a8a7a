package driver

import (
	"fmt"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

// 保存配置的结果文案，保持和历史采集系统一致
const (
	SavedOK  = "Saved OK"
	SavedErr = "Dont saved"
)

// 端口管理状态
const (
	PortUp   = "up"
	PortDown = "down"
)

// 端口介质类型
const (
	TypeCopper      = "COPPER"
	TypeSFP         = "SFP"
	TypeComboFiber  = "COMBO-FIBER"
	TypeComboCopper = "COMBO-COPPER"
	TypeUnknown     = "?"
)

// DeviceInfo 分类和构造探测后固定下来的设备快照
type DeviceInfo struct {
	Vendor string
	Model  string
	Serial string
	MAC    string
	Host   string
}

// Driver 是每个厂商平台要实现的统一操作集。
// 所有命令执行都必须走翻页执行器，操作内部不得自带expect循环
type Driver interface {
	Info() DeviceInfo

	// GetInterfaces 物理端口清单，厂商自己的虚接口被剔除
	GetInterfaces() ([]collect.InterfaceRow, error)
	// GetVlans 端口清单附带展开后的VLAN编号列表
	GetVlans() ([]collect.VlanRow, error)
	// GetMac 端口MAC表。端口号先按厂商规则校验，非法端口返回空表不报错
	GetMac(port string) ([]collect.MacRow, error)

	ReloadPort(port string) (string, error)
	SetPort(port, status string) (string, error)
	SaveConfig() (string, error)

	PortType(port string) (string, error)
	PortConfig(port string) (string, error)
	PortErrors(port string) (string, error)
	SetDescription(port, desc string) (string, error)

	Close() error
}

// UnknownVendorError 探测输出没有命中任何签名
type UnknownVendorError struct {
	Host string
}

func (e *UnknownVendorError) Error() string {
	return fmt.Sprintf("device %s did not match any vendor signature", e.Host)
}

// UnsupportedError 当前平台或当前权限下不可用的操作
type UnsupportedError struct {
	Vendor string
	Op     string
	Why    string
}

func (e *UnsupportedError) Error() string {
	if e.Why != "" {
		return fmt.Sprintf("%s driver does not support %s: %s", e.Vendor, e.Op, e.Why)
	}
	return fmt.Sprintf("%s driver does not support %s", e.Vendor, e.Op)
}
