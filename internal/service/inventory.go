package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devaccesspro/devaccesspro/internal/connect"
)

// CredentialSet 清单里一套命名的凭据
type CredentialSet struct {
	Accounts []connect.Account `yaml:"accounts"`
	Secret   string            `yaml:"secret"`
}

// DeviceEntry 清单里的一台设备
type DeviceEntry struct {
	Host     string `yaml:"host"`
	Protocol string `yaml:"protocol"`
	// Credentials 引用credentials段里的键，留空用默认凭据
	Credentials string `yaml:"credentials"`
}

// Inventory 批量采集的设备清单文件
type Inventory struct {
	Credentials map[string]CredentialSet `yaml:"credentials"`
	Devices     []DeviceEntry            `yaml:"devices"`
}

// LoadInventory 读取并校验YAML设备清单
func LoadInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory %s: %w", path, err)
	}
	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	if len(inv.Devices) == 0 {
		return nil, fmt.Errorf("inventory %s lists no devices", path)
	}
	for _, dev := range inv.Devices {
		if dev.Host == "" {
			return nil, fmt.Errorf("inventory %s has a device without host", path)
		}
		if dev.Credentials != "" {
			if _, ok := inv.Credentials[dev.Credentials]; !ok {
				return nil, fmt.Errorf("device %s references unknown credentials %q", dev.Host, dev.Credentials)
			}
		}
	}
	return &inv, nil
}

// CredentialsFor 设备对应的凭据：清单引用优先，否则用传入的默认值
func (inv *Inventory) CredentialsFor(dev DeviceEntry, fallback connect.Credentials) connect.Credentials {
	if dev.Credentials == "" {
		return fallback
	}
	set := inv.Credentials[dev.Credentials]
	return connect.Credentials{Accounts: set.Accounts, Secret: set.Secret}
}
