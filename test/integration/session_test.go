package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/connect"
	"github.com/devaccesspro/devaccesspro/internal/service"
	"github.com/devaccesspro/devaccesspro/simulate"

	_ "github.com/devaccesspro/devaccesspro/addone/collect/platforms/cisco_ios"
	_ "github.com/devaccesspro/devaccesspro/addone/collect/platforms/dlink_des"
	_ "github.com/devaccesspro/devaccesspro/addone/collect/platforms/eltex_mes"
	_ "github.com/devaccesspro/devaccesspro/addone/collect/platforms/huawei_s"
	_ "github.com/devaccesspro/devaccesspro/addone/driver/platforms/cisco_ios"
	_ "github.com/devaccesspro/devaccesspro/addone/driver/platforms/dlink_des"
	_ "github.com/devaccesspro/devaccesspro/addone/driver/platforms/eltex_mes"
	_ "github.com/devaccesspro/devaccesspro/addone/driver/platforms/huawei_s"
)

const ciscoVersion = `Cisco IOS Software, C2960 Software (C2960-LANBASEK9-M), Version 15.0(2)SE11
cisco WS-C2960-24TT-L (PowerPC405) processor with 65536K bytes of memory.
Model number                    : WS-C2960-24TT-L
System serial number            : FOC1628X0RJ
Base ethernet MAC Address       : 00:1A:2B:3C:4D:5E`

const ciscoInterfaces = `Interface                      Status         Protocol Description
Vl1                            up             up       mgmt
Fa0/1                          up             up       uplink-sw2
Fa0/2                          admin down     down
Gi0/1                          up             down     camera-stairs
Gi0/2                          up             up
Po1                            up             up       core`

const ciscoMacTable = ` 134    0011.2233.4455    DYNAMIC     Fa0/1
 234    aabb.ccdd.eeff    DYNAMIC     Fa0/1`

// ciscoLab 一台带翻页和enable口令的模拟Cisco交换机
func ciscoLab() *simulate.Device {
	return &simulate.Device{
		Name:       "lab-cisco",
		Prompt:     "sw-lab#",
		MoreBanner: "--More--",
		PageLines:  4,
		Accounts:   map[string]string{"netops": "netops"},
		Secret:     "enable123",
		Unknown:    "% Invalid input detected at '^' marker.",
		Commands: map[string]string{
			"show version":                                       ciscoVersion,
			"show interfaces description":                        ciscoInterfaces,
			"show mac address-table interface FastEthernet0/1":   ciscoMacTable,
			"show running-config interface FastEthernet0/1":      "interface FastEthernet0/1\r\n switchport trunk allowed vlan 134-136,234\r\nend",
			"write":                                              "Building configuration...\r\n[OK]",
		},
	}
}

func transport(port int, proto string) *connect.TransportConfig {
	return &connect.TransportConfig{
		Protocol:    proto,
		Host:        "127.0.0.1",
		Port:        port,
		DialTimeout: 3 * time.Second,
		StepTimeout: 3 * time.Second,
	}
}

func labCreds() connect.Credentials {
	return connect.Credentials{
		Accounts: []connect.Account{{Login: "netops", Password: "netops"}},
		Secret:   "enable123",
	}
}

// TestSSHEndToEnd SSH登录、厂商识别、翻页采集、配置保存全链路
func TestSSHEndToEnd(t *testing.T) {
	srv, err := simulate.StartSSH(ciscoLab(), "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	d, err := service.Open(context.Background(), transport(srv.Port(), connect.ProtoSSH), labCreds())
	require.NoError(t, err)
	defer d.Close()

	info := d.Info()
	assert.Equal(t, "Cisco", info.Vendor)
	assert.Equal(t, "WS-C2960-24TT-L", info.Model)
	assert.Equal(t, "FOC1628X0RJ", info.Serial)

	// 端口清单跨了翻页边界，虚接口被剔除
	rows, err := d.GetInterfaces()
	require.NoError(t, err)
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Fa0/1", "Fa0/2", "Gi0/1", "Gi0/2"}, names)
	assert.Equal(t, "admin down", rows[1].Status)

	macs, err := d.GetMac("Fa0/1")
	require.NoError(t, err)
	require.Len(t, macs, 2)
	assert.Equal(t, 134, macs[0].VlanID)

	// 非法端口号不下发命令，空表不报错
	macs, err = d.GetMac("Fa0/1; reload")
	require.NoError(t, err)
	assert.Empty(t, macs)

	saved, err := d.SaveConfig()
	require.NoError(t, err)
	assert.Equal(t, driver.SavedOK, saved)
}

// TestTelnetEndToEnd 同一驱动栈走telnet传输
func TestTelnetEndToEnd(t *testing.T) {
	srv, err := simulate.StartTelnet(ciscoLab(), "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	d, err := service.Open(context.Background(), transport(srv.Port(), connect.ProtoTelnet), labCreds())
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, "Cisco", d.Info().Vendor)

	rows, err := d.GetInterfaces()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

// TestUnknownVendor 签名全不中时绝不落默认驱动
func TestUnknownVendor(t *testing.T) {
	dev := &simulate.Device{
		Name:     "mystery",
		Prompt:   "box>",
		Accounts: map[string]string{"netops": "netops"},
		Unknown:  "unknown command",
		Commands: map[string]string{"show version": "Mystery OS 1.0"},
	}
	srv, err := simulate.StartSSH(dev, "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	_, err = service.Open(context.Background(), transport(srv.Port(), connect.ProtoSSH), labCreds())
	var unknown *driver.UnknownVendorError
	require.ErrorAs(t, err, &unknown)
}
