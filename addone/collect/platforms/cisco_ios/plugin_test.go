package cisco_ios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

var plugin = &Plugin{}

// TestParseInterfaces 表头和虚接口被剔除，admin down状态保留原样
func TestParseInterfaces(t *testing.T) {
	raw := `
Interface                      Status         Protocol Description
Vl1                            up             up       mgmt
Fa0/1                          up             up       uplink-sw2
Gi0/2                          admin down     down
Po1                            up             up
`
	rows := plugin.Parse(collect.ParseContext{Command: "show interfaces description"}, raw).Interfaces
	require.Len(t, rows, 2)
	assert.Equal(t, collect.InterfaceRow{Name: "Fa0/1", Status: "up", Description: "uplink-sw2"}, rows[0])
	assert.Equal(t, collect.InterfaceRow{Name: "Gi0/2", Status: "admin down"}, rows[1])
}

// TestParseMacTable 点分MAC和VLAN号成对提取
func TestParseMacTable(t *testing.T) {
	raw := `
          Mac Address Table
-------------------------------------------
Vlan    Mac Address       Type        Ports
----    -----------       --------    -----
 134    0011.2233.4455    DYNAMIC     Fa0/1
 234    aabb.ccdd.eeff    DYNAMIC     Fa0/1
Total Mac Addresses for this criterion: 2
`
	rows := plugin.Parse(collect.ParseContext{Command: "show mac address-table interface Fa0/1"}, raw).Macs
	require.Len(t, rows, 2)
	assert.Equal(t, collect.MacRow{VlanID: 134, MAC: "0011.2233.4455"}, rows[0])
	assert.Equal(t, collect.MacRow{VlanID: 234, MAC: "aabb.ccdd.eeff"}, rows[1])
}

// TestParseConfigVlans access和trunk行合并展开
func TestParseConfigVlans(t *testing.T) {
	raw := `
interface FastEthernet0/1
 switchport access vlan 134
 switchport trunk allowed vlan 134-136,234
 switchport trunk allowed vlan add 411
end
`
	vlans := plugin.Parse(collect.ParseContext{Command: "show running-config interface Fa0/1"}, raw).VlanIDs
	assert.Equal(t, []int{134, 135, 136, 234, 411}, vlans)
}

// TestParseUnknownCommand 不认识的命令返回零值
func TestParseUnknownCommand(t *testing.T) {
	rows := plugin.Parse(collect.ParseContext{Command: "show clock"}, "10:00:00")
	assert.Empty(t, rows.Interfaces)
	assert.Empty(t, rows.Macs)
	assert.Empty(t, rows.VlanIDs)
}
