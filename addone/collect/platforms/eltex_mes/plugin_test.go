package eltex_mes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

var plugin = &Plugin{}

// TestParseInterfaces Admin列不是Up一律归为admin down，Vlan行剔除
func TestParseInterfaces(t *testing.T) {
	raw := `
Port      Admin Status  Link Status   Description
gi1/0/1   Up            Up            uplink-sw2
te1/0/2   Down          Down
gi1/0/3   Up            Down          camera
Vlan134   Up            Up            mgmt
`
	rows := plugin.Parse(collect.ParseContext{Command: "show interfaces description"}, raw).Interfaces
	require.Len(t, rows, 3)
	assert.Equal(t, collect.InterfaceRow{Name: "gi1/0/1", Status: "up", Description: "uplink-sw2"}, rows[0])
	assert.Equal(t, collect.InterfaceRow{Name: "te1/0/2", Status: "admin down"}, rows[1])
	assert.Equal(t, collect.InterfaceRow{Name: "gi1/0/3", Status: "down", Description: "camera"}, rows[2])
}

// TestParseMacTable 冒号分隔MAC
func TestParseMacTable(t *testing.T) {
	raw := `
 Vlan        Mac Address         Port       Type
------- --------------------- ---------- ----------
 134     00:11:22:33:44:55   gi1/0/1     dynamic
`
	rows := plugin.Parse(collect.ParseContext{Command: "show mac address-table interface gi1/0/1"}, raw).Macs
	require.Len(t, rows, 1)
	assert.Equal(t, collect.MacRow{VlanID: 134, MAC: "00:11:22:33:44:55"}, rows[0])
}

// TestParseConfigVlans access/trunk/general三种写法
func TestParseConfigVlans(t *testing.T) {
	raw := `
interface gigabitethernet1/0/1
 switchport access vlan 134
 switchport trunk allowed vlan add 135-137,234
 switchport general allowed vlan add 10-12 tagged
`
	vlans := plugin.Parse(collect.ParseContext{Command: "show running-config interface gi1/0/1"}, raw).VlanIDs
	assert.Equal(t, []int{10, 11, 12, 134, 135, 136, 137, 234}, vlans)
}
