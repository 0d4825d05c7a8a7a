package dlink_des

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

var plugin = &Plugin{}

// TestParsePorts Disabled归为admin down，Link Down归为down
func TestParsePorts(t *testing.T) {
	raw := `
Port   State/          Settings               Connection            Description
       MDI
-----  --------------  ---------------------  --------------------  -----------
1      Enabled         Auto/Disabled          100M/Full/None        office-13
2      Disabled        Auto/Disabled          Link Down
3:1    Enabled         Auto/Disabled          LinkDown
`
	rows := plugin.Parse(collect.ParseContext{Command: "show ports description"}, raw).Interfaces
	require.Len(t, rows, 3)
	assert.Equal(t, collect.InterfaceRow{Name: "1", Status: "up", Description: "office-13"}, rows[0])
	assert.Equal(t, collect.InterfaceRow{Name: "2", Status: "admin down"}, rows[1])
	assert.Equal(t, collect.InterfaceRow{Name: "3:1", Status: "down"}, rows[2])
}

// TestParseFdb 连字符MAC，端口列允许堆叠写法
func TestParseFdb(t *testing.T) {
	raw := `
VID  VLAN Name    MAC Address        Port  Type
---- ------------ ------------------ ----- ----------------
134  v134         00-11-22-33-44-55  1     Dynamic
234  v234         aa-bb-cc-dd-ee-ff  1:2   Dynamic
`
	rows := plugin.Parse(collect.ParseContext{Command: "show fdb port 1"}, raw).Macs
	require.Len(t, rows, 2)
	assert.Equal(t, collect.MacRow{VlanID: 134, MAC: "00-11-22-33-44-55"}, rows[0])
	assert.Equal(t, collect.MacRow{VlanID: 234, MAC: "aa-bb-cc-dd-ee-ff"}, rows[1])
}

// TestParsePortVlans VID列去重升序
func TestParsePortVlans(t *testing.T) {
	raw := `
Port    VID  Untagged  Tagged  Dynamic  Forbidden
1       134  X         -       -        -
1       234  -         X       -        -
1       134  X         -       -        -
`
	vlans := plugin.Parse(collect.ParseContext{Command: "show vlan ports 1"}, raw).VlanIDs
	assert.Equal(t, []int{134, 234}, vlans)
}
