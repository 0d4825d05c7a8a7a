package eltex_mes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/internal/util"
)

// show interfaces description 的端口段表格行：
//
//	Port      Admin Status  Link Status   Description
//	gi1/0/1   Up            Up            uplink-sw2
//	te1/0/1   Down          Down
//
// 端口段之后跟着Port-channel段（"Ch       Port Mode (VLAN)"），驱动侧截断
var eltexIfaceRe = regexp.MustCompile(
	`(?m)^(\S+)\s+(Up|Down|Not Present)\s+(Up|Down|Not Present)\s*(.*)$`)

func parseInterfaceRows(raw string) []collect.InterfaceRow {
	rows := make([]collect.InterfaceRow, 0)
	for _, m := range eltexIfaceRe.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		// Vlan接口混在同一份输出里，跳过
		if strings.HasPrefix(name, "V") || strings.HasPrefix(name, "Ch") {
			continue
		}
		status := strings.ToLower(m[3])
		if !strings.EqualFold(m[2], "up") {
			status = "admin down"
		}
		rows = append(rows, collect.InterfaceRow{
			Name:        name,
			Status:      status,
			Description: strings.TrimSpace(m[4]),
		})
	}
	return rows
}

// show mac address-table interface 的记录行，MAC是xx:xx:xx:xx:xx:xx：
//
//	 134     00:11:22:33:44:55   gi1/0/1     dynamic
var eltexMacRe = regexp.MustCompile(
	`(\d+)\s+((?:[0-9a-fA-F]{2}:){5}[0-9a-fA-F]{2})\s+\S+\s+\S+`)

func parseMacRows(raw string) []collect.MacRow {
	rows := make([]collect.MacRow, 0)
	for _, m := range eltexMacRe.FindAllStringSubmatch(raw, -1) {
		vid, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		rows = append(rows, collect.MacRow{VlanID: vid, MAC: m[2]})
	}
	return rows
}

// 端口配置里的VLAN行，覆盖三种写法：
//
//	switchport access vlan 134
//	switchport trunk allowed vlan add 134-136,234
//	switchport general allowed vlan add 10-14
var eltexVlanCfgRe = regexp.MustCompile(`vlan [ad ]*(\S*\d)`)

func parseConfigVlans(raw string) []int {
	var joined []string
	for _, m := range eltexVlanCfgRe.FindAllStringSubmatch(raw, -1) {
		joined = append(joined, m[1])
	}
	return util.RangeToNumbers(strings.Join(joined, ","))
}
