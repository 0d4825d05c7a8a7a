package huawei_s

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/internal/util"
)

// display interface description 的表格行：
//
//	Interface                     PHY     Protocol Description
//	GigabitEthernet0/0/1          up      up       to-core
//	GigabitEthernet0/0/2          *down   down
//
// PHY列的*down表示管理员关闭
var huaweiIfaceRe = regexp.MustCompile(
	`(?m)^(\S+)\s+(\*?(?:up|down))\s+(?:up|down|\*down)\s*(.*)$`)

// Vlanif/NULL/MEth等虚接口
var huaweiVirtualRe = regexp.MustCompile(`^(?i)(vlanif|null|meth|loop|nve)`)

func parseInterfaceRows(raw string) []collect.InterfaceRow {
	rows := make([]collect.InterfaceRow, 0)
	for _, m := range huaweiIfaceRe.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		if name == "Interface" || huaweiVirtualRe.MatchString(name) {
			continue
		}
		status := m[2]
		if status == "*down" {
			status = "admin down"
		}
		rows = append(rows, collect.InterfaceRow{
			Name:        name,
			Status:      status,
			Description: strings.TrimSpace(m[3]),
		})
	}
	return rows
}

// display mac-address 的记录行，华为MAC是xxxx-xxxx-xxxx：
//
//	0011-2233-4455 134/-       GE0/0/1         dynamic
var huaweiMacRe = regexp.MustCompile(
	`([0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4})\s+(\d+)`)

func parseMacRows(raw string) []collect.MacRow {
	rows := make([]collect.MacRow, 0)
	for _, m := range huaweiMacRe.FindAllStringSubmatch(raw, -1) {
		vid, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		rows = append(rows, collect.MacRow{VlanID: vid, MAC: m[1]})
	}
	return rows
}

// 端口配置里的VLAN行：
//
//	port default vlan 134
//	port trunk allow-pass vlan 134 to 136 234
//	port hybrid tagged vlan 10 12
var huaweiVlanCfgRe = regexp.MustCompile(
	`port (?:default|trunk allow-pass|hybrid (?:tagged|untagged)) vlan ([\d\sto,\-]+)`)

func parseConfigVlans(raw string) []int {
	var joined []string
	for _, m := range huaweiVlanCfgRe.FindAllStringSubmatch(raw, -1) {
		joined = append(joined, strings.TrimSpace(m[1]))
	}
	return util.RangeToNumbers(strings.Join(joined, ","))
}
