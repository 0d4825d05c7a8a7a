package cisco_ios

import (
	"regexp"
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/internal/util"
)

// show interfaces description 的表格行：
//
//	Interface                      Status         Protocol Description
//	Fa0/1                          up             up       uplink-sw2
//	Gi0/2                          admin down     down
var ciscoIfaceRe = regexp.MustCompile(
	`(?m)^(\S+)\s+(up|down|admin down|deleted)\s+(up|down)\s*(.*)$`)

// Vlan/Port-channel/Loopback等虚接口不属于物理端口清单
var ciscoVirtualRe = regexp.MustCompile(`^(?i)(vl|po|lo|tu|nu)`)

func parseInterfaceRows(raw string) []collect.InterfaceRow {
	rows := make([]collect.InterfaceRow, 0)
	for _, m := range ciscoIfaceRe.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		if name == "Interface" || ciscoVirtualRe.MatchString(name) {
			continue
		}
		rows = append(rows, collect.InterfaceRow{
			Name:        name,
			Status:      m[2],
			Description: strings.TrimSpace(m[4]),
		})
	}
	return rows
}

// 端口配置里的VLAN行：
//
//	switchport access vlan 134
//	switchport trunk allowed vlan 134-136,234
var ciscoVlanCfgRe = regexp.MustCompile(
	`switchport (?:access|trunk allowed) vlan (?:add )?([\d,\- ]+)`)

func parseConfigVlans(raw string) []int {
	var joined []string
	for _, m := range ciscoVlanCfgRe.FindAllStringSubmatch(raw, -1) {
		joined = append(joined, m[1])
	}
	return util.RangeToNumbers(strings.Join(joined, ","))
}
