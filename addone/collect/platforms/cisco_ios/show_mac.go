package cisco_ios

import (
	"regexp"
	"strconv"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

// show mac address-table interface 的记录行：
//
//	 134    0011.2233.4455    DYNAMIC     Fa0/1
var ciscoMacRe = regexp.MustCompile(
	`(\d+)\s+([0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\s+\S+\s+\S+`)

func parseMacRows(raw string) []collect.MacRow {
	rows := make([]collect.MacRow, 0)
	for _, m := range ciscoMacRe.FindAllStringSubmatch(raw, -1) {
		vid, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		rows = append(rows, collect.MacRow{VlanID: vid, MAC: m[2]})
	}
	return rows
}
