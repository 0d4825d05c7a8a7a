package dlink_des

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

// show ports description 的表格行：
//
//	Port   State/          Settings               Connection            Description
//	1      Enabled         Auto/Disabled          100M/Full/None        office-13
//	2      Disabled        Auto/Disabled          Link Down
//
// 端口号可能是"1"也可能是堆叠写法"1:1"
var dlinkPortRe = regexp.MustCompile(
	`(?m)^\s*(\d+(?::\d+)?)\s+(Enabled|Disabled)\s+\S+\s+((?:Link ?Down)|\S+)\s*(.*)$`)

func parsePortRows(raw string) []collect.InterfaceRow {
	rows := make([]collect.InterfaceRow, 0)
	for _, m := range dlinkPortRe.FindAllStringSubmatch(raw, -1) {
		status := "up"
		if strings.EqualFold(m[2], "Disabled") {
			status = "admin down"
		} else if strings.Contains(strings.ToLower(m[3]), "down") {
			status = "down"
		}
		rows = append(rows, collect.InterfaceRow{
			Name:        m[1],
			Status:      status,
			Description: strings.TrimSpace(m[4]),
		})
	}
	return rows
}

// show fdb port 的记录行，MAC是xx-xx-xx-xx-xx-xx：
//
//	134  v134         00-11-22-33-44-55  1     Dynamic
var dlinkFdbRe = regexp.MustCompile(
	`(\d+)\s+\S+\s+((?:[0-9a-fA-F]{2}-){5}[0-9a-fA-F]{2})\s+\d+(?::\d+)?\s+\S+`)

func parseFdbRows(raw string) []collect.MacRow {
	rows := make([]collect.MacRow, 0)
	for _, m := range dlinkFdbRe.FindAllStringSubmatch(raw, -1) {
		vid, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		rows = append(rows, collect.MacRow{VlanID: vid, MAC: m[2]})
	}
	return rows
}

// show vlan ports 的记录行：
//
//	Port    VID  Untagged  Tagged  Dynamic  Forbidden
//	1       134  X         -       -        -
var dlinkPortVlanRe = regexp.MustCompile(`(?m)^\s*\d+(?::\d+)?\s+(\d+)\s`)

func parsePortVlans(raw string) []int {
	seen := make(map[int]struct{})
	for _, m := range dlinkPortVlanRe.FindAllStringSubmatch(raw, -1) {
		if vid, err := strconv.Atoi(m[1]); err == nil {
			seen[vid] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
