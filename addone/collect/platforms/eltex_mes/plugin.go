package eltex_mes

import (
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

// Plugin 解析Eltex MES/ESR命令输出，两个系列共用一套表格格式
type Plugin struct{}

func (p *Plugin) Name() string { return "eltex_mes" }

func (p *Plugin) Parse(ctx collect.ParseContext, raw string) collect.Rows {
	cmd := strings.ToLower(strings.TrimSpace(ctx.Command))
	switch {
	case strings.HasPrefix(cmd, "show interfaces description"):
		return collect.Rows{Interfaces: parseInterfaceRows(raw)}
	case strings.HasPrefix(cmd, "show mac address-table interface"):
		return collect.Rows{Macs: parseMacRows(raw)}
	case strings.HasPrefix(cmd, "show running-config interface"):
		return collect.Rows{VlanIDs: parseConfigVlans(raw)}
	default:
		return collect.Rows{}
	}
}

func init() { collect.Register("eltex_mes", &Plugin{}) }
