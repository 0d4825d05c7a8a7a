package dlink_des

import (
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

// Plugin 解析D-Link DES/DGS命令输出
type Plugin struct{}

func (p *Plugin) Name() string { return "dlink_des" }

func (p *Plugin) Parse(ctx collect.ParseContext, raw string) collect.Rows {
	cmd := strings.ToLower(strings.TrimSpace(ctx.Command))
	switch {
	case strings.HasPrefix(cmd, "show ports"):
		return collect.Rows{Interfaces: parsePortRows(raw)}
	case strings.HasPrefix(cmd, "show fdb port"):
		return collect.Rows{Macs: parseFdbRows(raw)}
	case strings.HasPrefix(cmd, "show vlan ports"):
		return collect.Rows{VlanIDs: parsePortVlans(raw)}
	default:
		return collect.Rows{}
	}
}

func init() { collect.Register("dlink_des", &Plugin{}) }
