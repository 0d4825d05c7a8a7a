package huawei_s

import (
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

// Plugin 解析华为VRP S系列命令输出
type Plugin struct{}

func (p *Plugin) Name() string { return "huawei_s" }

func (p *Plugin) Parse(ctx collect.ParseContext, raw string) collect.Rows {
	cmd := strings.ToLower(strings.TrimSpace(ctx.Command))
	switch {
	case strings.HasPrefix(cmd, "display interface description"):
		return collect.Rows{Interfaces: parseInterfaceRows(raw)}
	case strings.HasPrefix(cmd, "display mac-address"):
		return collect.Rows{Macs: parseMacRows(raw)}
	case strings.HasPrefix(cmd, "display current-configuration interface"):
		return collect.Rows{VlanIDs: parseConfigVlans(raw)}
	default:
		return collect.Rows{}
	}
}

func init() { collect.Register("huawei_s", &Plugin{}) }
