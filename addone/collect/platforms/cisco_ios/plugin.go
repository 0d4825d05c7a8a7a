package cisco_ios

import (
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/collect"
)

// Plugin 解析Cisco IOS命令输出
type Plugin struct{}

func (p *Plugin) Name() string { return "cisco_ios" }

// Parse 按命令前缀分发到对应的文件级处理函数
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

func init() { collect.Register("cisco_ios", &Plugin{}) }
