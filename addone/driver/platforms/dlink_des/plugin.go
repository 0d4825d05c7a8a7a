package dlink_des

import (
	"regexp"
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/driver"
)

const vendor = "D-Link"

// 驱动固定属性
var (
	promptRe = regexp.MustCompile(`#\s*$`)
	moreRe   = regexp.MustCompile(`Next Page|Next Entry|CTRL\+C.+?Quit`)

	modelRe  = regexp.MustCompile(`Device Type\s*:\s*(\S+)`)
	macRe    = regexp.MustCompile(`MAC Address\s*:\s*(\S+)`)
	serialRe = regexp.MustCompile(`Serial Number\s*:\s*(\S+)`)

	enablePassRe = regexp.MustCompile(`[Pp]ass[Ww]ord:\s*\**\s*$`)
	mediaRe      = regexp.MustCompile(`(?m)^\s*\d+(?::\d+)?\s+(\S+)`)

	// 端口是纯数字或堆叠写法1:1
	validPortRe = regexp.MustCompile(`^\d+(:\d+)?$`)
)

func init() {
	driver.Register(driver.Signature{
		Name: "dlink",
		Rank: 50,
		Match: func(out string) bool {
			return strings.Contains(out, "Next possible completions:")
		},
		New: New,
	})
}
