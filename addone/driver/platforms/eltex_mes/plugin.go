package eltex_mes

import (
	"regexp"
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/driver"
)

const vendor = "Eltex"

// 驱动固定属性。MES和ESR共用提示符和翻页横幅
var (
	promptRe = regexp.MustCompile(`\S+#\s*$`)
	moreRe   = regexp.MustCompile(
		`More: <space>,  Quit: q or CTRL\+Z, One line: <return>|` +
			`More\? Enter - next line; Space - next page; Q - quit; R - show the rest\.`)

	sysModelRe  = regexp.MustCompile(`System Description:\s+(\S+)|System type:\s+Eltex (\S+)`)
	sysMacRe    = regexp.MustCompile(`System MAC [Aa]ddress:\s+(\S+)`)
	invSerialRe = regexp.MustCompile(`SN: (\S+)`)
	esrSerialRe = regexp.MustCompile(`serial number:\s+(\S+)`)

	advTypeRe  = regexp.MustCompile(`Type: (\S+)`)
	descMaxRe  = regexp.MustCompile(` Up to (\d+) characters`)
	writeAskRe = regexp.MustCompile(`\([Yy]/[Nn]\)\s*(?:\[[YN]\])?\s*\??\s*$`)

	// gi1/0/1、te1/0/4、fa1/0/12等
	validPortRe = regexp.MustCompile(`^[A-Za-z]{2,}\s?\d+(/\d+)*$`)
)

// Eltex识别分两级：show version里的Active-image/Boot version说明是Eltex，
// 再用show system的System Description分辨MES和ESR两个系列
func init() {
	driver.Register(driver.Signature{
		Name: "eltex",
		Rank: 60,
		Match: func(out string) bool {
			return strings.Contains(out, "Active-image:") || strings.Contains(out, "Boot version:")
		},
		Probe: "show system",
		Sub: []driver.Signature{
			{
				Name: "eltex_mes",
				Match: func(out string) bool {
					return strings.Contains(extractModel(out), "MES")
				},
				Model: extractModel,
				New:   NewMES,
			},
			{
				Name: "eltex_esr",
				Match: func(out string) bool {
					return strings.Contains(extractModel(out), "ESR")
				},
				Model: extractModel,
				New:   NewESR,
			},
		},
	})
}

func extractModel(out string) string {
	m := sysModelRe.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}
