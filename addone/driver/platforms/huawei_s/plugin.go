package huawei_s

import (
	"regexp"
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/driver"
)

const vendor = "Huawei"

// 驱动固定属性
var (
	promptRe = regexp.MustCompile(`[>\]]\s*$`)
	moreRe   = regexp.MustCompile(`---- More ----`)

	modelRe       = regexp.MustCompile(`(?i)(?:Quidway|HUAWEI)\s+(\S+)\s+uptime|Quidway (\S+)`)
	barcodeRe     = regexp.MustCompile(`BarCode=(\S+)`)
	bridgeRe      = regexp.MustCompile(`[Bb]ridge [Mm][Aa][Cc][\s:]+(\S+)`)
	superPassRe   = regexp.MustCompile(`[Pp]ass.*:\s*$`)
	saveConfirmRe = regexp.MustCompile(`\[Y/N\][:\s]*$`)
	portModeRe    = regexp.MustCompile(`Port Mode:\s*([^\r\n]+)`)
	descLenRe     = regexp.MustCompile(`more than (\d+)`)

	validPortRe = regexp.MustCompile(`^[A-Za-z]{2,}\s?\d+(/\d+)*$`)
)

// 华为的识别分两级：show version报"Unrecognized command"后发display version，
// 在二级输出里分辨VRP家族。二级里再次出现"Unrecognized command"说明当前
// 账号权限不足连display version都不让执行，但设备已经可以确定是华为
func init() {
	driver.Register(driver.Signature{
		Name: "huawei",
		Rank: 20,
		Match: func(out string) bool {
			return strings.Contains(out, "Unrecognized command")
		},
		Probe: "display version",
		Sub: []driver.Signature{
			{
				Name: "huawei_s",
				Match: func(out string) bool {
					low := strings.ToLower(out)
					return strings.Contains(low, "huawei") || strings.Contains(low, "quidway")
				},
				Model: extractModel,
				New:   New,
			},
			{
				Name: "huawei_s_restricted",
				Match: func(out string) bool {
					return strings.Contains(out, "Unrecognized command")
				},
				New: New,
			},
		},
	})
}

func extractModel(out string) string {
	m := modelRe.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}
