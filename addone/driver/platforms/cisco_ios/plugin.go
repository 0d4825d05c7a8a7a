package cisco_ios

import (
	"regexp"
	"strings"

	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/util"
)

const vendor = "Cisco"

// 驱动固定属性
var (
	promptRe     = regexp.MustCompile(`\S+[#>]\s*$`)
	hashPromptRe = regexp.MustCompile(`\S+#\s*$`)
	moreRe       = regexp.MustCompile(`--More--`)

	modelRe  = regexp.MustCompile(`Model number\s*:\s*(\S+)`)
	serialRe = regexp.MustCompile(`System serial number\s*:\s*(\S+)`)
	macRe    = regexp.MustCompile(`Base [Ee]thernet MAC [Aa]ddress\s*:\s*(\S+)`)

	enablePassRe = regexp.MustCompile(`[Pp]assword:\s*$`)
	mediaRe      = regexp.MustCompile(`media type is (\S+)`)

	// GigabitEthernet0/1、Fa0/2、te1/0/1等物理端口写法
	validPortRe = regexp.MustCompile(`^[A-Za-z]{2,}\s?\d+(/\d+)*$`)
)

func init() {
	driver.Register(driver.Signature{
		Name: "cisco",
		Rank: 40,
		Match: func(out string) bool {
			return strings.Contains(strings.ToLower(out), "cisco")
		},
		Model: func(out string) string {
			return util.FindOrEmpty(modelRe, out)
		},
		New: New,
	})
}
