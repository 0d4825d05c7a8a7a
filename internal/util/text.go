package util

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	vlanToRangeRe = regexp.MustCompile(`(\d+)\s*to\s*(\d+)`)
	vlanTokenRe   = regexp.MustCompile(`\d+(?:-\d+)?`)
	ifaceNumberRe = regexp.MustCompile(`\d+(?:[/:.]\d+)*`)
	nonPrintRe    = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// FindOrEmpty 返回正则第一个捕获组，没有捕获组时返回整个匹配，找不到返回空串。
// 设备探测场景下缺字段不算错误，统一用空串表示
func FindOrEmpty(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	switch {
	case len(m) >= 2:
		return m[1]
	case len(m) == 1:
		return m[0]
	default:
		return ""
	}
}

// RangeToNumbers 把厂商输出里的VLAN编号描述展开成升序去重的整数列表。
// 支持三种写法混用："134-136, 234, 411"、"10 to 14"、单个数字
func RangeToNumbers(s string) []int {
	// 先把 "a to b" 归一成 "a-b"，剩下的按数字/区间token扫描
	s = vlanToRangeRe.ReplaceAllString(s, "$1-$2")

	seen := make(map[int]struct{})
	for _, tok := range vlanTokenRe.FindAllString(s, -1) {
		if a, b, ok := strings.Cut(tok, "-"); ok {
			lo, err1 := strconv.Atoi(a)
			hi, err2 := strconv.Atoi(b)
			if err1 != nil || err2 != nil || lo > hi {
				continue
			}
			for v := lo; v <= hi; v++ {
				seen[v] = struct{}{}
			}
			continue
		}
		if v, err := strconv.Atoi(tok); err == nil {
			seen[v] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// 端口名缩写到完整写法的映射，顺序敏感：长前缀在前避免te吃掉ten
var ifacePrefixes = []struct {
	shorts []string
	full   string
}{
	{[]string{"hu", "hun"}, "HundredGigE"},
	{[]string{"fo", "for"}, "FortyGigabitEthernet"},
	{[]string{"te", "ten"}, "TenGigabitEthernet"},
	{[]string{"gi", "gig"}, "GigabitEthernet"},
	{[]string{"fa", "fas"}, "FastEthernet"},
	{[]string{"po", "port-channel"}, "Port-channel"},
	{[]string{"e", "et", "eth"}, "Ethernet"},
}

// InterfaceNormalView 把缩写端口名统一成完整形式，例如 "gi0/1" -> "GigabitEthernet0/1"、
// "Fa 0/2" -> "FastEthernet0/2"。识别不出前缀时原样返回去掉空白的输入
func InterfaceNormalView(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	number := ifaceNumberRe.FindString(name)
	if number == "" {
		return name
	}
	letters := strings.ToLower(strings.TrimSpace(strings.Split(name, number)[0]))
	if letters == "" {
		return strings.ReplaceAll(name, " ", "")
	}
	for _, p := range ifacePrefixes {
		full := strings.ToLower(p.full)
		if letters == full {
			return p.full + number
		}
		for _, s := range p.shorts {
			if letters == s {
				return p.full + number
			}
		}
		// "gigabitethernet0/1"等完整形式带任意截断
		if strings.HasPrefix(full, letters) && len(letters) >= 2 {
			return p.full + number
		}
	}
	return strings.ReplaceAll(name, " ", "")
}

// CleanDescription 规范端口描述文本：去掉换行和控制字符，替换会打断厂商CLI解析的符号
func CleanDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	desc = nonPrintRe.ReplaceAllString(desc, " ")
	replacer := strings.NewReplacer(
		`"`, "'",
		`\`, "/",
		"[", "(",
		"]", ")",
		"?", "",
	)
	return strings.TrimSpace(replacer.Replace(desc))
}
