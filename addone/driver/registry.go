package driver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/devaccesspro/devaccesspro/pkg/expect"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// 分类阶段还不知道厂商，用最宽的提示符和常见翻页横幅
var (
	probePromptRe = regexp.MustCompile(`[#>\]]\s*$`)
	probeMoreRe   = regexp.MustCompile(`-+\s*[Mm]ore\s*-+|More: <space>|--More--`)
)

// Constructor 由签名命中后调用，在会话上完成平台驱动的构造探测
type Constructor func(sess *expect.Session, host, model, secret string) (Driver, error)

// Signature 一条厂商识别规则。规则按Rank从小到大排成全序，
// 第一条命中的生效。Probe非空表示命中后还要发二级探测命令，
// 用Sub规则在二级输出上继续分辨；Sub全不命中则回到主表继续
type Signature struct {
	Name  string
	Rank  int
	Match func(out string) bool
	Model func(out string) string
	Probe string
	Sub   []Signature
	New   Constructor
}

var (
	registryMu sync.RWMutex
	signatures []Signature
)

// Register 平台包在init里登记识别规则
func Register(sig Signature) {
	registryMu.Lock()
	defer registryMu.Unlock()
	signatures = append(signatures, sig)
}

// table 返回按Rank排好序的规则快照
func table() []Signature {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Signature, len(signatures))
	copy(out, signatures)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// Classify 在已认证会话上探测厂商并构造驱动。
// 先发show version；设备报"bad command name show"时补发兜底探测。
// 输出依次和签名表比对，全部不中返回UnknownVendorError，绝不落默认驱动
func Classify(sess *expect.Session, host, secret string) (Driver, error) {
	exec := NewExecutor(sess, probePromptRe, probeMoreRe)
	exec.SetTimeout(3 * time.Second)

	out, err := exec.Run("show version")
	if err != nil {
		return nil, fmt.Errorf("version probe on %s failed: %w", host, err)
	}
	if strings.Contains(out, "bad command name show") {
		fallback, ferr := exec.Run("system resource print")
		if ferr != nil {
			return nil, fmt.Errorf("fallback probe on %s failed: %w", host, ferr)
		}
		out += "\n" + fallback
	}

	return matchSignatures(exec, sess, host, secret, out)
}

func matchSignatures(exec *Executor, sess *expect.Session, host, secret, out string) (Driver, error) {
	log := logger.WithDevice(host)

	for _, sig := range table() {
		if !sig.Match(out) {
			continue
		}
		if sig.Probe != "" {
			probeOut, err := exec.Run(sig.Probe)
			if err != nil {
				return nil, fmt.Errorf("probe %q on %s failed: %w", sig.Probe, host, err)
			}
			matched := false
			for _, sub := range sig.Sub {
				if !sub.Match(probeOut) {
					continue
				}
				matched = true
				log.Debugf("signature %s/%s matched", sig.Name, sub.Name)
				return build(sub, sess, host, secret, probeOut)
			}
			if !matched {
				// 二级探测没分辨出来，继续走主表
				continue
			}
		}
		log.Debugf("signature %s matched", sig.Name)
		return build(sig, sess, host, secret, out)
	}
	return nil, &UnknownVendorError{Host: host}
}

func build(sig Signature, sess *expect.Session, host, secret, out string) (Driver, error) {
	model := ""
	if sig.Model != nil {
		model = sig.Model(out)
	}
	if sig.New == nil {
		return nil, &UnknownVendorError{Host: host}
	}
	d, err := sig.New(sess, host, model, secret)
	if err != nil {
		return nil, fmt.Errorf("constructing %s driver for %s: %w", sig.Name, host, err)
	}
	return d, nil
}
