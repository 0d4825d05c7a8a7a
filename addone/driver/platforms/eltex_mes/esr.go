package eltex_mes

import (
	"regexp"
	"strings"
	"time"

	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/util"
	"github.com/devaccesspro/devaccesspro/pkg/expect"
)

var (
	esrAppliedRe    = regexp.MustCompile(`Configuration has been successfully applied|\S+#\s*$`)
	esrDescAnchorRe = regexp.MustCompile(`Description:.+`)
)

// ESR Eltex ESR系列路由器。命令集和MES基本一致，
// 差异在持久化（commit/confirm两步）和端口诊断命令
type ESR struct {
	*MES
}

// NewESR 构造ESR驱动，序列号在show system里
func NewESR(sess *expect.Session, host, model, secret string) (driver.Driver, error) {
	exec := driver.NewExecutor(sess, promptRe, moreRe)
	base := &MES{Base: driver.NewBase("eltex_mes", driver.DeviceInfo{
		Vendor: vendor,
		Model:  model,
		Host:   host,
	}, exec)}
	sess.SetExitCommands("exit")
	base.Privileged = true
	d := &ESR{MES: base}
	base.persist = d.saveCommit

	info := d.Info()
	system, _ := exec.Run("show system")
	if info.Model == "" {
		info.Model = extractModel(system)
	}
	info.MAC = util.FindOrEmpty(sysMacRe, system)
	info.Serial = util.FindOrEmpty(esrSerialRe, system)
	d.SetInfo(info)
	return d, nil
}

// saveCommit ESR走两步提交：commit之后必须confirm，
// 确认标志是"Configuration has been confirmed"
func (d *ESR) saveCommit() (string, error) {
	out, err := d.Exec.Run("commit", driver.WithPrompt(esrAppliedRe), driver.WithTimeout(10*time.Second))
	if err != nil {
		return driver.SavedErr, err
	}
	if strings.Contains(out, "Unknown command") {
		// 还在配置子模式里，退出来重新提交
		if _, err := d.Exec.Run("end"); err != nil {
			return driver.SavedErr, err
		}
		if _, err := d.Exec.Run("commit", driver.WithPrompt(esrAppliedRe), driver.WithTimeout(10*time.Second)); err != nil {
			return driver.SavedErr, err
		}
	}
	status, err := d.Exec.Run("confirm", driver.WithTimeout(10*time.Second))
	if err != nil {
		return driver.SavedErr, err
	}
	if strings.Contains(status, "Configuration has been confirmed") {
		return driver.SavedOK, nil
	}
	return driver.SavedErr, nil
}

// PortType SFP模块在位就是光口，其余按电口算
func (d *ESR) PortType(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return driver.TypeUnknown, nil
	}
	out, err := d.Exec.Run("show interfaces sfp " + util.InterfaceNormalView(port))
	if err != nil {
		return driver.TypeUnknown, err
	}
	if strings.Contains(out, "SFP present") {
		return driver.TypeSFP, nil
	}
	return driver.TypeCopper, nil
}

// PortConfig 状态输出前有一段横幅，锚定Description行之后才是正文
func (d *ESR) PortConfig(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	out, err := d.Exec.Run("show interfaces status "+util.InterfaceNormalView(port),
		driver.WithoutEcho(), driver.WithBefore(esrDescAnchorRe))
	return strings.TrimSpace(out), err
}

func (d *ESR) PortErrors(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	out, err := d.Exec.Run("show interfaces counters " + util.InterfaceNormalView(port))
	if err != nil {
		return "", err
	}
	var errLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "errors") {
			errLines = append(errLines, strings.TrimSpace(line))
		}
	}
	return strings.Join(errLines, "\n"), nil
}
