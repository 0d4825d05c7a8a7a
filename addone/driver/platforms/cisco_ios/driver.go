package cisco_ios

import (
	"strings"
	"time"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/util"
	"github.com/devaccesspro/devaccesspro/pkg/expect"
)

// Driver Cisco IOS系列交换机
type Driver struct {
	*driver.Base
}

// New 构造驱动。构造探测尽力而为：序列号或MAC拿不到不阻断发现，
// 留空串即可
func New(sess *expect.Session, host, model, secret string) (driver.Driver, error) {
	exec := driver.NewExecutor(sess, promptRe, moreRe)
	d := &Driver{Base: driver.NewBase("cisco_ios", driver.DeviceInfo{
		Vendor: vendor,
		Model:  model,
		Host:   host,
	}, exec)}
	sess.SetExitCommands("exit")

	d.elevate(secret)

	version, _ := exec.Run("show version")
	info := d.Info()
	if info.Model == "" {
		info.Model = util.FindOrEmpty(modelRe, version)
	}
	info.Serial = util.FindOrEmpty(serialRe, version)
	info.MAC = util.FindOrEmpty(macRe, version)
	d.SetInfo(info)
	return d, nil
}

// elevate 进入enable模式。enable要么直接回到#提示符（账号本身特权级），
// 要么要口令。提权失败不报错，后续配置操作由RequirePrivilege挡下
func (d *Driver) elevate(secret string) {
	sess := d.Exec.Session()
	if err := sess.SendLine("enable"); err != nil {
		return
	}
	m, err := sess.Expect(5*time.Second, hashPromptRe, enablePassRe)
	if err != nil {
		return
	}
	if m.Index == 0 {
		d.Privileged = true
		return
	}
	if secret == "" {
		// 口令提示挂着会吃掉下一条命令，发空行退回提示符
		_ = sess.SendLine("")
		_, _ = sess.Expect(3*time.Second, promptRe)
		return
	}
	if err := sess.SendLine(secret); err != nil {
		return
	}
	m, err = sess.Expect(5*time.Second, hashPromptRe, promptRe)
	if err == nil && m.Index == 0 {
		d.Privileged = true
	}
}

func (d *Driver) GetInterfaces() ([]collect.InterfaceRow, error) {
	out, err := d.Exec.Run("show interfaces description")
	if err != nil {
		return nil, err
	}
	return d.Parse("show interfaces description", "", out).Interfaces, nil
}

func (d *Driver) GetVlans() ([]collect.VlanRow, error) {
	interfaces, err := d.GetInterfaces()
	if err != nil {
		return nil, err
	}
	rows := make([]collect.VlanRow, 0, len(interfaces))
	for _, iface := range interfaces {
		cmd := "show running-config interface " + util.InterfaceNormalView(iface.Name)
		out, err := d.Exec.Run(cmd)
		if err != nil {
			return rows, err
		}
		rows = append(rows, collect.VlanRow{
			Name:        iface.Name,
			Status:      iface.Status,
			Description: iface.Description,
			Vlans:       d.Parse(cmd, iface.Name, out).VlanIDs,
		})
	}
	return rows, nil
}

func (d *Driver) GetMac(port string) ([]collect.MacRow, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return []collect.MacRow{}, nil
	}
	cmd := "show mac address-table interface " + util.InterfaceNormalView(port)
	out, err := d.Exec.Run(cmd)
	if err != nil {
		return nil, err
	}
	return d.Parse(cmd, port, out).Macs, nil
}

func (d *Driver) ReloadPort(port string) (string, error) {
	if err := d.RequirePrivilege(vendor, "reload port"); err != nil {
		return "", err
	}
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	name := util.InterfaceNormalView(port)
	out, err := d.configSequence("interface "+name, "shutdown")
	if err != nil {
		return out, err
	}
	time.Sleep(time.Second)
	more, err := d.configSequence("interface "+name, "no shutdown")
	out += more
	if err != nil {
		return out, err
	}
	saved, err := d.SaveConfig()
	return out + saved, err
}

func (d *Driver) SetPort(port, status string) (string, error) {
	if err := d.RequirePrivilege(vendor, "set port"); err != nil {
		return "", err
	}
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	cmd := "shutdown"
	if status == driver.PortUp {
		cmd = "no shutdown"
	}
	out, err := d.configSequence("interface "+util.InterfaceNormalView(port), cmd)
	if err != nil {
		return out, err
	}
	saved, err := d.SaveConfig()
	return out + saved, err
}

// SaveConfig write命令写入启动配置，确认[OK]，最多重试3次
func (d *Driver) SaveConfig() (string, error) {
	if err := d.RequirePrivilege(vendor, "save config"); err != nil {
		return "", err
	}
	for i := 0; i < 3; i++ {
		out, err := d.Exec.Run("write", driver.WithTimeout(15*time.Second))
		if err != nil {
			return driver.SavedErr, err
		}
		if strings.Contains(out, "[OK]") || strings.Contains(out, "Building configuration") {
			return driver.SavedOK, nil
		}
	}
	return driver.SavedErr, nil
}

func (d *Driver) PortType(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return driver.TypeUnknown, nil
	}
	out, err := d.Exec.Run("show interfaces " + util.InterfaceNormalView(port))
	if err != nil {
		return driver.TypeUnknown, err
	}
	media := strings.ToLower(util.FindOrEmpty(mediaRe, out))
	switch {
	case strings.Contains(media, "sfp") || strings.Contains(media, "fiber"):
		return driver.TypeSFP, nil
	case strings.Contains(media, "rj45") || strings.Contains(media, "tx"):
		return driver.TypeCopper, nil
	}
	return driver.TypeUnknown, nil
}

func (d *Driver) PortConfig(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	out, err := d.Exec.Run("show running-config interface " + util.InterfaceNormalView(port))
	return strings.TrimSpace(out), err
}

// PortErrors 诊断文本按行过滤，只留带error计数的行
func (d *Driver) PortErrors(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	out, err := d.Exec.Run("show interfaces " + util.InterfaceNormalView(port))
	if err != nil {
		return "", err
	}
	var errLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "error") {
			errLines = append(errLines, strings.TrimSpace(line))
		}
	}
	return strings.Join(errLines, "\n"), nil
}

func (d *Driver) SetDescription(port, desc string) (string, error) {
	if err := d.RequirePrivilege(vendor, "set description"); err != nil {
		return "", err
	}
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	desc = util.CleanDescription(desc)
	cmd := "description " + desc
	if desc == "" {
		cmd = "no description"
	}
	out, err := d.configSequence("interface "+util.InterfaceNormalView(port), cmd)
	if err != nil {
		return out, err
	}
	if strings.Contains(out, "Invalid input") {
		return out, nil
	}
	saved, err := d.SaveConfig()
	if err != nil {
		return saved, err
	}
	action := "changed"
	if desc == "" {
		action = "cleared"
	}
	return "Description has been " + action + ". " + saved, nil
}

// configSequence 进入配置模式执行一串命令再退出，输出拼接返回
func (d *Driver) configSequence(cmds ...string) (string, error) {
	var out strings.Builder
	res, err := d.Exec.Run("configure terminal")
	out.WriteString(res)
	if err != nil {
		return out.String(), err
	}
	for _, cmd := range cmds {
		res, err = d.Exec.Run(cmd)
		out.WriteString(res)
		if err != nil {
			return out.String(), err
		}
	}
	res, err = d.Exec.Run("end")
	out.WriteString(res)
	return out.String(), err
}
