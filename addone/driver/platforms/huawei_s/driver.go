package huawei_s

import (
	"strings"
	"time"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/util"
	"github.com/devaccesspro/devaccesspro/pkg/expect"
)

// Driver 华为VRP S系列交换机
type Driver struct {
	*driver.Base
}

// New 构造驱动。elabel很长，序列号探测限制翻页数，拿不到就空着
func New(sess *expect.Session, host, model, secret string) (driver.Driver, error) {
	exec := driver.NewExecutor(sess, promptRe, moreRe)
	d := &Driver{Base: driver.NewBase("huawei_s", driver.DeviceInfo{
		Vendor: vendor,
		Model:  model,
		Host:   host,
	}, exec)}
	sess.SetExitCommands("quit")

	d.elevate(secret)

	info := d.Info()
	if info.Model == "" {
		version, _ := exec.Run("display version")
		info.Model = extractModel(version)
	}
	elabel, _ := exec.Run("display elabel", driver.WithPages(3), driver.WithTimeout(5*time.Second))
	info.Serial = util.FindOrEmpty(barcodeRe, elabel)
	bridge, _ := exec.Run("display bridge mac-address")
	info.MAC = util.FindOrEmpty(bridgeRe, bridge)
	d.SetInfo(info)
	return d, nil
}

// elevate super提权。没有secret时按当前账号权限用，
// VRP把权限不足表现为命令报错而不是拒绝登录
func (d *Driver) elevate(secret string) {
	if secret == "" {
		d.Privileged = true
		return
	}
	sess := d.Exec.Session()
	if err := sess.SendLine("super"); err != nil {
		return
	}
	m, err := sess.Expect(5*time.Second, superPassRe, promptRe)
	if err != nil {
		return
	}
	if m.Index == 1 {
		// 没有要口令直接回提示符，当前级别已经够
		d.Privileged = true
		return
	}
	if err := sess.SendLine(secret); err != nil {
		return
	}
	m, err = sess.Expect(5*time.Second, promptRe)
	if err == nil && !strings.Contains(m.Before, "Error") {
		d.Privileged = true
	}
}

func (d *Driver) GetInterfaces() ([]collect.InterfaceRow, error) {
	out, err := d.Exec.Run("display interface description")
	if err != nil {
		return nil, err
	}
	return d.Parse("display interface description", "", out).Interfaces, nil
}

func (d *Driver) GetVlans() ([]collect.VlanRow, error) {
	interfaces, err := d.GetInterfaces()
	if err != nil {
		return nil, err
	}
	rows := make([]collect.VlanRow, 0, len(interfaces))
	for _, iface := range interfaces {
		cmd := "display current-configuration interface " + iface.Name
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
	cmd := "display mac-address " + port
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
	out, err := d.configSequence("interface "+port, "shutdown")
	if err != nil {
		return out, err
	}
	time.Sleep(time.Second)
	more, err := d.configSequence("interface "+port, "undo shutdown")
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
		cmd = "undo shutdown"
	}
	out, err := d.configSequence("interface "+port, cmd)
	if err != nil {
		return out, err
	}
	saved, err := d.SaveConfig()
	return out + saved, err
}

// SaveConfig save命令带Y/N确认，成功标志是"successfully"，最多3次
func (d *Driver) SaveConfig() (string, error) {
	if err := d.RequirePrivilege(vendor, "save config"); err != nil {
		return "", err
	}
	for i := 0; i < 3; i++ {
		out, err := d.Exec.Run("save", driver.WithPrompt(saveConfirmRe), driver.WithTimeout(10*time.Second))
		if err != nil {
			return driver.SavedErr, err
		}
		status, err := d.Exec.Run("y", driver.WithoutEcho(), driver.WithTimeout(20*time.Second))
		if err != nil {
			return driver.SavedErr, err
		}
		if strings.Contains(out+status, "successfully") {
			return driver.SavedOK, nil
		}
	}
	return driver.SavedErr, nil
}

func (d *Driver) PortType(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return driver.TypeUnknown, nil
	}
	out, err := d.Exec.Run("display interface " + port)
	if err != nil {
		return driver.TypeUnknown, err
	}
	mode := strings.ToUpper(util.FindOrEmpty(portModeRe, out))
	switch {
	case strings.Contains(mode, "COMBO") && strings.Contains(mode, "FIBER"):
		return driver.TypeComboFiber, nil
	case strings.Contains(mode, "COMBO") && strings.Contains(mode, "COPPER"):
		return driver.TypeComboCopper, nil
	case strings.Contains(mode, "FIBER"):
		return driver.TypeSFP, nil
	case strings.Contains(mode, "COPPER"):
		return driver.TypeCopper, nil
	}
	return driver.TypeUnknown, nil
}

func (d *Driver) PortConfig(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	out, err := d.Exec.Run("display current-configuration interface " + port)
	return strings.TrimSpace(out), err
}

func (d *Driver) PortErrors(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	out, err := d.Exec.Run("display interface " + port)
	if err != nil {
		return "", err
	}
	var errLines []string
	for _, line := range strings.Split(out, "\n") {
		low := strings.ToLower(line)
		if strings.Contains(low, "error") || strings.Contains(low, "crc") {
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
		cmd = "undo description"
	}
	out, err := d.configSequence("interface "+port, cmd)
	if err != nil {
		return out, err
	}
	// 超长描述VRP报"The length ... more than N"，把上限带给调用方
	if maxLen := util.FindOrEmpty(descLenRe, out); maxLen != "" {
		return "Max length:" + maxLen, nil
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

// configSequence system-view下执行一串命令再return退出
func (d *Driver) configSequence(cmds ...string) (string, error) {
	var out strings.Builder
	res, err := d.Exec.Run("system-view")
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
	res, err = d.Exec.Run("return")
	out.WriteString(res)
	return out.String(), err
}
