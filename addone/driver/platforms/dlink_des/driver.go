package dlink_des

import (
	"strings"
	"time"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/util"
	"github.com/devaccesspro/devaccesspro/pkg/expect"
)

// Driver D-Link DES/DGS系列交换机
type Driver struct {
	*driver.Base
}

// New 构造驱动。先尝试enable admin提权，然后关掉翻页，
// 设备快照从show switch取
func New(sess *expect.Session, host, model, secret string) (driver.Driver, error) {
	exec := driver.NewExecutor(sess, promptRe, moreRe)
	d := &Driver{Base: driver.NewBase("dlink_des", driver.DeviceInfo{
		Vendor: vendor,
		Model:  model,
		Host:   host,
	}, exec)}
	sess.SetExitCommands("logout")

	d.elevate(secret)

	// clipaging关掉之后不再出现翻页横幅
	if out, err := exec.Run("disable clipaging"); err == nil && strings.Contains(out, "Success") {
		exec.SetMore(nil)
	}

	sw, _ := exec.Run("show switch")
	info := d.Info()
	if info.Model == "" {
		info.Model = util.FindOrEmpty(modelRe, sw)
	}
	info.MAC = util.FindOrEmpty(macRe, sw)
	info.Serial = util.FindOrEmpty(serialRe, sw)
	d.SetInfo(info)
	return d, nil
}

// elevate enable admin提权。没有secret时按已提权账号算：
// D-Link上普通账号连disable clipaging都不让执行，
// 后续命令失败文本会把实际权限暴露出来
func (d *Driver) elevate(secret string) {
	if secret == "" {
		d.Privileged = true
		return
	}
	sess := d.Exec.Session()
	if err := sess.SendLine("enable admin"); err != nil {
		return
	}
	m, err := sess.Expect(5*time.Second, enablePassRe, promptRe)
	if err != nil {
		return
	}
	if m.Index == 1 {
		d.Privileged = true
		return
	}
	if err := sess.SendLine(secret); err != nil {
		return
	}
	m, err = sess.Expect(5*time.Second, promptRe)
	if err == nil && !strings.Contains(m.Before, "Fail") {
		d.Privileged = true
	}
}

func (d *Driver) GetInterfaces() ([]collect.InterfaceRow, error) {
	out, err := d.Exec.Run("show ports description")
	if err != nil {
		return nil, err
	}
	return d.Parse("show ports description", "", out).Interfaces, nil
}

func (d *Driver) GetVlans() ([]collect.VlanRow, error) {
	interfaces, err := d.GetInterfaces()
	if err != nil {
		return nil, err
	}
	rows := make([]collect.VlanRow, 0, len(interfaces))
	for _, iface := range interfaces {
		cmd := "show vlan ports " + iface.Name
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
	cmd := "show fdb port " + strings.TrimSpace(port)
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
	port = strings.TrimSpace(port)
	if !validPortRe.MatchString(port) {
		return "", nil
	}
	out, err := d.Exec.Run("config ports " + port + " state disable")
	if err != nil {
		return out, err
	}
	time.Sleep(time.Second)
	more, err := d.Exec.Run("config ports " + port + " state enable")
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
	port = strings.TrimSpace(port)
	if !validPortRe.MatchString(port) {
		return "", nil
	}
	state := "disable"
	if status == driver.PortUp {
		state = "enable"
	}
	out, err := d.Exec.Run("config ports " + port + " state " + state)
	if err != nil {
		return out, err
	}
	saved, err := d.SaveConfig()
	return out + saved, err
}

// SaveConfig save写入NVRAM比较慢，成功标志是"Success"，最多3次
func (d *Driver) SaveConfig() (string, error) {
	if err := d.RequirePrivilege(vendor, "save config"); err != nil {
		return "", err
	}
	for i := 0; i < 3; i++ {
		out, err := d.Exec.Run("save", driver.WithTimeout(30*time.Second))
		if err != nil {
			return driver.SavedErr, err
		}
		if strings.Contains(out, "Success") {
			return driver.SavedOK, nil
		}
	}
	return driver.SavedErr, nil
}

func (d *Driver) PortType(port string) (string, error) {
	port = strings.TrimSpace(port)
	if !validPortRe.MatchString(port) {
		return driver.TypeUnknown, nil
	}
	out, err := d.Exec.Run("show ports " + port + " media_type")
	if err != nil {
		return driver.TypeUnknown, err
	}
	media := strings.ToLower(util.FindOrEmpty(mediaRe, out))
	switch {
	case strings.Contains(media, "combo") && strings.Contains(media, "f"):
		return driver.TypeComboFiber, nil
	case strings.Contains(media, "combo"):
		return driver.TypeComboCopper, nil
	case strings.Contains(media, "fiber") || strings.Contains(media, "sfp"):
		return driver.TypeSFP, nil
	case strings.Contains(media, "t") || strings.Contains(media, "copper"):
		return driver.TypeCopper, nil
	}
	return driver.TypeUnknown, nil
}

func (d *Driver) PortConfig(port string) (string, error) {
	port = strings.TrimSpace(port)
	if !validPortRe.MatchString(port) {
		return "", nil
	}
	out, err := d.Exec.Run("show ports " + port + " description")
	return strings.TrimSpace(out), err
}

func (d *Driver) PortErrors(port string) (string, error) {
	port = strings.TrimSpace(port)
	if !validPortRe.MatchString(port) {
		return "", nil
	}
	out, err := d.Exec.Run("show error ports " + port)
	return strings.TrimSpace(out), err
}

func (d *Driver) SetDescription(port, desc string) (string, error) {
	if err := d.RequirePrivilege(vendor, "set description"); err != nil {
		return "", err
	}
	port = strings.TrimSpace(port)
	if !validPortRe.MatchString(port) {
		return "", nil
	}
	desc = util.CleanDescription(desc)
	var out string
	var err error
	if desc == "" {
		out, err = d.Exec.Run("config ports " + port + " clear_description")
	} else {
		out, err = d.Exec.Run("config ports " + port + " description " + desc)
	}
	if err != nil {
		return out, err
	}
	// 超长描述的报错带着允许的最大长度
	if strings.Contains(out, "Available characters") || strings.Contains(out, "Next possible completions") {
		return strings.TrimSpace(out), nil
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
