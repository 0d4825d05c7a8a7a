package eltex_mes

import (
	"strings"
	"time"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/internal/util"
	"github.com/devaccesspro/devaccesspro/pkg/expect"
)

// MES Eltex MES系列交换机（2324/3324上验证过的命令集）。
// persist由构造方注入：MES是write+Y确认，ESR换成commit/confirm两步
type MES struct {
	*driver.Base
	persist func() (string, error)
}

// NewMES 构造MES驱动。登录账号即特权级，无单独提权步骤；
// 序列号从show inventory取，MAC从show system取
func NewMES(sess *expect.Session, host, model, secret string) (driver.Driver, error) {
	exec := driver.NewExecutor(sess, promptRe, moreRe)
	d := &MES{Base: driver.NewBase("eltex_mes", driver.DeviceInfo{
		Vendor: vendor,
		Model:  model,
		Host:   host,
	}, exec)}
	sess.SetExitCommands("exit")
	d.Privileged = true
	d.persist = d.saveWrite

	d.fillInfo()
	return d, nil
}

func (d *MES) fillInfo() {
	info := d.Info()
	system, _ := d.Exec.Run("show system")
	if info.Model == "" {
		info.Model = extractModel(system)
	}
	info.MAC = util.FindOrEmpty(sysMacRe, system)
	// inventory输出前面没有命令回显
	inv, _ := d.Exec.Run("show inventory", driver.WithoutEcho())
	info.Serial = util.FindOrEmpty(invSerialRe, inv)
	d.SetInfo(info)
}

func (d *MES) GetInterfaces() ([]collect.InterfaceRow, error) {
	out, err := d.Exec.Run("show interfaces description")
	if err != nil {
		return nil, err
	}
	// 端口段后面跟着Port-channel段，从这一行起截掉
	if i := strings.Index(out, "Ch       Port Mode (VLAN)"); i >= 0 {
		out = out[:i]
	}
	return d.Parse("show interfaces description", "", out).Interfaces, nil
}

func (d *MES) GetVlans() ([]collect.VlanRow, error) {
	interfaces, err := d.GetInterfaces()
	if err != nil {
		return nil, err
	}
	rows := make([]collect.VlanRow, 0, len(interfaces))
	for _, iface := range interfaces {
		cmd := "show running-config interface " + util.InterfaceNormalView(iface.Name)
		out, err := d.Exec.Run(cmd, driver.WithoutEcho())
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

func (d *MES) GetMac(port string) ([]collect.MacRow, error) {
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

func (d *MES) ReloadPort(port string) (string, error) {
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

func (d *MES) SetPort(port, status string) (string, error) {
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

func (d *MES) SaveConfig() (string, error) {
	return d.persist()
}

// saveWrite write后设备要求Y确认覆盖startup-config，
// 等"succeed"字样，最多3次
func (d *MES) saveWrite() (string, error) {
	if _, err := d.Exec.Run("end"); err != nil {
		return driver.SavedErr, err
	}
	for i := 0; i < 3; i++ {
		if _, err := d.Exec.Run("write", driver.WithPrompt(writeAskRe), driver.WithTimeout(10*time.Second)); err != nil {
			return driver.SavedErr, err
		}
		status, err := d.Exec.Run("Y", driver.WithoutEcho(), driver.WithTimeout(15*time.Second))
		if err != nil {
			return driver.SavedErr, err
		}
		if strings.Contains(status, "succeed") {
			return driver.SavedOK, nil
		}
	}
	return driver.SavedErr, nil
}

// PortType 介质类型从show interfaces advertise的Type字段推断
func (d *MES) PortType(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return driver.TypeUnknown, nil
	}
	out, err := d.Exec.Run("show interfaces advertise " + util.InterfaceNormalView(port))
	if err != nil {
		return driver.TypeUnknown, err
	}
	portType := util.FindOrEmpty(advTypeRe, out)
	switch {
	case strings.Contains(portType, "Combo-F"):
		return driver.TypeComboFiber, nil
	case strings.Contains(portType, "Combo-C"):
		return driver.TypeComboCopper, nil
	case strings.Contains(portType, "Fiber"):
		return driver.TypeSFP, nil
	case strings.Contains(portType, "Copper"):
		return driver.TypeCopper, nil
	}
	return driver.TypeUnknown, nil
}

func (d *MES) PortConfig(port string) (string, error) {
	if !validPortRe.MatchString(strings.TrimSpace(port)) {
		return "", nil
	}
	out, err := d.Exec.Run("show running-config interface " + util.InterfaceNormalView(port))
	return strings.TrimSpace(out), err
}

func (d *MES) PortErrors(port string) (string, error) {
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

// SetDescription 超长描述设备报bad parameter value，
// 此时趁还在接口配置态用"description ?"问出上限并带给调用方，
// 不做静默截断
func (d *MES) SetDescription(port, desc string) (string, error) {
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
	var out strings.Builder
	for _, c := range []string{"configure terminal", "interface " + util.InterfaceNormalView(port)} {
		res, err := d.Exec.Run(c)
		out.WriteString(res)
		if err != nil {
			return out.String(), err
		}
	}
	res, err := d.Exec.Run(cmd)
	out.WriteString(res)
	if err != nil {
		return out.String(), err
	}
	if strings.Contains(res, "bad parameter value") {
		// 上限提示只在接口配置态下打印，退出去就问不到了
		help, herr := d.Exec.Run("description ?")
		if _, err := d.Exec.Run("end"); err != nil && herr == nil {
			herr = err
		}
		if herr != nil {
			return out.String(), herr
		}
		return "Max length:" + util.FindOrEmpty(descMaxRe, help), nil
	}
	res, err = d.Exec.Run("end")
	out.WriteString(res)
	if err != nil {
		return out.String(), err
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

// configSequence 配置模式下执行一串命令再end退出
func (d *MES) configSequence(cmds ...string) (string, error) {
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
