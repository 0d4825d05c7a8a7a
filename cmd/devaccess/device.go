package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devaccesspro/devaccesspro/addone/driver"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "识别设备并输出厂商、型号、序列号",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d driver.Driver) error {
			info := d.Info()
			fmt.Printf("host:   %s\n", info.Host)
			fmt.Printf("vendor: %s\n", info.Vendor)
			fmt.Printf("model:  %s\n", info.Model)
			fmt.Printf("serial: %s\n", info.Serial)
			fmt.Printf("mac:    %s\n", info.MAC)
			return nil
		})
	},
}

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "采集物理端口清单",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d driver.Driver) error {
			rows, err := d.GetInterfaces()
			if err != nil {
				return err
			}
			for _, r := range rows {
				fmt.Printf("%-28s %-12s %s\n", r.Name, r.Status, r.Description)
			}
			return nil
		})
	},
}

var vlansCmd = &cobra.Command{
	Use:   "vlans",
	Short: "采集端口清单及其VLAN列表",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d driver.Driver) error {
			rows, err := d.GetVlans()
			if err != nil {
				return err
			}
			for _, r := range rows {
				vlans := make([]string, len(r.Vlans))
				for i, v := range r.Vlans {
					vlans[i] = fmt.Sprint(v)
				}
				fmt.Printf("%-28s %-12s [%s]\n", r.Name, r.Status, strings.Join(vlans, ","))
			}
			return nil
		})
	},
}

var macCmd = &cobra.Command{
	Use:   "mac <port>",
	Short: "采集指定端口学到的MAC地址",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d driver.Driver) error {
			rows, err := d.GetMac(args[0])
			if err != nil {
				return err
			}
			for _, r := range rows {
				fmt.Printf("vlan %-5d %s\n", r.VlanID, r.MAC)
			}
			return nil
		})
	},
}

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "端口管理操作",
}

var portSetCmd = &cobra.Command{
	Use:   "set <port> up|down",
	Short: "启用或关闭端口并保存",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := strings.ToLower(args[1])
		if status != driver.PortUp && status != driver.PortDown {
			return fmt.Errorf("status must be %q or %q", driver.PortUp, driver.PortDown)
		}
		return withDriver(func(d driver.Driver) error {
			out, err := d.SetPort(args[0], status)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		})
	},
}

var portReloadCmd = &cobra.Command{
	Use:   "reload <port>",
	Short: "重启端口（shutdown后拉起）并保存",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d driver.Driver) error {
			out, err := d.ReloadPort(args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		})
	},
}

var portTypeCmd = &cobra.Command{
	Use:   "type <port>",
	Short: "查询端口介质类型",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d driver.Driver) error {
			out, err := d.PortType(args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		})
	},
}

var portConfigCmd = &cobra.Command{
	Use:   "config <port>",
	Short: "查询端口的运行配置",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d driver.Driver) error {
			out, err := d.PortConfig(args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		})
	},
}

var portErrorsCmd = &cobra.Command{
	Use:   "errors <port>",
	Short: "查询端口错误计数",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d driver.Driver) error {
			out, err := d.PortErrors(args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		})
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <port> [description]",
	Short: "设置端口描述，省略描述则清空",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc := strings.Join(args[1:], " ")
		return withDriver(func(d driver.Driver) error {
			out, err := d.SetDescription(args[0], desc)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		})
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "保存设备运行配置",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d driver.Driver) error {
			out, err := d.SaveConfig()
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		})
	},
}

func init() {
	portCmd.AddCommand(portSetCmd, portReloadCmd, portTypeCmd, portConfigCmd, portErrorsCmd)
}
