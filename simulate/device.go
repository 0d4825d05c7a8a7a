package simulate

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// Device 一台脚本化模拟设备的行为描述。
// 测试里直接构造，simdev场景从YAML加载
type Device struct {
	Name string `mapstructure:"name"`

	// Prompt 完整提示符行，例如"sw-lab#"或"<Huawei>"
	Prompt string `mapstructure:"prompt"`
	// MoreBanner 翻页横幅；PageLines>0时输出按页吐
	MoreBanner string `mapstructure:"more_banner"`
	PageLines  int    `mapstructure:"page_lines"`

	// Accounts 登录名到口令的映射（telnet登录和ssh认证共用）
	Accounts map[string]string `mapstructure:"accounts"`
	// Secret enable/super提权口令，空表示设备不设二级口令
	Secret string `mapstructure:"secret"`
	// EnabledPrompt 提权成功后的提示符，空表示提示符不变
	EnabledPrompt string `mapstructure:"enabled_prompt"`

	// PressAnyKey telnet登录前先弹"Press any key to continue"
	PressAnyKey bool `mapstructure:"press_any_key"`
	// RadiusFlaps 前N次口令验证回radius超时横幅
	RadiusFlaps int `mapstructure:"radius_flaps"`

	// Commands 命令到输出的映射，键是去掉首尾空白的完整命令
	Commands map[string]string `mapstructure:"commands"`
	// Unknown 未知命令的报错文案，厂商识别靠它
	Unknown string `mapstructure:"unknown"`
}

// checkAccount 校验一组凭据
func (d *Device) checkAccount(login, password string) bool {
	want, ok := d.Accounts[login]
	return ok && want == password
}

// shell 交互式命令循环，SSH通道和telnet连接共用。
// 命令输入整行回显一次，等价于真实PTY的逐字符回显。
// 返回时调用方负责关连接
func (d *Device) shell(rw io.ReadWriter) {
	reader := bufio.NewReader(rw)
	current := d.Prompt

	prompt := func() {
		fmt.Fprintf(rw, "\r\n%s", current)
	}
	prompt()

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)
		fmt.Fprint(rw, cmd) // 回显
		logger.Debugf("simulate %s: input %q", d.Name, cmd)
		if cmd == "" {
			prompt()
			continue
		}

		switch {
		case cmd == "exit" || cmd == "quit" || cmd == "logout":
			fmt.Fprint(rw, "\r\n")
			return

		case d.Secret != "" && (cmd == "enable" || cmd == "super" || cmd == "enable admin"):
			fmt.Fprint(rw, "\r\nPassword:")
			pass, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.TrimSpace(pass) == d.Secret {
				if d.EnabledPrompt != "" {
					current = d.EnabledPrompt
				}
				prompt()
			} else {
				fmt.Fprint(rw, "\r\nAccess denied")
				prompt()
			}

		default:
			out, ok := d.Commands[cmd]
			if !ok {
				out = d.Unknown
			}
			if err := d.writePaged(rw, reader, out); err != nil {
				return
			}
			prompt()
		}
	}
}

// writePaged 按页吐输出：每满PageLines行停在MoreBanner上，
// 等任意一个字节再继续
func (d *Device) writePaged(rw io.ReadWriter, reader *bufio.Reader, out string) error {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	lines := strings.Split(out, "\n")

	if d.PageLines <= 0 || d.MoreBanner == "" || len(lines) <= d.PageLines {
		_, err := fmt.Fprintf(rw, "\r\n%s", strings.Join(lines, "\r\n"))
		return err
	}

	for start := 0; start < len(lines); start += d.PageLines {
		end := start + d.PageLines
		if end > len(lines) {
			end = len(lines)
		}
		if _, err := fmt.Fprintf(rw, "\r\n%s", strings.Join(lines[start:end], "\r\n")); err != nil {
			return err
		}
		if end < len(lines) {
			if _, err := fmt.Fprintf(rw, "\r\n%s", d.MoreBanner); err != nil {
				return err
			}
			// 续页键是单个字符，不带行结束符
			b, err := reader.ReadByte()
			if err != nil {
				return err
			}
			// q或Ctrl+C中断翻页，直接回提示符
			if b == 'q' || b == 'Q' || b == 0x03 {
				return nil
			}
		}
	}
	return nil
}
