package simulate

import (
	"bufio"
	"fmt"
	"net"
	"strings"

	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// StartTelnet 在addr上起一台telnet模拟设备。
// 不做IAC选项协商，按明文行协议走登录
func StartTelnet(dev *Device, addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	srv := &Server{dev: dev, listener: ln}
	logger.Infof("simulate %s: telnet listening on %s", dev.Name, srv.Addr())

	go srv.serve(srv.handleTelnet)
	return srv, nil
}

func (s *Server) handleTelnet(c net.Conn) {
	dev := s.dev
	reader := bufio.NewReader(c)

	if dev.PressAnyKey {
		fmt.Fprint(c, "Press any key to continue")
		if _, err := reader.ReadByte(); err != nil {
			return
		}
	}

	flaps := dev.RadiusFlaps
	for tries := 0; tries < 6; tries++ {
		fmt.Fprint(c, "\r\nlogin:")
		login, err := readLine(reader)
		if err != nil {
			return
		}
		fmt.Fprint(c, "\r\nPassword:")
		pass, err := readLine(reader)
		if err != nil {
			return
		}

		if flaps > 0 {
			flaps--
			fmt.Fprint(c, "\r\nTimeout or some unexpected error happened on server host")
			continue
		}
		if dev.checkAccount(login, pass) {
			dev.shell(c)
			return
		}
		logger.Debugf("simulate %s: telnet login rejected user=%s", dev.Name, login)
		fmt.Fprint(c, "\r\nLogin incorrect")
	}
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
