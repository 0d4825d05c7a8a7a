package simulate

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"

	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// Server 一个监听中的模拟设备，SSH和telnet共用同一个外壳
type Server struct {
	dev      *Device
	listener net.Listener
	wg       sync.WaitGroup
}

// Addr 实际监听地址，addr传":0"时从这里拿随机端口
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Port 实际监听端口
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Stop 关监听并等所有会话收尾
func (s *Server) Stop() {
	_ = s.listener.Close()
	s.wg.Wait()
}

func (s *Server) serve(handle func(net.Conn)) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			defer c.Close()
			handle(c)
		}(conn)
	}
}

// StartSSH 在addr上起一台SSH模拟设备
func StartSSH(dev *Device, addr string) (*Server, error) {
	signer, err := generateHostKey()
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	srv := &Server{dev: dev, listener: ln}
	logger.Infof("simulate %s: ssh listening on %s", dev.Name, srv.Addr())

	go srv.serve(func(c net.Conn) {
		srv.handleSSH(c, signer)
	})
	return srv, nil
}

// 每次启动现生成host key。模拟器的客户端都忽略指纹，不值得落盘
func generateHostKey() (ssh.Signer, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate host key: %w", err)
	}
	blk := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	signer, err := ssh.ParsePrivateKey(pem.EncodeToMemory(blk))
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated host key: %w", err)
	}
	return signer, nil
}

func (s *Server) handleSSH(nc net.Conn, signer ssh.Signer) {
	dev := s.dev
	srvCfg := &ssh.ServerConfig{
		PasswordCallback: func(meta ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			if dev.checkAccount(meta.User(), string(password)) {
				return nil, nil
			}
			logger.Debugf("simulate %s: auth failed (password) user=%s", dev.Name, meta.User())
			return nil, fmt.Errorf("access denied")
		},
		// 兼容默认走keyboard-interactive的客户端
		KeyboardInteractiveCallback: func(meta ssh.ConnMetadata, challenge ssh.KeyboardInteractiveChallenge) (*ssh.Permissions, error) {
			answers, err := challenge(meta.User(), "Authentication", []string{"Password:"}, []bool{false})
			if err != nil {
				return nil, err
			}
			if len(answers) > 0 && dev.checkAccount(meta.User(), strings.TrimSpace(answers[0])) {
				return nil, nil
			}
			return nil, fmt.Errorf("access denied")
		},
	}
	srvCfg.AddHostKey(signer)

	conn, chans, reqs, err := ssh.NewServerConn(nc, srvCfg)
	if err != nil {
		logger.Debugf("simulate %s: handshake failed: %v", dev.Name, err)
		return
	}
	defer conn.Close()
	go ssh.DiscardRequests(reqs)

	for ch := range chans {
		if ch.ChannelType() != "session" {
			_ = ch.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		channel, requests, err := ch.Accept()
		if err != nil {
			continue
		}
		go func() {
			defer channel.Close()
			for req := range requests {
				switch req.Type {
				case "pty-req", "window-change":
					_ = req.Reply(true, nil)
				case "shell":
					_ = req.Reply(true, nil)
					dev.shell(channel)
					return
				default:
					_ = req.Reply(false, nil)
				}
			}
		}()
	}
}
