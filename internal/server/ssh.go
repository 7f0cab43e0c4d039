package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gliderlabs/ssh"

	"github.com/stridekit/strider/internal/console"
)

// SSHServer exposes the key console to remote sessions. Every session gets
// its own Console bound to the session's stream; they all drive the same
// simulation.
type SSHServer struct {
	addr       string
	hostKey    string
	newConsole func(in ssh.Session, out ssh.Session) *console.Console
}

func NewSSHServer(addr, hostKey string, newConsole func(in ssh.Session, out ssh.Session) *console.Console) *SSHServer {
	return &SSHServer{
		addr:       addr,
		hostKey:    hostKey,
		newConsole: newConsole,
	}
}

// Start listens until ctx is cancelled.
func (s *SSHServer) Start(ctx context.Context) error {
	if s == nil || s.newConsole == nil {
		return fmt.Errorf("ssh server has no console factory")
	}

	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}
	if s.hostKey != "" {
		if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
			return fmt.Errorf("set host key: %w", err)
		}
	}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	slog.Info("SSH console listening", "addr", s.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("ssh listen: %w", err)
	}
	return nil
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	_, _, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		_ = sess.Exit(1)
		return
	}

	user := sess.User()
	if user == "" {
		user = "anonymous"
	}
	slog.Info("Console session opened", "user", user, "remote", sess.RemoteAddr().String())
	defer slog.Info("Console session closed", "user", user)

	c := s.newConsole(sess, sess)
	if err := c.Run(sess.Context()); err != nil {
		slog.Warn("Console session error", "user", user, "error", err)
	}
}
