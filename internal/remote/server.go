// Package remote serves the live terminal view over SSH with Wish.
package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/san-kum/hexbounce/internal/config"
	"github.com/san-kum/hexbounce/internal/viz"
)

// ServerConfig holds configuration for the SSH server.
type ServerConfig struct {
	// Address is the host:port to listen on.
	Address string

	// HostKeyPath is the host key file. Empty means ~/.hexbounce/host_key.
	HostKeyPath string

	IdleTimeout time.Duration

	// Base is the world every session starts from unless the session
	// command names a preset.
	Base *config.Config

	Theme string

	// RecordDir receives session recordings. Empty disables recording.
	RecordDir string
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:     ":23235",
		IdleTimeout: 30 * time.Minute,
		Base:        config.DefaultConfig(),
		RecordDir:   "recordings",
	}
}

type Server struct {
	config ServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewServer creates the Wish server. A nil logger logs to stderr.
func NewServer(cfg ServerConfig, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "hexbounce-ssh",
		})
	}
	if cfg.Base == nil {
		cfg.Base = config.DefaultConfig()
	}

	srv := &Server{config: cfg, logger: logger}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".hexbounce", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}
	if cfg.RecordDir != "" {
		if err := os.MkdirAll(cfg.RecordDir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create recordings directory: %w", err)
		}
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// sessionConfig picks the world for a session: the first command argument
// names a preset, anything else falls back to base. The result is always
// a private copy.
func sessionConfig(base *config.Config, args []string) (*config.Config, string) {
	if len(args) > 0 {
		if p := config.GetPreset(args[0]); p != nil {
			return p, args[0]
		}
	}
	return base.Clone(), "hexbounce"
}

// recordingPath names a session's recording inside dir. The user name comes
// from the client, so only letters, digits, '-' and '_' survive.
func recordingPath(dir, user string, seed int64) string {
	if dir == "" {
		return ""
	}
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, user)
	if len(name) > 32 {
		name = name[:32]
	}
	if name == "" {
		name = "guest"
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%d.gif", name, seed))
}

func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg, title := sessionConfig(s.config.Base, sess.Command())
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	model, err := viz.NewModel(cfg,
		viz.WithTitle(title),
		viz.WithTheme(s.config.Theme),
		viz.WithSize(pty.Window.Width, pty.Window.Height),
		viz.WithGIFPath(recordingPath(s.config.RecordDir, sess.User(), cfg.Seed)),
	)
	if err != nil {
		s.logger.Error("cannot build world", "user", sess.User(), "error", err)
		return nil, nil
	}

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *Server) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"command", sess.Command(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.config.Address
}
