package remote

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/hexbounce/internal/config"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	if cfg.Address == "" {
		t.Error("address should have a default")
	}
	if cfg.IdleTimeout <= 0 {
		t.Error("idle timeout should be positive")
	}
	if cfg.Base == nil || cfg.Base.Bodies != config.DefaultBodies {
		t.Errorf("base = %+v, want the default config", cfg.Base)
	}
}

func TestSessionConfig(t *testing.T) {
	base := config.DefaultConfig()
	base.Bodies = 3

	tests := []struct {
		name      string
		args      []string
		wantTitle string
		wantN     int
	}{
		{"no command", nil, "hexbounce", 3},
		{"preset", []string{"crowded"}, "crowded", 40},
		{"unknown preset", []string{"nope"}, "hexbounce", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, title := sessionConfig(base, tt.args)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if cfg.Bodies != tt.wantN {
				t.Errorf("bodies = %d, want %d", cfg.Bodies, tt.wantN)
			}
			if cfg == base {
				t.Error("session config must be a copy")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "keys", "host_key")
	cfg.RecordDir = filepath.Join(t.TempDir(), "rec")

	srv, err := NewServer(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if srv.Addr() != cfg.Address {
		t.Errorf("Addr() = %q, want %q", srv.Addr(), cfg.Address)
	}
	if _, err := os.Stat(cfg.RecordDir); err != nil {
		t.Errorf("recordings directory not created: %v", err)
	}
}

func TestRecordingPath(t *testing.T) {
	dir := filepath.Join("srv", "recordings")

	tests := []struct {
		name string
		user string
		want string
	}{
		{"plain", "alice", "alice-7.gif"},
		{"parent escape", "../../tmp/x", "tmpx-7.gif"},
		{"absolute", "/home/u/.config/foo", "homeuconfigfoo-7.gif"},
		{"windows separators", `..\..\evil`, "evil-7.gif"},
		{"nothing usable", "../..", "guest-7.gif"},
		{"empty", "", "guest-7.gif"},
		{"long", strings.Repeat("a", 100), strings.Repeat("a", 32) + "-7.gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recordingPath(dir, tt.user, 7)
			if got != filepath.Join(dir, tt.want) {
				t.Errorf("recordingPath(%q) = %q, want %q", tt.user, got, filepath.Join(dir, tt.want))
			}
			if filepath.Dir(got) != dir {
				t.Errorf("recordingPath(%q) escaped %s: %q", tt.user, dir, got)
			}
		})
	}

	if got := recordingPath("", "alice", 7); got != "" {
		t.Errorf("empty dir should disable recording, got %q", got)
	}
}
