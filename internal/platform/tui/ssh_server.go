package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/ascent/internal/config"
	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent"
	"github.com/vovakirdan/ascent/internal/games/ascent/levels"
	"github.com/vovakirdan/ascent/internal/progress"
	"github.com/vovakirdan/ascent/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.ascent/host_key.
	HostKeyPath string

	// DBPath is the path to the runs database.
	DBPath string

	// MapsDir holds the numbered maps offered to players. Empty means only
	// the practice map.
	MapsDir string

	// Game is the configuration every session plays with.
	Game config.AscentConfig

	// TickRate is the simulation rate of each session.
	TickRate int

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      storage.DefaultPath,
		Game:        config.DefaultAscentConfig(),
		TickRate:    60,
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server that serves Ascent sessions.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	store   *storage.Store
	catalog *levels.Catalog
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "ascent-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		// Continue without storage
	}

	var catalog *levels.Catalog
	if cfg.MapsDir != "" {
		catalog, err = levels.Open(cfg.MapsDir)
		if err != nil {
			logger.Warn("could not open maps directory", "error", err)
		}
	}

	srv := &SSHServer{
		config:  cfg,
		store:   store,
		catalog: catalog,
		logger:  logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".ascent", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	// Progress lives as long as the connection.
	model := NewSessionModel(s.config.Game, cfg, Options{
		Store:    s.store,
		Catalog:  s.catalog,
		Progress: progress.NewTracker(nil),
		Logger:   s.logger.With("user", sshSession.User()),
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
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

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages a full session in one program: map picker, play,
// best times and back.
type SessionModel struct {
	gameCfg  config.AscentConfig
	config   core.RuntimeConfig
	opts     Options
	menu     MenuModel
	times    *TimesModel
	play     *Model
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(gameCfg config.AscentConfig, cfg core.RuntimeConfig, opts Options) SessionModel {
	opts.Embedded = true
	return SessionModel{
		gameCfg: gameCfg,
		config:  cfg,
		opts:    opts,
		menu:    NewMenuModel(opts.Catalog, opts.Store, opts.Progress, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.play != nil:
		return m.updatePlay(msg)
	case m.times != nil:
		return m.updateTimes(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates while the map picker is shown.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsTimes() {
		items := MapItems(m.opts.Catalog, m.opts.Store, nil)
		times := NewTimesModel(m.opts.Store, items, "", m.config.ScreenW, m.config.ScreenH)
		m.times = &times
		m.menu = m.freshMenu()
		return m, m.times.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		cfg := m.config
		cfg.MapPath = selected.Path
		game := ascent.NewWithConfig(ascent.ModeHuman, m.gameCfg)
		play := NewModel(game, cfg, m.opts)
		m.play = &play
		return m, m.play.Init()
	}

	return m, cmd
}

// updateTimes handles updates while the best-times table is shown.
func (m SessionModel) updateTimes(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.times.Update(msg)
	if times, ok := newModel.(TimesModel); ok {
		m.times = &times
	}

	if m.times.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.times.IsGoingBack() {
		m.times = nil
		return m, nil
	}
	return m, cmd
}

// updatePlay handles updates while a map is being played.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if play, ok := newModel.(Model); ok {
		m.play = &play
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.play.BackToMenu() {
		m.play.Close()
		m.play = nil
		m.menu = m.freshMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// freshMenu rebuilds the picker so new times and unlocks show up.
func (m SessionModel) freshMenu() MenuModel {
	return NewMenuModel(m.opts.Catalog, m.opts.Store, m.opts.Progress, m.config)
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.play != nil:
		return m.play.View()
	case m.times != nil:
		return m.times.View()
	}
	return m.menu.View()
}
