package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// ErrNotConnected is returned by Write while no broker session is established.
var ErrNotConnected = errors.New("kafka: not connected")

const (
	DefaultReconnectBackoff = 5 * time.Second
	DefaultProbeInterval    = 30 * time.Second
)

// State is the lifecycle state of the broker connection.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Session is an established producer connection.
type Session interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	// Ping verifies the broker still answers on the session's connection.
	Ping(ctx context.Context) error
	Close() error
}

// Connector opens a session or fails.
type Connector func(ctx context.Context) (Session, error)

// Manager owns one long-lived broker session. A background loop moves it from
// disconnected to connecting to connected and retries with a constant backoff.
// Writers never wait for a reconnect.
type Manager struct {
	connect       Connector
	backoff       time.Duration
	probeInterval time.Duration
	logger        *slog.Logger

	mu      sync.RWMutex
	state   State
	session Session
	cancel  context.CancelFunc

	probe chan struct{}
	done  chan struct{}
}

type Option func(*Manager)

// WithBackoff sets the constant delay between connection attempts.
func WithBackoff(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.backoff = d
		}
	}
}

// WithProbeInterval sets how often a connected session is pinged.
func WithProbeInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.probeInterval = d
		}
	}
}

// WithLogger sets the logger for connection state changes. Nil keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithConnector replaces the broker dialer, mostly for tests.
func WithConnector(connect Connector) Option {
	return func(m *Manager) {
		if connect != nil {
			m.connect = connect
		}
	}
}

// NewManager builds a manager for the given brokers. Call Start to begin connecting.
func NewManager(brokers []string, opts ...Option) *Manager {
	m := &Manager{
		connect:       BrokerConnector(brokers),
		backoff:       DefaultReconnectBackoff,
		probeInterval: DefaultProbeInterval,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		probe:         make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Start launches the reconnect loop. It returns immediately.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	go m.run(runCtx)
}

// Close stops the loop and closes the current session.
func (m *Manager) Close() error {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-m.done
	return nil
}

// State reports the current connection state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Write sends messages synchronously on the current session.
// A failed write asks the loop to verify the connection.
func (m *Manager) Write(ctx context.Context, msgs ...kafkago.Message) error {
	m.mu.RLock()
	session, state := m.session, m.state
	m.mu.RUnlock()
	if state != StateConnected || session == nil {
		return ErrNotConnected
	}
	if err := session.WriteMessages(ctx, msgs...); err != nil {
		select {
		case m.probe <- struct{}{}:
		default:
		}
		return err
	}
	return nil
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)
	defer m.setState(StateDisconnected, nil)
	for {
		m.setState(StateConnecting, nil)
		session, err := m.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.setState(StateDisconnected, nil)
			m.logger.LogAttrs(ctx, slog.LevelWarn, "kafka connection failed",
				slog.String("error", err.Error()), slog.Duration("retry_in", m.backoff))
			if !sleep(ctx, m.backoff) {
				return
			}
			continue
		}

		m.drainProbe()
		m.setState(StateConnected, session)
		m.logger.LogAttrs(ctx, slog.LevelInfo, "kafka connection established")

		err = m.watch(ctx, session)
		m.setState(StateDisconnected, nil)
		if closeErr := session.Close(); closeErr != nil {
			m.logger.LogAttrs(ctx, slog.LevelDebug, "kafka session close failed", slog.String("error", closeErr.Error()))
		}
		if ctx.Err() != nil {
			return
		}
		m.logger.LogAttrs(ctx, slog.LevelWarn, "kafka connection lost",
			slog.String("error", err.Error()), slog.Duration("retry_in", m.backoff))
		if !sleep(ctx, m.backoff) {
			return
		}
	}
}

// watch blocks until the session fails a probe or ctx ends.
func (m *Manager) watch(ctx context.Context, session Session) error {
	ticker := time.NewTicker(m.probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-m.probe:
		}
		if err := session.Ping(ctx); err != nil {
			return err
		}
	}
}

func (m *Manager) setState(state State, session Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != state {
		m.logger.Debug("kafka connection state changed", slog.String("from", m.state.String()), slog.String("to", state.String()))
	}
	m.state = state
	m.session = session
}

func (m *Manager) drainProbe() {
	select {
	case <-m.probe:
	default:
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
