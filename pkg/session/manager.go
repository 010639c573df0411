package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/asgeY/poet/internal/logging"
	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/observability"
	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/registry"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/google/uuid"
)

// watchBuffer is the per-watcher backlog before updates are dropped.
const watchBuffer = 64

// pendingLimit caps the signals kept for Events; the oldest are dropped first.
const pendingLimit = 64

// Info describes an open session.
type Info struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Intents   []string  `json:"intents"`
	CreatedAt time.Time `json:"created_at"`
	Dismissed bool      `json:"dismissed"`
}

// Snapshot is a session's info plus its current display state.
type Snapshot struct {
	Info
	State map[string]any `json:"state"`
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

type live struct {
	info   Info
	screen Screen
	loop   *screen.Loop
	ctx    context.Context
	cancel context.CancelFunc
	subs   []*reactive.Subscription

	mu       sync.Mutex
	watchers map[int]chan Update
	nextID   int
	pending  []Update
	ready    chan struct{}
}

// Manager owns every open session.
// Per-session locks are reference counted so closed sessions leave nothing behind.
type Manager struct {
	kinds *registry.Registry[Factory]

	mu       sync.Mutex
	locks    map[string]*lockEntry
	sessions map[string]*live

	metrics *observability.Metrics
	logger  *slog.Logger
	newID   func() string
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithMetrics records step transitions, alerts, intents and the session gauge.
func WithMetrics(m *observability.Metrics) Option {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

// WithLogger configures a logger for the Manager and the screens it opens.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator overrides uuid session ids.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a manager that opens the kinds registered in kinds.
func NewManager(kinds *registry.Registry[Factory], opts ...Option) *Manager {
	m := &Manager{
		kinds:    kinds,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*live),
		logger:   logging.NewNop(),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Kinds lists the screen kinds that can be opened.
func (m *Manager) Kinds() []string {
	return m.kinds.Names()
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must Lock entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// withLock executes fn while holding the lock for the session.
func (m *Manager) withLock(id string, fn func() error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()
	return fn()
}

func (m *Manager) get(id string) (*live, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, domain.ErrSessionNotFound)
	}
	return s, nil
}

// Open starts a new screen of kind on its own loop and returns its info.
func (m *Manager) Open(ctx context.Context, kind string) (Info, error) {
	factory, err := m.kinds.Lookup(kind)
	if err != nil {
		return Info{}, fmt.Errorf("%q: %w", kind, domain.ErrUnknownScreen)
	}

	id := m.newID()
	logger := m.logger.With("session_id", id, "screen", kind)

	sctx, cancel := context.WithCancel(context.Background())
	loop := screen.NewLoop()
	go func() { _ = loop.Run(sctx) }()

	s := &live{
		info:     Info{ID: id, Kind: kind, CreatedAt: m.now()},
		loop:     loop,
		ctx:      sctx,
		cancel:   cancel,
		watchers: make(map[int]chan Update),
		ready:    make(chan struct{}, 1),
	}

	opts := []screen.Option{screen.WithExecutor(loop), screen.WithLogger(logger)}
	if m.metrics != nil {
		opts = append(opts, screen.WithHooks(m.metrics.StepHooks(logger)))
	}

	var buildErr error
	err = loop.Do(ctx, func() {
		scr, err := factory(opts...)
		if err != nil {
			buildErr = err
			return
		}
		s.screen = scr
		s.info.Intents = scr.Intents()
		s.subs = scr.Observe(func(u Update) { m.broadcast(s, u) })
		scr.Start(sctx)
	})
	if err == nil {
		err = buildErr
	}
	if err != nil {
		loop.Stop()
		cancel()
		return Info{}, fmt.Errorf("open %s: %w", kind, err)
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionOpened()
	}
	logger.Info("Session opened")
	return s.snapshotInfo(), nil
}

// broadcast runs on the session's loop.
func (m *Manager) broadcast(s *live, u Update) {
	switch u.Type {
	case UpdateAlert:
		if m.metrics != nil {
			m.metrics.AlertRaised(s.info.Kind)
		}
	case UpdateDismiss:
		s.mu.Lock()
		s.info.Dismissed = true
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Type != UpdateState {
		s.pending = append(s.pending, u)
		if over := len(s.pending) - pendingLimit; over > 0 {
			s.pending = slices.Delete(s.pending, 0, over)
		}
		select {
		case s.ready <- struct{}{}:
		default:
		}
	}
	for _, ch := range s.watchers {
		select {
		case ch <- u:
		default:
			// Slow watcher; drop rather than stall the screen.
		}
	}
}

func (s *live) snapshotInfo() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := s.info
	info.Intents = slices.Clone(s.info.Intents)
	return info
}

// Send delivers the named intent to the session's screen.
func (m *Manager) Send(ctx context.Context, id, name string, payload map[string]any) error {
	return m.withLock(id, func() error {
		s, err := m.get(id)
		if err != nil {
			return err
		}

		var sendErr error
		if err := s.loop.Do(ctx, func() {
			sendErr = s.screen.Send(s.ctx, name, payload)
		}); err != nil {
			return err
		}
		if sendErr != nil {
			return sendErr
		}
		if m.metrics != nil {
			m.metrics.IntentReceived(s.info.Kind, name)
		}
		return nil
	})
}

// Snapshot returns the session's info and current display state.
func (m *Manager) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	s, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}

	var state map[string]any
	if err := s.loop.Do(ctx, func() { state = s.screen.State() }); err != nil {
		if errors.Is(err, screen.ErrLoopStopped) {
			return Snapshot{}, fmt.Errorf("%q: %w", id, domain.ErrSessionNotFound)
		}
		return Snapshot{}, err
	}
	return Snapshot{Info: s.snapshotInfo(), State: state}, nil
}

func (s *live) takePending() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Events returns the alerts, bezels and dismissals raised since the last call
// for this session. When there are none it waits up to wait for the next one.
// Readers that cannot hold a Watch open, such as MCP tool calls, use it to see
// one-shot signals.
func (m *Manager) Events(ctx context.Context, id string, wait time.Duration) ([]Update, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if out := s.takePending(); len(out) > 0 || wait <= 0 {
		return out, nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		select {
		case <-s.ready:
			if out := s.takePending(); len(out) > 0 {
				return out, nil
			}
		case <-s.ctx.Done():
			return s.takePending(), nil
		case <-timer.C:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Watch streams the session's updates until cancel is called or the session
// closes, whichever happens first. The channel is closed in both cases.
func (m *Manager) Watch(id string) (updates <-chan Update, cancel func(), err error) {
	s, err := m.get(id)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan Update, watchBuffer)
	s.mu.Lock()
	key := s.nextID
	s.nextID++
	s.watchers[key] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.watchers[key]; ok {
				delete(s.watchers, key)
				close(ch)
			}
		})
	}
	return ch, cancel, nil
}

// List returns every open session, oldest first.
func (m *Manager) List() []Info {
	m.mu.Lock()
	all := make([]*live, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	infos := make([]Info, 0, len(all))
	for _, s := range all {
		infos = append(infos, s.snapshotInfo())
	}
	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return infos
}

// Close tears the session down and ends its watchers.
func (m *Manager) Close(ctx context.Context, id string) error {
	return m.withLock(id, func() error {
		m.mu.Lock()
		s, ok := m.sessions[id]
		delete(m.sessions, id)
		m.mu.Unlock()
		if !ok {
			return fmt.Errorf("%q: %w", id, domain.ErrSessionNotFound)
		}

		err := s.loop.Do(ctx, func() {
			for _, sub := range s.subs {
				sub.Cancel()
			}
			s.screen.Close()
		})
		s.loop.Stop()
		s.cancel()

		s.mu.Lock()
		for key, ch := range s.watchers {
			delete(s.watchers, key)
			close(ch)
		}
		s.mu.Unlock()

		if m.metrics != nil {
			m.metrics.SessionClosed()
		}
		m.logger.Info("Session closed", "session_id", id, "screen", s.info.Kind)
		return err
	})
}

// Shutdown closes every open session.
func (m *Manager) Shutdown(ctx context.Context) error {
	var errs []error
	for _, info := range m.List() {
		if err := m.Close(ctx, info.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
