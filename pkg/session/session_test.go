package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/observability"
	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/registry"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterStep struct{ N int }

func (counterStep) StepName() string { return "counting" }

type counterIntent interface{ IntentName() string }

type increment struct {
	By int `json:"by"`
}

type shout struct {
	Text string `json:"text"`
}

func (increment) IntentName() string { return "increment" }
func (shout) IntentName() string     { return "shout" }

// counter is a minimal Screen built straight on the primitives.
type counter struct {
	steps   *step.Container[counterStep]
	signals *screen.Signals
	decoder *Decoder[counterIntent]
	closed  atomic.Bool
	started bool
}

func newCounter(opts ...screen.Option) (Screen, error) {
	cfg := screen.NewConfig(opts...)
	return &counter{
		steps:   step.New(counterStep{}, cfg.StepOptions("counter")...),
		signals: screen.NewSignals(),
		decoder: NewDecoder[counterIntent](increment{}, shout{}),
	}, nil
}

func (c *counter) Kind() string      { return "counter" }
func (c *counter) Intents() []string { return c.decoder.Names() }

func (c *counter) Send(_ context.Context, name string, payload map[string]any) error {
	in, err := c.decoder.Decode(name, payload)
	if err != nil {
		return err
	}
	switch in := in.(type) {
	case increment:
		_ = c.steps.Set(counterStep{N: c.steps.Current().N + in.By})
	case shout:
		c.signals.Alert(in.Text, "")
		c.signals.Dismiss()
	}
	return nil
}

func (c *counter) State() map[string]any {
	return map[string]any{"n": c.steps.Current().N, "started": c.started}
}

func (c *counter) Observe(emit func(Update)) []*reactive.Subscription {
	subs := Signals(c.signals, emit)
	return append(subs, c.steps.Subscribe(func(s counterStep) {
		emit(Update{Type: UpdateState, Name: "n", Data: s.N})
	}))
}

func (c *counter) Start(context.Context) { c.started = true }
func (c *counter) Close()                { c.closed.Store(true) }

func newManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	kinds := registry.New[Factory]()
	kinds.Register("counter", newCounter)
	kinds.Register("broken", func(...screen.Option) (Screen, error) {
		return nil, errors.New("no catalog")
	})
	m := NewManager(kinds, opts...)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })
	return m
}

func TestManager_OpenSendSnapshot(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	info, err := m.Open(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, "counter", info.Kind)
	assert.Equal(t, []string{"increment", "shout"}, info.Intents)

	require.NoError(t, m.Send(ctx, info.ID, "increment", map[string]any{"by": 2}))
	require.NoError(t, m.Send(ctx, info.ID, "increment", map[string]any{"by": "3"}))

	snap, err := m.Snapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.State["n"])
	assert.Equal(t, true, snap.State["started"])
}

func TestManager_Errors(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.Open(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownScreen)

	_, err = m.Open(ctx, "broken")
	assert.EqualError(t, err, "open broken: no catalog")

	info, err := m.Open(ctx, "counter")
	require.NoError(t, err)

	assert.ErrorIs(t, m.Send(ctx, info.ID, "decrement", nil), domain.ErrUnknownIntent)
	assert.ErrorIs(t, m.Send(ctx, info.ID, "increment", map[string]any{"by": "lots"}), domain.ErrInvalidIntent)
	assert.ErrorIs(t, m.Send(ctx, info.ID, "increment", map[string]any{"step": 1}), domain.ErrInvalidIntent)
	assert.ErrorIs(t, m.Send(ctx, "missing", "increment", nil), domain.ErrSessionNotFound)

	_, err = m.Snapshot(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(ctx, "missing"), domain.ErrSessionNotFound)
}

func TestManager_Watch(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	info, err := m.Open(ctx, "counter")
	require.NoError(t, err)

	updates, cancel, err := m.Watch(info.ID)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, m.Send(ctx, info.ID, "increment", map[string]any{"by": 1}))
	require.NoError(t, m.Send(ctx, info.ID, "shout", map[string]any{"text": "hi"}))

	var got []Update
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case u := <-updates:
			got = append(got, u)
		case <-timeout:
			t.Fatalf("only received %v", got)
		}
	}
	assert.Equal(t, Update{Type: UpdateState, Name: "n", Data: 1}, got[0])
	assert.Equal(t, Update{Type: UpdateAlert, Data: screen.Alert{Title: "hi"}}, got[1])
	assert.Equal(t, Update{Type: UpdateDismiss}, got[2])

	snap, err := m.Snapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.True(t, snap.Dismissed)
}

func TestManager_Events(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	info, err := m.Open(ctx, "counter")
	require.NoError(t, err)

	require.NoError(t, m.Send(ctx, info.ID, "increment", map[string]any{"by": 1}))
	require.NoError(t, m.Send(ctx, info.ID, "shout", map[string]any{"text": "hi"}))

	got, err := m.Events(ctx, info.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []Update{
		{Type: UpdateAlert, Data: screen.Alert{Title: "hi"}},
		{Type: UpdateDismiss},
	}, got)

	got, err = m.Events(ctx, info.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, got, "events are handed out once")

	got, err = m.Events(ctx, info.ID, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, got)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = m.Send(ctx, info.ID, "shout", map[string]any{"text": "later"})
	}()
	got, err = m.Events(ctx, info.ID, 2*time.Second)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, Update{Type: UpdateAlert, Data: screen.Alert{Title: "later"}}, got[0])

	_, err = m.Events(ctx, "missing", 0)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_EventsKeepsNewest(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	info, err := m.Open(ctx, "counter")
	require.NoError(t, err)

	for i := 0; i < pendingLimit; i++ {
		require.NoError(t, m.Send(ctx, info.ID, "shout", map[string]any{"text": strconv.Itoa(i)}))
	}

	got, err := m.Events(ctx, info.ID, 0)
	require.NoError(t, err)
	require.Len(t, got, pendingLimit)
	assert.Equal(t, Update{Type: UpdateDismiss}, got[len(got)-1])
	assert.Equal(t, screen.Alert{Title: strconv.Itoa(pendingLimit - 1)}, got[len(got)-2].Data)
}

func TestManager_CloseEndsWatchers(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	info, err := m.Open(ctx, "counter")
	require.NoError(t, err)

	updates, cancel, err := m.Watch(info.ID)
	require.NoError(t, err)

	require.NoError(t, m.Close(ctx, info.ID))
	_, open := <-updates
	assert.False(t, open)
	assert.NotPanics(t, cancel)
	assert.Empty(t, m.List())
}

func TestManager_List(t *testing.T) {
	ctx := context.Background()
	n := 0
	m := newManager(t, WithIDGenerator(func() string {
		n++
		return "s" + strconv.Itoa(n)
	}))

	for i := 0; i < 3; i++ {
		_, err := m.Open(ctx, "counter")
		require.NoError(t, err)
	}
	ids := []string{}
	for _, info := range m.List() {
		ids = append(ids, info.ID)
	}
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids)
	assert.Equal(t, []string{"broken", "counter"}, m.Kinds())
}

func TestManager_Metrics(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewMetrics(false)
	m := newManager(t, WithMetrics(metrics))

	info, err := m.Open(ctx, "counter")
	require.NoError(t, err)
	require.NoError(t, m.Send(ctx, info.ID, "shout", map[string]any{"text": "hey"}))
	require.NoError(t, m.Close(ctx, info.ID))

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["poet_alerts_total"])
	assert.True(t, names["poet_intents_total"])
	assert.True(t, names["poet_sessions_active"])
}

func TestManager_LockLifecycle(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	for i := 0; i < 200; i++ {
		info, err := m.Open(ctx, "counter")
		require.NoError(t, err)
		require.NoError(t, m.Send(ctx, info.ID, "increment", map[string]any{"by": i}))
		require.NoError(t, m.Close(ctx, info.ID))
	}
	_ = m.Send(ctx, "ghost", "increment", nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.locks, "locks leaked after close")
	assert.Empty(t, m.sessions)
}

func TestManager_ConcurrentSends(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	info, err := m.Open(ctx, "counter")
	require.NoError(t, err)

	done := make(chan error)
	for i := 0; i < 20; i++ {
		go func() {
			done <- m.Send(ctx, info.ID, "increment", map[string]any{"by": 1})
		}()
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, <-done)
	}

	snap, err := m.Snapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, snap.State["n"])
}

func TestDecoder(t *testing.T) {
	d := NewDecoder[counterIntent](increment{}, shout{})

	in, err := d.Decode("increment", map[string]any{"by": 4})
	require.NoError(t, err)
	assert.Equal(t, increment{By: 4}, in)

	in, err = d.Decode("shout", nil)
	require.NoError(t, err)
	assert.Equal(t, shout{}, in)

	_, err = d.Decode("whisper", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownIntent)
	assert.Equal(t, fmt.Sprintf("%q: %v", "whisper", domain.ErrUnknownIntent), err.Error())
}

func TestDecoder_SanitizesText(t *testing.T) {
	d := NewDecoder[counterIntent](increment{}, shout{})

	in, err := d.Decode("shout", map[string]any{"text": "hi\x1b[31m there\x00\n"})
	require.NoError(t, err)
	assert.Equal(t, shout{Text: "hi[31m there\n"}, in)

	_, err = d.Decode("shout", map[string]any{"text": "\xff"})
	assert.ErrorIs(t, err, domain.ErrInvalidIntent)

	in, err = d.Decode("increment", map[string]any{"by": "3"})
	require.NoError(t, err)
	assert.Equal(t, increment{By: 3}, in)
}

func TestSanitizeText(t *testing.T) {
	got, err := SanitizeText("tab\tok")
	require.NoError(t, err)
	assert.Equal(t, "tab\tok", got)

	_, err = SanitizeText(string([]byte{0xc3, 0x28}))
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	t.Setenv(EnvMaxTextSize, "4")
	_, err = SanitizeText("12345")
	assert.ErrorIs(t, err, ErrTextTooLarge)
	got, err = SanitizeText("1234")
	require.NoError(t, err)
	assert.Equal(t, "1234", got)
}
