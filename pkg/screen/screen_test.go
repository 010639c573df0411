package screen_test

import (
	"context"
	"encoding/json"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{ N int }

func (ping) IntentName() string { return "ping" }

type counter struct {
	hits *reactive.Cell[int]
}

func (c *counter) Evaluate(_ context.Context, in ping) {
	c.hits.Set(c.hits.Get() + in.N)
}

type doubler struct {
	out *reactive.Cell[int]
}

func (d *doubler) Translate(v int) {
	d.out.Set(v * 2)
}

func TestBind_TranslatesCurrentAndFuture(t *testing.T) {
	ev := &counter{hits: reactive.NewCell(1)}
	tr := &doubler{out: reactive.NewCell(0)}

	sub := screen.Bind[int](ev.hits, tr)
	defer sub.Cancel()
	assert.Equal(t, 2, tr.out.Get())

	var _ screen.Evaluator[ping] = ev
	ev.Evaluate(context.Background(), ping{N: 4})
	assert.Equal(t, 10, tr.out.Get())
}

func TestActions(t *testing.T) {
	named := screen.NamedAction("Go", ping{N: 1})
	assert.True(t, named.Enabled)
	assert.Equal(t, -1, named.Index)

	off := screen.EnabledAction("Go", ping{}, false)
	assert.False(t, off.Enabled)

	third := screen.IndexedAction("Third", ping{N: 3}, 2)
	assert.Equal(t, 2, third.Index)
	assert.Equal(t, "ping", third.Intent.IntentName())
}

func TestAction_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(screen.IndexedAction("Ping", ping{N: 3}, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Ping","intent":"ping","payload":{"N":3},"enabled":true,"index":0}`, string(b))

	type anyIntent interface{ IntentName() string }
	b, err = json.Marshal(screen.EnabledAction[anyIntent]("Idle", nil, false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Idle","enabled":false,"index":-1}`, string(b))
}

func TestSignals_Relay(t *testing.T) {
	src := screen.NewSignals()
	dst := screen.NewSignals()

	var bag reactive.Bag
	dst.Relay(src, &bag)

	var alerts []screen.Alert
	var bezels []screen.Bezel
	dismissed := 0
	bag.Add(
		dst.Alerts().Subscribe(func(a screen.Alert) { alerts = append(alerts, a) }),
		dst.Bezels().Subscribe(func(b screen.Bezel) { bezels = append(bezels, b) }),
		dst.Dismissals().Subscribe(func(struct{}) { dismissed++ }),
	)

	src.Alert("Title", "Body")
	src.Bezel("✓", "Saved")
	src.Dismiss()

	assert.Equal(t, []screen.Alert{{Title: "Title", Message: "Body"}}, alerts)
	assert.Equal(t, []screen.Bezel{{Glyph: "✓", Text: "Saved"}}, bezels)
	assert.Equal(t, 1, dismissed)

	bag.Cancel()
	src.Dismiss()
	assert.Equal(t, 1, dismissed)
}

func TestInline(t *testing.T) {
	var order []string
	x := screen.NewInline()
	x.Perform(context.Background(), func(ctx context.Context) func() {
		order = append(order, "work")
		return func() { order = append(order, "done") }
	})
	x.After(time.Hour, func() { order = append(order, "later") })

	assert.Equal(t, []string{"work", "done", "later"}, order)
}

func TestInline_NestedAfterRunsInOrder(t *testing.T) {
	x := screen.NewInline()
	var order []string
	var cancelC func()
	x.After(0, func() {
		order = append(order, "a:start")
		x.After(0, func() { order = append(order, "b") })
		cancelC = x.After(0, func() { order = append(order, "c") })
		x.After(0, func() { order = append(order, "d") })
		order = append(order, "a:end")
		cancelC()
	})

	assert.Equal(t, []string{"a:start", "a:end", "b", "d"}, order)
}

func TestInline_LongTimerChainKeepsStackFlat(t *testing.T) {
	x := screen.NewInline()
	left := 100_000
	var depths []int
	var next func()
	next = func() {
		if left%50_000 == 0 {
			depths = append(depths, runtime.Callers(0, make([]uintptr, 1024)))
		}
		if left == 0 {
			return
		}
		left--
		x.After(time.Second, next)
	}
	x.After(time.Second, next)

	assert.Zero(t, left)
	require.Len(t, depths, 3)
	assert.Equal(t, depths[0], depths[2])
}

func TestInline_RecoversAfterPanic(t *testing.T) {
	x := screen.NewInline()
	assert.Panics(t, func() {
		x.After(0, func() {
			x.After(0, func() { t.Error("queued behind a panic") })
			panic("boom")
		})
	})

	ran := false
	x.After(0, func() { ran = true })
	assert.True(t, ran)
}

func TestLoop_SerializesWork(t *testing.T) {
	loop := screen.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, loop.Post(func() { got = append(got, i) }))
	}
	require.NoError(t, loop.Do(ctx, func() {}))

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_PerformMarshalsCompletion(t *testing.T) {
	loop := screen.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	result := make(chan string, 1)
	loop.Perform(ctx, func(ctx context.Context) func() {
		value := "fetched"
		return func() { result <- value }
	})

	select {
	case v := <-result:
		assert.Equal(t, "fetched", v)
	case <-time.After(2 * time.Second):
		t.Fatal("completion never ran on the loop")
	}
}

func TestLoop_AfterAndCancel(t *testing.T) {
	loop := screen.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	var fired atomic.Int32
	stop := loop.After(time.Hour, func() { fired.Add(1) })
	stop()

	ran := make(chan struct{})
	loop.After(10*time.Millisecond, func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("delayed function never ran")
	}
	assert.Equal(t, int32(0), fired.Load())
}

func TestLoop_Stop(t *testing.T) {
	loop := screen.NewLoop()
	ctx := context.Background()
	go func() { _ = loop.Run(ctx) }()

	loop.Stop()
	<-loop.Done()

	assert.False(t, loop.Post(func() {}))
	assert.ErrorIs(t, loop.Do(ctx, func() {}), screen.ErrLoopStopped)
}

func TestOwner_HandleDoesNotOutliveClose(t *testing.T) {
	ev := &counter{hits: reactive.NewCell(0)}
	cell := reactive.NewCell("x")

	owner := screen.Own(ev, cell.Subscribe(func(string) {}))
	handle := owner.Handle()

	got, ok := handle.Evaluator()
	require.True(t, ok)
	assert.Same(t, ev, got)

	var closed []string
	owner.OnClose(func() { closed = append(closed, "first") })
	owner.OnClose(func() { closed = append(closed, "second") })

	owner.Close()
	owner.Close()

	_, ok = handle.Evaluator()
	assert.False(t, ok)
	assert.Nil(t, owner.Evaluator())
	assert.True(t, owner.Closed())
	assert.Equal(t, 0, cell.Subscribers())
	assert.Equal(t, []string{"second", "first"}, closed)
}

func TestHandle_ZeroValue(t *testing.T) {
	var h screen.Handle[counter]
	_, ok := h.Evaluator()
	assert.False(t, ok)
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := screen.NewConfig()
	assert.IsType(t, &screen.Inline{}, cfg.Executor)
	assert.NotNil(t, cfg.Logger)

	loop := screen.NewLoop()
	cfg = screen.NewConfig(screen.WithExecutor(loop))
	assert.Same(t, loop, cfg.Executor)
}
