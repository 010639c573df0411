package builder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/snapshot"
	"github.com/asgeY/poet/pkg/step"
)

// Name identifies the screen kind.
const Name = "builder"

const TitleRequired = "Title Required"

// Step is the closed set of builder steps.
type Step interface {
	step.Step
	isBuilderStep()
}

// Listing shows the committed demos.
type Listing struct {
	Demos []DemoConfig
}

// Editing shows the draft of the demo at Index.
type Editing struct {
	Index int
	Draft DemoConfig
	Dirty bool
}

// Transitions lets a draft open and close. Saving and canceling both list again.
func Transitions() *step.Table {
	return step.NewTable().
		Allow("listing", "editing").
		Allow("editing", "listing")
}

func (Listing) StepName() string { return "listing" }
func (Editing) StepName() string { return "editing" }
func (Listing) isBuilderStep()   {}
func (Editing) isBuilderStep()   {}

// Intent is the closed set of builder intents.
type Intent interface {
	IntentName() string
	isBuilderIntent()
}

type (
	// Edit opens a draft of the demo at Index.
	Edit struct {
		Index int `json:"index"`
	}
	// Rename changes the draft's title.
	Rename struct {
		Title string `json:"title"`
	}
	// ToggleOption flips the named option on the draft.
	ToggleOption struct {
		Name string `json:"name"`
	}
	// Save commits the draft.
	Save struct{}
	// Cancel discards the draft.
	Cancel struct{}
	// Duplicate appends a copy of the demo at Index.
	Duplicate struct {
		Index int `json:"index"`
	}
)

func (Edit) IntentName() string         { return "edit" }
func (Rename) IntentName() string       { return "rename" }
func (ToggleOption) IntentName() string { return "toggle_option" }
func (Save) IntentName() string         { return "save" }
func (Cancel) IntentName() string       { return "cancel" }
func (Duplicate) IntentName() string    { return "duplicate" }
func (Edit) isBuilderIntent()           {}
func (Rename) isBuilderIntent()         {}
func (ToggleOption) isBuilderIntent()   {}
func (Save) isBuilderIntent()           {}
func (Cancel) isBuilderIntent()         {}
func (Duplicate) isBuilderIntent()      {}

// Evaluator edits the library copy-on-write. The committed library never
// changes until Save.
type Evaluator struct {
	steps   *step.Container[Step]
	signals *screen.Signals
	library *snapshot.Editor[Library]
	logger  *slog.Logger
}

var _ screen.Evaluator[Intent] = (*Evaluator)(nil)

// NewEvaluator starts listing lib.
func NewEvaluator(lib Library, opts ...screen.Option) *Evaluator {
	cfg := screen.NewConfig(opts...)
	editor := snapshot.NewEditor(lib)
	return &Evaluator{
		steps:   step.New[Step](Listing{Demos: editor.Current().Demos}, append(cfg.StepOptions(Name), step.WithTable(Transitions()))...),
		signals: screen.NewSignals(),
		library: editor,
		logger:  cfg.Logger,
	}
}

func (e *Evaluator) Steps() reactive.Value[Step]           { return e.steps.Reader() }
func (e *Evaluator) Alerts() reactive.Stream[screen.Alert] { return e.signals.Alerts() }
func (e *Evaluator) Bezels() reactive.Stream[screen.Bezel] { return e.signals.Bezels() }
func (e *Evaluator) Dismissals() reactive.Stream[struct{}] { return e.signals.Dismissals() }

// Library returns a copy of the committed library.
func (e *Evaluator) Library() Library { return e.library.Current() }

// Evaluate applies intent to the current step.
func (e *Evaluator) Evaluate(_ context.Context, intent Intent) {
	switch cur := e.steps.Current().(type) {
	case Listing:
		e.listing(cur, intent)
	case Editing:
		e.editing(cur, intent)
	}
}

func (e *Evaluator) listing(cur Listing, intent Intent) {
	switch in := intent.(type) {
	case Edit:
		if in.Index < 0 || in.Index >= len(cur.Demos) {
			return
		}
		draft := e.library.Begin()
		_ = e.steps.Set(Editing{Index: in.Index, Draft: draft.Demos[in.Index]})
	case Duplicate:
		if in.Index < 0 || in.Index >= len(cur.Demos) {
			return
		}
		e.library.Begin()
		_ = e.library.Edit(func(lib *Library) {
			dup := snapshot.Copy(lib.Demos[in.Index])
			dup.Title += " Copy"
			lib.Demos = append(lib.Demos, dup)
		})
		lib, err := e.library.Commit()
		if err != nil {
			e.logger.Error("Duplicate failed", "err", err)
			return
		}
		_ = e.steps.Set(Listing{Demos: lib.Demos})
		e.signals.Bezel("⧉", "Duplicated")
	}
}

func (e *Evaluator) editing(cur Editing, intent Intent) {
	switch in := intent.(type) {
	case Rename:
		e.edit(cur, func(d *DemoConfig) bool {
			d.Title = in.Title
			return true
		})
	case ToggleOption:
		e.edit(cur, func(d *DemoConfig) bool {
			for i := range d.Options {
				if d.Options[i].Name == in.Name {
					d.Options[i].Enabled = !d.Options[i].Enabled
					return true
				}
			}
			return false
		})
	case Save:
		if !cur.Dirty {
			return
		}
		if strings.TrimSpace(cur.Draft.Title) == "" {
			e.signals.Alert(TitleRequired, "Give the demo a title before saving.")
			return
		}
		lib, err := e.library.Commit()
		if err != nil {
			e.logger.Error("Save failed", "err", err)
			return
		}
		e.logger.Info("Demo saved", "index", cur.Index, "title", cur.Draft.Title)
		_ = e.steps.Set(Listing{Demos: lib.Demos})
		e.signals.Bezel("✓", "Saved")
	case Cancel:
		e.library.Discard()
		_ = e.steps.Set(Listing{Demos: e.library.Current().Demos})
	}
}

// edit applies fn to the draft demo and publishes the result. fn reports
// whether it changed anything.
func (e *Evaluator) edit(cur Editing, fn func(*DemoConfig) bool) {
	changed := false
	err := e.library.Edit(func(lib *Library) {
		changed = fn(&lib.Demos[cur.Index])
	})
	if err != nil || !changed {
		return
	}
	draft, _ := e.library.Draft()
	_ = e.steps.Set(Editing{Index: cur.Index, Draft: draft.Demos[cur.Index], Dirty: true})
}

// Translator derives the builder's display state.
type Translator struct {
	demos        *reactive.Cell[[]screen.Action[Intent]]
	draftTitle   *reactive.Cell[string]
	draftOptions *reactive.Cell[[]screen.Action[Intent]]
	save         *reactive.Cell[screen.Action[Intent]]
	signals      *screen.Signals
	bag          reactive.Bag
}

var _ screen.Translator[Step] = (*Translator)(nil)

// NewTranslator binds to ev.
func NewTranslator(ev *Evaluator) *Translator {
	t := &Translator{
		demos:        reactive.NewCell[[]screen.Action[Intent]](nil),
		draftTitle:   reactive.NewCell(""),
		draftOptions: reactive.NewCell[[]screen.Action[Intent]](nil),
		save:         reactive.NewCell(screen.EnabledAction[Intent]("Save", Save{}, false)),
		signals:      screen.NewSignals(),
	}
	t.signals.Relay(ev, &t.bag)
	t.bag.Add(screen.Bind[Step](ev.Steps(), t))
	return t
}

// Translate re-derives every cell from s.
func (t *Translator) Translate(s Step) {
	switch s := s.(type) {
	case Listing:
		demos := make([]screen.Action[Intent], len(s.Demos))
		for i, d := range s.Demos {
			demos[i] = screen.IndexedAction[Intent](d.Title, Edit{Index: i}, i)
		}
		t.demos.Set(demos)
		t.draftTitle.Set("")
		t.draftOptions.Set(nil)
		t.save.Set(screen.EnabledAction[Intent]("Save", Save{}, false))
	case Editing:
		opts := make([]screen.Action[Intent], len(s.Draft.Options))
		for i, o := range s.Draft.Options {
			mark := "[ ]"
			if o.Enabled {
				mark = "[x]"
			}
			opts[i] = screen.IndexedAction[Intent](fmt.Sprintf("%s %s", mark, o.Name), ToggleOption{Name: o.Name}, i)
		}
		t.demos.Set(nil)
		t.draftTitle.Set(s.Draft.Title)
		t.draftOptions.Set(opts)
		t.save.Set(screen.EnabledAction[Intent]("Save", Save{}, s.Dirty))
	}
}

// Close stops listening to the evaluator.
func (t *Translator) Close() { t.bag.Cancel() }

func (t *Translator) Demos() reactive.Value[[]screen.Action[Intent]]        { return t.demos }
func (t *Translator) DraftTitle() reactive.Value[string]                    { return t.draftTitle }
func (t *Translator) DraftOptions() reactive.Value[[]screen.Action[Intent]] { return t.draftOptions }
func (t *Translator) SaveAction() reactive.Value[screen.Action[Intent]]     { return t.save }
func (t *Translator) Alerts() reactive.Stream[screen.Alert]                 { return t.signals.Alerts() }
func (t *Translator) Bezels() reactive.Stream[screen.Bezel]                 { return t.signals.Bezels() }
func (t *Translator) Dismissals() reactive.Stream[struct{}]                 { return t.signals.Dismissals() }

// Screen is one builder instance.
type Screen struct {
	Owner      *screen.Owner[Evaluator]
	Translator *Translator
}

// New wires a builder over lib.
func New(lib Library, opts ...screen.Option) *Screen {
	ev := NewEvaluator(lib, opts...)
	tr := NewTranslator(ev)
	owner := screen.Own(ev)
	owner.OnClose(tr.Close)
	return &Screen{Owner: owner, Translator: tr}
}

// Close tears the screen down.
func (s *Screen) Close() { s.Owner.Close() }
