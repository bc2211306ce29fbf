package hotkey

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hotlyric/log"
)

// Store is the typed key/value settings backend bindings persist to.
type Store interface {
	Load(key string, def int) int
	Save(key string, value int) error
}

// BatchStore is implemented by stores that can persist several values at once.
type BatchStore interface {
	SaveAll(values map[string]int) error
}

// EventSink receives coordinator events. Calls are made without any
// coordinator lock held.
type EventSink interface {
	HotkeyInvoked(b *Binding)
	BindingChanged(b *Binding)
}

// SinkFuncs adapts a pair of functions to EventSink. Nil fields are skipped.
type SinkFuncs struct {
	OnInvoked func(*Binding)
	OnChanged func(*Binding)
}

func (s SinkFuncs) HotkeyInvoked(b *Binding) {
	if s.OnInvoked != nil {
		s.OnInvoked(b)
	}
}

func (s SinkFuncs) BindingChanged(b *Binding) {
	if s.OnChanged != nil {
		s.OnChanged(b)
	}
}

// Options tunes a Coordinator. The zero value uses the built-in defaults and
// no registrar timeout.
type Options struct {
	// Defaults overrides built-in combinations per action.
	Defaults map[Action]Combination
	// Timeout bounds each registrar call; zero waits indefinitely.
	Timeout time.Duration
}

// installation is one live registrar session plus its listener.
type installation struct {
	session Session
	stop    chan struct{}
}

// Coordinator owns the fixed binding set and keeps a registrar session in
// sync with it.
type Coordinator struct {
	store     Store
	registrar Registrar
	timeout   time.Duration
	defaults  map[Action]Combination

	bindings []*Binding
	byName   map[Action]*Binding

	mu        sync.Mutex // serialises Install and Uninstall
	active    atomic.Pointer[installation]
	refreshMu sync.Mutex

	sinkMu sync.RWMutex
	sinks  []EventSink
}

// NewCoordinator loads every action's binding from store, falling back to its
// default, and subscribes to binding changes.
func NewCoordinator(store Store, registrar Registrar, opts Options) *Coordinator {
	c := &Coordinator{
		store:     store,
		registrar: registrar,
		timeout:   opts.Timeout,
		defaults:  make(map[Action]Combination, len(Actions)),
		byName:    make(map[Action]*Binding, len(Actions)),
	}
	for _, a := range Actions {
		def := DefaultCombination(a)
		if o, ok := opts.Defaults[a]; ok {
			def = o
		}
		c.defaults[a] = def

		b := NewBinding(a, store.Load(SettingKey(a), def.Encode()))
		b.OnChange(c.bindingChanged)
		c.bindings = append(c.bindings, b)
		c.byName[a] = b
	}
	return c
}

// Bindings returns all bindings in fixed order.
func (c *Coordinator) Bindings() []*Binding {
	return append([]*Binding(nil), c.bindings...)
}

// Binding looks up an action's binding.
func (c *Coordinator) Binding(a Action) (*Binding, bool) {
	b, ok := c.byName[a]
	return b, ok
}

func (c *Coordinator) PlayPause() *Binding     { return c.byName[ActionPlayPause] }
func (c *Coordinator) PrevMedia() *Binding     { return c.byName[ActionPrevMedia] }
func (c *Coordinator) NextMedia() *Binding     { return c.byName[ActionNextMedia] }
func (c *Coordinator) ShowHideLyric() *Binding { return c.byName[ActionShowHideLyric] }
func (c *Coordinator) LockUnlock() *Binding    { return c.byName[ActionLockUnlock] }
func (c *Coordinator) OpenPlayer() *Binding    { return c.byName[ActionOpenPlayer] }

// Default returns the combination ResetToDefaults assigns to a.
func (c *Coordinator) Default(a Action) Combination {
	return c.defaults[a]
}

// AddSink subscribes s to invocation and change events.
func (c *Coordinator) AddSink(s EventSink) {
	c.sinkMu.Lock()
	c.sinks = append(c.sinks, s)
	c.sinkMu.Unlock()
}

// Installed reports whether a registrar session is active.
func (c *Coordinator) Installed() bool {
	return c.active.Load() != nil
}

// Install opens a registrar session if none is active, then refreshes. A
// session error is returned after the (no-op) refresh.
func (c *Coordinator) Install() error {
	var err error

	c.mu.Lock()
	if c.active.Load() == nil {
		s, serr := c.registrar.NewSession()
		if serr != nil {
			err = fmt.Errorf("open registrar session: %w", serr)
			log.Errorf("hotkey install failed: %v", serr)
		} else {
			inst := &installation{session: s, stop: make(chan struct{})}
			go c.listen(inst)
			c.active.Store(inst)
			log.Info("hotkeys installed")
		}
	}
	c.mu.Unlock()

	c.Refresh()
	return err
}

// Uninstall stops listening and releases the session. Safe when uninstalled.
func (c *Coordinator) Uninstall() {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst := c.active.Load()
	if inst == nil {
		return
	}
	close(inst.stop)
	if err := inst.session.Close(); err != nil {
		log.Warnf("closing registrar session: %v", err)
	}
	c.active.Store(nil)
	log.Info("hotkeys uninstalled")
}

// Refresh unregisters everything in the session and re-registers each
// complete binding in fixed order. Failures only show up as disabled bindings.
// A refresh overtaken by Uninstall stops without touching any binding.
func (c *Coordinator) Refresh() {
	if c.refresh() {
		c.emitAllChanged()
	}
}

// refresh reports whether it ran to completion against a live session.
func (c *Coordinator) refresh() bool {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	inst := c.active.Load()
	if inst == nil {
		return false
	}

	start := time.Now()
	if err := c.unregisterAll(inst.session); err != nil {
		log.Warnf("unregister all hotkeys: %v", err)
	}

	enabled, disabled := 0, 0
	for _, b := range c.bindings {
		if c.active.Load() != inst {
			log.Debugf("hotkey refresh abandoned: session closed")
			return false
		}
		combo := b.Combination()
		if !combo.IsComplete() {
			b.setEnabled(true)
			enabled++
			continue
		}
		err := c.register(inst.session, combo)
		if errors.Is(err, ErrSessionClosed) {
			log.Debugf("hotkey refresh abandoned: %v", err)
			return false
		}
		b.setEnabled(err == nil)
		if err == nil {
			enabled++
		} else {
			disabled++
		}
		log.Registration(string(b.name), combo.String(), err)
	}
	log.RefreshSummary(len(c.bindings), enabled, disabled, time.Since(start))
	return true
}

func (c *Coordinator) callContext() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(context.Background(), c.timeout)
	}
	return context.WithCancel(context.Background())
}

func (c *Coordinator) register(s Session, combo Combination) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("register %s: panic: %v", combo, r)
		}
	}()
	ctx, cancel := c.callContext()
	defer cancel()
	return s.Register(ctx, combo)
}

func (c *Coordinator) unregisterAll(s Session) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unregister all: panic: %v", r)
		}
	}()
	ctx, cancel := c.callContext()
	defer cancel()
	return s.UnregisterAll(ctx)
}

// ResetToDefaults assigns every default, persists them together and runs a
// single refresh.
func (c *Coordinator) ResetToDefaults() {
	values := make(map[string]int, len(c.bindings))
	for _, b := range c.bindings {
		def := c.defaults[b.name]
		b.assign(def)
		values[SettingKey(b.name)] = def.Encode()
	}
	c.saveAll(values)
	log.Info("hotkeys reset to defaults")

	c.refresh()
	c.emitAllChanged()
}

func (c *Coordinator) saveAll(values map[string]int) {
	if bs, ok := c.store.(BatchStore); ok {
		if err := bs.SaveAll(values); err != nil {
			log.Errorf("saving hotkey settings: %v", err)
		}
		return
	}
	for _, a := range Actions {
		key := SettingKey(a)
		if err := c.store.Save(key, values[key]); err != nil {
			log.Errorf("saving %s: %v", key, err)
		}
	}
}

// bindingChanged persists b and resynchronises the registrar.
func (c *Coordinator) bindingChanged(b *Binding) {
	if err := c.store.Save(SettingKey(b.name), b.Encode()); err != nil {
		log.Errorf("saving %s: %v", SettingKey(b.name), err)
	}
	if !c.refresh() {
		c.emitChanged(b)
		return
	}
	c.emitAllChanged()
}

func (c *Coordinator) listen(inst *installation) {
	fired := inst.session.Fired()
	for {
		select {
		case <-inst.stop:
			return
		case combo, ok := <-fired:
			if !ok {
				return
			}
			select {
			case <-inst.stop:
				return
			default:
			}
			c.dispatch(combo)
		}
	}
}

// dispatch routes a fired combination to the first binding holding it.
func (c *Coordinator) dispatch(combo Combination) {
	for _, b := range c.bindings {
		if b.Combination() == combo {
			log.HotkeyInvoked(string(b.name), combo.String())
			c.sinkSnapshot(func(s EventSink) { s.HotkeyInvoked(b) })
			return
		}
	}
	log.Debugf("dropped notification for unbound hotkey %s", combo)
}

// Conflicts returns groups of bindings that hold the same complete
// combination, each group in fixed order.
func (c *Coordinator) Conflicts() [][]*Binding {
	groups := make(map[Combination][]*Binding)
	var order []Combination
	for _, b := range c.bindings {
		combo := b.Combination()
		if !combo.IsComplete() {
			continue
		}
		if _, seen := groups[combo]; !seen {
			order = append(order, combo)
		}
		groups[combo] = append(groups[combo], b)
	}
	var out [][]*Binding
	for _, combo := range order {
		if len(groups[combo]) > 1 {
			out = append(out, groups[combo])
		}
	}
	return out
}

func (c *Coordinator) emitChanged(b *Binding) {
	c.sinkSnapshot(func(s EventSink) { s.BindingChanged(b) })
}

func (c *Coordinator) emitAllChanged() {
	for _, b := range c.bindings {
		c.emitChanged(b)
	}
}

func (c *Coordinator) sinkSnapshot(fn func(EventSink)) {
	c.sinkMu.RLock()
	sinks := append([]EventSink(nil), c.sinks...)
	c.sinkMu.RUnlock()
	for _, s := range sinks {
		fn(s)
	}
}
