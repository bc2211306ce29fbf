package hotkey

import (
	"strings"
	"sync"
)

// Action names one of the fixed application actions a hotkey can trigger.
type Action string

const (
	ActionPlayPause     Action = "PlayPause"
	ActionPrevMedia     Action = "PrevMedia"
	ActionNextMedia     Action = "NextMedia"
	ActionShowHideLyric Action = "ShowHideLyric"
	ActionLockUnlock    Action = "LockUnlock"
	ActionOpenPlayer    Action = "OpenPlayer"
)

// Actions lists every action in the fixed order used for registration and
// dispatch. Earlier entries win when two bindings share a combination.
var Actions = []Action{
	ActionPlayPause,
	ActionPrevMedia,
	ActionNextMedia,
	ActionShowHideLyric,
	ActionLockUnlock,
	ActionOpenPlayer,
}

var builtinDefaults = map[Action]Combination{
	ActionPlayPause:     {ModCtrl | ModAlt, Letter('P')},
	ActionPrevMedia:     {ModCtrl | ModAlt, KeyLeft},
	ActionNextMedia:     {ModCtrl | ModAlt, KeyRight},
	ActionShowHideLyric: {ModCtrl | ModAlt, Letter('D')},
	ActionLockUnlock:    {ModCtrl | ModAlt, Letter('E')},
	ActionOpenPlayer:    {ModCtrl | ModAlt, Letter('H')},
}

// DefaultCombination returns the built-in combination for an action.
func DefaultCombination(a Action) Combination {
	return builtinDefaults[a]
}

// ParseAction matches an action name case-insensitively.
func ParseAction(s string) (Action, bool) {
	for _, a := range Actions {
		if strings.EqualFold(string(a), s) {
			return a, true
		}
	}
	return "", false
}

const settingKeyPrefix = "Settings_HotKey_"

// SettingKey is the settings-store key an action's binding is persisted under.
func SettingKey(a Action) string {
	return settingKeyPrefix + string(a)
}

// Binding is one action's current combination and whether it is live.
type Binding struct {
	name Action

	mu       sync.RWMutex
	combo    Combination
	enabled  bool
	onChange func(*Binding)
}

// NewBinding creates a binding seeded from a persisted value.
func NewBinding(name Action, encoded int) *Binding {
	return &Binding{
		name:    name,
		combo:   Decode(encoded),
		enabled: true,
	}
}

func (b *Binding) Name() Action { return b.name }

func (b *Binding) Combination() Combination {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.combo
}

func (b *Binding) Modifiers() Modifier { return b.Combination().Modifiers }
func (b *Binding) Key() Key            { return b.Combination().Key }
func (b *Binding) Encode() int         { return b.Combination().Encode() }
func (b *Binding) IsComplete() bool    { return b.Combination().IsComplete() }

// Enabled is false only when a complete combination failed to register.
func (b *Binding) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// OnChange sets the callback invoked after every SetModifiersAndKey.
func (b *Binding) OnChange(fn func(*Binding)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// SetModifiersAndKey replaces the combination and notifies once. Bits and
// keys that cannot be persisted are dropped.
func (b *Binding) SetModifiersAndKey(mods Modifier, key Key) {
	b.mu.Lock()
	b.combo = Combination{Modifiers: mods, Key: key}.Normalize()
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(b)
	}
}

// Set is SetModifiersAndKey for a Combination value.
func (b *Binding) Set(c Combination) {
	b.SetModifiersAndKey(c.Modifiers, c.Key)
}

func (b *Binding) assign(c Combination) {
	b.mu.Lock()
	b.combo = c.Normalize()
	b.mu.Unlock()
}

func (b *Binding) setEnabled(on bool) {
	b.mu.Lock()
	b.enabled = on
	b.mu.Unlock()
}
