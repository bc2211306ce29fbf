package hotkey

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrAlreadyRegistered = errors.New("hotkey already registered")
	ErrUnsupportedKey    = errors.New("key not supported by this registrar")
	ErrSessionClosed     = errors.New("registrar session closed")
	ErrUnsupported       = errors.New("global hotkeys not supported on this platform")
)

// Registrar hands out OS registration sessions.
type Registrar interface {
	NewSession() (Session, error)
}

// Session is a live registration context. Register grants exclusive ownership
// of a combination or returns an error; Fired delivers every press of a
// combination the session currently owns.
type Session interface {
	Register(ctx context.Context, c Combination) error
	UnregisterAll(ctx context.Context) error
	Fired() <-chan Combination
	Close() error
}

// claimTable tracks which owner holds each combination, standing in for the
// OS-wide exclusivity that RegisterHotKey provides on Windows.
type claimTable struct {
	mu     sync.Mutex
	owners map[Combination]any
}

func newClaimTable() *claimTable {
	return &claimTable{owners: make(map[Combination]any)}
}

func (t *claimTable) claim(c Combination, owner any) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, taken := t.owners[c]; taken {
		return false
	}
	t.owners[c] = owner
	return true
}

func (t *claimTable) owner(c Combination) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.owners[c]
	return o, ok
}

func (t *claimTable) release(c Combination) {
	t.mu.Lock()
	delete(t.owners, c)
	t.mu.Unlock()
}

// releaseOwner drops every claim held by owner and returns them.
func (t *claimTable) releaseOwner(owner any) []Combination {
	t.mu.Lock()
	defer t.mu.Unlock()
	var released []Combination
	for c, o := range t.owners {
		if o == owner {
			delete(t.owners, c)
			released = append(released, c)
		}
	}
	return released
}

func (t *claimTable) ownedBy(owner any) []Combination {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Combination
	for c, o := range t.owners {
		if o == owner {
			out = append(out, c)
		}
	}
	return out
}
