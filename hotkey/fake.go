package hotkey

import (
	"context"
	"fmt"
	"sync"
)

// external marks combinations held by some other application.
type external struct{}

// FakeRegistrar is an in-memory Registrar that enforces single ownership per
// combination across all of its sessions, like the OS does.
type FakeRegistrar struct {
	claims *claimTable

	mu                 sync.Mutex
	sessions           []*fakeSession
	created            int
	sessionErr         error
	callErr            error
	stalled            bool
	panicOn            map[Combination]bool
	registerCalls      []Combination
	unregisterAllCalls int
}

func NewFakeRegistrar() *FakeRegistrar {
	return &FakeRegistrar{
		claims:  newClaimTable(),
		panicOn: make(map[Combination]bool),
	}
}

func (f *FakeRegistrar) NewSession() (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	s := &fakeSession{r: f, fired: make(chan Combination, 16)}
	f.sessions = append(f.sessions, s)
	f.created++
	return s, nil
}

// Reserve simulates another application owning c.
func (f *FakeRegistrar) Reserve(c Combination) bool { return f.claims.claim(c, external{}) }

// Release frees a combination reserved with Reserve.
func (f *FakeRegistrar) Release(c Combination) {
	if o, ok := f.claims.owner(c); ok && o == (external{}) {
		f.claims.release(c)
	}
}

// FailSessions makes NewSession return err (nil restores it).
func (f *FakeRegistrar) FailSessions(err error) {
	f.mu.Lock()
	f.sessionErr = err
	f.mu.Unlock()
}

// FailCalls makes every Register and UnregisterAll call return err.
func (f *FakeRegistrar) FailCalls(err error) {
	f.mu.Lock()
	f.callErr = err
	f.mu.Unlock()
}

// Stall makes calls block until their context is done.
func (f *FakeRegistrar) Stall(on bool) {
	f.mu.Lock()
	f.stalled = on
	f.mu.Unlock()
}

// PanicOn makes Register panic for c.
func (f *FakeRegistrar) PanicOn(c Combination) {
	f.mu.Lock()
	f.panicOn[c] = true
	f.mu.Unlock()
}

// Fire simulates a press of c, delivered to the session owning it. It reports
// whether a session received the notification.
func (f *FakeRegistrar) Fire(c Combination) bool {
	o, ok := f.claims.owner(c)
	if !ok {
		return false
	}
	s, ok := o.(*fakeSession)
	if !ok {
		return false
	}
	return s.deliver(c)
}

// FireStale delivers c to every open session whether or not it owns c, as a
// notification racing with an unregister would.
func (f *FakeRegistrar) FireStale(c Combination) int {
	f.mu.Lock()
	sessions := append([]*fakeSession(nil), f.sessions...)
	f.mu.Unlock()
	n := 0
	for _, s := range sessions {
		if s.deliver(c) {
			n++
		}
	}
	return n
}

func (f *FakeRegistrar) SessionsCreated() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func (f *FakeRegistrar) OpenSessions() int {
	f.mu.Lock()
	sessions := append([]*fakeSession(nil), f.sessions...)
	f.mu.Unlock()
	n := 0
	for _, s := range sessions {
		if !s.isClosed() {
			n++
		}
	}
	return n
}

// Registered lists combinations currently owned by sessions.
func (f *FakeRegistrar) Registered() []Combination {
	f.mu.Lock()
	sessions := append([]*fakeSession(nil), f.sessions...)
	f.mu.Unlock()
	var out []Combination
	for _, s := range sessions {
		out = append(out, f.claims.ownedBy(s)...)
	}
	return out
}

func (f *FakeRegistrar) RegisterCalls() []Combination {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Combination(nil), f.registerCalls...)
}

func (f *FakeRegistrar) UnregisterAllCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unregisterAllCalls
}

// ResetCalls clears the recorded call history.
func (f *FakeRegistrar) ResetCalls() {
	f.mu.Lock()
	f.registerCalls = nil
	f.unregisterAllCalls = 0
	f.mu.Unlock()
}

// begin records a call and returns the configured failure, if any.
func (f *FakeRegistrar) begin(ctx context.Context, c *Combination) error {
	f.mu.Lock()
	if c != nil {
		f.registerCalls = append(f.registerCalls, *c)
	} else {
		f.unregisterAllCalls++
	}
	stalled, callErr := f.stalled, f.callErr
	panics := c != nil && f.panicOn[*c]
	f.mu.Unlock()

	if stalled {
		<-ctx.Done()
		return ctx.Err()
	}
	if panics {
		panic(fmt.Sprintf("fake registrar: register %s", *c))
	}
	return callErr
}

type fakeSession struct {
	r     *FakeRegistrar
	fired chan Combination

	mu     sync.Mutex
	closed bool
}

func (s *fakeSession) Register(ctx context.Context, c Combination) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	if err := s.r.begin(ctx, &c); err != nil {
		return err
	}
	if !c.IsComplete() {
		return fmt.Errorf("register %s: incomplete combination", c)
	}
	if !s.r.claims.claim(c, s) {
		return fmt.Errorf("register %s: %w", c, ErrAlreadyRegistered)
	}
	return nil
}

func (s *fakeSession) UnregisterAll(ctx context.Context) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	if err := s.r.begin(ctx, nil); err != nil {
		return err
	}
	s.r.claims.releaseOwner(s)
	return nil
}

func (s *fakeSession) Fired() <-chan Combination { return s.fired }

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.fired)
	s.r.claims.releaseOwner(s)
	return nil
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeSession) deliver(c Combination) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.fired <- c:
		return true
	default:
		return false
	}
}
