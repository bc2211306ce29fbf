//go:build windows || darwin

package hotkey

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.design/x/hotkey"
)

type nativeRegistrar struct {
	claims *claimTable
}

// NewRegistrar returns the OS registrar backed by golang.design/x/hotkey.
// On macOS the caller must run under mainthread.Init.
func NewRegistrar() Registrar {
	return &nativeRegistrar{claims: newClaimTable()}
}

func (r *nativeRegistrar) NewSession() (Session, error) {
	return &nativeSession{
		claims: r.claims,
		fired:  make(chan Combination, 8),
		live:   make(map[Combination]*liveHotkey),
	}, nil
}

type liveHotkey struct {
	hk   *hotkey.Hotkey
	stop chan struct{}
}

type nativeSession struct {
	claims *claimTable
	fired  chan Combination

	mu     sync.Mutex
	live   map[Combination]*liveHotkey
	closed bool
}

func (s *nativeSession) Register(ctx context.Context, c Combination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	mods, key, ok := toNative(c)
	if !ok {
		return fmt.Errorf("register %s: %w", c, ErrUnsupportedKey)
	}
	if !s.claims.claim(c, s) {
		return fmt.Errorf("register %s: %w", c, ErrAlreadyRegistered)
	}

	hk := hotkey.New(mods, key)
	done := make(chan error, 1)
	go func() { done <- hk.Register() }()

	select {
	case err := <-done:
		if err != nil {
			s.claims.release(c)
			return fmt.Errorf("register %s: %w", c, err)
		}
	case <-ctx.Done():
		s.claims.release(c)
		// A registration that completes after we gave up must not leak.
		go func() {
			if <-done == nil {
				hk.Unregister()
			}
		}()
		return fmt.Errorf("register %s: %w", c, ctx.Err())
	}

	lh := &liveHotkey{hk: hk, stop: make(chan struct{})}
	s.live[c] = lh
	go s.forward(c, lh)
	return nil
}

func (s *nativeSession) forward(c Combination, lh *liveHotkey) {
	for {
		select {
		case <-lh.stop:
			return
		case _, ok := <-lh.hk.Keydown():
			if !ok {
				return
			}
			select {
			case s.fired <- c:
			case <-lh.stop:
				return
			}
		}
	}
}

func (s *nativeSession) UnregisterAll(ctx context.Context) error {
	s.mu.Lock()
	live := s.live
	s.live = make(map[Combination]*liveHotkey)
	s.mu.Unlock()
	return s.unregister(ctx, live)
}

func (s *nativeSession) unregister(ctx context.Context, live map[Combination]*liveHotkey) error {
	var errs []error
	for c, lh := range live {
		close(lh.stop)
		s.claims.release(c)

		done := make(chan error, 1)
		go func() { done <- lh.hk.Unregister() }()
		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("unregister %s: %w", c, err))
			}
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("unregister %s: %w", c, ctx.Err()))
		}
	}
	return errors.Join(errs...)
}

func (s *nativeSession) Fired() <-chan Combination { return s.fired }

func (s *nativeSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	live := s.live
	s.live = nil
	s.mu.Unlock()
	return s.unregister(context.Background(), live)
}

// Diagnose registers and releases a throwaway hotkey.
func Diagnose() (string, error) {
	hk := hotkey.New([]hotkey.Modifier{nativeModifiers[ModCtrl], nativeModifiers[ModAlt], nativeModifiers[ModShift]}, hotkey.KeyF12)
	if err := hk.Register(); err != nil {
		return "", fmt.Errorf("cannot register probe hotkey Ctrl+Alt+Shift+F12: %w", err)
	}
	if err := hk.Unregister(); err != nil {
		return "", fmt.Errorf("cannot unregister probe hotkey: %w", err)
	}
	return "native hotkey support available (probe Ctrl+Alt+Shift+F12 ok)", nil
}
