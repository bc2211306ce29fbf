package doctor

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"hotlyric/hotkey"
	"hotlyric/shutdown"
)

const probeKey = "Doctor_Probe"

// deleter is implemented by stores that can drop a key.
type deleter interface {
	Delete(key string) error
}

// Options configures a diagnostics run.
type Options struct {
	Store     hotkey.Store
	Registrar hotkey.Registrar
	Defaults  map[hotkey.Action]hotkey.Combination
	Timeout   time.Duration // per registrar call
	Synth     bool          // synthesise the PlayPause press instead of waiting for the user
	FireWait  time.Duration // how long step 3 waits; zero means 10s
	Out       io.Writer
}

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(opts Options) int {
	resetTerminal()
	setupInterruptHandler()
	return run(opts)
}

func run(opts Options) int {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.FireWait == 0 {
		opts.FireWait = 10 * time.Second
	}
	out := opts.Out

	fmt.Fprintln(out, "hotlyric doctor - hotkey diagnostics")
	fmt.Fprintln(out, "====================================")

	allPass := checkStore(out, opts.Store)

	var coord *hotkey.Coordinator
	if allPass {
		coord = hotkey.NewCoordinator(opts.Store, opts.Registrar, hotkey.Options{
			Defaults: opts.Defaults,
			Timeout:  opts.Timeout,
		})
		defer coord.Uninstall()
		if !checkRegistration(out, coord) {
			allPass = false
		}
	}
	if allPass && !checkFire(out, coord, opts) {
		allPass = false
	}

	fmt.Fprintln(out)
	if allPass {
		fmt.Fprintln(out, "All checks passed!")
		return 0
	}
	fmt.Fprintln(out, "Some checks failed. See details above.")
	return 1
}

func checkStore(out io.Writer, store hotkey.Store) bool {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[1/3] Settings store")

	want := int(time.Now().Unix() & 0x7fffffff)
	if err := store.Save(probeKey, want); err != nil {
		fmt.Fprintf(out, "  FAIL: write failed: %v\n", err)
		return false
	}
	got := store.Load(probeKey, -1)
	if d, ok := store.(deleter); ok {
		if err := d.Delete(probeKey); err != nil {
			fmt.Fprintf(out, "  FAIL: cleanup failed: %v\n", err)
			return false
		}
	}
	if got != want {
		fmt.Fprintf(out, "  FAIL: read back %d, wrote %d\n", got, want)
		return false
	}
	fmt.Fprintln(out, "  PASS: settings write/read verified")
	return true
}

func checkRegistration(out io.Writer, coord *hotkey.Coordinator) bool {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[2/3] Hotkey registration")

	if err := coord.Install(); err != nil {
		fmt.Fprintf(out, "  FAIL: %v\n", err)
		return false
	}

	ok := true
	for _, b := range coord.Bindings() {
		switch {
		case !b.IsComplete():
			fmt.Fprintf(out, "  SKIP: %-14s %s (not set)\n", b.Name(), b.Combination())
		case b.Enabled():
			fmt.Fprintf(out, "  PASS: %-14s %s\n", b.Name(), b.Combination())
		default:
			fmt.Fprintf(out, "  FAIL: %-14s %s (in use by another application?)\n", b.Name(), b.Combination())
			ok = false
		}
	}
	for _, group := range coord.Conflicts() {
		names := make([]string, len(group))
		for i, b := range group {
			names[i] = string(b.Name())
		}
		fmt.Fprintf(out, "  WARN: %s share %s\n", strings.Join(names, ", "), group[0].Combination())
	}
	return ok
}

func checkFire(out io.Writer, coord *hotkey.Coordinator, opts Options) bool {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[3/3] Hotkey dispatch")

	pp := coord.PlayPause()
	if !pp.IsComplete() || !pp.Enabled() {
		fmt.Fprintln(out, "  SKIP: PlayPause is not registered")
		return true
	}

	invoked := make(chan struct{}, 1)
	coord.AddSink(hotkey.SinkFuncs{OnInvoked: func(b *hotkey.Binding) {
		if b.Name() == hotkey.ActionPlayPause {
			select {
			case invoked <- struct{}{}:
			default:
			}
		}
	}})

	if opts.Synth {
		fmt.Fprintf(out, "Synthesising %s...\n", pp.Combination())
		if err := synthesize(pp.Combination()); err != nil {
			fmt.Fprintf(out, "  FAIL: %v\n", err)
			return false
		}
	} else {
		fmt.Fprintf(out, "Press %s...\n", pp.Combination())
	}

	select {
	case <-invoked:
		fmt.Fprintln(out, "  PASS: PlayPause dispatched")
		// The key press may leave the terminal in a strange mode.
		resetTerminal()
		return true
	case <-time.After(opts.FireWait):
		fmt.Fprintln(out, "  FAIL: timeout waiting for hotkey")
		return false
	}
}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		println("\nInterrupted")
		os.Exit(1)
	}()
}
