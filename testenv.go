package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"hotlyric/hotkey"
	"hotlyric/log"
)

var errInjected = errors.New("injected registrar failure")

// runTestMode drives a coordinator over a fake registrar from stdin commands,
// one per line. Output is one line per coordinator event.
func runTestMode(store hotkey.Store, opts hotkey.Options, in io.Reader, out io.Writer) int {
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	log.SessionStart("fake", "test")

	reg := hotkey.NewFakeRegistrar()
	coord := hotkey.NewCoordinator(store, reg, opts)
	defer coord.Uninstall()

	sink := &lineSink{w: out}
	counter := &invocationCounter{}
	invoked := make(chan struct{}, 16)
	coord.AddSink(sink)
	coord.AddSink(counter)
	coord.AddSink(hotkey.SinkFuncs{OnInvoked: func(*hotkey.Binding) {
		select {
		case invoked <- struct{}{}:
		default:
		}
	}})

	defer func() { log.SessionEnd(counter.Count()) }()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToUpper(cmd) {
		case "INSTALL":
			if err := coord.Install(); err != nil {
				fmt.Fprintf(out, "error %v\n", err)
			}
		case "UNINSTALL":
			coord.Uninstall()
		case "REFRESH":
			coord.Refresh()
		case "RESET":
			coord.ResetToDefaults()
		case "STATUS":
			for _, b := range coord.Bindings() {
				sink.status(b)
			}
		case "FIRE":
			c, ok := parseArg(out, arg)
			if !ok {
				continue
			}
			if reg.Fire(c) {
				// Dispatch is asynchronous; wait so output stays ordered.
				select {
				case <-invoked:
				case <-time.After(time.Second):
				}
			}
		case "SET":
			name, combo, _ := strings.Cut(arg, " ")
			b, ok := lookupBinding(out, coord, name)
			if !ok {
				continue
			}
			c, ok := parseArg(out, combo)
			if !ok {
				continue
			}
			b.Set(c)
		case "CLEAR":
			b, ok := lookupBinding(out, coord, arg)
			if !ok {
				continue
			}
			b.Set(hotkey.Unassigned)
		case "RESERVE":
			if c, ok := parseArg(out, arg); ok {
				reg.Reserve(c)
			}
		case "RELEASE":
			if c, ok := parseArg(out, arg); ok {
				reg.Release(c)
			}
		case "FAIL":
			switch strings.ToLower(arg) {
			case "on":
				reg.FailCalls(errInjected)
			case "off":
				reg.FailCalls(nil)
			default:
				fmt.Fprintf(out, "error FAIL wants on|off\n")
			}
		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "QUIT":
			return 0
		default:
			fmt.Fprintf(out, "error unknown command %q\n", cmd)
		}
	}
	return 0
}

func parseArg(out io.Writer, s string) (hotkey.Combination, bool) {
	c, err := hotkey.ParseCombination(s)
	if err != nil {
		fmt.Fprintf(out, "error %v\n", err)
		return hotkey.Unassigned, false
	}
	return c, true
}

func lookupBinding(out io.Writer, coord *hotkey.Coordinator, name string) (*hotkey.Binding, bool) {
	a, ok := hotkey.ParseAction(name)
	if !ok {
		fmt.Fprintf(out, "error unknown action %q\n", name)
		return nil, false
	}
	return coord.Binding(a)
}
