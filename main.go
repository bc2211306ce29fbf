package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"golang.org/x/term"

	"hotlyric/chime"
	"hotlyric/config"
	"hotlyric/doctor"
	"hotlyric/hotkey"
	"hotlyric/log"
	"hotlyric/notify"
	"hotlyric/settings"
	"hotlyric/shutdown"
	"hotlyric/tray"
)

var version = "dev"

// settingsStore is what the app needs from a settings backend.
type settingsStore interface {
	hotkey.Store
	Close() error
}

func run() {
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	storeFlag := flag.String("store", "", "settings database path (default: XDG data dir; :memory: for none)")
	configFlag := flag.String("config", "", "config file (default: ~/.config/hotlyric/config.toml then ./config.toml)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	trayFlag := flag.Bool("tray", false, "Show a tray icon")
	notifyFlag := flag.Bool("notify", true, "Desktop notification when a shortcut is taken")
	soundFlag := flag.Bool("sound", false, "Audible cue on invoke and when a shortcut is taken")
	timeoutFlag := flag.Duration("timeout", 0, "Per-call registrar timeout (default: config or 2s)")
	doctorFlag := flag.Bool("doctor", false, "Run hotkey diagnostics and exit")
	synthFlag := flag.Bool("synth", false, "With -doctor: synthesise the PlayPause key press")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven, fake registrar)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("hotlyric %s\n", version)
		os.Exit(0)
	}

	var cfgPaths []string
	if *configFlag != "" {
		cfgPaths = append(cfgPaths, *configFlag)
	}
	cfg, err := config.Load(cfgPaths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring config: %v\n", err)
		cfg = &config.Config{}
	}

	// Explicit flags beat config values.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["tui"] {
		*tuiFlag = cfg.TUIEnabled()
	}
	if !set["tray"] {
		*trayFlag = cfg.TrayEnabled()
	}
	if !set["notify"] {
		*notifyFlag = cfg.NotificationsEnabled()
	}
	if !set["sound"] {
		*soundFlag = cfg.SoundEnabled()
	}
	timeout := cfg.RegistrarTimeout()
	if *timeoutFlag > 0 {
		timeout = *timeoutFlag
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	log.SetVerbose(cfg.Verbose)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	if crashFile, err := log.OpenCrashLog(); err == nil {
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	defaults, errs := cfg.DefaultCombinations()
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: config %v\n", err)
	}
	opts := hotkey.Options{Defaults: defaults, Timeout: timeout}

	if *testFlag {
		storePath := *storeFlag
		if storePath == "" {
			storePath = ":memory:"
		}
		store, err := openStore(storePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		code := runTestMode(store, opts, os.Stdin, os.Stdout)
		store.Close()
		os.Exit(code)
	}

	storePath := *storeFlag
	if storePath == "" {
		storePath = cfg.StorePath
	}
	store, err := openStore(storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *doctorFlag {
		code := doctor.Run(doctor.Options{
			Store:     store,
			Registrar: hotkey.NewRegistrar(),
			Defaults:  defaults,
			Timeout:   timeout,
			Synth:     *synthFlag,
		})
		store.Close()
		os.Exit(code)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	} else {
		log.SessionStart(registrarName(), storePath)
	}
	defer log.Close()

	coord := hotkey.NewCoordinator(store, hotkey.NewRegistrar(), opts)
	counter := &invocationCounter{}
	coord.AddSink(counter)
	coord.AddSink(notify.New(*notifyFlag))
	if *soundFlag {
		chime.Init()
		coord.AddSink(chime.NewSink())
	}

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	var trayQuit <-chan struct{}
	if *trayFlag {
		ts := traySink{coord: coord}
		ts.BindingChanged(nil) // seed the menu lines before the tray starts
		coord.AddSink(ts)
		trayQuit = tray.Init(tray.Callbacks{
			OnPause: func(paused bool) {
				if paused {
					coord.Uninstall()
				} else if err := coord.Install(); err != nil {
					log.Errorf("resume hotkeys: %v", err)
					logToTUI("resume hotkeys: %v", err)
				}
				tray.SetPaused(!coord.Installed())
			},
			OnReset: coord.ResetToDefaults,
			OnQuit:  stop,
		})
	}

	useTUI := *tuiFlag && term.IsTerminal(int(os.Stdout.Fd()))
	if useTUI {
		coord.AddSink(tuiSink{coord: coord})
	} else {
		coord.AddSink(&lineSink{w: os.Stdout})
	}

	if err := coord.Install(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: global hotkeys unavailable: %v\n", err)
		if hint, derr := hotkey.Diagnose(); derr != nil {
			fmt.Fprintf(os.Stderr, "  %v\n", derr)
		} else {
			log.Info(hint)
		}
	}

	if *trayFlag {
		tray.SetPaused(!coord.Installed())
	}

	if useTUI {
		runTUI(ctx, coord, trayQuit)
	} else {
		select {
		case <-ctx.Done():
		case <-trayQuit:
		}
	}

	coord.Uninstall()
	log.SessionEnd(counter.Count())
	tray.Quit()
}

func runTUI(ctx context.Context, coord *hotkey.Coordinator, trayQuit <-chan struct{}) {
	p := NewTUIProgram(coord)
	tuiMu.Lock()
	tuiProgram = p
	tuiMu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-trayQuit:
		}
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		log.Errorf("tui: %v", err)
	}

	tuiMu.Lock()
	tuiProgram = nil
	tuiMu.Unlock()
}

func openStore(path string) (settingsStore, error) {
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve settings path: %w", err)
		}
		path = p
	}
	s, err := settings.Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func registrarName() string {
	switch runtime.GOOS {
	case "linux":
		return "evdev"
	case "windows", "darwin":
		return "native"
	}
	return "unsupported"
}
