package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog    zerolog.Logger
	diagFile   *os.File
	hotkeyFile *os.File
	logMu      sync.Mutex
	logReady   bool
	pid        int
	dir        string
	level      = zerolog.InfoLevel
)

// ResolveDir picks the log directory: -logpath flag, then HOTLYRIC_LOG_PATH,
// then the config file's log_path, then the OS default.
func ResolveDir(flagPath, configPath string) (string, error) {
	for _, p := range []string{flagPath, os.Getenv("HOTLYRIC_LOG_PATH"), configPath} {
		if p != "" {
			return absPath(p)
		}
	}
	return getDefaultDir()
}

func absPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

// SetVerbose enables debug-level records. Call before Init.
func SetVerbose(on bool) {
	if on {
		level = zerolog.DebugLevel
	} else {
		level = zerolog.InfoLevel
	}
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	hotkeyPath := filepath.Join(dir, "hotkey_log.txt")
	hotkeyFile, err = os.OpenFile(hotkeyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if hotkeyFile != nil {
		hotkeyFile.Close()
		hotkeyFile = nil
	}
	logReady = false
}

// OpenCrashLog opens crash_log.txt in the log directory and writes a session
// header. The caller hands the file to debug.SetCrashOutput.
func OpenCrashLog() (*os.File, error) {
	f, err := os.OpenFile(filepath.Join(dir, "crash_log.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(f, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	return f, nil
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	if logReady {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// Registration records the outcome of registering one binding.
func Registration(action, combo string, err error) {
	if !logReady {
		return
	}
	if err != nil {
		diagLog.Warn().
			Str("action", action).
			Str("combo", combo).
			Err(err).
			Msg("hotkey_register_failed")
		return
	}
	diagLog.Debug().
		Str("action", action).
		Str("combo", combo).
		Msg("hotkey_registered")
}

func RefreshSummary(total, enabled, disabled int, elapsed time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("bindings", total).
		Int("enabled", enabled).
		Int("disabled", disabled).
		Float64("elapsed_ms", float64(elapsed.Microseconds())/1000).
		Msg("hotkey_refresh")
}

// HotkeyInvoked appends a line to hotkey_log.txt.
func HotkeyInvoked(action, combo string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	if hotkeyFile == nil {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%s\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, action, combo)
	hotkeyFile.WriteString(line)
}

func SessionStart(registrar, store string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("registrar", registrar).
		Str("store", store).
		Msg("session_start")
}

func SessionEnd(invoked int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("invoked", invoked).
		Msg("session_end")
}
