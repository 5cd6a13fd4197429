package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const fileName = "heimdall_log.txt"

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.RWMutex
	logReady bool
	pid      int
	dir      string
	stderr   io.Writer = os.Stderr
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absPath(flagPath)
	}

	// Priority 2: HEIMDALL_LOG_PATH environment variable
	if envPath := os.Getenv("HEIMDALL_LOG_PATH"); envPath != "" {
		return absPath(envPath)
	}

	// Priority 3: Default OS-specific location
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

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// Level parses HEIMDALL_LOG (trace, debug, info, warn, error). Unset or
// unparseable values fall back to info.
func Level() zerolog.Level {
	v := strings.TrimSpace(os.Getenv("HEIMDALL_LOG"))
	if v == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(v))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Init opens the diagnostics file in Dir and, when stderr is a terminal,
// mirrors every line there in color.
func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error
	diagFile, err = os.OpenFile(filepath.Join(dir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}}
	if f, ok := stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: "15:04:05"})
	}

	// Per-logger level is authoritative; keep the global gate open.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	diagLog = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(Level()).
		With().Timestamp().Int("pid", pid).Logger()

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
	logReady = false
}

// emit runs fn under the read lock so Close cannot shut the file mid-write.
// It does nothing before Init or after Close.
func emit(fn func(l *zerolog.Logger)) {
	logMu.RLock()
	defer logMu.RUnlock()
	if logReady {
		fn(&diagLog)
	}
}

func Trace(msg string) {
	emit(func(l *zerolog.Logger) { l.Trace().Msg(msg) })
}

func Tracef(format string, args ...any) {
	emit(func(l *zerolog.Logger) { l.Trace().Msg(fmt.Sprintf(format, args...)) })
}

func Debug(msg string) {
	emit(func(l *zerolog.Logger) { l.Debug().Msg(msg) })
}

func Debugf(format string, args ...any) {
	emit(func(l *zerolog.Logger) { l.Debug().Msg(fmt.Sprintf(format, args...)) })
}

func Info(msg string) {
	emit(func(l *zerolog.Logger) { l.Info().Msg(msg) })
}

func Infof(format string, args ...any) {
	emit(func(l *zerolog.Logger) { l.Info().Msg(fmt.Sprintf(format, args...)) })
}

func Error(msg string) {
	emit(func(l *zerolog.Logger) { l.Error().Msg(msg) })
}

func Errorf(format string, args ...any) {
	emit(func(l *zerolog.Logger) { l.Error().Msg(fmt.Sprintf(format, args...)) })
}

func Warn(msg string) {
	emit(func(l *zerolog.Logger) { l.Warn().Msg(msg) })
}

func Warnf(format string, args ...any) {
	emit(func(l *zerolog.Logger) { l.Warn().Msg(fmt.Sprintf(format, args...)) })
}

func Registered(id uint32, code, command string) {
	emit(func(l *zerolog.Logger) {
		l.Info().
			Uint32("id", id).
			Str("code", code).
			Str("command", command).
			Msg("hotkey_registered")
	})
}

func RegisterFailed(code string, err error) {
	emit(func(l *zerolog.Logger) {
		l.Warn().
			Str("code", code).
			Err(err).
			Msg("hotkey_register_failed")
	})
}

func CommandExit(command string, pid, exitCode int, elapsed time.Duration) {
	emit(func(l *zerolog.Logger) {
		ev := l.Info()
		if exitCode != 0 {
			ev = l.Warn()
		}
		ev.Str("command", command).
			Int("child_pid", pid).
			Int("exit_code", exitCode).
			Float64("elapsed_ms", float64(elapsed.Microseconds())/1000).
			Msg("command_exit")
	})
}

func SessionStart(version, config string, bindings int) {
	emit(func(l *zerolog.Logger) {
		l.Info().
			Str("version", version).
			Str("config", config).
			Int("bindings", bindings).
			Msg("session_start")
	})
}

func SessionEnd(dispatched int) {
	emit(func(l *zerolog.Logger) {
		l.Info().
			Int("dispatched", dispatched).
			Msg("session_end")
	})
}
