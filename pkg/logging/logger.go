package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// global is the process-wide logger every subsystem shares. relcore has
// no per-request or per-transaction scope to hang a logger off (spec.md
// §5: Execute runs one statement to completion before the next begins),
// so unlike a server that logs per-connection, one *slog.Logger for the
// whole process is enough.
var (
	global  *slog.Logger
	logFile *os.File
	mu      sync.RWMutex
	started bool
	lazy    sync.Once
)

// Config configures Init. relcore's logs are read by a developer running
// cmd/catalog-inspect or a test failure, not shipped to a log aggregator,
// so there is no JSON-vs-text knob here the way a server-facing package
// would have: output is always slog's text handler, and the only choices
// are verbosity and destination.
type Config struct {
	Level  slog.Level
	Output string // empty means stdout
}

// Init installs the process-wide logger. Call it once at startup, before
// any goroutine that might call GetLogger is spawned. A second call
// without an intervening Close returns an error rather than silently
// reinitializing, since that would mean two entrypoints are racing to
// pick the log destination.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if started {
		return fmt.Errorf("logging: already initialized; call Close first")
	}

	w := os.Stdout
	if cfg.Output != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o750); err != nil {
			return fmt.Errorf("logging: %w", err)
		}
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("logging: %w", err)
		}
		w, logFile = f, f
	}

	global = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level}))
	started = true
	return nil
}

// Close releases the log file Init opened, if any, and clears the
// installed logger so a later Init call can run again. Safe to call more
// than once.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if !started {
		return nil
	}

	var err error
	if logFile != nil {
		err = logFile.Close()
		logFile = nil
	}

	global = nil
	started = false
	lazy = sync.Once{}
	return err
}

// GetLogger returns the installed logger. If nothing has called Init,
// it lazily installs a stdout logger at slog.LevelInfo the first time
// GetLogger is called, via sync.Once, so packages that log during their
// own package-level init (or in tests, which never call Init) still get
// a non-nil logger.
func GetLogger() *slog.Logger {
	mu.RLock()
	if started {
		l := global
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	lazy.Do(func() {
		mu.Lock()
		if !started {
			global = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
			started = true
		}
		mu.Unlock()
	})

	mu.RLock()
	l := global
	mu.RUnlock()
	return l
}
