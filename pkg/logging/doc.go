// Package logging provides a process-wide structured logger for the
// catalog and executor.
//
// The package wraps [log/slog] and exposes a single global logger instance
// that is initialized once and then retrieved via GetLogger. All subsystems
// should obtain a logger through this package rather than constructing their
// own slog.Logger values, so that log level and output destination are
// controlled from a single place.
//
// # Initialisation
//
// Call Init once at program startup, before any goroutines that might call
// GetLogger are spawned:
//
//	if err := logging.Init(logging.Config{Level: slog.LevelDebug}); err != nil {
//	    log.Fatal(err)
//	}
//
// If Init is never called, GetLogger installs an INFO-level stdout logger
// itself the first time it's called, so packages that log during init (or
// tests, which never call Init) still get a usable logger.
//
// # Retrieving the logger
//
//	logger := logging.GetLogger()
//	logger.Info("catalog bootstrapped")
//
// # Context helpers
//
// Several helpers return child loggers pre-populated with structured fields,
// reducing repetition in hot paths:
//
//	log := logging.WithTable(name)     // adds table field
//	log := logging.WithIndex(name)     // adds index field
//	log := logging.WithComponent(name) // adds component field
//	log := logging.WithError(err)      // adds error field
package logging
