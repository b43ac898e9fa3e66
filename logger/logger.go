package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
)

const (
	diodeSize         = 1024
	diodePollInterval = 15 * time.Millisecond
)

var (
	global     atomic.Pointer[zerolog.Logger] // global, shared logger.
	once       sync.Once                      // guards global.
	logFile    *os.File
	logfileErr error

	filesMu sync.Mutex
	files   []io.Closer // opened by New and NewThreadSafeLogger
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func dropped(missed int) {
	log.Printf("diode: dropped %d log messages", missed)
}

// New returns a logger writing to filename, and to stdout as well if console is set.
// An empty filename logs to stdout only.
func New(level, filename string, console bool) (zerolog.Logger, error) {
	w, lvl, err := open(level, filename, console)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// NewThreadSafeLogger is New with writes buffered through a diode, so slow writers never block callers.
// Messages are dropped rather than stalling when the buffer is full.
func NewThreadSafeLogger(level, filename string, console bool) (zerolog.Logger, error) {
	w, lvl, err := open(level, filename, console)
	if err != nil {
		return zerolog.Nop(), err
	}
	dw := diode.NewWriter(w, diodeSize, diodePollInterval, dropped)
	track(dw)
	return zerolog.New(dw).Level(lvl).With().Timestamp().Logger(), nil
}

// Close closes every writer opened by New and NewThreadSafeLogger.
func Close() error {
	filesMu.Lock()
	defer filesMu.Unlock()
	var firstErr error
	// diodes are tracked after their file and close it themselves once flushed.
	for i := len(files) - 1; i >= 0; i-- {
		if err := files[i].Close(); err != nil && !errors.Is(err, os.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	files = nil
	return firstErr
}

func track(c io.Closer) {
	filesMu.Lock()
	defer filesMu.Unlock()
	files = append(files, c)
}

func open(level, filename string, console bool) (io.Writer, zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, zerolog.NoLevel, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if filename == "" {
		return os.Stdout, lvl, nil
	}
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, zerolog.NoLevel, fmt.Errorf("open log file %s: %w", filename, err)
	}
	track(f)
	if console {
		return io.MultiWriter(f, os.Stdout), lvl, nil
	}
	return f, lvl, nil
}

// Logfile returns the log file for this instance of the program, if any.
// It is safe to call this function from multiple goroutines, but accesses to the file are not synchronized.
// You generally shouldn't use this function directly.
func Logfile() (*os.File, error) {
	initLogger()
	return logFile, logfileErr
}

func initLogger() {
	once.Do(func() {
		servicename := envOr("ORDER_UTILS_SERVICE_NAME", "order-utils")

		var w io.Writer
		var warn error

		// log both to a file ($ORDER_UTILS_LOG_DIR/<service_name>_<timestamp>.log) and to stdout.
		// if the file can't be created, log to stdout only and warn once the logger exists.
		dir := envOr("ORDER_UTILS_LOG_DIR", ".")
		if logfileErr = os.MkdirAll(dir, 0o755); logfileErr != nil {
			warn = logfileErr
			w = diode.NewWriter(os.Stdout, diodeSize, diodePollInterval, dropped)
		} else if logFile, logfileErr = os.Create(filepath.Join(dir, fmt.Sprintf("%s_%s.log", servicename, time.Now().Format(time.RFC3339)))); logfileErr != nil {
			warn = logfileErr
			w = diode.NewWriter(os.Stdout, diodeSize, diodePollInterval, dropped)
		} else {
			w = diode.NewWriter(io.MultiWriter(logFile, os.Stdout), diodeSize, diodePollInterval, dropped)
		}

		level, err := zerolog.ParseLevel(envOr("ORDER_UTILS_LOG_LEVEL", "info"))
		if err != nil {
			level = zerolog.InfoLevel
		}
		logger := zerolog.New(w).
			Level(level).
			With().
			Timestamp().
			Str("instance_id", must(uuid.NewV7()).String()).Str("service", servicename).
			Logger()
		if warn != nil {
			logger.Warn().Err(warn).Msg("logfile is not being used, check ORDER_UTILS_LOG_DIR")
		}

		// write debug logs that give metadata about this program and it's logger
		dbglogger := logger.With().
			Int("gomaxprocs", runtime.GOMAXPROCS(0)).
			Str("goarch", runtime.GOARCH).
			Str("goos", runtime.GOOS).
			Str("user", envOr("USER", "unknown")).
			Logger()

		info, ok := debug.ReadBuildInfo()
		if ok {
			dbglogger.Debug().Any("buildinfo", info).Msg("buildinfo dump")
		}
		dbglogger.Info().Msg("logger init")
		global.Store(&logger)
	})
}

// Global returns the global logger. This function initializes the logger exactly once.
// It is safe to call this function from multiple goroutines.
// The Global logger relies on the following environment variables:
//
//   - ORDER_UTILS_LOG_DIR: directory to write the log file to, defaults to the current directory.
//   - ORDER_UTILS_LOG_LEVEL: the log level, defaults to "info".
//   - ORDER_UTILS_SERVICE_NAME: the name of the service, defaults to "order-utils"
//   - USER: the user running the service, defaults to "unknown"
func Global() *zerolog.Logger {
	initLogger()
	return global.Load()
}

// Add fields to the global logger, thread-safe. Avoid this where possible, but sometimes it's handy.
func AddFieldsToGlobal(fields map[string]any) {
	for {
		old := Global()
		newentry := old.With()
		for k, v := range fields {
			newentry = newentry.Any(k, v)
		}
		new := newentry.Logger()

		if global.CompareAndSwap(old, &new) {
			return
		}
	}
}
