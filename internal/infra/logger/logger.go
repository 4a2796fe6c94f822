// Package logger writes the structured devkit log under <root>/.devkit/logs.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	fileName = "devkit.log"

	// DefaultMaxBytes is the size at which Setup rotates devkit.log to devkit.log.1.
	DefaultMaxBytes int64 = 10 << 20

	masked = "********"
)

type Config struct {
	Root  string
	Debug bool

	// Secrets are replaced by a mask in every string or error attribute.
	Secrets []string
	// MaxBytes overrides DefaultMaxBytes; a negative value disables rotation.
	MaxBytes int64
}

var (
	mu       sync.RWMutex
	global   = discard()
	logFile  *os.File
	logPath  string
	initedAt time.Time
)

// Setup points the global logger at <root>/.devkit/logs/devkit.log, rotating
// the previous file once it grows past MaxBytes.
// The returned cleanup closes the file and restores the discard logger.
func Setup(cfg Config) (func() error, error) {
	root := "."
	if cfg.Root != "" {
		root = filepath.Clean(cfg.Root)
	}

	dir := filepath.Join(root, ".devkit", "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		setDiscard()
		return nil, err
	}

	path := filepath.Join(dir, fileName)
	rotated, err := rotate(path, cfg.MaxBytes)
	if err != nil {
		setDiscard()
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		setDiscard()
		return nil, err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	l := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:       level,
		AddSource:   cfg.Debug,
		ReplaceAttr: replaceAttr(newMasker(cfg.Secrets)),
	}))

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	initedAt = time.Now().UTC()
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug, "rotated", rotated)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		initedAt = time.Time{}
		global = discard()
		return cerr
	}

	return cleanup, nil
}

// rotate moves path to path.1 when it is larger than limit.
func rotate(path string, limit int64) (bool, error) {
	if limit == 0 {
		limit = DefaultMaxBytes
	}
	if limit < 0 {
		return false, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.Size() <= limit {
		return false, nil
	}
	if err := os.Rename(path, path+".1"); err != nil {
		return false, fmt.Errorf("rotate %s: %w", path, err)
	}
	return true, nil
}

// replaceAttr formats times as UTC RFC 3339, shortens "error" to "err" and
// masks secrets in string and error values.
func replaceAttr(mask func(string) string) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
			a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			return a
		}
		if a.Key == "error" {
			a.Key = "err"
		}

		switch a.Value.Kind() {
		case slog.KindString:
			a.Value = slog.StringValue(mask(a.Value.String()))
		case slog.KindAny:
			if err, ok := a.Value.Any().(error); ok {
				a.Value = slog.StringValue(mask(err.Error()))
			}
		}
		return a
	}
}

func newMasker(secrets []string) func(string) string {
	vals := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s = strings.TrimSpace(s); s != "" {
			vals = append(vals, s)
		}
	}
	// Longest first so a secret containing another is masked whole.
	sort.Slice(vals, func(i, j int) bool { return len(vals[i]) > len(vals[j]) })

	return func(s string) string {
		for _, v := range vals {
			s = strings.ReplaceAll(s, v, masked)
		}
		return s
	}
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func InitTime() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return initedAt
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setDiscard() {
	mu.Lock()
	defer mu.Unlock()
	global = discard()
	logFile = nil
	logPath = ""
	initedAt = time.Time{}
}

func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if logFile == nil || logPath == "" {
		return errors.New("logger not initialized")
	}
	return nil
}
