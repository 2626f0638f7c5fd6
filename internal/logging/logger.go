// Package logging provides category-scoped structured logging for the
// converter and loader. A single zap root logger is built at startup and each
// subsystem logs through a named child of it.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot        Category = "boot"        // CLI start-up, config
	CategoryRead        Category = "read"        // CSV decoding, header normalisation
	CategoryConvert     Category = "convert"     // Row to place conversion
	CategoryGeometry    Category = "geometry"    // GeoJSON parsing and validation
	CategoryReferences  Category = "references"  // Citation matching and mining
	CategoryConnections Category = "connections" // Connection target resolution
	CategoryLoad        Category = "load"        // Content store loading
	CategoryStore       Category = "store"       // SQLite content store
)

// Config configures the root logger.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console, json
	File   string // optional extra output path
}

var (
	root   *zap.Logger
	rootMu sync.RWMutex
	level  = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

// ParseLevel parses a case-insensitive level name.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning", "":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.WarnLevel, fmt.Errorf("unknown log level %q (valid: debug, info, warning, error)", s)
}

// Initialize builds the root logger. It may be called again to reconfigure.
func Initialize(cfg Config) error {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch cfg.Format {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console", "":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return fmt.Errorf("unknown log format %q (valid: console, json)", cfg.Format)
	}

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, zapcore.AddSync(f))
	}

	SetLogger(zap.New(zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), level)))
	Get(CategoryBoot).Debugf("logging initialised (level=%s format=%s file=%q)", lvl, cfg.Format, cfg.File)
	return nil
}

// SetLogger replaces the root logger. Tests use it with zaptest/observer cores.
func SetLogger(l *zap.Logger) {
	rootMu.Lock()
	defer rootMu.Unlock()
	root = l
}

// Get returns a sugared logger for the given category.
// Returns a no-op logger if Initialize has not been called.
func Get(category Category) *zap.SugaredLogger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	if root == nil {
		return zap.NewNop().Sugar()
	}
	return root.Named(string(category)).Sugar()
}

// Sync flushes buffered log entries (call at shutdown)
func Sync() {
	rootMu.RLock()
	defer rootMu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Infof(format, args...)
}

// Read logs to the read category
func Read(format string, args ...interface{}) {
	Get(CategoryRead).Infof(format, args...)
}

// ReadDebug logs debug to the read category
func ReadDebug(format string, args ...interface{}) {
	Get(CategoryRead).Debugf(format, args...)
}

// Convert logs to the convert category
func Convert(format string, args ...interface{}) {
	Get(CategoryConvert).Infof(format, args...)
}

// ConvertDebug logs debug to the convert category
func ConvertDebug(format string, args ...interface{}) {
	Get(CategoryConvert).Debugf(format, args...)
}

// Geometry logs to the geometry category
func Geometry(format string, args ...interface{}) {
	Get(CategoryGeometry).Infof(format, args...)
}

// References logs to the references category
func References(format string, args ...interface{}) {
	Get(CategoryReferences).Infof(format, args...)
}

// ReferencesDebug logs debug to the references category
func ReferencesDebug(format string, args ...interface{}) {
	Get(CategoryReferences).Debugf(format, args...)
}

// ConnectionsDebug logs debug to the connections category
func ConnectionsDebug(format string, args ...interface{}) {
	Get(CategoryConnections).Debugf(format, args...)
}

// Load logs to the load category
func Load(format string, args ...interface{}) {
	Get(CategoryLoad).Infof(format, args...)
}

// Store logs to the store category
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Infof(format, args...)
}

// StoreDebug logs debug to the store category
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debugf(format, args...)
}
