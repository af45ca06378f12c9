// Package debuglog provides the diagnostic log. Failures the UI swallows
// (reverted optimistic updates, degraded loads) land here instead of on
// screen. Disabled unless debug mode is on, in which case entries go to
// ~/.config/vantage/logs/debug.log.
package debuglog

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vantage/internal/appconfig"
	"vantage/internal/authstore"
)

// New returns a logger according to the debug setting. When debug mode is
// off, or the log file cannot be opened, it returns a no-op logger.
func New() *zap.Logger {
	if !appconfig.DebugEnabled() {
		return zap.NewNop()
	}
	return newFileLogger()
}

func newFileLogger() *zap.Logger {
	dir, err := authstore.ConfigDir()
	if err != nil {
		return zap.NewNop()
	}
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return zap.NewNop()
	}
	f, err := os.OpenFile(filepath.Join(logDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return zap.NewNop()
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(f),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}
