package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger: a console core on stderr at the configured
// level, plus a debug-level JSON core appending to <logsDir>/app.log. An
// empty logsDir or an unwritable log file degrades to console-only.
func New(level, logsDir string) (*zap.Logger, error) {
	consoleLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), consoleLevel),
	}

	if logsDir != "" {
		if file, ferr := openLogFile(logsDir); ferr != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", ferr)
		} else {
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zapcore.DebugLevel))
		}
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "app.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
