package observability

import (
	"fmt"
	"io"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOptions configures NewLogger
type LoggerOptions struct {
	Level  string
	Format string // json or console

	// File is the base path of an optional rotating log file. Rotated files are
	// named File.YYYYMMDDHHMM and File itself links to the current one.
	File         string
	MaxAge       time.Duration
	RotationTime time.Duration
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the service logger. Output always goes to stdout and is
// tee'd to a rotating file when opts.File is set. The returned closer
// releases the file sink and must be called after the final Sync.
func NewLogger(opts LoggerOptions) (*zap.Logger, io.Closer, error) {
	if opts.Level == "" {
		opts.Level = "info"
	}
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	var encoder zapcore.Encoder
	switch opts.Format {
	case "console":
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	case "", "json":
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rl, err := newRotatingFile(opts)
		if err != nil {
			return nil, nil, err
		}
		// Files are always JSON so they can be shipped as-is
		fileEncoderCfg := zap.NewProductionEncoderConfig()
		fileEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderCfg), zapcore.AddSync(rl), level))
		closer = rl
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, closer, nil
}

func newRotatingFile(opts LoggerOptions) (*rotatelogs.RotateLogs, error) {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	rotationTime := opts.RotationTime
	if rotationTime <= 0 {
		rotationTime = 24 * time.Hour
	}

	rl, err := rotatelogs.New(
		opts.File+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(opts.File),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(rotationTime),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
	}
	return rl, nil
}
