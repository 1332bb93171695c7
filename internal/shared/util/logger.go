package util

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured lines tagged with the calling instance, such as
// "CollectionService.Accept".
type Logger struct {
	z *zap.Logger
}

// New builds a JSON production logger, or a coloured console logger when
// APP_ENV=local.
func New() *Logger {
	var (
		z   *zap.Logger
		err error
	)

	if os.Getenv("APP_ENV") == "local" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		z, err = cfg.Build(zap.AddCallerSkip(1))
	} else {
		z, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		z = zap.NewNop()
	}

	return &Logger{z: z}
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) Sync() {
	_ = l.z.Sync()
}

func (l *Logger) Info(instance, message string) {
	l.z.Info(message, zap.String("instance", instance))
}

func (l *Logger) Warn(instance, message string) {
	l.z.Warn(message, zap.String("instance", instance))
}

func (l *Logger) Error(instance string, err error) {
	l.z.Error(err.Error(), zap.String("instance", instance))
}

func (l *Logger) Fatal(instance string, err error) {
	l.z.Fatal(err.Error(), zap.String("instance", instance))
}

func (l *Logger) OK(instance, message string) {
	l.z.Info(message, zap.String("instance", instance), zap.Bool("ok", true))
}

// HTTP logs one access line; the level follows the status class.
func (l *Logger) HTTP(status int, elapsed time.Duration, host, method, path string) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
		zap.String("host", host),
		zap.String("method", method),
		zap.String("path", path),
	}

	switch {
	case status >= 500:
		l.z.Error("http", fields...)
	case status >= 400:
		l.z.Warn("http", fields...)
	default:
		l.z.Info("http", fields...)
	}
}
