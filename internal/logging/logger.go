package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the JSON process logger. When logstashAddr is set every entry is
// also shipped to Logstash; the returned close func flushes and releases it.
func New(level, logstashAddr string) (*zap.Logger, func(), error) {
	lvl := zapcore.InfoLevel
	if strings.TrimSpace(level) != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, nil, fmt.Errorf("logging: invalid level %q: %w", level, err)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lvl),
	}

	var shipper *LogstashWriter
	if strings.TrimSpace(logstashAddr) != "" {
		w, err := NewLogstashWriter(logstashAddr)
		if err != nil {
			return nil, nil, err
		}
		shipper = w
		cores = append(cores, zapcore.NewCore(encoder.Clone(), w, lvl))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	closeFn := func() {
		_ = logger.Sync()
		if shipper != nil {
			_ = shipper.Close()
		}
	}
	return logger, closeFn, nil
}
