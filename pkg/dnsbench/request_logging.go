package dnsbench

import (
	"time"

	"github.com/nsspam/nsspam/pkg/dnswire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newRequestLogger opens JSON logger appending to the file at path, returned function flushes and closes the file.
func newRequestLogger(path string) (*zap.Logger, func(), error) {
	sink, closeSink, err := zap.Open(path)
	if err != nil {
		return nil, nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	logger := zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, zap.InfoLevel))
	return logger, func() {
		_ = logger.Sync()
		closeSink()
	}, nil
}

func logRequest(logger *zap.Logger, workerID uint32, qname string, err error, dur time.Duration) {
	outcome := successOutcome
	if err != nil {
		outcome = failureKind(err).String()
	}
	logger.Info("query",
		zap.Uint32("worker", workerID),
		zap.Uint16("reqid", dnswire.QueryID),
		zap.String("qname", qname),
		zap.String("qtype", "A"),
		zap.String("outcome", outcome),
		zap.Error(err),
		zap.Duration("duration", dur),
	)
}
