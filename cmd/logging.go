package cmd

import (
	"io"

	"github.com/nsspam/nsspam/pkg/dnsbench"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newFailureLogger(w io.Writer) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

// failureSink logs every failed query with the label of its failure kind.
func failureSink(logger *zap.Logger) dnsbench.FailureSink {
	return func(workerID uint32, qname string, err error) {
		kind, ok := dnsbench.FailureKindOf(err)
		if !ok {
			kind = dnsbench.FailureReceive
		}
		logger.Warn("query failed",
			zap.Uint32("worker", workerID),
			zap.String("qname", qname),
			zap.Stringer("failure", kind),
			zap.Error(err),
		)
	}
}
