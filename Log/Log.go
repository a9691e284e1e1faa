package Log

import (
	"math/rand"
	"time"

	"PBFTSim/ID"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerInit 定制节点logger，loglevel 0: info, 1: debug
func LoggerInit(loglevel int, nodeId ID.NodeID) *zap.SugaredLogger {

	var level zap.AtomicLevel
	switch loglevel {
	case 0:
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case 1:
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	initialFields := make(map[string]interface{})
	initialFields["NodeID"] = nodeId.String()

	logConfig := zap.Config{
		Level:             level,
		Development:       true,
		DisableCaller:     true,
		DisableStacktrace: true,
		Sampling:          nil,
		Encoding:          "console",
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     initialFields,
	}

	logger, _ := logConfig.Build()

	return logger.Sugar()

}

// FileLoggerInit 日志写入文件的logger，fileName为空时回退到stderr
func FileLoggerInit(loglevel int, nodeId ID.NodeID, fileName string) *zap.SugaredLogger {

	if fileName == "" {
		return LoggerInit(loglevel, nodeId)
	}

	var level zapcore.Level
	switch loglevel {
	case 0:
		level = zapcore.InfoLevel
	case 1:
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(getEncoder(), getLogWriter(fileName), level)
	logger := zap.New(core).With(zap.String("NodeID", nodeId.String()))

	return logger.Sugar()

}

func getEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
}

func getLogWriter(fileName string) zapcore.WriteSyncer {

	file := "./" + fileName + ".log"
	//日志分割
	lumberJackLogger := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   false,
	}

	return zapcore.AddSync(lumberJackLogger)

}

// Random 根据区间产生随机数
func Random(min, max int) int {
	if min == max {
		return max
	} else {
		rand.Seed(time.Now().UnixNano())
		return rand.Intn(max-min) + min
	}
}
