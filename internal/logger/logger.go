package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

// Setup initializes Logrus with file rotation. The billing service logs every
// submission, upload and broadcast through the standard logger, so this must
// run before anything else touches logrus.
func Setup() {
	rotator := &lumberjack.Logger{
		Filename:   logFile(),
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	}

	out := io.Writer(rotator)
	if os.Getenv("LOG_STDOUT") != "" {
		// Mirror to stdout for local development and docker logs.
		out = io.MultiWriter(rotator, os.Stdout)
	}

	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.SetLevel(logrus.DebugLevel)
}

func logFile() string {
	if v := os.Getenv("LOG_FILE"); v != "" {
		return v
	}
	return "./logs/app.log"
}
