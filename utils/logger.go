package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
}

func InitLogger() *Logger {
	logger := logrus.New()

	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   false,
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	return &Logger{logger}
}

// SetLevelFromString applies a textual level ("debug", "info", ...). Unknown
// values leave the current level untouched.
func (l *Logger) SetLevelFromString(level string) {
	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.Warnf("Unknown log level %q, keeping %s", level, l.GetLevel())
		return
	}
	l.SetLevel(lvl)
}
