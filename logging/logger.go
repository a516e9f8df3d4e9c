package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the global logrus instance shared by every package.
var Logger = logrus.New()

var once sync.Once

// CustomFormatter implements logrus.Formatter for the audit-style log format
// used across the project: date, time, source system, level, event id, message.
type CustomFormatter struct {
	SystemName string
}

// Format generates the output line for a log entry.
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	localTime := entry.Time.Local()

	b.WriteString(fmt.Sprintf("Date: %s, Time: %s, ", localTime.Format("2006-01-02"), localTime.Format("15:04:05")))
	b.WriteString(fmt.Sprintf("Event Source: %s, ", f.SystemName))
	b.WriteString(fmt.Sprintf("Event Type: %s, ", strings.ToUpper(entry.Level.String())))
	b.WriteString(fmt.Sprintf("Event ID: %s, ", uuid.New().String()))
	b.WriteString(fmt.Sprintf("Message: %s,", entry.Message))

	if entry.HasCaller() {
		b.WriteString(fmt.Sprintf(" Location: %s:%d in %s", entry.Caller.File, entry.Caller.Line, entry.Caller.Function))
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}

// InitLogger initializes the global logger once. Output rotates through
// lumberjack under dir; when the directory cannot be created the logger falls
// back to stderr so the client keeps working without a log file.
func InitLogger(systemName, dir string) {
	once.Do(func() {
		logToFile := true
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0700); err != nil {
				logToFile = false
				Logger.SetOutput(os.Stderr)
				Logger.Warnf("Event ID: LOG_DIR_CREATE_FAILED, Description: Failed to create log directory %s, logging to stderr: %v", dir, err)
			}
		}

		if logToFile {
			logFile := &lumberjack.Logger{
				Filename:   dir + "/" + systemName + ".log",
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			Logger.SetOutput(logFile)
		}

		Logger.SetFormatter(&CustomFormatter{SystemName: systemName})
		Logger.SetLevel(logrus.InfoLevel)
		Logger.SetReportCaller(true)

		Logger.Infof("Event ID: LOGGER_INITIALIZED, Description: Logger initialized for %s", systemName)
	})
}

// Silence sends all log output to io.Discard; tests use this to keep output quiet.
func Silence() {
	Logger.SetOutput(io.Discard)
	Logger.SetReportCaller(false)
}
