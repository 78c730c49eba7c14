package logger

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type logEntry struct {
	log   []byte
	level Level
}

// Logger is a subsystem logger for a Backend.
type Logger struct {
	lvl Level // atomic
	tag string
	b   *Backend
}

// Trace formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelTrace.
func (l *Logger) Trace(args ...interface{}) {
	l.Write(LevelTrace, args...)
}

// Tracef formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.Writef(LevelTrace, format, args...)
}

// Debug formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelDebug.
func (l *Logger) Debug(args ...interface{}) {
	l.Write(LevelDebug, args...)
}

// Debugf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Writef(LevelDebug, format, args...)
}

// Info formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelInfo.
func (l *Logger) Info(args ...interface{}) {
	l.Write(LevelInfo, args...)
}

// Infof formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Writef(LevelInfo, format, args...)
}

// Warn formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelWarn.
func (l *Logger) Warn(args ...interface{}) {
	l.Write(LevelWarn, args...)
}

// Warnf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Writef(LevelWarn, format, args...)
}

// Error formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelError.
func (l *Logger) Error(args ...interface{}) {
	l.Write(LevelError, args...)
}

// Errorf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Writef(LevelError, format, args...)
}

// Critical formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelCritical.
func (l *Logger) Critical(args ...interface{}) {
	l.Write(LevelCritical, args...)
}

// Criticalf formats message according to format specifier, prepends the prefix
// as necessary, and writes to log with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.Writef(LevelCritical, format, args...)
}

// Write formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with the given logLevel.
func (l *Logger) Write(logLevel Level, args ...interface{}) {
	if l.Level() <= logLevel {
		l.print(logLevel, fmt.Sprint(args...))
	}
}

// Writef formats message according to format specifier, prepends the prefix
// as necessary, and writes to log with the given logLevel.
func (l *Logger) Writef(logLevel Level, format string, args ...interface{}) {
	if l.Level() <= logLevel {
		l.print(logLevel, fmt.Sprintf(format, args...))
	}
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32((*uint32)(&l.lvl)))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32((*uint32)(&l.lvl), uint32(level))
}

// Backend returns the log backend
func (l *Logger) Backend() *Backend {
	return l.b
}

// print drops the message if the backend isn't running, so packages can log
// freely from tests and tools that never start one.
func (l *Logger) print(level Level, message string) {
	if !l.b.IsRunning() {
		return
	}
	now := time.Now()

	var file string
	var line int
	if l.b.flag&(LogFlagShortFile|LogFlagLongFile) != 0 {
		file, line = callsite(l.b.flag)
	}

	buf := make([]byte, 0, normalLogSize)
	buf = formatHeader(buf, now, level.String(), l.tag, file, line)
	buf = append(buf, message...)
	if len(message) == 0 || message[len(message)-1] != '\n' {
		buf = append(buf, '\n')
	}
	l.b.write(logEntry{log: buf, level: level})
}

const normalLogSize = 512

// callsite returns the file name and line number of the callsite to the
// subsystem logger.
func callsite(flag uint32) (string, int) {
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "???", 0
	}
	if flag&LogFlagShortFile != 0 {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if os.IsPathSeparator(file[i]) {
				short = file[i+1:]
				break
			}
		}
		file = short
	}
	return file, line
}

// formatHeader appends "2006-01-02 15:04:05.000 [LVL] TAG: " (and the callsite
// when requested) to buf.
func formatHeader(buf []byte, t time.Time, lvl, tag string, file string, line int) []byte {
	var header bytes.Buffer
	header.WriteString(t.Format("2006-01-02 15:04:05.000"))
	header.WriteString(" [")
	header.WriteString(lvl)
	header.WriteString("] ")
	header.WriteString(tag)
	if file != "" {
		header.WriteString(" ")
		header.WriteString(strings.TrimSpace(file))
		header.WriteString(fmt.Sprintf(":%d", line))
	}
	header.WriteString(": ")
	return append(buf, header.Bytes()...)
}
