package logger

import "strings"

// Level is the minimum severity a logger or an output writes. Messages below
// it are dropped.
type Level uint32

// Severity levels, from the most verbose to LevelOff which disables output.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

// levelNames holds, per level, the tag printed in log lines followed by the
// long name accepted on the command line.
var levelNames = [...][2]string{
	LevelTrace:    {"TRC", "trace"},
	LevelDebug:    {"DBG", "debug"},
	LevelInfo:     {"INF", "info"},
	LevelWarn:     {"WRN", "warn"},
	LevelError:    {"ERR", "error"},
	LevelCritical: {"CRT", "critical"},
	LevelOff:      {"OFF", "off"},
}

// LevelFromString parses either the long name or the tag of a level, case
// insensitively. Unknown input yields LevelInfo and false.
func LevelFromString(s string) (Level, bool) {
	s = strings.ToLower(s)
	for level, names := range levelNames {
		if s == names[1] || s == strings.ToLower(names[0]) {
			return Level(level), true
		}
	}
	return LevelInfo, false
}

// LevelNames returns the long names of all levels, for help and error text.
func LevelNames() []string {
	names := make([]string, len(levelNames))
	for level := range levelNames {
		names[level] = levelNames[level][1]
	}
	return names
}

// String returns the tag printed in log lines.
func (l Level) String() string {
	if l >= LevelOff {
		return levelNames[LevelOff][0]
	}
	return levelNames[l][0]
}
