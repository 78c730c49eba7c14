package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// BackendLog is the logging backend used to create all subsystem loggers.
var BackendLog = NewBackend()

// SubsystemTags is an enum of all sub system tags
var SubsystemTags = struct {
	MINR,
	POWV,
	NSTR,
	PROF string
}{
	MINR: "MINR",
	POWV: "POWV",
	NSTR: "NSTR",
	PROF: "PROF",
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]*Logger{
	SubsystemTags.MINR: BackendLog.Logger(SubsystemTags.MINR),
	SubsystemTags.POWV: BackendLog.Logger(SubsystemTags.POWV),
	SubsystemTags.NSTR: BackendLog.Logger(SubsystemTags.NSTR),
	SubsystemTags.PROF: BackendLog.Logger(SubsystemTags.PROF),
}

// InitLog attaches log file and error log file to the backend log, mirrors
// everything from info up to stdout and starts the backend.
func InitLog(logFile, errLogFile string) {
	err := BackendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", logFile, LevelTrace, err)
		os.Exit(1)
	}
	err = BackendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", errLogFile, LevelWarn, err)
		os.Exit(1)
	}
	err = BackendLog.AddStdout(LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding stdout to the logger for level %s: %s", LevelInfo, err)
		os.Exit(1)
	}
	err = BackendLog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the logger: %s ", err)
		os.Exit(1)
	}
}

// SetLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored. Uninitialized subsystems are dynamically created as
// needed.
func SetLogLevel(subsystemID string, logLevel string) {
	// Ignore invalid subsystems.
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level. It also dynamically creates the subsystem loggers as needed, so it
// can be used to initialize the logging system.
func SetLogLevels(logLevel string) {
	// Configure all sub-systems with the new logging level. Dynamically
	// create loggers as needed.
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	// Convert the subsystemLoggers map keys to a slice.
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}

	// Sort the subsystems for stable display.
	sort.Strings(subsystems)
	return subsystems
}

// Get returns a logger of a specific sub system
func Get(tag string) (logger *Logger, ok bool) {
	logger, ok = subsystemLoggers[tag]
	return
}

// ParseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid.
func ParseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if _, ok := LevelFromString(debugLevel); !ok {
			return errors.Errorf("the specified debug level [%s] is invalid -- "+
				"supported levels %s", debugLevel, strings.Join(LevelNames(), ", "))
		}

		// Change the logging level for all subsystems.
		SetLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return errors.Errorf("the specified debug level contains an "+
				"invalid subsystem/level pair [%s]", logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := Get(subsysID); !exists {
			return errors.Errorf("the specified subsystem [%s] is invalid -- "+
				"supported subsystems %s", subsysID, strings.Join(SupportedSubsystems(), ", "))
		}

		// Validate log level.
		if _, ok := LevelFromString(logLevel); !ok {
			return errors.Errorf("the specified debug level [%s] is invalid -- "+
				"supported levels %s", logLevel, strings.Join(LevelNames(), ", "))
		}

		SetLogLevel(subsysID, logLevel)
	}

	return nil
}
