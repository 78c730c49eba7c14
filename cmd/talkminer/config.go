package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/talkcoin/talkminer/domain/blockheader"
	"github.com/talkcoin/talkminer/domain/pow"
	"github.com/talkcoin/talkminer/infrastructure/logger"
	"github.com/talkcoin/talkminer/version"
)

const (
	defaultLogFilename    = "talkminer.log"
	defaultErrLogFilename = "talkminer_err.log"
	defaultNonceStoreDir  = "nonces"
	defaultLogLevel       = "info"
	defaultChunkSize      = 1 << 20
)

var (
	// Default configuration options
	defaultAppDir = btcutil.AppDataDir("talkminer", false)
)

type configFlags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	AppDir      string `short:"b" long:"appdir" description:"Directory to store logs and search progress"`
	LogLevel    string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	Profile     string `long:"profile" description:"Enable HTTP profiling and metrics on given port -- NOTE port must be between 1024 and 65536"`

	Header       string `long:"header" description:"Hex-encoded 80-byte block header to search. If omitted, a header is built from --blockversion, --timestamp and --bits"`
	BlockVersion uint32 `long:"blockversion" description:"Version field of the built header"`
	Timestamp    uint32 `long:"timestamp" description:"Timestamp field of the built header"`
	Bits         uint32 `long:"bits" description:"Compact difficulty field of the built header"`

	Target     string  `long:"target" description:"Hex-encoded big-endian target"`
	Difficulty float64 `long:"difficulty" description:"Share difficulty to derive the target from"`
	UseBits    bool    `long:"usebits" description:"Derive the target from the header's compact difficulty field"`

	StartNonce uint32 `long:"startnonce" description:"The search starts with the nonce right after this one"`
	MaxNonce   uint32 `long:"maxnonce" description:"The last nonce to try"`
	ChunkSize  uint32 `long:"chunksize" description:"Number of nonces searched between progress checkpoints"`
	Resume     bool   `long:"resume" description:"Continue from the last recorded nonce of the same header and target, and record progress"`
	Validate   bool   `long:"validate" description:"Classify the header's digest against the target instead of searching"`
}

// config is the parsed command line with the header and target resolved.
type config struct {
	*configFlags
	header *blockheader.BlockHeader
	target *pow.Target
}

func (cfg *config) logFile() string {
	return filepath.Join(cfg.AppDir, defaultLogFilename)
}

func (cfg *config) errLogFile() string {
	return filepath.Join(cfg.AppDir, defaultErrLogFilename)
}

func (cfg *config) nonceStorePath() string {
	return filepath.Join(cfg.AppDir, defaultNonceStoreDir)
}

func defaultConfigFlags() *configFlags {
	return &configFlags{
		AppDir:       defaultAppDir,
		LogLevel:     defaultLogLevel,
		BlockVersion: 1,
		MaxNonce:     ^uint32(0),
		ChunkSize:    defaultChunkSize,
	}
}

func parseConfig(args []string) (*config, error) {
	cfgFlags := defaultConfigFlags()
	parser := flags.NewParser(cfgFlags, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.ParseArgs(args)

	// Show the version and exit if the version flag was specified.
	if cfgFlags.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	if err != nil {
		return nil, err
	}

	return resolveConfig(cfgFlags)
}

func resolveConfig(cfgFlags *configFlags) (*config, error) {
	cfg := &config{configFlags: cfgFlags}

	if cfg.Header != "" {
		header, err := blockheader.FromHex(cfg.Header)
		if err != nil {
			return nil, errors.Wrap(err, "invalid --header")
		}
		cfg.header = header
	} else {
		cfg.header = blockheader.New(cfg.BlockVersion, nil, nil, cfg.Timestamp, cfg.Bits, 0)
	}

	targetSources := 0
	if cfg.Target != "" {
		targetSources++
	}
	if cfg.Difficulty != 0 {
		targetSources++
	}
	if cfg.UseBits {
		targetSources++
	}
	if targetSources > 1 {
		return nil, errors.New("only one of --target, --difficulty and --usebits may be used")
	}

	var err error
	switch {
	case cfg.Target != "":
		cfg.target, err = pow.NewTargetFromHex(cfg.Target)
		if err != nil {
			return nil, errors.Wrap(err, "invalid --target")
		}
	case cfg.UseBits:
		cfg.target, err = pow.NewTargetFromCompact(cfg.header.Bits())
		if err != nil {
			return nil, errors.Wrap(err, "invalid header bits")
		}
	case cfg.Difficulty < 0:
		return nil, errors.Errorf("--difficulty must be positive, got %g", cfg.Difficulty)
	case cfg.Difficulty > 0:
		cfg.target = pow.NewTargetFromDifficulty(cfg.Difficulty)
	default:
		cfg.target = pow.NewTargetFromDifficulty(1)
	}

	if cfg.ChunkSize == 0 {
		return nil, errors.New("--chunksize must be greater than zero")
	}

	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return nil, errors.New("The profile port must be between 1024 and 65535")
		}
	}

	err = logger.ParseAndSetDebugLevels(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
