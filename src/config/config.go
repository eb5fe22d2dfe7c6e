package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/fastnode/sporknet/src/common"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Default filenames.
const (
	// DefaultKeyfile is the default name of the file containing the master
	// private key.
	DefaultKeyfile = "priv_key"

	// DefaultBadgerFile is the default name of the folder containing the Badger
	// database
	DefaultBadgerFile = "badger_db"

	// DefaultLogFile is the default name of the log file, when logging to a
	// file is enabled.
	DefaultLogFile = "sporknet.log"
)

// Default configuration values.
const (
	DefaultLogLevel         = "debug"
	DefaultNetwork          = "main"
	DefaultBindAddr         = "127.0.0.1:47352"
	DefaultServiceAddr      = "127.0.0.1:8000"
	DefaultTCPTimeout       = 1000 * time.Millisecond
	DefaultMaxPool          = 2
	DefaultStore            = false
	DefaultBanThreshold     = 100
	DefaultBanTime          = 24 * time.Hour
	DefaultSyncOnStart      = true
	DefaultReconsiderWindow = time.Duration(0)
)

// Config contains all the configuration properties of a node.
type Config struct {
	// DataDir is the top-level directory containing configuration and data
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, when set, is a file that receives a copy of the log output. The
	// file is rotated once it reaches 100MB.
	LogFile string `mapstructure:"log-file"`

	// Moniker defines the friendly name of this node
	Moniker string `mapstructure:"moniker"`

	// Network selects the network parameters: main, test or regtest.
	Network string `mapstructure:"network"`

	// BindAddr is the local address:port where this node exchanges sporks with
	// other nodes. Use AdvertiseAddr to advertise a different address when
	// BindAddr is not routable.
	BindAddr string `mapstructure:"listen"`

	// AdvertiseAddr is used to change the address that we advertise to other
	// nodes.
	AdvertiseAddr string `mapstructure:"advertise"`

	// TCPTimeout is the timeout of RPC connections.
	TCPTimeout time.Duration `mapstructure:"timeout"`

	// MaxPool controls how many connections are pooled per target.
	MaxPool int `mapstructure:"max-pool"`

	// Store activates persistent storage.
	Store bool `mapstructure:"store"`

	// DatabaseDir is the directory containing database files.
	DatabaseDir string `mapstructure:"db"`

	// SporkKey is the hex encoded public key of the spork authority. It
	// overrides the key of the network.
	SporkKey string `mapstructure:"spork-key"`

	// MasterKey is the path of a file containing the master private key. When
	// set, the node can publish sporks.
	MasterKey string `mapstructure:"master-key"`

	// MessageMagic is prepended to the messages signed by the authority.
	MessageMagic string `mapstructure:"message-magic"`

	// BanThreshold is the misbehaviour score at which a peer is banned. A
	// forged spork scores 100.
	BanThreshold int `mapstructure:"ban-threshold"`

	// BanTime is how long a peer stays banned.
	BanTime time.Duration `mapstructure:"ban-time"`

	// SyncOnStart makes the node request the sporks of all its peers when it
	// starts.
	SyncOnStart bool `mapstructure:"sync-on-start"`

	// ReconsiderWindow is passed to the block reconsideration hook after every
	// accepted spork. Zero disables the hook.
	ReconsiderWindow time.Duration `mapstructure:"reconsider-window"`

	// NoService disables the HTTP API service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the optional HTTP service.
	ServiceAddr string `mapstructure:"service-listen"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:          DefaultDataDir(),
		LogLevel:         DefaultLogLevel,
		Network:          DefaultNetwork,
		BindAddr:         DefaultBindAddr,
		ServiceAddr:      DefaultServiceAddr,
		TCPTimeout:       DefaultTCPTimeout,
		MaxPool:          DefaultMaxPool,
		Store:            DefaultStore,
		DatabaseDir:      DefaultDatabaseDir(),
		BanThreshold:     DefaultBanThreshold,
		BanTime:          DefaultBanTime,
		SyncOnStart:      DefaultSyncOnStart,
		ReconsiderWindow: DefaultReconsiderWindow,
	}
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level directory, and updates the database directory
// if it is currently set to the default value. If the database directory is not
// currently the default, it means the user has explicitely set it to something
// else, so avoid changing it again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// Keyfile returns the full path of the default master key file.
func (c *Config) Keyfile() string {
	return filepath.Join(c.DataDir, DefaultKeyfile)
}

// Logger returns a formatted logrus Entry, with prefix set to "sporknet".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogFile != "" {
			c.logger.Hooks.Add(newFileHook(c.LogFile))
		}
	}
	return c.logger.WithField("prefix", "sporknet")
}

// newFileHook copies every entry, at every level, to a rotated log file.
func newFileHook(path string) logrus.Hook {
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	writerMap := lfshook.WriterMap{}
	for _, level := range logrus.AllLevels {
		writerMap[level] = writer
	}

	return lfshook.NewHook(writerMap, &logrus.JSONFormatter{})
}

// DefaultDatabaseDir returns the default path for the badger database files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level config based
// on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Sporknet")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Sporknet")
		} else {
			return filepath.Join(home, ".sporknet")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
