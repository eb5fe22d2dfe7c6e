package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fastnode/sporknet/src/engine"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//NewRunCmd returns the command that starts a sporknet node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run node",
		PreRunE: loadConfig,
		RunE:    runSporknet,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runSporknet(cmd *cobra.Command, args []string) error {
	engine := engine.NewEngine(_config)

	if err := engine.Init(); err != nil {
		_config.Logger().Error("Cannot initialize engine:", err)
		return err
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalCh
		_config.Logger().Info("Received an interrupt, shutting down")
		engine.Shutdown()
	}()

	engine.Run()

	return nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", _config.LogFile, "Also write logs, as JSON, to this rotated file")
	cmd.Flags().String("moniker", _config.Moniker, "Optional name")
	cmd.Flags().String("network", _config.Network, "main, test or regtest")

	// Network
	cmd.Flags().StringP("listen", "l", _config.BindAddr, "Listen IP:Port for sporknet node")
	cmd.Flags().StringP("advertise", "a", _config.AdvertiseAddr, "Advertise IP:Port for sporknet node")
	cmd.Flags().DurationP("timeout", "t", _config.TCPTimeout, "TCP Timeout")
	cmd.Flags().Int("max-pool", _config.MaxPool, "Connection pool size max")

	// Service
	cmd.Flags().StringP("service-listen", "s", _config.ServiceAddr, "Listen IP:Port for HTTP service")
	cmd.Flags().Bool("no-service", _config.NoService, "Disable HTTP service")

	// Store
	cmd.Flags().Bool("store", _config.Store, "Use badgerDB instead of in-mem DB")
	cmd.Flags().String("db", _config.DatabaseDir, "Dabatabase directory")

	// Sporks
	cmd.Flags().String("spork-key", _config.SporkKey, "Hex public key of the spork authority, overrides the network key")
	cmd.Flags().String("master-key", _config.MasterKey, "File containing the master private key, to publish sporks")
	cmd.Flags().String("message-magic", _config.MessageMagic, "Prefix of signed messages")
	cmd.Flags().Int("ban-threshold", _config.BanThreshold, "Misbehaviour score at which a peer is banned")
	cmd.Flags().Duration("ban-time", _config.BanTime, "How long a peer stays banned")
	cmd.Flags().Bool("sync-on-start", _config.SyncOnStart, "Request the sporks of all peers on start")
	cmd.Flags().Duration("reconsider-window", _config.ReconsiderWindow, "Window passed to the block reconsideration hook, 0 to disable")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.SetDataDir(_config.DataDir)

	logFields := logrus.Fields{
		"DataDir":          _config.DataDir,
		"Network":          _config.Network,
		"BindAddr":         _config.BindAddr,
		"AdvertiseAddr":    _config.AdvertiseAddr,
		"ServiceAddr":      _config.ServiceAddr,
		"NoService":        _config.NoService,
		"MaxPool":          _config.MaxPool,
		"Store":            _config.Store,
		"LogLevel":         _config.LogLevel,
		"LogFile":          _config.LogFile,
		"Moniker":          _config.Moniker,
		"TCPTimeout":       _config.TCPTimeout,
		"SporkKey":         _config.SporkKey,
		"MasterKey":        _config.MasterKey,
		"BanThreshold":     _config.BanThreshold,
		"BanTime":          _config.BanTime,
		"SyncOnStart":      _config.SyncOnStart,
		"ReconsiderWindow": _config.ReconsiderWindow,
	}

	if _config.Store {
		logFields["DatabaseDir"] = _config.DatabaseDir
	}

	_config.Logger().WithFields(logFields).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/sporknet.toml (.json, .yaml also work)
	viper.SetConfigName("sporknet")      // name of config file (without extension)
	viper.AddConfigPath(_config.DataDir) // search root directory

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Logger().Debugf("No config file found in: %s", _config.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}
