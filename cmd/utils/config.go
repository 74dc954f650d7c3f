package utils

import (
	"os"
	"path/filepath"

	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-walletd/common"
	"github.com/vitelabs/go-walletd/config"
)

// MakeConfig loads the config file, when one is given or present in the
// data directory, and applies command line flags over it.
func MakeConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	// 1: Read the config file
	file := ctx.GlobalString(ConfigFileFlag.Name)
	if file == "" {
		candidate := filepath.Join(dataDir(ctx, cfg), config.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			file = candidate
		}
	}
	if file != "" {
		loaded, err := config.Load(file)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// 2: Apply flags, overwriting the configuration file
	mappingConfig(ctx, cfg)
	return cfg, nil
}

func dataDir(ctx *cli.Context, cfg *config.Config) string {
	if dir := ctx.GlobalString(DataDirFlag.Name); dir != "" {
		return dir
	}
	if ctx.GlobalBool(TestNetFlag.Name) {
		return common.DefaultDataDir(true)
	}
	return cfg.DataDir
}

func mappingConfig(ctx *cli.Context, cfg *config.Config) {
	if ctx.GlobalIsSet(TestNetFlag.Name) {
		cfg.Testnet = ctx.GlobalBool(TestNetFlag.Name)
		if cfg.Testnet && cfg.DataDir == common.DefaultDataDir(false) {
			cfg.DataDir = common.DefaultDataDir(true)
		}
	}
	if dir := ctx.GlobalString(DataDirFlag.Name); len(dir) > 0 {
		cfg.DataDir = dir
	}
	if file := ctx.GlobalString(WalletFileFlag.Name); len(file) > 0 {
		cfg.WalletFile = file
	}
	if ctx.GlobalIsSet(LightScryptFlag.Name) {
		cfg.LightScrypt = ctx.GlobalBool(LightScryptFlag.Name)
	}
	if addr := ctx.GlobalString(RPCListenAddrFlag.Name); len(addr) > 0 {
		cfg.BindAddress = addr
	}
	if origins := ctx.GlobalStringSlice(RPCCorsFlag.Name); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	if lvl := ctx.GlobalString(LogLvlFlag.Name); len(lvl) > 0 {
		cfg.LogLevel = lvl
	}
	if file := ctx.GlobalString(LogFileFlag.Name); len(file) > 0 {
		cfg.LogFile = file
	}
}

// SetupLogging routes logs per cfg. Relative log files go under the data
// directory.
func SetupLogging(cfg *config.Config) {
	logFile := cfg.LogFile
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(cfg.LogDir(), logFile)
	}
	common.SetupLogging(cfg.LogLevel, logFile)
}
