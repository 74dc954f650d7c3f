package utils

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	// Config settings
	ConfigFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Json configuration file",
	}

	// General settings
	DataDirFlag = DirectoryFlag{
		Name:  "datadir",
		Usage: "Directory for the block store and logs",
	}
	TestNetFlag = cli.BoolFlag{
		Name:  "testnet",
		Usage: "Use the testnet data directory",
	}

	// Wallet
	WalletFileFlag = DirectoryFlag{
		Name:  "wallet-file",
		Usage: "Wallet file, relative to the datadir unless absolute",
	}
	PasswordFlag = cli.StringFlag{
		Name:   "password",
		Usage:  "Wallet password (prompted on a terminal when unset)",
		EnvVar: "WALLETD_PASSWORD",
	}
	NewPasswordFlag = cli.StringFlag{
		Name:   "new-password",
		Usage:  "New wallet password for set-password (prompted on a terminal when unset)",
		EnvVar: "WALLETD_NEW_PASSWORD",
	}
	LightScryptFlag = cli.BoolFlag{
		Name:  "light-scrypt",
		Usage: "Use light scrypt parameters for new wallet files",
	}

	// HTTP RPC
	RPCListenAddrFlag = cli.StringFlag{
		Name:  "rpcaddr",
		Usage: "HTTP-RPC server listening address",
	}
	RPCCorsFlag = cli.StringSliceFlag{
		Name:  "rpccorsdomain",
		Usage: "Domains from which to accept cross origin requests",
	}

	// Log
	LogLvlFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "log level (trace, debug, info, warn, error, crit)",
	}
	LogFileFlag = cli.StringFlag{
		Name:  "logfile",
		Usage: "Rotating log file, relative to the datadir log directory",
	}
)

func MergeFlags(flagsSet ...[]cli.Flag) []cli.Flag {
	mergeFlags := []cli.Flag{}
	for _, flags := range flagsSet {
		mergeFlags = append(mergeFlags, flags...)
	}
	return mergeFlags
}

// MigrateFlags copies flags set on a subcommand into the global set, so
// actions read every flag through ctx.Global*.
func MigrateFlags(action func(ctx *cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		for _, name := range ctx.FlagNames() {
			if ctx.IsSet(name) {
				ctx.GlobalSet(name, ctx.String(name))
			}
		}
		return action(ctx)
	}
}
