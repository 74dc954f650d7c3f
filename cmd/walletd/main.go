package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-walletd/cmd/utils"
)

// walletd serves a wallet file over JSON-RPC

const version = "1.0.0"

var (
	logger = log.New("module", "walletd/main")

	app = cli.NewApp()

	//config
	configFlags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.DataDirFlag,
		utils.TestNetFlag,
	}

	//wallet
	walletFlags = []cli.Flag{
		utils.WalletFileFlag,
		utils.PasswordFlag,
		utils.LightScryptFlag,
	}
	passwordChangeFlags = []cli.Flag{
		utils.NewPasswordFlag,
	}

	//HTTP RPC
	httpFlags = []cli.Flag{
		utils.RPCListenAddrFlag,
		utils.RPCCorsFlag,
	}

	//Log
	logFlags = []cli.Flag{
		utils.LogLvlFlag,
		utils.LogFileFlag,
	}
)

func init() {
	app.Name = filepath.Base(os.Args[0])
	app.Version = version
	app.Usage = "wallet daemon serving a wallet file over JSON-RPC"

	app.Commands = []cli.Command{
		createCommand,
		mnemonicCommand,
		exportViewOnlyCommand,
		setPasswordCommand,
		exportBlocksCommand,
		importBlocksCommand,
		dumpConfigCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Flags = utils.MergeFlags(configFlags, walletFlags, passwordChangeFlags, httpFlags, logFlags)

	app.Before = beforeAction
	app.Action = runAction
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func beforeAction(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	utils.SetupLogging(cfg)
	return nil
}
