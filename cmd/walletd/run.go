package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-walletd/chain_db"
	"github.com/vitelabs/go-walletd/cmd/utils"
	"github.com/vitelabs/go-walletd/config"
	"github.com/vitelabs/go-walletd/rpcapi"
	"github.com/vitelabs/go-walletd/wallet"
)

const (
	shutdownTimeout  = 10 * time.Second
	autosaveSchedule = "@every 5m"
)

func runAction(ctx *cli.Context) error {
	//Make sure No subCommands were entered,Only the flags
	if args := ctx.Args(); len(args) > 0 {
		return fmt.Errorf("invalid command: %q", args[0])
	}

	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	w, err := openWallet(ctx, cfg)
	if err != nil {
		return err
	}
	chainDb, err := chain_db.NewChainDb(cfg.ChainDir())
	if err != nil {
		return err
	}
	defer chainDb.Close()

	server := rpcapi.NewServer(rpcapi.NewWalletRegistry(w, chainDb), cfg.CORSOrigins)
	if err := server.Start(cfg.BindAddress); err != nil {
		return errors.Wrap(err, "start rpc server")
	}
	autosave := cron.New()
	if err := autosave.AddFunc(autosaveSchedule, func() {
		if err := w.Save(); err != nil {
			logger.Error("autosave wallet failed", "err", err)
		}
	}); err != nil {
		return err
	}
	autosave.Start()

	logger.Info("walletd started", "wallet", w.Path(), "rpc", server.Addr(), "cache", w.CacheName())

	utils.WaitForInterrupt(func() {
		autosave.Stop()
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(stopCtx); err != nil {
			logger.Error("rpc server shutdown failed", "err", err)
		}
		if err := w.Save(); err != nil {
			logger.Error("save wallet failed", "err", err)
		}
	})
	return nil
}

func requireWalletFile(cfg *config.Config) (string, error) {
	path := cfg.WalletPath()
	if path == "" {
		return "", fmt.Errorf("no wallet file, use --%s", utils.WalletFileFlag.Name)
	}
	return path, nil
}

func openWallet(ctx *cli.Context, cfg *config.Config) (*wallet.Wallet, error) {
	path, err := requireWalletFile(cfg)
	if err != nil {
		return nil, err
	}
	password, err := utils.ReadPassword(ctx, "Wallet password: ", false)
	if err != nil {
		return nil, err
	}
	return wallet.Open(path, password)
}
