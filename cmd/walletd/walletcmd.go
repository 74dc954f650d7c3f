package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-walletd/chain_db"
	"github.com/vitelabs/go-walletd/cmd/utils"
	"github.com/vitelabs/go-walletd/seria"
	"github.com/vitelabs/go-walletd/wallet"
)

var (
	createCommand = cli.Command{
		Action:    utils.MigrateFlags(createAction),
		Name:      "create",
		Usage:     "Create a new wallet file",
		ArgsUsage: "[mnemonic words...]",
		Flags:     utils.MergeFlags(configFlags, walletFlags),
		Category:  "WALLET COMMANDS",
		Description: `
Creates the wallet file with fresh entropy, or restores it from the given
mnemonic words.`,
	}
	mnemonicCommand = cli.Command{
		Action:   utils.MigrateFlags(mnemonicAction),
		Name:     "show-mnemonic",
		Usage:    "Print the mnemonic of the wallet",
		Flags:    utils.MergeFlags(configFlags, walletFlags),
		Category: "WALLET COMMANDS",
	}
	exportViewOnlyCommand = cli.Command{
		Action:    utils.MigrateFlags(exportViewOnlyAction),
		Name:      "export-view-only",
		Usage:     "Write a copy of the wallet without its secret entropy",
		ArgsUsage: "<file>",
		Flags:     utils.MergeFlags(configFlags, walletFlags),
		Category:  "WALLET COMMANDS",
	}
	setPasswordCommand = cli.Command{
		Action:   utils.MigrateFlags(setPasswordAction),
		Name:     "set-password",
		Usage:    "Re-encrypt the wallet file with a new password",
		Flags:    utils.MergeFlags(configFlags, walletFlags, passwordChangeFlags),
		Category: "WALLET COMMANDS",
	}
	exportBlocksCommand = cli.Command{
		Action:    utils.MigrateFlags(exportBlocksAction),
		Name:      "export-blocks",
		Usage:     "Export the block store to a file",
		ArgsUsage: "<file>",
		Flags:     configFlags,
		Category:  "BLOCKCHAIN COMMANDS",
	}
	importBlocksCommand = cli.Command{
		Action:    utils.MigrateFlags(importBlocksAction),
		Name:      "import-blocks",
		Usage:     "Import blocks written by export-blocks",
		ArgsUsage: "<file>",
		Flags:     configFlags,
		Category:  "BLOCKCHAIN COMMANDS",
	}
	dumpConfigCommand = cli.Command{
		Action:   utils.MigrateFlags(dumpConfigAction),
		Name:     "dumpconfig",
		Usage:    "Show the effective configuration",
		Flags:    utils.MergeFlags(configFlags, walletFlags, logFlags),
		Category: "MISCELLANEOUS COMMANDS",
	}
)

func createAction(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	path, err := requireWalletFile(cfg)
	if err != nil {
		return err
	}
	password, err := utils.ReadPassword(ctx, "New wallet password: ", true)
	if err != nil {
		return err
	}

	var w *wallet.Wallet
	if ctx.NArg() > 0 {
		w, err = wallet.Restore(path, password, strings.Join(ctx.Args(), " "), cfg.LightScrypt)
	} else {
		w, err = wallet.Create(path, password, cfg.LightScrypt)
	}
	if err != nil {
		return err
	}
	primary := w.Addresses()[0]
	fmt.Printf("Wallet %s created, primary spend key %s\n", w.Path(), primary.SpendPublicKey)
	return nil
}

func mnemonicAction(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	w, err := openWallet(ctx, cfg)
	if err != nil {
		return err
	}
	mnemonic, err := w.Mnemonic()
	if err != nil {
		return err
	}
	fmt.Println(mnemonic)
	return nil
}

func exportViewOnlyAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("export-view-only needs exactly one file argument")
	}
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	w, err := openWallet(ctx, cfg)
	if err != nil {
		return err
	}
	if err := w.ExportViewOnly(ctx.Args().First()); err != nil {
		return err
	}
	fmt.Printf("View only wallet written to %s\n", ctx.Args().First())
	return nil
}

func setPasswordAction(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	w, err := openWallet(ctx, cfg)
	if err != nil {
		return err
	}
	password, err := utils.ReadNewPassword(ctx)
	if err != nil {
		return err
	}
	if err := w.SetPassword(password); err != nil {
		return err
	}
	fmt.Printf("Password of %s changed\n", w.Path())
	return nil
}

func openChainDb(ctx *cli.Context) (*chain_db.ChainDb, error) {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return nil, err
	}
	return chain_db.NewChainDb(cfg.ChainDir())
}

func exportBlocksAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("export-blocks needs exactly one file argument")
	}
	chainDb, err := openChainDb(ctx)
	if err != nil {
		return err
	}
	defer chainDb.Close()

	f, err := os.Create(ctx.Args().First())
	if err != nil {
		return err
	}
	n, err := chainDb.ExportBlocks(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d blocks\n", n)
	return nil
}

func importBlocksAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("import-blocks needs exactly one file argument")
	}
	chainDb, err := openChainDb(ctx)
	if err != nil {
		return err
	}
	defer chainDb.Close()

	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := chainDb.ImportBlocks(f)
	fmt.Printf("Imported %d blocks\n", n)
	return err
}

func dumpConfigAction(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	text, err := seria.ToJSONIndent(cfg, "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(text))
	return nil
}
