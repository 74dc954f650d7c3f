package utils

import (
	"flag"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v1"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range []cli.Flag{ConfigFileFlag, DataDirFlag, TestNetFlag, WalletFileFlag,
		LightScryptFlag, RPCListenAddrFlag, RPCCorsFlag, LogLvlFlag, LogFileFlag} {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(app, set, nil)
}

func TestMakeConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "conf.json")
	require.NoError(t, ioutil.WriteFile(file, []byte(`{"walletFile":"from-file.wallet","logLevel":"warn","bindAddress":"127.0.0.1:1"}`), 0600))

	ctx := newContext(t, "--config", file, "--datadir", dir, "--rpcaddr", "127.0.0.1:9000",
		"--rpccorsdomain", "http://a", "--rpccorsdomain", "http://b", "--light-scrypt")
	cfg, err := MakeConfig(ctx)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "from-file.wallet", cfg.WalletFile)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.BindAddress)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORSOrigins)
	assert.True(t, cfg.LightScrypt)
	assert.Equal(t, filepath.Join(dir, "from-file.wallet"), cfg.WalletPath())
}

func TestMakeConfigFindsFileInDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "walletd.config.json"), []byte(`{"logLevel":"debug"}`), 0600))

	cfg, err := MakeConfig(newContext(t, "--datadir", dir))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/walletd")
	assert.Equal(t, "/home/walletd/.walletd", expandPath("~/.walletd"))
	assert.Equal(t, "/a/c", expandPath("/a/b/../c"))
}
