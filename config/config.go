package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/common"
	"github.com/vitelabs/go-walletd/seria"
)

const ConfigFileName = "walletd.config.json"

type Config struct {
	// global keys
	DataDir    string
	WalletFile string
	Testnet    bool

	// log
	LogLevel string
	LogFile  string

	// rpc
	BindAddress string
	CORSOrigins []string

	// wallet
	LightScrypt bool
}

func Default() *Config {
	return &Config{
		DataDir:     common.DefaultDataDir(false),
		LogLevel:    "info",
		BindAddress: common.DefaultHttpEndpoint(),
	}
}

func (c *Config) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("dataDir")
	s.String(&c.DataDir)
	s.ObjectKey("walletFile")
	s.String(&c.WalletFile)
	s.ObjectKey("testnet")
	s.Bool(&c.Testnet)
	s.ObjectKey("logLevel")
	s.String(&c.LogLevel)
	s.ObjectKey("logFile")
	s.String(&c.LogFile)
	s.ObjectKey("bindAddress")
	s.String(&c.BindAddress)
	s.ObjectKey("corsOrigins")
	seria.Slice(s, &c.CORSOrigins, seria.Archive.String)
	s.ObjectKey("lightScrypt")
	s.Bool(&c.LightScrypt)
	s.EndObject()
}

// Load reads path over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	text, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := seria.FromJSON(text, cfg); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	text, err := seria.ToJSONIndent(c, "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return ioutil.WriteFile(path, text, 0600)
}

// ChainDir is where the block store lives.
func (c *Config) ChainDir() string {
	return filepath.Join(c.DataDir, "chain")
}

func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "log")
}

// WalletPath resolves WalletFile against DataDir when it is relative.
func (c *Config) WalletPath() string {
	if c.WalletFile == "" || filepath.IsAbs(c.WalletFile) {
		return c.WalletFile
	}
	return filepath.Join(c.DataDir, c.WalletFile)
}
