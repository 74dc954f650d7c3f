package common

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
)

const (
	DefaultHTTPHost = "127.0.0.1" // Default host interface for the wallet RPC server
	DefaultHTTPPort = 8070        // Default TCP port for the wallet RPC server
)

// DefaultDataDir is $HOME/.walletd, or .walletd-testnet for testnet.
func DefaultDataDir(testnet bool) string {
	name := ".walletd"
	if testnet {
		name += "-testnet"
	}
	home := HomeDir()
	if home != "" {
		return filepath.Join(home, name)
	}
	return name
}

func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func DefaultHttpEndpoint() string {
	return fmt.Sprintf("%s:%d", DefaultHTTPHost, DefaultHTTPPort)
}
