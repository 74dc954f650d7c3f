package rpcapi

import (
	"github.com/vitelabs/go-walletd/chain_db"
	"github.com/vitelabs/go-walletd/rpcapi/api"
	"github.com/vitelabs/go-walletd/wallet"
)

// NewWalletRegistry wires the wallet methods served by walletd.
func NewWalletRegistry(w *wallet.Wallet, chainDb *chain_db.ChainDb) *Registry {
	walletApi := api.NewWalletApi(w, chainDb)

	r := NewRegistry()
	r.Register("get_status", Method(walletApi.GetStatus))
	r.Register("get_addresses", Method(walletApi.GetAddresses))
	r.Register("create_address", Method(walletApi.CreateAddress))
	r.Register("get_block_header", Method(walletApi.GetBlockHeader))
	return r
}
