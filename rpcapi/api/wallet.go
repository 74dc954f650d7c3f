package api

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/vitelabs/go-walletd/chain_db"
	"github.com/vitelabs/go-walletd/ledger"
	"github.com/vitelabs/go-walletd/wallet"
)

type WalletApi struct {
	wallet  *wallet.Wallet
	chainDb *chain_db.ChainDb
	log     log.Logger
}

func NewWalletApi(w *wallet.Wallet, chainDb *chain_db.ChainDb) *WalletApi {
	return &WalletApi{
		wallet:  w,
		chainDb: chainDb,
		log:     log.New("module", "rpc_api/wallet"),
	}
}

func (api WalletApi) String() string {
	return "WalletApi"
}

func (api *WalletApi) GetStatus(*Empty) (*GetStatusResponse, error) {
	status := &GetStatusResponse{
		AddressCount: uint32(len(api.wallet.Addresses())),
		ScanHeight:   api.wallet.ScanHeight(),
		ViewOnly:     api.wallet.IsViewOnly(),
	}
	if top := api.chainDb.GetTopHashHeight(); top != nil {
		status.TopBlockHeight = top.Height
		status.TopBlockHash = top.Hash
	}
	return status, nil
}

func (api *WalletApi) GetAddresses(*Empty) (*GetAddressesResponse, error) {
	records := api.wallet.Addresses()
	resp := &GetAddressesResponse{Addresses: make([]Address, len(records))}
	for i, r := range records {
		resp.Addresses[i] = Address{r}
	}
	return resp, nil
}

func (api *WalletApi) CreateAddress(req *CreateAddressRequest) (*CreateAddressResponse, error) {
	record, err := api.wallet.CreateAddress(req.Label)
	if err != nil {
		api.log.Info("create address failed", "err", err)
		return nil, err
	}
	return &CreateAddressResponse{Address: Address{record}}, nil
}

func (api *WalletApi) GetBlockHeader(req *GetBlockHeaderRequest) (*GetBlockHeaderResponse, error) {
	var block *ledger.Block
	var err error
	if !req.Hash.IsZero() {
		block, err = api.chainDb.GetBlockByHash(req.Hash)
	} else {
		block, err = api.chainDb.GetBlockByHeight(req.Height)
	}
	if err != nil {
		return nil, err
	}

	hash, err := block.Hash()
	if err != nil {
		return nil, err
	}
	baseHash, err := block.BaseTransaction.Hash()
	if err != nil {
		return nil, err
	}
	return &GetBlockHeaderResponse{BlockHeader: BlockHeader{
		Hash:                hash,
		Height:              block.Height,
		MajorVersion:        block.MajorVersion,
		MinorVersion:        block.MinorVersion,
		Timestamp:           block.Timestamp,
		PreviousBlockHash:   block.PreviousBlockHash,
		Nonce:               block.Nonce,
		TransactionCount:    uint32(len(block.TransactionHashes)) + 1,
		BaseTransactionHash: baseHash,
	}}, nil
}
