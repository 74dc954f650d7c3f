package access

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vitelabs/go-walletd/chain_db/database"
	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/ledger"
)

// BlockChain maps block hashes to encoded blocks and heights to hashes.
type BlockChain struct {
	db *leveldb.DB
}

func NewBlockChain(db *leveldb.DB) *BlockChain {
	return &BlockChain{
		db: db,
	}
}

func (bc *BlockChain) WriteBlock(batch *leveldb.Batch, hash types.Hash, block *ledger.Block) error {
	data, err := block.Serialize()
	if err != nil {
		return err
	}
	batch.Put(database.EncodeKey(database.DBKP_BLOCK, hash.Bytes()), data)
	batch.Put(database.EncodeKey(database.DBKP_BLOCK_HEIGHT, block.Height), hash.Bytes())
	return nil
}

// GetBlock returns nil, nil when hash is unknown.
func (bc *BlockChain) GetBlock(hash types.Hash) (*ledger.Block, error) {
	data, err := bc.db.Get(database.EncodeKey(database.DBKP_BLOCK, hash.Bytes()), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	block := &ledger.Block{}
	if err := block.Deserialize(data); err != nil {
		return nil, err
	}
	return block, nil
}

func (bc *BlockChain) HasBlock(hash types.Hash) (bool, error) {
	return bc.db.Has(database.EncodeKey(database.DBKP_BLOCK, hash.Bytes()), nil)
}

// GetHash returns nil, nil when no block is stored at height.
func (bc *BlockChain) GetHash(height uint32) (*types.Hash, error) {
	data, err := bc.db.Get(database.EncodeKey(database.DBKP_BLOCK_HEIGHT, height), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	hash, err := types.BytesToHash(data)
	if err != nil {
		return nil, err
	}
	return &hash, nil
}

// GetLatestHashHeight returns nil, nil for an empty chain.
func (bc *BlockChain) GetLatestHashHeight() (*ledger.HashHeight, error) {
	iter := bc.db.NewIterator(util.BytesPrefix([]byte{database.DBKP_BLOCK_HEIGHT}), nil)
	defer iter.Release()

	if !iter.Last() {
		return nil, iter.Error()
	}

	hash, err := types.BytesToHash(iter.Value())
	if err != nil {
		return nil, err
	}
	return &ledger.HashHeight{
		Height: database.DecodeUint32(iter.Key()),
		Hash:   hash,
	}, nil
}
