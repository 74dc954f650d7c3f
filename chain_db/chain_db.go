package chain_db

import (
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	errors2 "github.com/syndtr/goleveldb/leveldb/errors"

	"github.com/vitelabs/go-walletd/chain_db/access"
	"github.com/vitelabs/go-walletd/chain_db/database"
	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/ledger"
)

const blockCacheSize = 1024

// ChainDb stores the blocks the wallet has synchronized. Blocks form a
// single chain: each insert must extend the current top.
//
// Blocks returned by the getters are shared with the cache and must not
// be modified.
type ChainDb struct {
	dbDir string
	db    *leveldb.DB

	Bc *access.BlockChain

	mu    sync.RWMutex
	top   *ledger.HashHeight
	cache *lru.Cache

	log log.Logger
}

func NewChainDb(dbDir string) (*ChainDb, error) {
	cache, err := lru.New(blockCacheSize)
	if err != nil {
		return nil, err
	}
	cDb := &ChainDb{
		log: log.New("module", "chainDb"),

		dbDir: dbDir,
		cache: cache,
	}

	if err := cDb.initDb(); err != nil {
		cDb.log.Error("initDb failed, error is "+err.Error(), "method", "NewChainDb")
		return nil, err
	}

	return cDb, nil
}

func (chainDb *ChainDb) initDb() error {
	db, err := database.NewLevelDb(chainDb.dbDir)
	if err != nil {
		switch err.(type) {
		case *errors2.ErrCorrupted:
			chainDb.log.Warn("database corrupted, clearing", "dir", chainDb.dbDir)
			return chainDb.ClearData()
		default:
			chainDb.log.Error("NewLevelDb failed, error is "+err.Error(), "method", "initDb")
			return err
		}
	}

	chainDb.db = db
	chainDb.Bc = access.NewBlockChain(db)
	chainDb.cache.Purge()

	top, err := chainDb.Bc.GetLatestHashHeight()
	if err != nil {
		return err
	}
	chainDb.top = top
	return nil
}

// ClearData drops every stored block and reopens an empty database.
func (chainDb *ChainDb) ClearData() error {
	if chainDb.db != nil {
		if closeErr := chainDb.db.Close(); closeErr != nil {
			return errors.Wrap(closeErr, "close db failed")
		}
	}

	if err := os.RemoveAll(chainDb.dbDir); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s failed", chainDb.dbDir)
	}

	chainDb.db = nil
	return chainDb.initDb()
}

func (chainDb *ChainDb) Close() error {
	chainDb.mu.Lock()
	defer chainDb.mu.Unlock()

	if chainDb.db == nil {
		return nil
	}
	err := chainDb.db.Close()
	chainDb.db = nil
	return err
}

// InsertBlock appends block to the chain and returns its hash.
func (chainDb *ChainDb) InsertBlock(block *ledger.Block) (types.Hash, error) {
	chainDb.mu.Lock()
	defer chainDb.mu.Unlock()

	if chainDb.db == nil {
		return types.Hash{}, ErrClosed
	}

	var wantHeight uint32
	var wantPrev types.Hash
	if chainDb.top != nil {
		wantHeight = chainDb.top.Height + 1
		wantPrev = chainDb.top.Hash
	}
	if block.Height != wantHeight {
		return types.Hash{}, errors.Wrapf(ErrHeightMismatch, "got %d, want %d", block.Height, wantHeight)
	}
	if block.PreviousBlockHash != wantPrev {
		return types.Hash{}, errors.Wrapf(ErrPrevHashMismatch, "got %s, want %s", block.PreviousBlockHash, wantPrev)
	}

	hash, err := block.Hash()
	if err != nil {
		return types.Hash{}, err
	}

	batch := new(leveldb.Batch)
	if err := chainDb.Bc.WriteBlock(batch, hash, block); err != nil {
		return types.Hash{}, err
	}
	if err := chainDb.db.Write(batch, nil); err != nil {
		chainDb.log.Error("write block failed, error is "+err.Error(), "method", "InsertBlock", "height", block.Height)
		return types.Hash{}, err
	}

	chainDb.top = &ledger.HashHeight{Height: block.Height, Hash: hash}
	chainDb.cache.Add(hash, block)
	chainDb.log.Debug("block inserted", "height", block.Height, "hash", hash)
	return hash, nil
}

func (chainDb *ChainDb) GetBlockByHash(hash types.Hash) (*ledger.Block, error) {
	chainDb.mu.RLock()
	defer chainDb.mu.RUnlock()
	return chainDb.getBlock(hash)
}

func (chainDb *ChainDb) getBlock(hash types.Hash) (*ledger.Block, error) {
	if chainDb.db == nil {
		return nil, ErrClosed
	}
	if cached, ok := chainDb.cache.Get(hash); ok {
		return cached.(*ledger.Block), nil
	}

	block, err := chainDb.Bc.GetBlock(hash)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, errors.Wrapf(ErrBlockNotFound, "hash %s", hash)
	}
	chainDb.cache.Add(hash, block)
	return block, nil
}

func (chainDb *ChainDb) GetBlockByHeight(height uint32) (*ledger.Block, error) {
	chainDb.mu.RLock()
	defer chainDb.mu.RUnlock()

	if chainDb.db == nil {
		return nil, ErrClosed
	}
	hash, err := chainDb.Bc.GetHash(height)
	if err != nil {
		return nil, err
	}
	if hash == nil {
		return nil, errors.Wrapf(ErrBlockNotFound, "height %d", height)
	}
	return chainDb.getBlock(*hash)
}

func (chainDb *ChainDb) HasBlock(hash types.Hash) (bool, error) {
	chainDb.mu.RLock()
	defer chainDb.mu.RUnlock()

	if chainDb.db == nil {
		return false, ErrClosed
	}
	if chainDb.cache.Contains(hash) {
		return true, nil
	}
	return chainDb.Bc.HasBlock(hash)
}

// GetTopHashHeight returns nil for an empty chain.
func (chainDb *ChainDb) GetTopHashHeight() *ledger.HashHeight {
	chainDb.mu.RLock()
	defer chainDb.mu.RUnlock()

	if chainDb.top == nil {
		return nil
	}
	top := *chainDb.top
	return &top
}

// GetTopHeight returns the top height and false for an empty chain.
func (chainDb *ChainDb) GetTopHeight() (uint32, bool) {
	top := chainDb.GetTopHashHeight()
	if top == nil {
		return 0, false
	}
	return top.Height, true
}

func (chainDb *ChainDb) GetTopBlock() (*ledger.Block, error) {
	top := chainDb.GetTopHashHeight()
	if top == nil {
		return nil, errors.Wrap(ErrBlockNotFound, "chain is empty")
	}
	return chainDb.GetBlockByHash(top.Hash)
}
