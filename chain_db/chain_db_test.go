package chain_db

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/ledger"
)

func newTestChainDb(t *testing.T) *ChainDb {
	cDb, err := NewChainDb(filepath.Join(t.TempDir(), "chain"))
	require.NoError(t, err)
	t.Cleanup(func() { cDb.Close() })
	return cDb
}

func newBlock(height uint32, prev types.Hash) *ledger.Block {
	return &ledger.Block{
		BlockHeader: ledger.BlockHeader{
			MajorVersion:      1,
			Timestamp:         1530000000 + uint64(height)*120,
			PreviousBlockHash: prev,
			Height:            height,
		},
		BaseTransaction: ledger.Transaction{
			TransactionPrefix: ledger.TransactionPrefix{
				Version: 1,
				Inputs:  []ledger.TransactionInput{{Coinbase: &ledger.CoinbaseInput{Height: height}}},
				Outputs: []ledger.TransactionOutput{{Amount: 1000}},
			},
		},
	}
}

func insertChain(t *testing.T, cDb *ChainDb, n int) []types.Hash {
	var hashes []types.Hash
	prev := types.ZeroHash
	for i := 0; i < n; i++ {
		hash, err := cDb.InsertBlock(newBlock(uint32(i), prev))
		require.NoError(t, err)
		hashes = append(hashes, hash)
		prev = hash
	}
	return hashes
}

func TestInsertAndGet(t *testing.T) {
	cDb := newTestChainDb(t)

	_, ok := cDb.GetTopHeight()
	assert.False(t, ok)
	_, err := cDb.GetTopBlock()
	assert.True(t, errors.Is(err, ErrBlockNotFound))

	hashes := insertChain(t, cDb, 5)

	top, ok := cDb.GetTopHeight()
	assert.True(t, ok)
	assert.Equal(t, uint32(4), top)

	block, err := cDb.GetBlockByHeight(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), block.Height)
	assert.Equal(t, hashes[1], block.PreviousBlockHash)

	block, err = cDb.GetBlockByHash(hashes[3])
	require.NoError(t, err)
	assert.Equal(t, uint32(3), block.Height)

	topBlock, err := cDb.GetTopBlock()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), topBlock.Height)

	has, err := cDb.HasBlock(hashes[0])
	require.NoError(t, err)
	assert.True(t, has)
	has, err = cDb.HasBlock(types.DataHash([]byte("nope")))
	require.NoError(t, err)
	assert.False(t, has)

	_, err = cDb.GetBlockByHeight(5)
	assert.True(t, errors.Is(err, ErrBlockNotFound))
	_, err = cDb.GetBlockByHash(types.DataHash([]byte("nope")))
	assert.True(t, errors.Is(err, ErrBlockNotFound))
}

func TestInsertRejectsGaps(t *testing.T) {
	cDb := newTestChainDb(t)

	_, err := cDb.InsertBlock(newBlock(1, types.ZeroHash))
	assert.True(t, errors.Is(err, ErrHeightMismatch))

	hashes := insertChain(t, cDb, 2)

	_, err = cDb.InsertBlock(newBlock(3, hashes[1]))
	assert.True(t, errors.Is(err, ErrHeightMismatch))

	_, err = cDb.InsertBlock(newBlock(2, hashes[0]))
	assert.True(t, errors.Is(err, ErrPrevHashMismatch))

	top, _ := cDb.GetTopHeight()
	assert.Equal(t, uint32(1), top)
}

func TestReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chain")
	cDb, err := NewChainDb(dir)
	require.NoError(t, err)
	hashes := insertChain(t, cDb, 3)
	require.NoError(t, cDb.Close())

	_, err = cDb.GetBlockByHeight(0)
	assert.Equal(t, ErrClosed, err)

	cDb, err = NewChainDb(dir)
	require.NoError(t, err)
	defer cDb.Close()

	top := cDb.GetTopHashHeight()
	require.NotNil(t, top)
	assert.True(t, top.Equal(hashes[2], 2))

	block, err := cDb.GetBlockByHash(hashes[1])
	require.NoError(t, err)
	assert.Equal(t, uint32(1), block.Height)
}

func TestExportImport(t *testing.T) {
	src := newTestChainDb(t)
	hashes := insertChain(t, src, 10)

	var buf bytes.Buffer
	n, err := src.ExportBlocks(&buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	dst := newTestChainDb(t)
	insertChain(t, dst, 4)
	n, err = dst.ImportBlocks(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	top := dst.GetTopHashHeight()
	require.NotNil(t, top)
	assert.True(t, top.Equal(hashes[9], 9))

	for i, hash := range hashes {
		want, err := src.GetBlockByHash(hash)
		require.NoError(t, err)
		got, err := dst.GetBlockByHeight(uint32(i))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestImportTruncated(t *testing.T) {
	src := newTestChainDb(t)
	insertChain(t, src, 2)

	var buf bytes.Buffer
	_, err := src.ExportBlocks(&buf)
	require.NoError(t, err)

	dst := newTestChainDb(t)
	n, err := dst.ImportBlocks(bytes.NewReader(buf.Bytes()[:buf.Len()-3]))
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestClearData(t *testing.T) {
	cDb := newTestChainDb(t)
	insertChain(t, cDb, 3)
	require.NoError(t, cDb.ClearData())

	_, ok := cDb.GetTopHeight()
	assert.False(t, ok)
	insertChain(t, cDb, 1)
}
