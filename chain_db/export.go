package chain_db

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/golang/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/ledger"
)

// maxExportRecord bounds a single encoded block read back by ImportBlocks.
const maxExportRecord = 32 << 20

// ExportBlocks writes every stored block, lowest height first, as a
// varint length followed by the snappy compressed binary form of the
// block. It returns the number of blocks written.
func (chainDb *ChainDb) ExportBlocks(w io.Writer) (int, error) {
	top := chainDb.GetTopHashHeight()
	if top == nil {
		return 0, nil
	}

	bw := bufio.NewWriter(w)
	count := 0
	for height := uint32(0); height <= top.Height; height++ {
		block, err := chainDb.GetBlockByHeight(height)
		if err != nil {
			return count, err
		}
		buf, err := block.Serialize()
		if err != nil {
			return count, err
		}
		data := snappy.Encode(nil, buf)
		if _, err := bw.Write(proto.EncodeVarint(uint64(len(data)))); err != nil {
			return count, err
		}
		if _, err := bw.Write(data); err != nil {
			return count, err
		}
		count++
	}
	chainDb.log.Info("blocks exported", "count", count)
	return count, bw.Flush()
}

// ImportBlocks reads what ExportBlocks wrote and inserts each block.
// Blocks already in the store are skipped, so an export can be replayed
// onto a partial copy of the same chain.
func (chainDb *ChainDb) ImportBlocks(r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	count := 0
	for {
		size, err := binary.ReadUvarint(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, errors.Wrap(err, "read record length")
		}
		if size > maxExportRecord {
			return count, errors.Errorf("record of %d bytes exceeds limit", size)
		}

		sBuf := make([]byte, size)
		if _, err := io.ReadFull(br, sBuf); err != nil {
			return count, errors.Wrap(err, "read record")
		}
		if n, err := snappy.DecodedLen(sBuf); err != nil || n > maxExportRecord {
			return count, errors.Errorf("record %d has a bad length header", count)
		}
		data, err := snappy.Decode(nil, sBuf)
		if err != nil {
			return count, errors.Wrapf(err, "decompress record %d", count)
		}
		block := &ledger.Block{}
		if err := block.Deserialize(data); err != nil {
			return count, errors.Wrapf(err, "decode record %d", count)
		}

		hash, err := block.Hash()
		if err != nil {
			return count, err
		}
		known, err := chainDb.HasBlock(hash)
		if err != nil {
			return count, err
		}
		if known {
			continue
		}
		if _, err := chainDb.InsertBlock(block); err != nil {
			return count, err
		}
		count++
	}
	chainDb.log.Info("blocks imported", "count", count)
	return count, nil
}
