package rpcapi

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/go-walletd/chain_db"
	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/common/value"
	"github.com/vitelabs/go-walletd/ledger"
	"github.com/vitelabs/go-walletd/rpcapi/api"
	"github.com/vitelabs/go-walletd/seria"
	"github.com/vitelabs/go-walletd/wallet"
)

func newTestRegistry(t *testing.T) (*Registry, *wallet.Wallet, *chain_db.ChainDb) {
	dir := t.TempDir()
	w, err := wallet.Create(filepath.Join(dir, "test.wallet"), "123456", true)
	require.NoError(t, err)
	cDb, err := chain_db.NewChainDb(filepath.Join(dir, "chain"))
	require.NoError(t, err)
	t.Cleanup(func() { cDb.Close() })

	prev := types.ZeroHash
	for i := uint32(0); i < 3; i++ {
		hash, err := cDb.InsertBlock(&ledger.Block{
			BlockHeader: ledger.BlockHeader{Height: i, PreviousBlockHash: prev, Timestamp: 100 + uint64(i)},
			BaseTransaction: ledger.Transaction{TransactionPrefix: ledger.TransactionPrefix{
				Inputs: []ledger.TransactionInput{{Coinbase: &ledger.CoinbaseInput{Height: i}}},
			}},
		})
		require.NoError(t, err)
		prev = hash
	}
	return NewWalletRegistry(w, cDb), w, cDb
}

func call(t *testing.T, h http.Handler, body string) *Response {
	req := httptest.NewRequest(http.MethodPost, JSONRPCPath, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := new(Response)
	require.NoError(t, seria.FromJSON(rec.Body.Bytes(), resp))
	assert.Equal(t, "2.0", resp.JSONRPC)
	return resp
}

func TestGetStatus(t *testing.T) {
	registry, _, cDb := newTestRegistry(t)
	resp := call(t, NewHandler(registry), `{"jsonrpc":"2.0","id":7,"method":"get_status"}`)
	require.Nil(t, resp.Error)

	id, ok := resp.ID.AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	height, _ := resp.Result.Get("topBlockHeight")
	h, _ := height.AsUint64()
	assert.Equal(t, uint64(2), h)

	hash, _ := resp.Result.Get("topBlockHash")
	hex, _ := hash.AsString()
	assert.Equal(t, cDb.GetTopHashHeight().Hash.Hex(), hex)

	count, _ := resp.Result.Get("addressCount")
	c, _ := count.AsUint64()
	assert.Equal(t, uint64(1), c)
}

func TestCreateAndListAddresses(t *testing.T) {
	registry, w, _ := newTestRegistry(t)
	h := NewHandler(registry)

	resp := call(t, h, `{"jsonrpc":"2.0","id":"a","method":"create_address","params":{"label":"shop"}}`)
	require.Nil(t, resp.Error)
	assert.Len(t, w.Addresses(), 2)

	resp = call(t, h, `{"jsonrpc":"2.0","id":"b","method":"get_addresses","params":{}}`)
	require.Nil(t, resp.Error)
	list, ok := resp.Result.Get("addresses")
	require.True(t, ok)
	assert.Equal(t, 2, list.Len())
	second, _ := list.Index(1)
	label, _ := second.Get("label")
	s, _ := label.AsString()
	assert.Equal(t, "shop", s)
}

func TestGetBlockHeader(t *testing.T) {
	registry, _, cDb := newTestRegistry(t)
	h := NewHandler(registry)

	resp := call(t, h, `{"jsonrpc":"2.0","id":1,"method":"get_block_header","params":{"height":1}}`)
	require.Nil(t, resp.Error)
	header := new(api.GetBlockHeaderResponse)
	require.NoError(t, seria.FromValue(resp.Result, header))
	assert.Equal(t, uint32(1), header.BlockHeader.Height)

	block, err := cDb.GetBlockByHeight(1)
	require.NoError(t, err)
	want, err := block.Hash()
	require.NoError(t, err)
	assert.Equal(t, want, header.BlockHeader.Hash)

	resp = call(t, h, `{"jsonrpc":"2.0","id":2,"method":"get_block_header","params":{"hash":"`+want.Hex()+`"}}`)
	require.Nil(t, resp.Error)
	require.NoError(t, seria.FromValue(resp.Result, header))
	assert.Equal(t, uint32(1), header.BlockHeader.Height)

	resp = call(t, h, `{"jsonrpc":"2.0","id":3,"method":"get_block_header","params":{"height":99}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrBlockNotFound.Code, resp.Error.Code)
}

func TestErrorCodes(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	h := NewHandler(registry)

	cases := []struct {
		body string
		code int64
	}{
		{`{"jsonrpc":"2.0","id":1,"method":"get_status"`, CodeParseError},
		{`[1,2]`, CodeInvalidRequest},
		{`{"jsonrpc":"1.0","id":1,"method":"get_status"}`, CodeInvalidRequest},
		{`{"jsonrpc":"2.0","id":1,"method":"no_such_method"}`, CodeMethodNotFound},
		{`{"jsonrpc":"2.0","id":1,"method":"create_address","params":{"label":5}}`, CodeInvalidParams},
		{`{"jsonrpc":"2.0","id":1,"method":"get_block_header","params":[1]}`, CodeInvalidParams},
	}
	for _, c := range cases {
		resp := call(t, h, c.body)
		require.NotNil(t, resp.Error, c.body)
		assert.Equal(t, c.code, resp.Error.Code, c.body)
		assert.Nil(t, resp.Result, c.body)
	}
}

func TestHTTPRouting(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	h := NewHandler(registry)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, JSONRPCPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/other", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodAdapterDefaults(t *testing.T) {
	r := NewRegistry()
	r.Register("echo", Method(func(req *api.GetBlockHeaderRequest) (*api.GetBlockHeaderRequest, error) {
		return req, nil
	}))
	assert.Equal(t, []string{"echo"}, r.Methods())

	result, err := r.Call("echo", nil)
	require.NoError(t, err)
	height, _ := result.Get("height")
	h, _ := height.AsUint64()
	assert.Equal(t, uint64(0), h)

	params := value.NewObject()
	params.Set("height", value.Uint64(4294967296))
	result, err = r.Call("echo", params)
	require.NoError(t, err)
	height, _ = result.Get("height")
	h, _ = height.AsUint64()
	assert.Equal(t, uint64(0), h)
}

func TestServerLifecycle(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	s := NewServer(registry, []string{"http://localhost:3000"})
	require.NoError(t, s.Start("127.0.0.1:0"))
	assert.Equal(t, ErrServerStarted, s.Start("127.0.0.1:0"))

	url := "http://" + s.Addr().String() + JSONRPCPath
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"get_status"}`))
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	httpResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := ioutil.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", httpResp.Header.Get("Access-Control-Allow-Origin"))

	resp := new(Response)
	require.NoError(t, seria.FromJSON(body, resp))
	assert.Nil(t, resp.Error)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.True(t, s.Stopped())
	assert.Equal(t, ErrServerStopped, s.Stop(ctx))
	assert.Equal(t, ErrServerStopped, s.Start("127.0.0.1:0"))
}
