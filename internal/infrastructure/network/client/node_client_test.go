package client

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"alph_dashboard/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, mux *http.ServeMux, opts Options) *NodeClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	def := entity.NetworkDefinition{
		NetworkID:    1,
		Name:         "Alephium Testnet",
		Identifier:   "testnet",
		NativeSymbol: "ALPH",
		Decimals:     18,
		NodeURL:      srv.URL + "/",
	}
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Second
	}
	return NewNodeClient(def, opts, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNodeClient_GetTransactionStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /transactions/status", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("txId") {
		case "mempooled":
			writeJSON(w, http.StatusOK, `{"type":"MemPooled"}`)
		case "confirmed":
			writeJSON(w, http.StatusOK, `{"type":"Confirmed","blockHash":"bh-1","txIndex":0,"chainConfirmations":2,"fromGroupConfirmations":2,"toGroupConfirmations":1}`)
		case "unknown":
			writeJSON(w, http.StatusOK, `{"type":"TxNotFound"}`)
		case "missing":
			writeJSON(w, http.StatusNotFound, `{"resource":"tx","detail":"Transaction not found"}`)
		default:
			writeJSON(w, http.StatusInternalServerError, `{"detail":"boom"}`)
		}
	})
	c := newTestClient(t, mux, Options{})
	ctx := context.Background()

	res, err := c.GetTransactionStatus(ctx, "mempooled")
	require.NoError(t, err)
	assert.Equal(t, entity.TxStatusTypeMemPooled, res.Type)

	res, err = c.GetTransactionStatus(ctx, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, entity.TxStatusTypeConfirmed, res.Type)
	assert.Equal(t, "bh-1", res.BlockHash)
	assert.Equal(t, 2, res.ChainConfirmations)

	// a TxNotFound reply is left to the caller, only 404 is an error
	res, err = c.GetTransactionStatus(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, entity.TxStatusTypeTxNotFound, res.Type)

	_, err = c.GetTransactionStatus(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrTransactionNotFound)

	_, err = c.GetTransactionStatus(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrTransactionNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Detail)
	assert.Equal(t, "/transactions/status", apiErr.Path)
}

func TestNodeClient_TransportErrorIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	nodeURL := srv.URL
	srv.Close()

	c := NewNodeClient(entity.NetworkDefinition{NodeURL: nodeURL}, Options{Timeout: time.Second}, zap.NewNop())
	_, err := c.GetTransactionStatus(context.Background(), "tx")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.NotErrorIs(t, err, entity.ErrTransactionNotFound)
}

func TestNodeClient_GetBlockByHashIsCached(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /blockflow/blocks/{hash}", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{"hash":"`+r.PathValue("hash")+`","timestamp":1700000000000,"chainFrom":0,"chainTo":3,"height":42,"transactions":[]}`)
	})
	c := newTestClient(t, mux, Options{})

	for i := 0; i < 3; i++ {
		block, err := c.GetBlockByHash(context.Background(), "bh-1")
		require.NoError(t, err)
		assert.Equal(t, entity.BlockInfo{Hash: "bh-1", Timestamp: 1700000000000, ChainFrom: 0, ChainTo: 3, Height: 42}, block)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestNodeClient_GetAddressBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /addresses/{address}/balance", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("address") == "bad" {
			writeJSON(w, http.StatusOK, `{"balance":"not-a-number"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"balance":"1500000000000000000","lockedBalance":"250000000000000000","utxoNum":3,"tokenBalances":[{"id":"aa","amount":"7"}]}`)
	})
	c := newTestClient(t, mux, Options{})

	bal, err := c.GetAddressBalance(context.Background(), "addr-1")
	require.NoError(t, err)
	assert.Equal(t, "addr-1", bal.Address)
	assert.Equal(t, "ALPH", bal.NativeSymbol)
	assert.Equal(t, 0, bal.Balance.Cmp(big.NewInt(1500000000000000000)))
	assert.Equal(t, "1.5", bal.FormattedBalance)
	assert.Equal(t, "0.25", bal.FormattedLocked)
	assert.Equal(t, 3, bal.UtxoNum)
	assert.Equal(t, []entity.TokenAmount{{ID: "aa", Amount: "7"}}, bal.Tokens)

	_, err = c.GetAddressBalance(context.Background(), "bad")
	assert.ErrorContains(t, err, "malformed balance")
}

func TestNodeClient_SendsAPIKey(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /infos/version", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(apiKeyHeader) != "secret" {
			writeJSON(w, http.StatusUnauthorized, `{"detail":"missing api key"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"version":"v3.5.0"}`)
	})
	ctx := context.Background()

	v, err := newTestClient(t, mux, Options{APIKey: "secret"}).GetNodeVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v3.5.0", v.Version)

	_, err = newTestClient(t, mux, Options{}).GetNodeVersion(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "missing api key", apiErr.Detail)
}

func TestNodeClient_InfoEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /infos/node", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"buildInfo":{"releaseVersion":"3.5.0","commit":"abc"},"upnp":false}`)
	})
	mux.HandleFunc("GET /infos/chain-params", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"networkId":1,"numZerosAtLeastInHash":37,"groupNumPerBroker":4,"groups":4}`)
	})
	mux.HandleFunc("GET /infos/self-clique", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"cliqueId":"c1","nodes":[{"address":"1.2.3.4","restPort":12973,"wsPort":11973,"minerApiPort":10973}],"selfReady":true,"synced":true}`)
	})
	mux.HandleFunc("GET /infos/current-difficulty", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"difficulty":123456789012345678901234567890}`)
	})
	mux.HandleFunc("GET /infos/current-hashrate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"hashrate":"1234 MH/s"}`)
	})
	c := newTestClient(t, mux, Options{})
	ctx := context.Background()

	info, err := c.GetNodeInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3.5.0", info.BuildInfo.ReleaseVersion)

	params, err := c.GetChainParams(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, params.Groups)

	clique, err := c.GetSelfClique(ctx)
	require.NoError(t, err)
	assert.True(t, clique.Synced)
	require.Len(t, clique.Nodes, 1)
	assert.Equal(t, 12973, clique.Nodes[0].RestPort)

	difficulty, err := c.GetCurrentDifficulty(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", difficulty)

	hashrate, err := c.GetCurrentHashrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1234 MH/s", hashrate)
}

func TestNodeClient_ContractEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /contracts/{address}/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"address":"`+r.PathValue("address")+`","bytecode":"00","codeHash":"ch","immFields":[{"type":"U256","value":"1"}],"mutFields":[],"asset":{"attoAlphAmount":"100"}}`)
	})
	mux.HandleFunc("GET /events/tx-id/{txId}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"events":[{"blockHash":"bh","contractAddress":"ca","eventIndex":0,"fields":[]}]}`)
	})
	mux.HandleFunc("GET /events/block-hash/{blockHash}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"detail":"block not found"}`)
	})
	c := newTestClient(t, mux, Options{})
	ctx := context.Background()

	state, err := c.GetContractState(ctx, "contract-1")
	require.NoError(t, err)
	assert.Equal(t, "contract-1", state.Address)
	assert.Equal(t, "100", state.Asset.AttoAlphAmount)
	require.Len(t, state.ImmFields, 1)
	assert.Equal(t, "U256", state.ImmFields[0].Type)

	events, err := c.GetEventsByTxID(ctx, "tx-1")
	require.NoError(t, err)
	require.Len(t, events.Events, 1)
	assert.Equal(t, "ca", events.Events[0].ContractAddress)

	_, err = c.GetEventsByBlockHash(ctx, "bh-x")
	assert.True(t, IsNotFound(err))
}

func TestNodeClient_RespectsContextDeadline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /infos/version", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, `{"version":"late"}`)
	})
	c := newTestClient(t, mux, Options{Timeout: 5 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.GetNodeVersion(ctx)
	assert.Error(t, err)
}

func TestDecodeDetail(t *testing.T) {
	assert.Equal(t, "oops", decodeDetail([]byte(`{"detail":"oops"}`)))
	assert.Equal(t, "plain text", decodeDetail([]byte(" plain text \n")))
	assert.Equal(t, `{"other":1}`, decodeDetail([]byte(`{"other":1}`)))
}
