package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls   atomic.Int32
	balance string
	err     error
	gate    chan struct{}
}

func (f *fakeFetcher) GetAddressBalance(_ context.Context, address string) (entity.AccountBalance, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return entity.AccountBalance{}, f.err
	}
	return entity.AccountBalance{Address: address, Balance: big.NewInt(1), FormattedBalance: f.balance, NativeSymbol: "ALPH"}, nil
}

func TestBalanceService_DisplayBeforeFetch(t *testing.T) {
	svc := NewBalanceService(newConnectedWallet(txIDs("tx")), &fakeFetcher{balance: "12.5"}, time.Minute, logger.Nop{})
	assert.Equal(t, "0", svc.CurrentBalanceDisplay())
}

func TestBalanceService_BalanceIsCached(t *testing.T) {
	fetcher := &fakeFetcher{balance: "12.5"}
	svc := NewBalanceService(newConnectedWallet(txIDs("tx")), fetcher, time.Minute, logger.Nop{})

	b, err := svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12.5", b.FormattedBalance)
	assert.Equal(t, testSigner, b.Address)

	_, err = svc.Balance(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, fetcher.calls.Load())
	assert.Equal(t, "12.5", svc.CurrentBalanceDisplay())
}

func TestBalanceService_NotConnected(t *testing.T) {
	wallet := newConnectedWallet(txIDs("tx"))
	wallet.account = nil
	svc := NewBalanceService(wallet, &fakeFetcher{}, time.Minute, logger.Nop{})

	_, err := svc.Balance(context.Background())
	require.ErrorIs(t, err, entity.ErrNotConnected)
	assert.Equal(t, "0", svc.CurrentBalanceDisplay())
}

func TestBalanceService_RefreshBypassesCache(t *testing.T) {
	fetcher := &fakeFetcher{balance: "10"}
	svc := NewBalanceService(newConnectedWallet(txIDs("tx")), fetcher, time.Minute, logger.Nop{})

	_, err := svc.Balance(context.Background())
	require.NoError(t, err)

	fetcher.balance = "8.75"
	svc.RefreshForTransaction(context.Background(), "tx-1")

	assert.EqualValues(t, 2, fetcher.calls.Load())
	assert.Equal(t, "8.75", svc.CurrentBalanceDisplay())
}

func TestBalanceService_RefreshFailureIsSwallowed(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("node down")}
	svc := NewBalanceService(newConnectedWallet(txIDs("tx")), fetcher, time.Minute, logger.Nop{})

	assert.NotPanics(t, func() { svc.RefreshForTransaction(context.Background(), "tx-1") })
	assert.Equal(t, "0", svc.CurrentBalanceDisplay())
}

func TestBalanceService_ConcurrentRefreshesCollapse(t *testing.T) {
	fetcher := &fakeFetcher{balance: "1", gate: make(chan struct{})}
	svc := NewBalanceService(newConnectedWallet(txIDs("tx")), fetcher, time.Minute, logger.Nop{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.RefreshForTransaction(context.Background(), "tx-1")
		}()
	}
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(fetcher.gate)
	wg.Wait()

	assert.EqualValues(t, 1, fetcher.calls.Load())
	assert.Equal(t, "1", svc.CurrentBalanceDisplay())
}

func TestBalanceService_DisplaySurvivesCacheExpiry(t *testing.T) {
	fetcher := &fakeFetcher{balance: "12.5"}
	svc := NewBalanceService(newConnectedWallet(txIDs("tx")), fetcher, 20*time.Millisecond, logger.Nop{})

	_, err := svc.Balance(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := svc.cache.Get(testSigner)
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "12.5", svc.CurrentBalanceDisplay())

	fetcher.err = errors.New("node down")
	_, err = svc.Balance(context.Background())
	require.Error(t, err)
	assert.Equal(t, "12.5", svc.CurrentBalanceDisplay())
	assert.EqualValues(t, 2, fetcher.calls.Load())
}

// stagedFetcher answers call n with values[n-1], blocking first on gates[n-1] when set.
type stagedFetcher struct {
	mu     sync.Mutex
	calls  int
	values []string
	gates  map[int]chan struct{}
}

func (f *stagedFetcher) GetAddressBalance(_ context.Context, address string) (entity.AccountBalance, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	gate := f.gates[call]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return entity.AccountBalance{Address: address, Balance: big.NewInt(int64(call)), FormattedBalance: f.values[call-1], NativeSymbol: "ALPH"}, nil
}

func (f *stagedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestBalanceService_RefreshDoesNotReuseEarlierRead(t *testing.T) {
	before := make(chan struct{})
	fetcher := &stagedFetcher{values: []string{"10", "8.75"}, gates: map[int]chan struct{}{1: before}}
	svc := NewBalanceService(newConnectedWallet(txIDs("tx")), fetcher, time.Minute, logger.Nop{})

	earlier := make(chan entity.AccountBalance, 1)
	go func() {
		b, err := svc.Balance(context.Background())
		assert.NoError(t, err)
		earlier <- b
	}()
	require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, time.Millisecond)

	svc.RefreshForTransaction(context.Background(), "tx-1")
	assert.Equal(t, 2, fetcher.callCount())
	assert.Equal(t, "8.75", svc.CurrentBalanceDisplay())

	// the earlier read completes last and must not overwrite the refreshed value
	close(before)
	select {
	case b := <-earlier:
		assert.Equal(t, "10", b.FormattedBalance)
	case <-time.After(time.Second):
		t.Fatal("earlier balance read never returned")
	}

	assert.Equal(t, "8.75", svc.CurrentBalanceDisplay())
	b, err := svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.75", b.FormattedBalance)
	assert.Equal(t, 2, fetcher.callCount())
}
