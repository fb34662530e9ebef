package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// BalanceServiceImpl implements port.BalanceService for the wallet's active account.
type BalanceServiceImpl struct {
	wallet  port.WalletSession
	fetcher port.BalanceFetcher
	logger  port.Logger
	cache   *cache.Cache // address -> entity.AccountBalance
	group   singleflight.Group

	mu        sync.Mutex
	refreshes uint64            // bumped before every post-transaction refresh
	displays  map[string]string // address -> last formatted balance, survives cache expiry
}

// NewBalanceService creates a new instance of BalanceServiceImpl. Balances are cached for ttl.
func NewBalanceService(wallet port.WalletSession, fetcher port.BalanceFetcher, ttl time.Duration, l port.Logger) *BalanceServiceImpl {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &BalanceServiceImpl{
		wallet:   wallet,
		fetcher:  fetcher,
		logger:   l,
		cache:    cache.New(ttl, 2*ttl),
		displays: make(map[string]string),
	}
}

// CurrentBalanceDisplay returns the last fetched formatted balance of the active account,
// "0" before the first successful fetch. It does not expire with the cache.
func (s *BalanceServiceImpl) CurrentBalanceDisplay() string {
	account := s.wallet.ActiveAccount()
	if account == nil {
		return "0"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if display, ok := s.displays[account.Address]; ok {
		return display
	}
	return "0"
}

// Balance returns the active account's balance, from cache when fresh.
func (s *BalanceServiceImpl) Balance(ctx context.Context) (entity.AccountBalance, error) {
	account := s.wallet.ActiveAccount()
	if account == nil {
		return entity.AccountBalance{}, entity.ErrNotConnected
	}
	if cached, ok := s.cache.Get(account.Address); ok {
		s.logger.Debug("Returning cached balance", "address", account.Address)
		return cached.(entity.AccountBalance), nil
	}

	s.mu.Lock()
	epoch := s.refreshes
	s.mu.Unlock()
	balance, _, err := s.fetch(ctx, account.Address, account.Address, func() bool {
		return s.refreshes == epoch
	})
	return balance, err
}

// RefreshForTransaction drops the cached balance and fetches it again. It never joins a read
// that started before the call, and such a read can no longer overwrite its result.
// Failures are only logged.
func (s *BalanceServiceImpl) RefreshForTransaction(ctx context.Context, txID string) {
	account := s.wallet.ActiveAccount()
	if account == nil {
		s.logger.Debug("Skipping balance refresh, no active account", "txId", txID)
		return
	}

	s.mu.Lock()
	s.refreshes++
	s.mu.Unlock()
	s.cache.Delete(account.Address)

	balance, shared, err := s.fetch(ctx, "refresh:"+account.Address, account.Address, func() bool { return true })
	if err != nil {
		s.logger.Warn("Balance refresh after transaction failed", "txId", txID, "address", account.Address, "error", err)
		return
	}
	s.logger.Info("Balance refreshed after transaction",
		"txId", txID, "address", account.Address, "balance", balance.FormattedBalance, "shared", shared)
}

// fetch reads address through the singleflight key. The result is stored only if current
// reports true under mu.
func (s *BalanceServiceImpl) fetch(ctx context.Context, key, address string, current func() bool) (entity.AccountBalance, bool, error) {
	v, err, shared := s.group.Do(key, func() (any, error) {
		balance, err := s.fetcher.GetAddressBalance(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch balance of %s: %w", address, err)
		}
		s.mu.Lock()
		if current() {
			s.cache.SetDefault(address, balance)
			s.displays[address] = balance.FormattedBalance
		} else {
			s.logger.Debug("Dropping balance read superseded by a refresh", "address", address)
		}
		s.mu.Unlock()
		return balance, nil
	})
	if err != nil {
		return entity.AccountBalance{}, shared, err
	}
	return v.(entity.AccountBalance), shared, nil
}
