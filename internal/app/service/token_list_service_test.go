package service

import (
	"context"
	"strings"
	"testing"

	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/logger"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokenProvider struct {
	list    entity.TokenList
	network string
}

func (p *staticTokenProvider) GetTokenList(_ context.Context, networkIdentifier string) (entity.TokenList, error) {
	p.network = networkIdentifier
	return p.list, nil
}

var (
	usdtID = strings.Repeat("55", 32)
	wethID = strings.Repeat("ab", 32)
)

func newTokenService() (*staticTokenProvider, *tokenListServiceImpl) {
	provider := &staticTokenProvider{list: entity.TokenList{NetworkID: 0, Tokens: []entity.TokenInfo{
		{ID: usdtID, Name: "Tether USD", Symbol: "USDT", Decimals: 6},
		{ID: wethID, Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18},
	}}}
	svc := NewTokenListService(provider, "mainnet", logger.Nop{}).(*tokenListServiceImpl)
	return provider, svc
}

func TestTokenListService_TokensFillAddress(t *testing.T) {
	provider, svc := newTokenService()

	tokens, err := svc.Tokens(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "mainnet", provider.network)

	raw, err := base58.Decode(tokens[0].Address)
	require.NoError(t, err)
	require.Len(t, raw, 33)
	assert.Equal(t, byte(0x03), raw[0])
}

func TestTokenListService_Search(t *testing.T) {
	_, svc := newTokenService()
	ctx := context.Background()

	found, err := svc.Search(ctx, "usd")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "USDT", found[0].Symbol)

	found, err = svc.Search(ctx, "wrapped")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "WETH", found[0].Symbol)

	found, err = svc.Search(ctx, "ABAB")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.Search(ctx, "doge")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestTokenListService_AddressFromContractID(t *testing.T) {
	_, svc := newTokenService()

	_, err := svc.AddressFromContractID("zz")
	require.ErrorIs(t, err, entity.ErrInvalidInput)

	addr, err := svc.AddressFromContractID(usdtID)
	require.NoError(t, err)
	assert.NotEmpty(t, addr)
}
