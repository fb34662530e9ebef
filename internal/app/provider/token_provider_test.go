package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls map[string]int
	err   error
}

func (s *countingSource) GetTokenList(_ context.Context, network string) (entity.TokenList, error) {
	s.calls[network]++
	if s.err != nil {
		return entity.TokenList{}, s.err
	}
	return entity.TokenList{Tokens: []entity.TokenInfo{{ID: network + "-token"}}}, nil
}

func TestTokenProvider_CachesPerNetwork(t *testing.T) {
	src := &countingSource{calls: map[string]int{}}
	p := NewTokenProvider(src, "test", time.Minute, logger.Nop{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		list, err := p.GetTokenList(ctx, "testnet")
		require.NoError(t, err)
		assert.Equal(t, "testnet-token", list.Tokens[0].ID)
	}
	_, err := p.GetTokenList(ctx, "mainnet")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"testnet": 1, "mainnet": 1}, src.calls)
}

func TestTokenProvider_ErrorsAreNotCached(t *testing.T) {
	src := &countingSource{calls: map[string]int{}, err: errors.New("rate limited")}
	p := NewTokenProvider(src, "test", time.Minute, logger.Nop{})
	ctx := context.Background()

	_, err := p.GetTokenList(ctx, "testnet")
	assert.ErrorContains(t, err, "rate limited")

	src.err = nil
	list, err := p.GetTokenList(ctx, "testnet")
	require.NoError(t, err)
	assert.Len(t, list.Tokens, 1)
	assert.Equal(t, 2, src.calls["testnet"])
}

func TestTokenProvider_Expires(t *testing.T) {
	src := &countingSource{calls: map[string]int{}}
	p := NewTokenProvider(src, "test", 20*time.Millisecond, logger.Nop{})

	_, err := p.GetTokenList(context.Background(), "devnet")
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	_, err = p.GetTokenList(context.Background(), "devnet")
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls["devnet"])
}
