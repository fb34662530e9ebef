package wallet

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"alph_dashboard/internal/domain/entity"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWalletAPI struct {
	unlockErr    error
	lockErr      error
	addressesErr error
	transferErr  error
	active       string
	accounts     []entity.Account

	unlockedWith string
	locked       bool
	transfers    []*big.Int
}

func (f *fakeWalletAPI) UnlockWallet(_ context.Context, _ string, password string) error {
	f.unlockedWith = password
	return f.unlockErr
}

func (f *fakeWalletAPI) LockWallet(context.Context, string) error {
	f.locked = true
	return f.lockErr
}

func (f *fakeWalletAPI) GetWalletAddresses(context.Context, string) (string, []entity.Account, error) {
	return f.active, f.accounts, f.addressesErr
}

func (f *fakeWalletAPI) Transfer(_ context.Context, _ string, _ string, attoAlph *big.Int) (entity.SubmitResult, error) {
	if f.transferErr != nil {
		return entity.SubmitResult{}, f.transferErr
	}
	f.transfers = append(f.transfers, attoAlph)
	return entity.SubmitResult{TxID: "tx-1", FromGroup: 1, ToGroup: 2}, nil
}

func recipient() string {
	return base58.Encode(append([]byte{0x00}, bytes.Repeat([]byte{0x42}, 32)...))
}

func connectedSession(t *testing.T, api *fakeWalletAPI) *NodeWalletSession {
	t.Helper()
	s := NewNodeWalletSession(api, "ops", "pw", zap.NewNop())
	require.NoError(t, s.Connect(context.Background()))
	return s
}

func TestNodeWalletSession_Connect(t *testing.T) {
	api := &fakeWalletAPI{
		active:   "addr-b",
		accounts: []entity.Account{{Address: "addr-a", Group: 0}, {Address: "addr-b", PublicKey: "pk-b", Group: 3}},
	}
	s := NewNodeWalletSession(api, "ops", "pw", zap.NewNop())
	assert.Equal(t, entity.Disconnected, s.ConnectionStatus())
	assert.Nil(t, s.ActiveAccount())

	require.NoError(t, s.Connect(context.Background()))
	assert.Equal(t, "pw", api.unlockedWith)
	assert.Equal(t, entity.Connected, s.ConnectionStatus())
	assert.Equal(t, &entity.Account{Address: "addr-b", PublicKey: "pk-b", Group: 3}, s.ActiveAccount())

	acc := s.ActiveAccount()
	acc.Address = "mutated"
	assert.Equal(t, "addr-b", s.ActiveAccount().Address)
}

func TestNodeWalletSession_ConnectFailures(t *testing.T) {
	tests := map[string]*fakeWalletAPI{
		"unlock fails":      {unlockErr: errors.New("Invalid password")},
		"addresses fail":    {addressesErr: errors.New("timeout")},
		"no active address": {},
	}
	for name, api := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewNodeWalletSession(api, "ops", "pw", zap.NewNop())
			assert.Error(t, s.Connect(context.Background()))
			assert.Equal(t, entity.Disconnected, s.ConnectionStatus())
		})
	}

	s := NewNodeWalletSession(&fakeWalletAPI{active: "a"}, "", "", zap.NewNop())
	assert.ErrorContains(t, s.Connect(context.Background()), "not configured")
}

func TestNodeWalletSession_Disconnect(t *testing.T) {
	api := &fakeWalletAPI{active: "addr-a", lockErr: errors.New("node down")}
	s := connectedSession(t, api)

	err := s.Disconnect(context.Background())
	assert.Error(t, err)
	assert.True(t, api.locked)
	assert.Equal(t, entity.Disconnected, s.ConnectionStatus())
	assert.Nil(t, s.ActiveAccount())
}

func TestNodeWalletSession_SignAndSubmitTransfer(t *testing.T) {
	api := &fakeWalletAPI{active: "addr-a"}
	s := connectedSession(t, api)

	res, err := s.SignAndSubmitTransfer(context.Background(), "addr-a", recipient(), big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "tx-1", res.TxID)
	require.Len(t, api.transfers, 1)
	assert.Equal(t, "1000", api.transfers[0].String())

	_, err = s.SignAndSubmitTransfer(context.Background(), "addr-other", recipient(), big.NewInt(1))
	assert.ErrorContains(t, err, "not the active wallet address")

	_, err = s.SignAndSubmitTransfer(context.Background(), "addr-a", "not-an-address", big.NewInt(1))
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	api.transferErr = errors.New("Not enough balance")
	_, err = s.SignAndSubmitTransfer(context.Background(), "addr-a", recipient(), big.NewInt(1))
	assert.EqualError(t, err, "Not enough balance")
	assert.Len(t, api.transfers, 1)
}

func TestNodeWalletSession_SubmitRequiresConnection(t *testing.T) {
	s := NewNodeWalletSession(&fakeWalletAPI{}, "ops", "pw", zap.NewNop())

	_, err := s.SignAndSubmitTransfer(context.Background(), "addr-a", recipient(), big.NewInt(1))
	assert.ErrorIs(t, err, entity.ErrNotConnected)
}
