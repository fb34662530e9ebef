package client

import (
	"context"
	"fmt"
	"math/big"
	"net/url"

	"alph_dashboard/internal/domain/entity"

	"github.com/valyala/fasthttp"
)

type transferDestination struct {
	Address        string `json:"address"`
	AttoAlphAmount string `json:"attoAlphAmount"`
}

type transferRequest struct {
	Destinations []transferDestination `json:"destinations"`
}

// UnlockWallet unlocks a node-hosted wallet.
func (c *NodeClient) UnlockWallet(ctx context.Context, walletName, password string) error {
	body := map[string]string{"password": password}
	return c.do(ctx, fasthttp.MethodPost, "/wallets/{name}/unlock", walletPath(walletName, "unlock"), nil, body, nil)
}

// LockWallet locks a node-hosted wallet.
func (c *NodeClient) LockWallet(ctx context.Context, walletName string) error {
	return c.do(ctx, fasthttp.MethodPost, "/wallets/{name}/lock", walletPath(walletName, "lock"), nil, nil, nil)
}

// GetWalletAddresses returns the active address and all addresses of the wallet.
func (c *NodeClient) GetWalletAddresses(ctx context.Context, walletName string) (string, []entity.Account, error) {
	var out struct {
		ActiveAddress string           `json:"activeAddress"`
		Addresses     []entity.Account `json:"addresses"`
	}
	if err := c.do(ctx, fasthttp.MethodGet, "/wallets/{name}/addresses", walletPath(walletName, "addresses"), nil, nil, &out); err != nil {
		return "", nil, err
	}
	return out.ActiveAddress, out.Addresses, nil
}

// Transfer asks the node wallet to sign and broadcast a single-destination ALPH transfer.
func (c *NodeClient) Transfer(ctx context.Context, walletName, destination string, attoAlph *big.Int) (entity.SubmitResult, error) {
	var result entity.SubmitResult
	if attoAlph == nil || attoAlph.Sign() <= 0 {
		return result, fmt.Errorf("transfer amount must be positive")
	}
	body := transferRequest{Destinations: []transferDestination{{Address: destination, AttoAlphAmount: attoAlph.String()}}}
	if err := c.do(ctx, fasthttp.MethodPost, "/wallets/{name}/transfer", walletPath(walletName, "transfer"), nil, body, &result); err != nil {
		return result, err
	}
	if result.TxID == "" {
		return result, fmt.Errorf("node accepted transfer but returned no txId")
	}
	return result, nil
}

func walletPath(walletName, action string) string {
	return "/wallets/" + url.PathEscape(walletName) + "/" + action
}
