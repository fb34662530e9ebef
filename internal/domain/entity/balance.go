package entity

import "math/big"

// AccountBalance represents the ALPH holdings of a single address as reported by the node.
type AccountBalance struct {
	Address          string        `json:"address"`
	Balance          *big.Int      `json:"-"`
	LockedBalance    *big.Int      `json:"-"`
	FormattedBalance string        `json:"formattedBalance"`
	FormattedLocked  string        `json:"formattedLockedBalance"`
	NativeSymbol     string        `json:"nativeSymbol"`
	UtxoNum          int           `json:"utxoNum"`
	Tokens           []TokenAmount `json:"tokens,omitempty"`
}

// TokenAmount is a raw token balance keyed by token id.
type TokenAmount struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}
