package entity

// TokenInfo holds the details of a token listed in the Alephium token list.
type TokenInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	Description string `json:"description,omitempty"`
	LogoURI     string `json:"logoURI,omitempty"`
	// Address is the base58 contract address derived from ID.
	Address string `json:"address,omitempty"`
}

// TokenList is the document published per network in the token-list repository.
type TokenList struct {
	NetworkID int32       `json:"networkId"`
	Tokens    []TokenInfo `json:"tokens"`
}
