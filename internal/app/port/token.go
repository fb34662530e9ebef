package port

import (
	"context"

	"alph_dashboard/internal/domain/entity"
)

// TokenProvider defines the interface for fetching the token list of a network.
type TokenProvider interface {
	GetTokenList(ctx context.Context, networkIdentifier string) (entity.TokenList, error)
}

// TokenListService serves the token converter.
type TokenListService interface {
	Tokens(ctx context.Context) ([]entity.TokenInfo, error)
	Search(ctx context.Context, query string) ([]entity.TokenInfo, error)
	AddressFromContractID(contractID string) (string, error)
}
