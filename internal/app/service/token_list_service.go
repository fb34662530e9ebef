package service

import (
	"context"
	"strings"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/utils"
)

// tokenListServiceImpl implements port.TokenListService
type tokenListServiceImpl struct {
	tokenProvider port.TokenProvider
	network       string
	logger        port.Logger
}

// NewTokenListService creates a new instance of tokenListServiceImpl for one network.
func NewTokenListService(tp port.TokenProvider, networkIdentifier string, l port.Logger) port.TokenListService {
	return &tokenListServiceImpl{
		tokenProvider: tp,
		network:       networkIdentifier,
		logger:        l,
	}
}

// Tokens returns every listed token with its contract address filled in.
func (s *tokenListServiceImpl) Tokens(ctx context.Context) ([]entity.TokenInfo, error) {
	list, err := s.tokenProvider.GetTokenList(ctx, s.network)
	if err != nil {
		return nil, err
	}

	tokens := make([]entity.TokenInfo, 0, len(list.Tokens))
	for _, token := range list.Tokens {
		if token.Address == "" {
			address, err := utils.AddressFromContractID(token.ID)
			if err != nil {
				s.logger.Warn("Token id is not a contract id, address left empty", "symbol", token.Symbol, "id", token.ID, "error", err)
			}
			token.Address = address
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// Search matches query case-insensitively against symbol, name and id. An empty query returns all tokens.
func (s *tokenListServiceImpl) Search(ctx context.Context, query string) ([]entity.TokenInfo, error) {
	tokens, err := s.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tokens, nil
	}

	matches := make([]entity.TokenInfo, 0)
	for _, token := range tokens {
		if strings.Contains(strings.ToLower(token.Symbol), query) ||
			strings.Contains(strings.ToLower(token.Name), query) ||
			strings.Contains(strings.ToLower(token.ID), query) {
			matches = append(matches, token)
		}
	}
	return matches, nil
}

// AddressFromContractID converts a hex contract id into its base58 contract address.
func (s *tokenListServiceImpl) AddressFromContractID(contractID string) (string, error) {
	return utils.AddressFromContractID(strings.TrimSpace(contractID))
}
