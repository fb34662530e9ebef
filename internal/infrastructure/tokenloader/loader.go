package tokenloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/utils"
)

// TokenFileLoader reads token lists from <dir>/<network>.json. It implements port.TokenProvider.
type TokenFileLoader struct {
	tokenDirPath string
	loggerInfo   func(msg string, args ...any)
	loggerWarn   func(msg string, args ...any)
}

// NewTokenLoader creates a new TokenFileLoader.
func NewTokenLoader(tokenDir string, loggerInfo func(msg string, args ...any), loggerWarn func(msg string, args ...any)) *TokenFileLoader {
	return &TokenFileLoader{
		tokenDirPath: tokenDir,
		loggerInfo:   loggerInfo,
		loggerWarn:   loggerWarn,
	}
}

// GetTokenList loads the token list of networkIdentifier. Tokens without an id are skipped.
func (l *TokenFileLoader) GetTokenList(_ context.Context, networkIdentifier string) (entity.TokenList, error) {
	name := strings.ToLower(strings.TrimSpace(networkIdentifier))
	if name == "" || strings.ContainsAny(name, `/\`) {
		return entity.TokenList{}, fmt.Errorf("%w: network %q", entity.ErrInvalidInput, networkIdentifier)
	}

	filePath := filepath.Join(l.tokenDirPath, name+".json")
	list, err := utils.LoadTokenListFromJSON(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && l.loggerWarn != nil {
			l.loggerWarn("Token file not found for network", "path", filePath, "network", name)
		}
		return entity.TokenList{}, fmt.Errorf("failed to load token list for %s: %w", name, err)
	}

	valid := make([]entity.TokenInfo, 0, len(list.Tokens))
	for _, token := range list.Tokens {
		if token.ID == "" {
			if l.loggerWarn != nil {
				l.loggerWarn("Token without id in file, skipping token.", "file", filePath, "token_symbol", token.Symbol)
			}
			continue
		}
		valid = append(valid, token)
	}
	list.Tokens = valid

	if l.loggerInfo != nil {
		l.loggerInfo("Successfully loaded tokens for network from file",
			"network_identifier", name,
			"file", filePath,
			"count", len(valid))
	}
	return list, nil
}
