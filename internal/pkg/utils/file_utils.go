package utils

import (
	"fmt"
	"os"

	"alph_dashboard/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

// LoadTokenListFromJSON reads a token-list document (the same format the token-list repository publishes).
func LoadTokenListFromJSON(filePath string) (entity.TokenList, error) {
	var list entity.TokenList
	data, err := os.ReadFile(filePath)
	if err != nil {
		return list, err
	}

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &list); err != nil {
		return list, fmt.Errorf("failed to decode token list %s: %w", filePath, err)
	}
	return list, nil
}
