package utils

import (
	"encoding/hex"
	"fmt"
	"strings"

	"alph_dashboard/internal/domain/entity"

	"github.com/mr-tron/base58"
)

// Address type prefixes as encoded in the first byte of a decoded address.
const (
	addressTypeP2PKH  byte = 0x00
	addressTypeP2MPKH byte = 0x01
	addressTypeP2SH   byte = 0x02
	addressTypeP2C    byte = 0x03
	addressTypeP2PK   byte = 0x04
)

const hashLength = 32

// ValidateAddress checks that s is a base58 Alephium address of a known type.
func ValidateAddress(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%w: empty address", entity.ErrInvalidInput)
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: address %q is not base58: %v", entity.ErrInvalidInput, s, err)
	}
	if len(raw) < 1+hashLength {
		return fmt.Errorf("%w: address %q is too short", entity.ErrInvalidInput, s)
	}
	switch raw[0] {
	case addressTypeP2PKH, addressTypeP2MPKH, addressTypeP2SH, addressTypeP2C, addressTypeP2PK:
		return nil
	default:
		return fmt.Errorf("%w: address %q has unknown type 0x%02x", entity.ErrInvalidInput, s, raw[0])
	}
}

// AddressFromContractID derives the base58 contract address of a hex contract (token) id.
func AddressFromContractID(contractID string) (string, error) {
	id, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(contractID), "0x"))
	if err != nil {
		return "", fmt.Errorf("%w: contract id %q is not hex: %v", entity.ErrInvalidInput, contractID, err)
	}
	if len(id) != hashLength {
		return "", fmt.Errorf("%w: contract id must be %d bytes, got %d", entity.ErrInvalidInput, hashLength, len(id))
	}
	return base58.Encode(append([]byte{addressTypeP2C}, id...)), nil
}

// ContractIDFromAddress is the inverse of AddressFromContractID.
func ContractIDFromAddress(address string) (string, error) {
	raw, err := base58.Decode(strings.TrimSpace(address))
	if err != nil {
		return "", fmt.Errorf("%w: address %q is not base58: %v", entity.ErrInvalidInput, address, err)
	}
	if len(raw) != 1+hashLength || raw[0] != addressTypeP2C {
		return "", fmt.Errorf("%w: %q is not a contract address", entity.ErrInvalidInput, address)
	}
	return hex.EncodeToString(raw[1:]), nil
}
