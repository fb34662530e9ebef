package utils

import (
	"bytes"
	"strings"
	"testing"

	"alph_dashboard/internal/domain/entity"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAddress(prefix byte, fill byte) string {
	return base58.Encode(append([]byte{prefix}, bytes.Repeat([]byte{fill}, hashLength)...))
}

func TestValidateAddress(t *testing.T) {
	for _, prefix := range []byte{addressTypeP2PKH, addressTypeP2MPKH, addressTypeP2SH, addressTypeP2C, addressTypeP2PK} {
		assert.NoError(t, ValidateAddress(encodeAddress(prefix, 0x11)), "prefix 0x%02x", prefix)
	}
	assert.NoError(t, ValidateAddress("  "+encodeAddress(addressTypeP2PKH, 0x22)+"\n"))
}

func TestValidateAddress_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"blank":        "   ",
		"not base58":   "0OIl",
		"too short":    base58.Encode([]byte{addressTypeP2PKH, 1, 2, 3}),
		"unknown type": encodeAddress(0x09, 0x11),
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateAddress(input), entity.ErrInvalidInput)
		})
	}
}

func TestContractIDAddressRoundTrip(t *testing.T) {
	contractID := strings.Repeat("ab", hashLength)

	address, err := AddressFromContractID(contractID)
	require.NoError(t, err)
	require.NoError(t, ValidateAddress(address))

	back, err := ContractIDFromAddress(address)
	require.NoError(t, err)
	assert.Equal(t, contractID, back)

	prefixed, err := AddressFromContractID("0x" + contractID)
	require.NoError(t, err)
	assert.Equal(t, address, prefixed)
}

func TestAddressFromContractID_Invalid(t *testing.T) {
	_, err := AddressFromContractID("zz")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = AddressFromContractID("abcd")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestContractIDFromAddress_RejectsNonContract(t *testing.T) {
	_, err := ContractIDFromAddress(encodeAddress(addressTypeP2PKH, 0x01))
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = ContractIDFromAddress("0OIl")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}
