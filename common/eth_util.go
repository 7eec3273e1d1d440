package common

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func HexToAddress(hex string) common.Address {
	return common.HexToAddress(hex)
}

func HexToHash(hex string) common.Hash {
	return common.HexToHash(hex)
}

// ParseAddress is the strict version of HexToAddress: it rejects anything
// that is not a 20 byte hex address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%q is not a valid address", s)
	}
	return common.HexToAddress(s), nil
}

// ShortAddress renders 0x1234...abcd.
func ShortAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "..." + hex[len(hex)-4:]
}
