package networks

import (
	"time"
)

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() uint64
	GetBlockTime() time.Duration

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	// GetDefaultRaise3Contract is the address of the canonical Raise3
	// deployment on this chain, empty when there is none.
	GetDefaultRaise3Contract() string

	MarshalJSON() ([]byte, error)
}
