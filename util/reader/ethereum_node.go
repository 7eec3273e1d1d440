package reader

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// EthereumNode is one JSON-RPC endpoint. Every call is read only.
type EthereumNode interface {
	NodeName() string
	NodeURL() string
	ChainID(ctx context.Context) (uint64, error)
	GetCode(ctx context.Context, address string) (code []byte, err error)
	ReadContractToBytes(
		ctx context.Context,
		atBlock int64,
		from string,
		caddr string,
		abi *abi.ABI,
		method string,
		args ...interface{},
	) ([]byte, error)
	CurrentBlock(ctx context.Context) (uint64, error)
}
