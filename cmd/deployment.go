package cmd

import (
	"context"
	"fmt"

	"github.com/raise3/raise3/networks"
)

const DEPLOYMENT_TIMEOUT = ROLE_TIMEOUT

// chainInspector is the part of reader.EthReader needed to tell a wrong
// network or contract address apart from a failing read.
type chainInspector interface {
	ChainID(ctx context.Context) (uint64, error)
	GetCode(ctx context.Context, address string) ([]byte, error)
	CurrentBlock(ctx context.Context) (uint64, error)
}

// checkDeployment returns the current block once the nodes are known to
// serve network and contract has code on it.
func checkDeployment(ctx context.Context, r chainInspector, network networks.Network, contract string) (uint64, error) {
	id, err := r.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("couldn't read the chain id: %w", err)
	}
	if id != network.GetChainID() {
		return 0, fmt.Errorf("the %s nodes are on chain %d, expected %d", network.GetName(), id, network.GetChainID())
	}
	code, err := r.GetCode(ctx, contract)
	if err != nil {
		return 0, fmt.Errorf("couldn't read the code at %s: %w", contract, err)
	}
	if len(code) == 0 {
		return 0, fmt.Errorf("no contract at %s on %s, check --contract and --network", contract, network.GetName())
	}
	block, err := r.CurrentBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("couldn't read the current block: %w", err)
	}
	return block, nil
}
