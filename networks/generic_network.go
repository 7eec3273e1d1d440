package networks

import (
	"encoding/json"
	"time"
)

type GenericNetworkConfig struct {
	Name                  string            `json:"name"`
	AlternativeNames      []string          `json:"alternative_names"`
	ChainID               uint64            `json:"chain_id"`
	NativeTokenSymbol     string            `json:"native_token_symbol"`
	NativeTokenDecimal    uint64            `json:"native_token_decimal"`
	BlockTime             uint64            `json:"block_time"`
	NodeVariableName      string            `json:"node_variable_name"`
	DefaultNodes          map[string]string `json:"default_nodes"`
	DefaultRaise3Contract string            `json:"default_raise3_contract"`
}

// GenericNetwork is an EVM chain described entirely by its config.
type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	return &GenericNetwork{config: config}
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetChainID() uint64 {
	return gn.config.ChainID
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) GetNativeTokenSymbol() string {
	return gn.config.NativeTokenSymbol
}

func (gn *GenericNetwork) GetNativeTokenDecimal() uint64 {
	return gn.config.NativeTokenDecimal
}

func (gn *GenericNetwork) GetBlockTime() time.Duration {
	return time.Duration(gn.config.BlockTime) * time.Second
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

func (gn *GenericNetwork) GetDefaultNodes() map[string]string {
	return gn.config.DefaultNodes
}

func (gn *GenericNetwork) GetDefaultRaise3Contract() string {
	return gn.config.DefaultRaise3Contract
}

func (gn *GenericNetwork) MarshalJSON() ([]byte, error) {
	return json.Marshal(gn.config)
}
