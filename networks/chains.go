package networks

var EthereumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "mainnet",
	AlternativeNames:   []string{"ethereum"},
	ChainID:            1,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"mainnet-publicnode": "https://ethereum-rpc.publicnode.com",
		"mainnet-llamarpc":   "https://eth.llamarpc.com",
	},
})

var Sepolia Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "sepolia",
	AlternativeNames:   []string{"eth-sepolia"},
	ChainID:            11155111,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_SEPOLIA_NODE",
	DefaultNodes: map[string]string{
		"sepolia-publicnode": "https://ethereum-sepolia-rpc.publicnode.com",
		"sepolia-drpc":       "https://sepolia.drpc.org",
	},
})

var BaseMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "base",
	AlternativeNames:   []string{},
	ChainID:            8453,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "BASE_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"public-base": "https://mainnet.base.org",
	},
})

var BaseSepolia Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "base-sepolia",
	AlternativeNames:   []string{},
	ChainID:            84532,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "BASE_SEPOLIA_NODE",
	DefaultNodes: map[string]string{
		"public-base-sepolia": "https://sepolia.base.org",
	},
})

var Polygon Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "polygon",
	AlternativeNames:   []string{"matic"},
	ChainID:            137,
	NativeTokenSymbol:  "POL",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "POLYGON_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"polygon-rpc": "https://polygon-rpc.com",
	},
})

var PolygonAmoy Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "amoy",
	AlternativeNames:   []string{"polygon-amoy"},
	ChainID:            80002,
	NativeTokenSymbol:  "POL",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "POLYGON_AMOY_NODE",
	DefaultNodes: map[string]string{
		"amoy-rpc": "https://rpc-amoy.polygon.technology",
	},
})
