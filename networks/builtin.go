package networks

var (
	EthereumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
		Name:               "mainnet",
		AlternativeNames:   []string{"ethereum"},
		ChainID:            1,
		NativeTokenSymbol:  "ETH",
		NativeTokenDecimal: 18,
		BlockTime:          12,
		NodeVariableName:   "ETHEREUM_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"mainnet-publicnode": "https://ethereum-rpc.publicnode.com",
		},
		DynamicFee: false,
	})

	Sepolia Network = NewGenericNetwork(GenericNetworkConfig{
		Name:               "sepolia",
		AlternativeNames:   []string{},
		ChainID:            11155111,
		NativeTokenSymbol:  "ETH",
		NativeTokenDecimal: 18,
		BlockTime:          12,
		NodeVariableName:   "ETHEREUM_SEPOLIA_NODE",
		DefaultNodes: map[string]string{
			"sepolia-publicnode": "https://ethereum-sepolia-rpc.publicnode.com",
		},
	})

	BSCMainnet Network = NewGenericNetwork(GenericNetworkConfig{
		Name:               "bsc",
		AlternativeNames:   []string{"binance"},
		ChainID:            56,
		NativeTokenSymbol:  "BNB",
		NativeTokenDecimal: 18,
		BlockTime:          3,
		NodeVariableName:   "BSC_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"binance": "https://bsc-dataseed.binance.org",
		},
	})

	Polygon Network = NewGenericNetwork(GenericNetworkConfig{
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
		DynamicFee: true,
	})

	BaseMainnet Network = NewGenericNetwork(GenericNetworkConfig{
		Name:               "base",
		AlternativeNames:   []string{},
		ChainID:            8453,
		NativeTokenSymbol:  "ETH",
		NativeTokenDecimal: 18,
		BlockTime:          2,
		NodeVariableName:   "BASE_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"base-official": "https://mainnet.base.org",
		},
		DynamicFee: true,
	})

	ArbitrumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
		Name:               "arbitrum",
		AlternativeNames:   []string{"arb"},
		ChainID:            42161,
		NativeTokenSymbol:  "ETH",
		NativeTokenDecimal: 18,
		BlockTime:          1,
		NodeVariableName:   "ARBITRUM_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"arbitrum-official": "https://arb1.arbitrum.io/rpc",
		},
		DynamicFee: true,
	})
)
