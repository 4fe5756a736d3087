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

	// IsDynamicFee reports whether txs on this network should be EIP-1559
	// typed.
	IsDynamicFee() bool

	MarshalJSON() ([]byte, error)
}
