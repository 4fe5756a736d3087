package networks

import (
	"encoding/json"
	"math/big"
	"os"
	"strings"
	"time"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

type GenericNetworkConfig struct {
	Name               string            `json:"name"`
	AlternativeNames   []string          `json:"alternative_names"`
	ChainID            uint64            `json:"chain_id"`
	NativeTokenSymbol  string            `json:"native_token_symbol"`
	NativeTokenDecimal uint64            `json:"native_token_decimal"`
	BlockTime          uint64            `json:"block_time"`
	NodeVariableName   string            `json:"node_variable_name"`
	DefaultNodes       map[string]string `json:"default_nodes"`
	DynamicFee         bool              `json:"dynamic_fee"`
}

// GenericNetwork is a network fully described by its config. All built in
// networks are GenericNetworks and custom ones are loaded from json.
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

func (gn *GenericNetwork) IsDynamicFee() bool {
	return gn.config.DynamicFee
}

func (gn *GenericNetwork) MarshalJSON() ([]byte, error) {
	return json.Marshal(gn.config)
}

// Nodes returns the default nodes of n plus the node set in its node
// environment variable, if any.
func Nodes(n Network) map[string]string {
	nodes := map[string]string{}
	for name, url := range n.GetDefaultNodes() {
		nodes[name] = url
	}
	if v := n.GetNodeVariableName(); v != "" {
		customNode := strings.TrimSpace(os.Getenv(v))
		if customNode != "" {
			nodes["custom-node"] = customNode
		}
	}
	return nodes
}

// ChainParams returns what the tx builder needs to sign for n. tipCap is
// only used on dynamic fee networks and may be nil.
func ChainParams(n Network, tipCap *big.Int) walletcommon.ChainParameters {
	return walletcommon.ChainParameters{
		ChainID:    new(big.Int).SetUint64(n.GetChainID()),
		DynamicFee: n.IsDynamicFee(),
		TipCap:     tipCap,
	}
}
