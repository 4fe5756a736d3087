package networks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	EthereumMainnet,
	Sepolia,
	BSCMainnet,
	Polygon,
	BaseMainnet,
	ArbitrumMainnet,
}

var globalSupportedNetworks = newSupportedNetworks()
var ErrNetworkNotFound = errors.New("network not found")

type networks struct {
	mu           sync.RWMutex
	networks     map[string]Network
	networksByID map[uint64]Network
}

func (n *networks) getSupportedNetworkNames() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res := []string{}
	for name := range n.networks {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (n *networks) getNetworkByID(id uint64) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networks[name]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

// add registers network under its name and alternative names, replacing a
// network with the same name or chain id.
func (n *networks) add(network Network) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, an := range network.GetAlternativeNames() {
		if existing, found := n.networks[an]; found && existing.GetName() != network.GetName() {
			return fmt.Errorf("network with name or alternative name of '%s' already exists", an)
		}
	}
	n.networks[network.GetName()] = network
	n.networksByID[network.GetChainID()] = network
	for _, an := range network.GetAlternativeNames() {
		n.networks[an] = network
	}
	return nil
}

func newSupportedNetworks() *networks {
	result := &networks{
		networks:     map[string]Network{},
		networksByID: map[uint64]Network{},
	}
	for _, n := range supportedNetworks {
		if _, found := result.networks[n.GetName()]; found {
			panic(fmt.Errorf("network with name or alternative name of '%s' already exists", n.GetName()))
		}
		if err := result.add(n); err != nil {
			panic(err)
		}
	}
	return result
}

// LoadCustomNetworks registers every *.json network config found in dir.
// Files that don't parse are skipped and reported in the returned error;
// the rest are still loaded.
func LoadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	loaded := []Network{}
	errs := []error{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read file %s: %w", file, err))
			continue
		}
		network, err := NewNetworkFromJSON(content)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		if err := globalSupportedNetworks.add(network); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		loaded = append(loaded, network)
	}
	return loaded, errors.Join(errs...)
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	networkConfig := GenericNetworkConfig{}
	if err := json.Unmarshal(content, &networkConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if networkConfig.Name == "" || networkConfig.ChainID == 0 {
		return nil, fmt.Errorf("network config needs a name and a chain id")
	}
	return NewGenericNetwork(networkConfig), nil
}

func GetSupportedNetworks() []Network {
	globalSupportedNetworks.mu.RLock()
	defer globalSupportedNetworks.mu.RUnlock()
	res := []Network{}
	for _, n := range globalSupportedNetworks.networksByID {
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].GetChainID() < res[j].GetChainID() })
	return res
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(name)
}

func GetNetworkByID(id uint64) (Network, error) {
	return globalSupportedNetworks.getNetworkByID(id)
}

func GetSupportedNetworkNames() []string {
	return globalSupportedNetworks.getSupportedNetworkNames()
}

// AddNetwork registers network and stores its config in dir so that
// LoadCustomNetworks picks it up next time.
func AddNetwork(network Network, dir string) error {
	if err := globalSupportedNetworks.add(network); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	content, err := network.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}
	err = os.WriteFile(filepath.Join(dir, fmt.Sprintf("%s.json", network.GetName())), content, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write the new network to file: %w", err)
	}
	return nil
}
