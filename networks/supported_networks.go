package networks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	EthereumMainnet,
	Sepolia,
	BaseMainnet,
	BaseSepolia,
	Polygon,
	PolygonAmoy,
}

var ErrNetworkNotFound = fmt.Errorf("network not found")

type networks struct {
	networks     map[string]Network
	networksByID map[uint64]Network
}

func newNetworks(list []Network) (*networks, error) {
	result := &networks{
		networks:     map[string]Network{},
		networksByID: map[uint64]Network{},
	}
	for _, n := range list {
		if err := result.add(n); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (n *networks) add(network Network) error {
	names := append([]string{network.GetName()}, network.GetAlternativeNames()...)
	for _, name := range names {
		if _, found := n.networks[name]; found {
			return fmt.Errorf("network with name or alternative name of '%s' already exists", name)
		}
	}
	for _, name := range names {
		n.networks[name] = network
	}
	n.networksByID[network.GetChainID()] = network
	return nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	res, found := n.networks[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetworkByID(id uint64) (Network, error) {
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

var globalSupportedNetworks = mustSupportedNetworks()

func mustSupportedNetworks() *networks {
	result, err := newNetworks(supportedNetworks)
	if err != nil {
		panic(err)
	}
	return result
}

// LoadCustomNetworks registers every *.json network description found in
// dir. Files that fail to parse are reported and skipped.
func LoadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}
	loaded := []Network{}
	errs := []string{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", file, err))
			continue
		}
		network, err := NewNetworkFromJSON(content)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", file, err))
			continue
		}
		if err := globalSupportedNetworks.add(network); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", file, err))
			continue
		}
		loaded = append(loaded, network)
	}
	if len(errs) > 0 {
		return loaded, fmt.Errorf("couldn't load some custom networks: %s", strings.Join(errs, "; "))
	}
	return loaded, nil
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	cfg := GenericNetworkConfig{}
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if cfg.Name == "" || cfg.ChainID == 0 {
		return nil, fmt.Errorf("network config needs a name and a chain id")
	}
	return NewGenericNetwork(cfg), nil
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(name)
}

func GetNetworkByID(id uint64) (Network, error) {
	return globalSupportedNetworks.getNetworkByID(id)
}

// GetSupportedNetworkNames returns primary names only, sorted.
func GetSupportedNetworkNames() []string {
	seen := map[string]bool{}
	res := []string{}
	for _, n := range globalSupportedNetworks.networks {
		if !seen[n.GetName()] {
			seen[n.GetName()] = true
			res = append(res, n.GetName())
		}
	}
	sort.Strings(res)
	return res
}

// GetNodes returns the default nodes of network plus the node given in its
// env var, if any.
func GetNodes(network Network) map[string]string {
	nodes := map[string]string{}
	for name, url := range network.GetDefaultNodes() {
		nodes[name] = url
	}
	customNode := strings.Trim(os.Getenv(network.GetNodeVariableName()), " ")
	if customNode != "" {
		nodes["custom-node"] = customNode
	}
	return nodes
}
