package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/raise3/raise3/browser"
	"github.com/raise3/raise3/config"
	"github.com/raise3/raise3/crowdfund"
	"github.com/raise3/raise3/metadata"
	"github.com/raise3/raise3/networks"
	"github.com/raise3/raise3/roles"
	"github.com/raise3/raise3/util/cache"
	"github.com/raise3/raise3/util/reader"
)

// env is what the read commands share: one reader, one contract binding
// and one metadata loader per process.
type env struct {
	network  networks.Network
	reader   *reader.EthReader
	contract *crowdfund.Contract
	loader   *metadata.Loader
	browser  *browser.Browser
	roles    *roles.Resolver
	redis    *redis.Client
}

func contractAddress(network networks.Network) (string, error) {
	if a := strings.TrimSpace(config.Contract); a != "" {
		return a, nil
	}
	if a, err := fileConfig.ContractFor(network.GetName()); err == nil {
		return a, nil
	}
	if a := network.GetDefaultRaise3Contract(); a != "" {
		return a, nil
	}
	return fileConfig.ContractFor(network.GetName())
}

func redisClient() *redis.Client {
	addr := strings.TrimSpace(config.RedisAddr)
	if addr == "" {
		addr = fileConfig.Store.RedisAddr
	}
	if addr == "" {
		return nil
	}
	return cache.NewRedisClient(addr, fileConfig.Store.RedisDB)
}

func newEnv() (*env, error) {
	network, err := networks.GetNetwork(config.Network)
	if err != nil {
		return nil, err
	}
	address, err := contractAddress(network)
	if err != nil {
		return nil, err
	}
	nodes := networks.GetNodes(network)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes for %s, set %s", network.GetName(), network.GetNodeVariableName())
	}
	r := reader.NewEthReaderGeneric(nodes)
	contract := crowdfund.NewContract(address, r)

	gateway := strings.TrimSpace(config.Gateway)
	if gateway == "" {
		gateway = fileConfig.IPFS.Gateway
	}
	result := &env{
		network:  network,
		reader:   r,
		contract: contract,
		redis:    redisClient(),
	}
	var l2 metadata.Store
	if result.redis != nil {
		l2 = cache.NewRedisStore(result.redis, "raise3:", 0, appLog)
	}
	result.loader = metadata.NewLoader(metadata.NewGatewayFetcher(gateway, 15*time.Second), l2, appLog)

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = fileConfig.Concurrency
	}
	result.browser = browser.NewBrowser(contract, result.loader, concurrency, appLog)
	result.roles = roles.NewResolver(contract, nil, appLog)
	return result, nil
}

// verifyDeployment fails when the nodes or the contract address don't
// match the selected network.
func (self *env) verifyDeployment(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, DEPLOYMENT_TIMEOUT)
	defer cancel()
	return checkDeployment(ctx, self.reader, self.network, self.contract.Address)
}

func (self *env) Close() {
	if self.redis != nil {
		_ = self.redis.Close()
	}
}
