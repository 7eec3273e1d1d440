package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_GATEWAY = "https://gateway.pinata.cloud"
	DEFAULT_PINATA  = "https://api.pinata.cloud"

	CONTRACT_VAR    = "RAISE3_CONTRACT"
	PINATA_JWT_VAR  = "RAISE3_PINATA_JWT"
	PINATA_API_VAR  = "RAISE3_PINATA_API"
	GATEWAY_VAR     = "RAISE3_GATEWAY"
	REDIS_ADDR_VAR  = "RAISE3_REDIS_ADDR"
	STORE_PATH_VAR  = "RAISE3_STORE_PATH"
	CONCURRENCY_VAR = "RAISE3_CONCURRENCY"
)

type PinataConfig struct {
	JWT    string `yaml:"jwt"`
	APIURL string `yaml:"api_url"`
}

type IPFSConfig struct {
	Gateway string `yaml:"gateway"`
}

type StoreConfig struct {
	// Path of the JSON file holding wallet session flags.
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
}

type RoutesConfig struct {
	Landing      string `yaml:"landing"`
	Registration string `yaml:"registration"`
	Dashboard    string `yaml:"dashboard"`
}

type File struct {
	Network string `yaml:"network"`
	// Contracts maps a network name to the Raise3 contract address.
	Contracts   map[string]string `yaml:"contracts"`
	Concurrency int               `yaml:"concurrency"`
	Pinata      PinataConfig      `yaml:"pinata"`
	IPFS        IPFSConfig        `yaml:"ipfs"`
	Store       StoreConfig       `yaml:"store"`
	Routes      RoutesConfig      `yaml:"routes"`

	// contract comes from the environment and applies to whichever
	// network is active.
	contract string
}

func DefaultDir() string {
	usr, err := user.Current()
	if err != nil {
		return ".raise3"
	}
	return filepath.Join(usr.HomeDir, ".raise3")
}

func DefaultFile() *File {
	return &File{
		Network:     "sepolia",
		Contracts:   map[string]string{},
		Concurrency: 8,
		Pinata:      PinataConfig{APIURL: DEFAULT_PINATA},
		IPFS:        IPFSConfig{Gateway: DEFAULT_GATEWAY},
		Store:       StoreConfig{Path: filepath.Join(DefaultDir(), "session.json")},
		Routes: RoutesConfig{
			Landing:      "/",
			Registration: "/register",
			Dashboard:    "/dashboard",
		},
	}
}

// Load reads path on top of the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*File, error) {
	cfg := DefaultFile()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("couldn't decode %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("couldn't read %s: %w", path, err)
	}
	if cfg.Contracts == nil {
		cfg.Contracts = map[string]string{}
	}
	cfg.overrideFromEnv()
	return cfg, nil
}

func (f *File) overrideFromEnv() {
	if v := strings.TrimSpace(os.Getenv(CONTRACT_VAR)); v != "" {
		f.contract = v
	}
	if v := strings.TrimSpace(os.Getenv(PINATA_JWT_VAR)); v != "" {
		f.Pinata.JWT = v
	}
	if v := strings.TrimSpace(os.Getenv(PINATA_API_VAR)); v != "" {
		f.Pinata.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(GATEWAY_VAR)); v != "" {
		f.IPFS.Gateway = v
	}
	if v := strings.TrimSpace(os.Getenv(REDIS_ADDR_VAR)); v != "" {
		f.Store.RedisAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(STORE_PATH_VAR)); v != "" {
		f.Store.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(CONCURRENCY_VAR)); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			f.Concurrency = n
		}
	}
}

// ContractFor returns the configured contract address of network. The
// environment variable wins over the file for every network.
func (f *File) ContractFor(network string) (string, error) {
	if f.contract != "" {
		return f.contract, nil
	}
	addr, found := f.Contracts[network]
	if !found || strings.TrimSpace(addr) == "" {
		return "", fmt.Errorf("no Raise3 contract configured for '%s', set %s or contracts.%s in the config file", network, CONTRACT_VAR, network)
	}
	return addr, nil
}
