// Package genesis loads the node's one-time setup: the contract
// identity, its admin accounts, initial balances, and optional initial
// tag schema and stub targets for local runs.
package genesis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Stub declares a local stand-in contract for a target account. Calls
// to functions listed in Fail fail; everything else succeeds echoing
// the function name.
type Stub struct {
	ID   string   `yaml:"id"`
	Fail []string `yaml:"fail,omitempty"`
}

// Genesis holds the initial node state.
type Genesis struct {
	Contract     string            `yaml:"contract"`
	Admins       []string          `yaml:"admins"`
	RequiredTags []string          `yaml:"required_tags,omitempty"`
	Balances     map[string]uint64 `yaml:"balances,omitempty"`
	Stubs        []Stub            `yaml:"stubs,omitempty"`
}

// Default returns a minimal local genesis.
func Default() *Genesis {
	return &Genesis{
		Contract: "relay.local",
		Balances: map[string]uint64{"relay.local": 1_000_000},
	}
}

// Load reads and validates a genesis YAML file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genesis: read %s: %w", path, err)
	}
	var g Genesis
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("genesis: parse %s: %w", path, err)
	}
	if g.Contract == "" {
		return nil, fmt.Errorf("genesis: %s: contract account is required", path)
	}
	return &g, nil
}
