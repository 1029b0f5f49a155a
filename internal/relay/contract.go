// Package relay implements a permissioned cross-contract call relay
// with audit logging. Whitelisted callers submit a tag payload plus a
// batch of call descriptors; the contract validates trust, tag schema
// compliance, and funds, schedules the batch through the host, and
// records every settled outcome in the audit log from its continuation.
//
// The contract is stateless in memory: all durable state lives in host
// storage under fixed key namespaces, and all state needed after the
// async boundary travels inside the continuation message.
package relay

import "github.com/ppiankov/callrelay/internal/host"

// Storage key namespaces.
const (
	keyInit        = "acl:init"
	keyTrustPolicy = "acl:policy"
	keyLevelPrefix = "acl:level:"
	keyTagSchema   = "tags:schema"
)

// Contract is the relay contract. Every exported method is a host
// entry point taking the invocation's Env; the receiver itself holds
// no state.
type Contract struct{}

// New returns the relay contract.
func New() *Contract {
	return &Contract{}
}

// CallbackMethod is the name the orchestrator registers the
// continuation under.
const CallbackMethod = "callback"

// Register wires the contract's continuation into a simulator host.
func (c *Contract) Register(sim *host.Simulator) {
	sim.RegisterCallback(c.Callback)
}
