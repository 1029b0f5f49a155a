// Package host models the deterministic contract host the relay runs
// inside: key-value storage, an async call scheduler, and the
// per-invocation environment. The contract consumes these as given
// capabilities; the Simulator in this package is the local stand-in
// for the real host.
package host

import (
	"github.com/ppiankov/callrelay/internal/audit"
	"github.com/ppiankov/callrelay/internal/model"
)

// Storage is the host's persistent key-value store.
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// Continuation describes the callback the host invokes against the
// contract's own identity once a scheduled plan settles. Args is the
// serialized ContinuationMessage — the only state that survives the
// async boundary. Gas is a fixed reserve, independent of the gas
// consumed by the scheduled calls.
type Continuation struct {
	Method string
	Args   []byte
	Gas    uint64
}

// Plan is a validated dispatch plan handed to the host scheduler.
type Plan struct {
	Topology model.Topology
	Calls    []model.CallDescriptor
	Callback Continuation
}

// Scheduler accepts dispatch plans for asynchronous execution.
type Scheduler interface {
	Schedule(plan Plan) error
}

// Sink receives audit entries emitted by the callback.
type Sink interface {
	Record(entry audit.Entry) error
}

// Env is the per-invocation execution context the host hands to each
// exported contract entry point. Invocations are serialized by the
// host; no two run concurrently.
type Env interface {
	// ContractID is the identity the contract is deployed under.
	ContractID() string
	// Caller is the account that signed this invocation.
	Caller() string
	// Balance is the contract's currently available balance.
	Balance() uint64
	Storage() Storage
	Scheduler() Scheduler
	// Log emits a host-level log line (notices, diagnostics).
	Log(line string)
	// Audit is the structured audit sink. Never nil; a node without a
	// configured sink gets a discarding one.
	Audit() Sink
}
