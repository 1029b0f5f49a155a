// Package node assembles a local relay node: SQLite-backed host
// storage, the deterministic host simulator, the relay contract, and
// the hash-chained audit log, all rooted in one data directory.
package node

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/callrelay/internal/audit"
	"github.com/ppiankov/callrelay/internal/genesis"
	"github.com/ppiankov/callrelay/internal/host"
	"github.com/ppiankov/callrelay/internal/model"
	"github.com/ppiankov/callrelay/internal/relay"
	"github.com/ppiankov/callrelay/internal/store"
)

// Node-level storage keys. These live beside the contract's own
// namespaces and carry host state: the contract identity, account
// balances, and local stub targets.
const (
	keyContract      = "node:contract"
	keyBalancePrefix = "node:bal:"
	keyStubPrefix    = "node:stub:"
)

const (
	stateFile = "state.db"
	auditFile = "audit.jsonl"
)

// Node is an assembled local relay node.
type Node struct {
	Contract *relay.Contract
	Sim      *host.Simulator

	contractID string
	st         *store.Store
	auditLog   *audit.Log
}

// Bootstrap creates the node state in dataDir from a genesis file and
// runs the contract's one-time Init. It fails if the directory already
// holds a bootstrapped node.
func Bootstrap(dataDir string, g *genesis.Genesis) (*Node, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("node: create %s: %w", dataDir, err)
	}
	st, err := store.Open(filepath.Join(dataDir, stateFile))
	if err != nil {
		return nil, err
	}

	if _, ok, err := st.Get(keyContract); err != nil {
		st.Close()
		return nil, err
	} else if ok {
		st.Close()
		return nil, fmt.Errorf("node: %s already holds a bootstrapped node", dataDir)
	}

	if err := st.Set(keyContract, []byte(g.Contract)); err != nil {
		st.Close()
		return nil, err
	}
	for account, balance := range g.Balances {
		if err := st.Set(keyBalancePrefix+account, []byte(strconv.FormatUint(balance, 10))); err != nil {
			st.Close()
			return nil, err
		}
	}
	for _, stub := range g.Stubs {
		raw, err := json.Marshal(stub.Fail)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("node: encode stub %s: %w", stub.ID, err)
		}
		if err := st.Set(keyStubPrefix+stub.ID, raw); err != nil {
			st.Close()
			return nil, err
		}
	}

	n, err := assemble(dataDir, st)
	if err != nil {
		st.Close()
		return nil, err
	}

	// Init runs as the deploying identity: the contract account itself.
	if err := n.Contract.Init(n.Env(g.Contract), g.Admins); err != nil {
		n.Close()
		return nil, err
	}
	if len(g.RequiredTags) > 0 {
		if err := n.Contract.SetRequiredTags(n.Env(g.Contract), g.RequiredTags); err != nil {
			n.Close()
			return nil, err
		}
	}
	if err := n.saveBalances(); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

// Open attaches to an existing node in dataDir.
func Open(dataDir string) (*Node, error) {
	st, err := store.Open(filepath.Join(dataDir, stateFile))
	if err != nil {
		return nil, err
	}
	n, err := assemble(dataDir, st)
	if err != nil {
		st.Close()
		return nil, err
	}
	return n, nil
}

func assemble(dataDir string, st *store.Store) (*Node, error) {
	raw, ok, err := st.Get(keyContract)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("node: %s is not bootstrapped, run init first", dataDir)
	}
	contractID := string(raw)

	auditLog, err := audit.Open(filepath.Join(dataDir, auditFile))
	if err != nil {
		return nil, err
	}

	balances, err := loadBalances(st)
	if err != nil {
		auditLog.Close()
		return nil, err
	}

	sim := host.NewSimulator(host.Config{
		ContractID: contractID,
		Storage:    st,
		Sink:       auditLog,
		Balances:   balances,
	})

	if err := registerStubs(st, sim); err != nil {
		auditLog.Close()
		return nil, err
	}

	contract := relay.New()
	contract.Register(sim)

	return &Node{
		Contract:   contract,
		Sim:        sim,
		contractID: contractID,
		st:         st,
		auditLog:   auditLog,
	}, nil
}

// Env returns an invocation context signed by caller.
func (n *Node) Env(caller string) host.Env {
	return n.Sim.Env(caller)
}

// ContractID is the identity the relay contract is deployed under.
func (n *Node) ContractID() string {
	return n.contractID
}

// Relay validates and schedules a batch as caller, settles the plan,
// and persists the resulting balances. Validation errors return before
// anything is scheduled; post-dispatch failures surface only in the
// audit log.
func (n *Node) Relay(caller, rawTags string, batch model.CallBatch) error {
	if err := n.Contract.LogCall(n.Env(caller), rawTags, batch); err != nil {
		return err
	}
	n.Sim.Settle()
	return n.saveBalances()
}

// Close persists balances and releases the audit log and store.
func (n *Node) Close() error {
	saveErr := n.saveBalances()
	if err := n.auditLog.Close(); err != nil && saveErr == nil {
		saveErr = err
	}
	if err := n.st.Close(); err != nil && saveErr == nil {
		saveErr = err
	}
	return saveErr
}

func (n *Node) saveBalances() error {
	for account, balance := range n.Sim.Balances() {
		if err := n.st.Set(keyBalancePrefix+account, []byte(strconv.FormatUint(balance, 10))); err != nil {
			return err
		}
	}
	return nil
}

func loadBalances(st *store.Store) (map[string]uint64, error) {
	keys, err := st.Keys(keyBalancePrefix)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]uint64, len(keys))
	for _, key := range keys {
		raw, _, err := st.Get(key)
		if err != nil {
			return nil, err
		}
		balance, err := strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("node: corrupt balance under %s: %w", key, err)
		}
		balances[strings.TrimPrefix(key, keyBalancePrefix)] = balance
	}
	return balances, nil
}

func registerStubs(st *store.Store, sim *host.Simulator) error {
	keys, err := st.Keys(keyStubPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		raw, _, err := st.Get(key)
		if err != nil {
			return err
		}
		var fail []string
		if err := json.Unmarshal(raw, &fail); err != nil {
			return fmt.Errorf("node: corrupt stub under %s: %w", key, err)
		}
		sim.RegisterHandler(strings.TrimPrefix(key, keyStubPrefix), stubHandler(fail))
	}
	return nil
}

// stubHandler builds a local stand-in contract: listed functions fail,
// everything else succeeds echoing the function name.
func stubHandler(fail []string) host.Handler {
	failing := make(map[string]bool, len(fail))
	for _, f := range fail {
		failing[f] = true
	}
	return func(function, args string, deposit uint64) (string, error) {
		if failing[function] {
			return "", fmt.Errorf("node: stub function %s fails", function)
		}
		return "ran " + function, nil
	}
}
