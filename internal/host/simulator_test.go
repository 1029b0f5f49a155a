package host

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ppiankov/callrelay/internal/model"
)

func TestMemStorageCopiesValues(t *testing.T) {
	st := NewMemStorage()
	value := []byte("admin")
	if err := st.Set("acl:level:alice", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'

	got, ok, err := st.Get("acl:level:alice")
	if err != nil || !ok {
		t.Fatalf("get: %v, %v", ok, err)
	}
	if string(got) != "admin" {
		t.Fatalf("stored value aliased caller's slice: %q", got)
	}
}

func TestMemStorageKeysSortedByPrefix(t *testing.T) {
	st := NewMemStorage()
	for _, k := range []string{"acl:level:bob", "acl:level:alice", "tags:schema"} {
		if err := st.Set(k, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	keys, err := st.Keys("acl:level:")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"acl:level:alice", "acl:level:bob"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
}

func TestScheduleOnlyQueues(t *testing.T) {
	sim := NewSimulator(Config{ContractID: "relay.node"})
	sim.RegisterHandler("ledger.node", func(function, args string, deposit uint64) (string, error) {
		return "ok", nil
	})

	var delivered int
	sim.RegisterCallback(func(env Env, outcomes []model.Outcome, args []byte) {
		delivered++
	})

	env := sim.Env("alice")
	err := env.Scheduler().Schedule(Plan{
		Topology: model.Single,
		Calls:    []model.CallDescriptor{{Target: "ledger.node", Function: "record"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if sim.DispatchCount() != 1 {
		t.Fatalf("dispatch count = %d", sim.DispatchCount())
	}
	if delivered != 0 {
		t.Fatal("callback ran before Settle")
	}

	sim.Settle()
	if delivered != 1 {
		t.Fatalf("callback ran %d times", delivered)
	}
}

func TestCallbackSeesContractAsCaller(t *testing.T) {
	sim := NewSimulator(Config{ContractID: "relay.node"})
	sim.RegisterHandler("ledger.node", func(function, args string, deposit uint64) (string, error) {
		return "ok", nil
	})

	var caller string
	sim.RegisterCallback(func(env Env, outcomes []model.Outcome, args []byte) {
		caller = env.Caller()
	})

	sim.Env("alice").Scheduler().Schedule(Plan{
		Topology: model.Single,
		Calls:    []model.CallDescriptor{{Target: "ledger.node", Function: "record"}},
	})
	sim.Settle()

	if caller != "relay.node" {
		t.Fatalf("callback caller = %s", caller)
	}
}

func TestDepositRefundedOnFailure(t *testing.T) {
	sim := NewSimulator(Config{
		ContractID: "relay.node",
		Balances:   map[string]uint64{"relay.node": 50},
	})
	sim.RegisterHandler("ledger.node", func(function, args string, deposit uint64) (string, error) {
		return "", errors.New("reverted")
	})

	sim.Env("alice").Scheduler().Schedule(Plan{
		Topology: model.Single,
		Calls:    []model.CallDescriptor{{Target: "ledger.node", Function: "record", Deposit: 20}},
	})
	sim.Settle()

	if got := sim.Balance("relay.node"); got != 50 {
		t.Fatalf("balance = %d, want refund to 50", got)
	}
	if got := sim.Balance("ledger.node"); got != 0 {
		t.Fatalf("target balance = %d", got)
	}
}

func TestBalancesReturnsSnapshot(t *testing.T) {
	sim := NewSimulator(Config{
		ContractID: "relay.node",
		Balances:   map[string]uint64{"relay.node": 10},
	})
	snap := sim.Balances()
	snap["relay.node"] = 0

	if sim.Balance("relay.node") != 10 {
		t.Fatal("snapshot aliased the live balance map")
	}
}
