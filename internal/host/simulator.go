package host

import (
	"fmt"

	"github.com/ppiankov/callrelay/internal/audit"
	"github.com/ppiankov/callrelay/internal/model"
)

// Handler stands in for an external contract account. It receives the
// function name, the opaque argument payload, and the attached deposit,
// and returns the result payload or an execution failure.
type Handler func(function, args string, deposit uint64) (string, error)

// CallbackFn is the contract's continuation entry point. The simulator
// invokes it exactly once per settled plan, with caller set to the
// contract's own identity and no shared memory with the scheduling
// invocation — only the serialized args survive the boundary.
type CallbackFn func(env Env, outcomes []model.Outcome, args []byte)

// Config assembles a simulator.
type Config struct {
	ContractID string
	Storage    Storage
	Sink       Sink
	Balances   map[string]uint64
}

// Simulator is a deterministic, single-threaded stand-in for the
// contract host. Entry points run to completion synchronously; plans
// scheduled during an invocation are queued and only executed by
// Settle, which then delivers the continuation as a second, stackless
// invocation. That two-invocation shape is the contract's real
// execution model, so tests against the simulator exercise the same
// state threading the production host requires.
type Simulator struct {
	contractID string
	storage    Storage
	sink       Sink
	balances   map[string]uint64
	handlers   map[string]Handler
	callback   CallbackFn
	pending    []Plan
	dispatched int
	logs       []string
}

// NewSimulator builds a simulator from cfg. Storage defaults to an
// in-memory store, Sink to a discarding sink.
func NewSimulator(cfg Config) *Simulator {
	st := cfg.Storage
	if st == nil {
		st = NewMemStorage()
	}
	sink := cfg.Sink
	if sink == nil {
		sink = discardSink{}
	}
	balances := make(map[string]uint64, len(cfg.Balances))
	for k, v := range cfg.Balances {
		balances[k] = v
	}
	return &Simulator{
		contractID: cfg.ContractID,
		storage:    st,
		sink:       sink,
		balances:   balances,
		handlers:   make(map[string]Handler),
	}
}

// RegisterHandler installs a stub contract under the given account.
func (s *Simulator) RegisterHandler(account string, h Handler) {
	s.handlers[account] = h
}

// RegisterCallback installs the contract's continuation entry point.
func (s *Simulator) RegisterCallback(cb CallbackFn) {
	s.callback = cb
}

// Env returns the execution context for one invocation signed by caller.
func (s *Simulator) Env(caller string) Env {
	return &simEnv{sim: s, caller: caller}
}

// DispatchCount reports the total number of calls scheduled so far.
func (s *Simulator) DispatchCount() int {
	return s.dispatched
}

// Balance reports an account's current balance.
func (s *Simulator) Balance(account string) uint64 {
	return s.balances[account]
}

// Balances returns a snapshot of every account balance.
func (s *Simulator) Balances() map[string]uint64 {
	out := make(map[string]uint64, len(s.balances))
	for k, v := range s.balances {
		out[k] = v
	}
	return out
}

// Logs returns every line emitted through Env.Log, oldest first.
func (s *Simulator) Logs() []string {
	return s.logs
}

// Settle executes all queued plans in submission order and delivers
// each plan's continuation. Plans scheduled from within a continuation
// are picked up in the same drain.
func (s *Simulator) Settle() {
	for len(s.pending) > 0 {
		plan := s.pending[0]
		s.pending = s.pending[1:]

		outcomes := s.execute(plan)
		if s.callback != nil {
			s.callback(s.Env(s.contractID), outcomes, plan.Callback.Args)
		}
	}
}

// execute runs a plan's calls per its topology and returns one settled
// outcome per call, in scheduling order.
func (s *Simulator) execute(plan Plan) []model.Outcome {
	if plan.Topology == model.Parallel {
		return s.executeAtomic(plan.Calls)
	}
	outcomes := make([]model.Outcome, 0, len(plan.Calls))
	for _, call := range plan.Calls {
		outcomes = append(outcomes, s.executeOne(call))
	}
	return outcomes
}

// executeOne runs a single call as its own transaction. The deposit
// moves to the target on success and returns to the contract on failure.
func (s *Simulator) executeOne(call model.CallDescriptor) model.Outcome {
	if s.balances[s.contractID] < call.Deposit {
		return model.Outcome{Status: model.OutcomeFailed}
	}
	s.balances[s.contractID] -= call.Deposit

	data, err := s.dispatch(call)
	if err != nil {
		s.balances[s.contractID] += call.Deposit
		return model.Outcome{Status: model.OutcomeFailed}
	}
	s.balances[call.Target] += call.Deposit
	return model.Outcome{Status: model.OutcomeSucceeded, Data: data}
}

// executeAtomic runs a parallel batch as one transaction against one
// target: actions execute in submission order, and the first failure
// reverts every transfer and fails the whole batch.
func (s *Simulator) executeAtomic(calls []model.CallDescriptor) []model.Outcome {
	snapshot := make(map[string]uint64, len(s.balances))
	for k, v := range s.balances {
		snapshot[k] = v
	}

	outcomes := make([]model.Outcome, len(calls))
	for i, call := range calls {
		out := s.executeOne(call)
		if out.Status == model.OutcomeFailed {
			s.balances = snapshot
			for j := range outcomes {
				outcomes[j] = model.Outcome{Status: model.OutcomeFailed}
			}
			return outcomes
		}
		outcomes[i] = out
	}
	return outcomes
}

func (s *Simulator) dispatch(call model.CallDescriptor) (string, error) {
	h, ok := s.handlers[call.Target]
	if !ok {
		return "", fmt.Errorf("host: account %s has no contract", call.Target)
	}
	return h(call.Function, call.Args, call.Deposit)
}

type simEnv struct {
	sim    *Simulator
	caller string
}

func (e *simEnv) ContractID() string { return e.sim.contractID }

func (e *simEnv) Caller() string { return e.caller }

func (e *simEnv) Balance() uint64 { return e.sim.balances[e.sim.contractID] }

func (e *simEnv) Storage() Storage { return e.sim.storage }

func (e *simEnv) Scheduler() Scheduler { return schedulerFunc{e.sim} }

func (e *simEnv) Log(line string) {
	e.sim.logs = append(e.sim.logs, line)
}

func (e *simEnv) Audit() Sink { return e.sim.sink }

type schedulerFunc struct {
	sim *Simulator
}

func (sf schedulerFunc) Schedule(plan Plan) error {
	sf.sim.pending = append(sf.sim.pending, plan)
	sf.sim.dispatched += len(plan.Calls)
	return nil
}

type discardSink struct{}

func (discardSink) Record(audit.Entry) error { return nil }
