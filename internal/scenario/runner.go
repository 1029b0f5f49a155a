// Package scenario runs scripted relay sessions against a fresh
// in-memory host. Each scenario file declares a genesis plus ordered
// steps with expected outcomes; the runner reports which steps matched.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/callrelay/internal/genesis"
	"github.com/ppiankov/callrelay/internal/host"
	"github.com/ppiankov/callrelay/internal/relay"
)

// Scenario is a named scripted session.
type Scenario struct {
	Name    string          `yaml:"name"`
	Genesis genesis.Genesis `yaml:"genesis"`
	Steps   []Step          `yaml:"steps"`
}

// Run executes every step in order against one fresh simulator. Steps
// share state: an early grant affects later calls, matching how the
// deployed contract behaves.
func Run(s *Scenario) (*RunResult, error) {
	sink := &host.MemSink{}
	sim := host.NewSimulator(host.Config{
		ContractID: s.Genesis.Contract,
		Sink:       sink,
		Balances:   s.Genesis.Balances,
	})
	for _, stub := range s.Genesis.Stubs {
		sim.RegisterHandler(stub.ID, stubHandler(stub.Fail))
	}

	contract := relay.New()
	contract.Register(sim)
	if err := contract.Init(sim.Env(s.Genesis.Contract), s.Genesis.Admins); err != nil {
		return nil, fmt.Errorf("scenario: init: %w", err)
	}
	if len(s.Genesis.RequiredTags) > 0 {
		if err := contract.SetRequiredTags(sim.Env(s.Genesis.Contract), s.Genesis.RequiredTags); err != nil {
			return nil, fmt.Errorf("scenario: seed tag schema: %w", err)
		}
	}

	result := &RunResult{Name: s.Name, Total: len(s.Steps)}

	for i, step := range s.Steps {
		var err error
		switch step.Op {
		case OpGrant:
			err = contract.GrantPermissionLevel(sim.Env(step.As), step.Accounts, step.Level)
		case OpPolicy:
			err = contract.SetTrustPolicy(sim.Env(step.As), step.Policy)
		case OpTagsSet:
			err = contract.SetRequiredTags(sim.Env(step.As), step.Names)
		case OpTagsAdd:
			err = contract.AddRequiredTags(sim.Env(step.As), step.Names)
		case OpTagsRemove:
			err = contract.RemoveRequiredTags(sim.Env(step.As), step.Names)
		case OpCall:
			err = contract.LogCall(sim.Env(step.As), step.Tags, step.Batch)
			if err == nil {
				sim.Settle()
			}
		default:
			err = fmt.Errorf("scenario: unknown op %q", step.Op)
		}

		expected := step.Expect
		if expected == "" {
			expected = "ok"
		}
		actual := "ok"
		detail := ""
		if err != nil {
			actual = relay.ErrorCode(err)
			detail = err.Error()
		}

		sr := StepResult{
			Index:    i + 1,
			Name:     step.Name,
			Op:       step.Op,
			Expected: expected,
			Actual:   actual,
			Detail:   detail,
		}
		if actual == expected {
			sr.Passed = true
			result.Passed++
		} else {
			result.Failed++
		}
		result.Steps = append(result.Steps, sr)
	}

	result.AuditOutput = len(sink.Entries)
	return result, nil
}

// LoadAndRun loads a scenario YAML file and runs it.
func LoadAndRun(path string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: parse %s: %w", path, err)
	}
	if s.Genesis.Contract == "" {
		return nil, fmt.Errorf("scenario: %s: genesis.contract is required", path)
	}

	result, err := Run(&s)
	if err != nil {
		return nil, err
	}
	result.File = path
	return result, nil
}

func stubHandler(fail []string) host.Handler {
	failing := make(map[string]bool, len(fail))
	for _, f := range fail {
		failing[f] = true
	}
	return func(function, args string, deposit uint64) (string, error) {
		if failing[function] {
			return "", fmt.Errorf("scenario: stub function %s fails", function)
		}
		return "ran " + function, nil
	}
}
