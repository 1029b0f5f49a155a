package relay

import (
	"math"

	"github.com/ppiankov/callrelay/internal/host"
	"github.com/ppiankov/callrelay/internal/model"
)

// validate runs every pre-dispatch check, failing closed on the first
// violation: payload parse, schema diff, batch shape, per-target trust,
// then funds. Nothing is scheduled unless all of it passes.
func (c *Contract) validate(env host.Env, rawTags string, batch model.CallBatch) (map[string]string, error) {
	tags, err := parseTagPayload(rawTags)
	if err != nil {
		return nil, err
	}

	schema, err := c.schema(env.Storage())
	if err != nil {
		return nil, err
	}
	// An empty schema means tagging is not required; submitted tags
	// pass through to the audit log unchecked.
	if len(schema) > 0 {
		if err := diffAgainstSchema(tags, schema); err != nil {
			return nil, err
		}
	}

	if err := checkShape(batch); err != nil {
		return nil, err
	}

	if err := c.checkTrust(env, batch); err != nil {
		return nil, err
	}

	if err := checkFunds(env, batch); err != nil {
		return nil, err
	}

	return tags, nil
}

// checkShape enforces batch arity per topology and, for parallel
// batches, the single-target constraint.
func checkShape(batch model.CallBatch) error {
	n := len(batch.Calls)
	if n == 0 {
		return &EmptyBatchError{}
	}
	switch batch.Topology {
	case model.Single:
		if n != 1 {
			return &BatchShapeError{Topology: batch.Topology, Calls: n}
		}
	case model.Parallel:
		if n < 2 {
			return &BatchShapeError{Topology: batch.Topology, Calls: n}
		}
		first := batch.Calls[0].Target
		for _, call := range batch.Calls[1:] {
			if call.Target != first {
				return &HeterogeneousTargetError{Targets: distinctTargets(batch.Calls)}
			}
		}
	case model.Sequential:
		if n < 2 {
			return &BatchShapeError{Topology: batch.Topology, Calls: n}
		}
	default:
		return &BatchShapeError{Topology: batch.Topology, Calls: n}
	}
	return nil
}

// checkTrust requires every distinct target to hold exact level
// Trusted, unless the global policy accepts all targets.
func (c *Contract) checkTrust(env host.Env, batch model.CallBatch) error {
	policy, err := c.trustPolicy(env.Storage())
	if err != nil {
		return err
	}
	if policy == model.TrustAll {
		return nil
	}
	for _, target := range distinctTargets(batch.Calls) {
		level, err := c.levelOf(env.Storage(), target)
		if err != nil {
			return err
		}
		if level != model.Trusted {
			return &TrustError{Target: target}
		}
	}
	return nil
}

// checkFunds requires the summed deposits to fit the available balance.
// The sum saturates on overflow, which can only ever reject.
func checkFunds(env host.Env, batch model.CallBatch) error {
	var total uint64
	for _, call := range batch.Calls {
		if call.Deposit > math.MaxUint64-total {
			total = math.MaxUint64
			break
		}
		total += call.Deposit
	}
	if available := env.Balance(); total > available {
		return &InsufficientFundsError{Required: total, Available: available}
	}
	return nil
}

func distinctTargets(calls []model.CallDescriptor) []string {
	seen := make(map[string]struct{}, len(calls))
	var targets []string
	for _, call := range calls {
		if _, ok := seen[call.Target]; ok {
			continue
		}
		seen[call.Target] = struct{}{}
		targets = append(targets, call.Target)
	}
	return targets
}
