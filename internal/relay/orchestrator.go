package relay

import (
	"fmt"

	"github.com/ppiankov/callrelay/internal/host"
	"github.com/ppiankov/callrelay/internal/model"
)

// continuationGasReserve is the fixed gas allocated to the callback.
// It is independent of the gas budgets of the scheduled calls, so the
// continuation runs even when every scheduled call exhausts its budget.
const continuationGasReserve uint64 = 30_000_000_000_000

// LogCall is the primary relay entry point. It validates the tag
// payload and the batch, then schedules the dispatch plan with the
// contract itself as the continuation target. Any validation failure
// aborts synchronously with zero calls scheduled; once scheduling
// succeeds, all further effects surface through the callback.
func (c *Contract) LogCall(env host.Env, rawTags string, batch model.CallBatch) error {
	if _, err := c.validate(env, rawTags, batch); err != nil {
		return err
	}

	targets := make([]string, len(batch.Calls))
	functions := make([]string, len(batch.Calls))
	for i, call := range batch.Calls {
		targets[i] = call.Target
		functions[i] = call.Function
	}

	msg := model.ContinuationMessage{
		Targets:   targets,
		Functions: functions,
		Tags:      rawTags,
		Sender:    env.Caller(),
	}
	args, err := msg.Encode()
	if err != nil {
		return err
	}

	plan := host.Plan{
		Topology: batch.Topology,
		Calls:    batch.Calls,
		Callback: host.Continuation{
			Method: CallbackMethod,
			Args:   args,
			Gas:    continuationGasReserve,
		},
	}
	if err := env.Scheduler().Schedule(plan); err != nil {
		return fmt.Errorf("relay: schedule plan: %w", err)
	}

	env.Log(fmt.Sprintf("scheduled %s plan with %d calls for %s", batch.Topology, len(batch.Calls), env.Caller()))
	return nil
}
