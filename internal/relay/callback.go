package relay

import (
	"fmt"

	"github.com/ppiankov/callrelay/internal/audit"
	"github.com/ppiankov/callrelay/internal/host"
	"github.com/ppiankov/callrelay/internal/model"
)

// failedResultMarker substitutes for the result payload of any call
// that did not succeed. A failed outcome's payload must never be
// decoded.
const failedResultMarker = "<unavailable>"

// Callback is the continuation the host invokes once every call in a
// scheduled plan has settled. It classifies each outcome and emits one
// audit record per call, then a trailing record with the validated tag
// set. A fault here would suppress the audit trail for the whole
// batch, so the method logs problems and keeps going instead of
// aborting.
func (c *Contract) Callback(env host.Env, outcomes []model.Outcome, args []byte) {
	if env.Caller() != env.ContractID() {
		env.Log(fmt.Sprintf("callback: rejected caller %s", env.Caller()))
		return
	}

	msg, err := model.DecodeContinuation(args)
	if err != nil {
		env.Log(fmt.Sprintf("callback: %v", err))
		return
	}

	for i, outcome := range outcomes {
		entry := audit.Entry{
			Kind:     audit.KindCall,
			Status:   string(classify(outcome)),
			Result:   failedResultMarker,
			Sender:   msg.Sender,
			Target:   "<unknown>",
			Function: "<unknown>",
		}
		if i < len(msg.Targets) {
			entry.Target = msg.Targets[i]
		}
		if i < len(msg.Functions) {
			entry.Function = msg.Functions[i]
		}
		if outcome.Status == model.OutcomeSucceeded {
			entry.Result = outcome.Data
		}
		if err := env.Audit().Record(entry); err != nil {
			env.Log(fmt.Sprintf("callback: record %s.%s: %v", entry.Target, entry.Function, err))
		}
		env.Log(fmt.Sprintf("call_log: target=%s function=%s status=%s sender=%s", entry.Target, entry.Function, entry.Status, entry.Sender))
	}

	tags, err := parseTagPayload(msg.Tags)
	if err != nil {
		// The payload was validated before scheduling; a decode failure
		// here means a corrupt continuation, not caller input.
		env.Log(fmt.Sprintf("callback: tag payload: %v", err))
		return
	}
	trailing := audit.Entry{
		Kind:   audit.KindTags,
		Sender: msg.Sender,
		Tags:   tags,
	}
	if err := env.Audit().Record(trailing); err != nil {
		env.Log(fmt.Sprintf("callback: record tags: %v", err))
	}
}

// classify maps a settled outcome to its audit status. Pending is
// representable but must not occur once the host reports settlement.
func classify(outcome model.Outcome) model.OutcomeStatus {
	switch outcome.Status {
	case model.OutcomeSucceeded, model.OutcomePending, model.OutcomeFailed:
		return outcome.Status
	default:
		return model.OutcomeFailed
	}
}
