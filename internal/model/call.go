package model

// Topology is the scheduling shape of a call batch.
type Topology string

const (
	// Single is exactly one call, scheduled as one async invocation.
	Single Topology = "single"
	// Parallel bundles ≥2 calls against one target into a single
	// multi-action transaction, executed atomically in submission order.
	Parallel Topology = "parallel"
	// Sequential chains ≥2 independent transactions in strict order.
	// An earlier failure does not cancel later calls.
	Sequential Topology = "sequential"
)

// CallDescriptor is one cross-contract invocation to relay.
type CallDescriptor struct {
	Target   string `json:"target" yaml:"target"`
	Function string `json:"function" yaml:"function"`
	Args     string `json:"args,omitempty" yaml:"args,omitempty"`
	Gas      uint64 `json:"gas,omitempty" yaml:"gas,omitempty"`
	Deposit  uint64 `json:"deposit,omitempty" yaml:"deposit,omitempty"`
}

// CallBatch is an atomically submitted sequence of calls plus its topology.
type CallBatch struct {
	Topology Topology         `json:"topology" yaml:"topology"`
	Calls    []CallDescriptor `json:"calls" yaml:"calls"`
}

// OutcomeStatus classifies one settled call.
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomePending   OutcomeStatus = "pending"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Outcome is the settled result of one scheduled call. Data is only
// meaningful when Status is OutcomeSucceeded — a failed outcome's
// payload must not be decoded.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Data   string        `json:"data,omitempty"`
}
