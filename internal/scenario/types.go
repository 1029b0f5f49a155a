package scenario

import "github.com/ppiankov/callrelay/internal/model"

// Step is one scripted operation against the relay.
type Step struct {
	Name     string          `yaml:"name,omitempty"`
	As       string          `yaml:"as"`
	Op       string          `yaml:"op"`
	Accounts []string        `yaml:"accounts,omitempty"`
	Level    string          `yaml:"level,omitempty"`
	Policy   string          `yaml:"policy,omitempty"`
	Names    []string        `yaml:"names,omitempty"`
	Tags     string          `yaml:"tags,omitempty"`
	Batch    model.CallBatch `yaml:"batch,omitempty"`
	Expect   string          `yaml:"expect,omitempty"`
}

// Supported step operations.
const (
	OpGrant      = "grant"
	OpPolicy     = "policy"
	OpTagsSet    = "tags_set"
	OpTagsAdd    = "tags_add"
	OpTagsRemove = "tags_remove"
	OpCall       = "call"
)

// StepResult is the outcome of executing one step.
type StepResult struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	Op       string `json:"op"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Detail   string `json:"detail,omitempty"`
}

// RunResult is the outcome of running all steps in one scenario file.
type RunResult struct {
	File        string       `json:"file"`
	Name        string       `json:"name"`
	Total       int          `json:"total"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	AuditOutput int          `json:"audit_output"`
	Steps       []StepResult `json:"steps"`
}
