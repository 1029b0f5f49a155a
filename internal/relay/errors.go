package relay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/callrelay/internal/model"
)

// AlreadyInitializedError is raised when Init runs a second time.
type AlreadyInitializedError struct{}

func (e *AlreadyInitializedError) Error() string {
	return "relay: contract already initialized"
}

// PermissionError is raised when the caller's stored level does not
// exactly match the required level.
type PermissionError struct {
	Account  string
	Required model.PermissionLevel
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("relay: account %s does not hold level %s", e.Account, e.Required)
}

// UnknownLevelError is raised for a level string outside the closed set.
type UnknownLevelError struct {
	Level string
}

func (e *UnknownLevelError) Error() string {
	return fmt.Sprintf("relay: unknown permission level %q", e.Level)
}

// UnknownPolicyError is raised for a policy string outside the closed set.
type UnknownPolicyError struct {
	Policy string
}

func (e *UnknownPolicyError) Error() string {
	return fmt.Sprintf("relay: unknown trust policy %q", e.Policy)
}

// MalformedPayloadError wraps a structural parse failure of the tag payload.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("relay: malformed tag payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// NullTagValueError is raised when a tag maps to null or a non-string value.
type NullTagValueError struct {
	Tag string
}

func (e *NullTagValueError) Error() string {
	return fmt.Sprintf("relay: tag %q must map to a string value", e.Tag)
}

// ExtraTagsError names submitted tags outside the required schema.
type ExtraTagsError struct {
	Tags []string
}

func (e *ExtraTagsError) Error() string {
	return fmt.Sprintf("relay: tags not in schema: %s", strings.Join(e.Tags, ", "))
}

// MissingTagsError names required tags absent from the submission.
type MissingTagsError struct {
	Tags []string
}

func (e *MissingTagsError) Error() string {
	return fmt.Sprintf("relay: required tags missing: %s", strings.Join(e.Tags, ", "))
}

// TrustError is raised for a target that is neither Trusted nor covered
// by a TrustAll policy.
type TrustError struct {
	Target string
}

func (e *TrustError) Error() string {
	return fmt.Sprintf("relay: target %s is not trusted", e.Target)
}

// InsufficientFundsError is raised when the batch deposit sum exceeds
// the contract's available balance.
type InsufficientFundsError struct {
	Required  uint64
	Available uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("relay: batch deposits require %d but only %d is available", e.Required, e.Available)
}

// EmptyBatchError is raised for a batch with no calls.
type EmptyBatchError struct{}

func (e *EmptyBatchError) Error() string {
	return "relay: call batch is empty"
}

// HeterogeneousTargetError is raised when a parallel batch names more
// than one target. Parallel batches execute as one transaction against
// a single target.
type HeterogeneousTargetError struct {
	Targets []string
}

func (e *HeterogeneousTargetError) Error() string {
	return fmt.Sprintf("relay: parallel batch must share one target, got: %s", strings.Join(e.Targets, ", "))
}

// BatchShapeError is raised when a batch's call count does not fit its
// topology: single takes exactly one call, parallel and sequential at
// least two.
type BatchShapeError struct {
	Topology model.Topology
	Calls    int
}

func (e *BatchShapeError) Error() string {
	return fmt.Sprintf("relay: %d calls do not fit topology %q", e.Calls, e.Topology)
}

// ErrorCode maps a relay error to its short taxonomy name. Callers use
// it for receipts and scenario expectations; unknown errors map to
// "internal".
func ErrorCode(err error) string {
	switch {
	case errAs[*AlreadyInitializedError](err):
		return "already_initialized"
	case errAs[*PermissionError](err):
		return "permission"
	case errAs[*UnknownLevelError](err):
		return "unknown_level"
	case errAs[*UnknownPolicyError](err):
		return "unknown_policy"
	case errAs[*MalformedPayloadError](err):
		return "malformed_payload"
	case errAs[*NullTagValueError](err):
		return "null_tag_value"
	case errAs[*ExtraTagsError](err):
		return "extra_tags"
	case errAs[*MissingTagsError](err):
		return "missing_tags"
	case errAs[*TrustError](err):
		return "trust"
	case errAs[*InsufficientFundsError](err):
		return "insufficient_funds"
	case errAs[*EmptyBatchError](err):
		return "empty_batch"
	case errAs[*HeterogeneousTargetError](err):
		return "heterogeneous_target"
	case errAs[*BatchShapeError](err):
		return "batch_shape"
	default:
		return "internal"
	}
}

func errAs[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
