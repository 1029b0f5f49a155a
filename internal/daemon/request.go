// Package daemon implements the relay inbox/outbox service. Call
// requests arrive as JSON files in the inbox directory, are relayed
// through the node strictly one at a time (the host serializes all
// invocations), and a receipt is written to the outbox per request.
package daemon

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/ppiankov/callrelay/internal/model"
)

// validID matches alphanumeric characters, dashes, and underscores only.
var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Request is one call-relay submission dropped into the inbox.
type Request struct {
	ID     string          `json:"id"`
	Sender string          `json:"sender"`
	Tags   json.RawMessage `json:"tags"`
	Batch  model.CallBatch `json:"batch"`
}

// Validate performs structural checks before the request reaches the
// contract. The contract's own validator still runs; this only rejects
// files that cannot be attributed or receipted.
func (r *Request) Validate() error {
	if r.ID == "" || !validID.MatchString(r.ID) {
		return fmt.Errorf("daemon: invalid request id %q", r.ID)
	}
	if r.Sender == "" {
		return fmt.Errorf("daemon: request %s has no sender", r.ID)
	}
	if len(r.Tags) == 0 {
		return fmt.Errorf("daemon: request %s has no tag payload", r.ID)
	}
	return nil
}

// Receipt statuses.
const (
	StatusRelayed  = "relayed"
	StatusRejected = "rejected"
)

// Receipt is written to the outbox after processing a request.
type Receipt struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Code       string `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
	Dispatched int    `json:"dispatched,omitempty"`
}
