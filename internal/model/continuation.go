package model

import (
	"encoding/json"
	"fmt"
)

// ContinuationMessage carries everything the callback needs across the
// async boundary. The host keeps no request-scoped state between the
// scheduling invocation and the callback invocation, so the ordered
// targets and functions, the validated tag payload, and the originating
// sender all travel inside the continuation's input.
type ContinuationMessage struct {
	Targets   []string `json:"targets"`
	Functions []string `json:"functions"`
	Tags      string   `json:"tags"`
	Sender    string   `json:"sender"`
}

// Encode serializes the message for embedding in the continuation input.
func (m ContinuationMessage) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("model: encode continuation: %w", err)
	}
	return data, nil
}

// DecodeContinuation parses a continuation input back into a message.
func DecodeContinuation(data []byte) (ContinuationMessage, error) {
	var m ContinuationMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ContinuationMessage{}, fmt.Errorf("model: decode continuation: %w", err)
	}
	return m, nil
}
