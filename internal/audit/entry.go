package audit

// Entry kinds. A relayed batch produces one "call" entry per scheduled
// call, in scheduling order, followed by a single "tags" entry carrying
// the validated tag set of the batch.
const (
	KindCall = "call"
	KindTags = "tags"
)

// Entry is one line in the hash-chained JSONL audit log. Fields are
// flat (the only map is string→string, which json.Marshal emits with
// sorted keys) so marshaling is deterministic and hashes reproduce.
type Entry struct {
	Timestamp string            `json:"ts"`
	Kind      string            `json:"kind"`
	Target    string            `json:"target,omitempty"`
	Function  string            `json:"function,omitempty"`
	Status    string            `json:"status,omitempty"`
	Result    string            `json:"result,omitempty"`
	Sender    string            `json:"sender,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
	PrevHash  string            `json:"prev_hash"`
}
