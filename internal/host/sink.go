package host

import "github.com/ppiankov/callrelay/internal/audit"

// MemSink collects audit entries in memory. Used by tests and by the
// scenario runner to assert on callback output without a log file.
type MemSink struct {
	Entries []audit.Entry
}

func (s *MemSink) Record(e audit.Entry) error {
	s.Entries = append(s.Entries, e)
	return nil
}
