package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/callrelay/internal/node"
	"github.com/ppiankov/callrelay/internal/relay"
)

// Processor relays inbox requests through a node and writes receipts.
type Processor struct {
	node *node.Node
	dirs DirConfig
}

// NewProcessor creates a processor bound to an open node.
func NewProcessor(n *node.Node, dirs DirConfig) *Processor {
	return &Processor{node: n, dirs: dirs}
}

// Process handles a single request file through its full lifecycle:
// read → validate → relay → write receipt → remove from inbox. A
// malformed file that cannot yield a receipt is left in place with the
// error returned, so it can be inspected rather than silently lost.
func (p *Processor) Process(path string) error {
	// Structural symlink defense: reject symlinks before reading.
	// Without this, a symlink to a valid JSON file elsewhere on the
	// filesystem would be processed as a legitimate request.
	fi, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("daemon: stat request file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("daemon: rejected symlink: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("daemon: read request file: %w", err)
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("daemon: parse %s: %w", filepath.Base(path), err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	before := p.node.Sim.DispatchCount()
	receipt := Receipt{ID: req.ID, Status: StatusRelayed}
	if err := p.node.Relay(req.Sender, string(req.Tags), req.Batch); err != nil {
		receipt.Status = StatusRejected
		receipt.Code = relay.ErrorCode(err)
		receipt.Error = err.Error()
	} else {
		receipt.Dispatched = p.node.Sim.DispatchCount() - before
	}

	if err := p.writeReceipt(receipt); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("daemon: remove processed request: %w", err)
	}
	return nil
}

// writeReceipt writes atomically: temp file then rename, so outbox
// consumers never observe a partial receipt.
func (p *Processor) writeReceipt(receipt Receipt) error {
	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return fmt.Errorf("daemon: marshal receipt %s: %w", receipt.ID, err)
	}
	final := filepath.Join(p.dirs.Outbox, receipt.ID+".receipt.json")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("daemon: write receipt %s: %w", receipt.ID, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("daemon: publish receipt %s: %w", receipt.ID, err)
	}
	return nil
}
