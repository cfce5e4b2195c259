package pipeline

import "sync"

// Diagnostics is a mutex-guarded warning sink threaded through every
// pipeline stage. Derivation tasks append to it instead of logging
// directly, so a non-fatal failure in one map's derivation is visible in
// the final Result without depending on whatever logger happens to be
// configured. A nil *Diagnostics is safe to call Warn on (the orchestrator
// always constructs one, but kernels that are unit-tested standalone can
// pass nil).
type Diagnostics struct {
	mu       sync.Mutex
	warnings []string
}

// NewDiagnostics returns an empty Diagnostics sink.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Warn records a warning message. Safe for concurrent use by the fan-out
// worker pool.
func (d *Diagnostics) Warn(msg string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.warnings = append(d.warnings, msg)
	d.mu.Unlock()
}

// Warnings returns a snapshot of the recorded warnings.
func (d *Diagnostics) Warnings() []string {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.warnings))
	copy(out, d.warnings)
	return out
}
