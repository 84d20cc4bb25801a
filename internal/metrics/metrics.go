package metrics

import "sync"

// OutcomeOK is recorded for requests answered without error.
const OutcomeOK = "ok"

// Requests counts handled requests by outcome (OutcomeOK or an error code).
type Requests struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewRequests() *Requests {
	return &Requests{counts: make(map[string]int64)}
}

func (r *Requests) Record(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[outcome]++
}

// Snapshot returns a copy of the current counts.
func (r *Requests) Snapshot() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}
