package metrics

import (
	"sync"
	"testing"
)

func TestRequestsConcurrent(t *testing.T) {
	r := NewRequests()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record(OutcomeOK)
			r.Record("rate_limit_error")
		}()
	}
	wg.Wait()

	snap := r.Snapshot()
	if snap[OutcomeOK] != 50 || snap["rate_limit_error"] != 50 {
		t.Fatalf("unexpected counts %v", snap)
	}

	snap[OutcomeOK] = 0
	if r.Snapshot()[OutcomeOK] != 50 {
		t.Fatalf("snapshot must be a copy")
	}
}
