package worker

import (
	"context"
	"sync"
	"testing"
)

func TestPoolLimit(t *testing.T) {
	p := New(context.Background(), 2)

	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(2)
	for i := 0; i < 2; i++ {
		ok := p.TryGo(func(context.Context) {
			started.Done()
			<-release
		})
		if !ok {
			t.Fatalf("TryGo %d refused with free slots", i)
		}
	}
	started.Wait()

	if p.TryGo(func(context.Context) {}) {
		t.Error("TryGo accepted a job beyond the limit")
	}
	if got := p.Busy(); got != 2 {
		t.Errorf("Busy() = %d, want 2", got)
	}

	close(release)
	p.Close()
	if got := p.Busy(); got != 0 {
		t.Errorf("Busy() after Close = %d, want 0", got)
	}
	if p.TryGo(func(context.Context) {}) {
		t.Error("TryGo accepted a job after Close")
	}
}
