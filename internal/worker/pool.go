// Package worker runs background jobs, currently the async audit
// trail, on a fixed set of goroutines.
package worker

import (
	"sync"

	"github.com/thisisamish/cashcard-api/internal/metrics"
)

const queueSize = 1024

// Pool fans submitted jobs out to n workers. Submit blocks once the
// queue is full rather than dropping work.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
}

func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{jobs: make(chan func(), queueSize)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		metrics.AuditQueueDepth.Dec()
		job()
	}
}

func (p *Pool) Submit(job func()) {
	metrics.AuditQueueDepth.Inc()
	p.jobs <- job
}

// Stop closes the queue, drains the remaining jobs and waits for
// in-flight ones. Submitting after Stop panics.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
