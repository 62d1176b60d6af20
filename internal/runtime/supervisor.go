package runtime

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

type worker struct {
	name   string
	run    func(context.Context) error
	closeF func() error
}

// Supervisor runs named workers concurrently and shuts them down in reverse
// order of registration. The first worker to fail stops the others.
type Supervisor struct {
	mu      sync.Mutex
	workers []worker
	wg      sync.WaitGroup
	errOnce sync.Once
	err     error

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSupervisor() *Supervisor {
	return &Supervisor{}
}

func (s *Supervisor) Add(name string, run func(context.Context) error, closeF func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = append(s.workers, worker{name: name, run: run, closeF: closeF})
}

// Start runs every worker under a context derived from ctx. The context is
// cancelled when ctx is done or when any worker returns an error.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)
	for _, w := range s.workers {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			log.WithField("worker", w.name).Debug("Worker started")
			if err := w.run(s.ctx); err != nil {
				log.WithField("worker", w.name).WithError(err).Error("Worker exited with error")
				s.errOnce.Do(func() { s.err = err })
				s.cancel()
				return
			}
			log.WithField("worker", w.name).Debug("Worker exited")
		}()
	}
	return nil
}

// Wait blocks until ctx is done or a worker fails, closes every worker and
// waits for them to return. It reports the first worker error.
func (s *Supervisor) Wait(ctx context.Context) error {
	s.mu.Lock()
	runCtx, cancel := s.ctx, s.cancel
	workers := append([]worker(nil), s.workers...)
	s.mu.Unlock()

	if runCtx == nil {
		<-ctx.Done()
	} else {
		select {
		case <-ctx.Done():
		case <-runCtx.Done():
		}
		cancel()
	}

	// Close in reverse order.
	for i := len(workers) - 1; i >= 0; i-- {
		if workers[i].closeF == nil {
			continue
		}
		if err := workers[i].closeF(); err != nil {
			log.WithField("worker", workers[i].name).WithError(err).Warn("Worker close failed")
		}
	}
	s.wg.Wait()
	return s.err
}
