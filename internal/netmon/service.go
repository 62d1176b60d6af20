package netmon

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dmdmdm-nz/reachd/internal/reach"
	"github.com/dmdmdm-nz/reachd/internal/runtime"
)

// ErrClosed is returned when registering with a closed Service.
var ErrClosed = errors.New("connectivity broadcaster is closed")

const receiverQueueSize = 8

// Service runs a Watcher and broadcasts each change it reports to every
// registered receiver. It implements reach.Broadcaster.
type Service struct {
	watcher Watcher

	mu        sync.Mutex
	receivers map[reach.Registration]*runtime.SubQueue[ChangeEvent]
	closed    bool
}

func NewService(watcher Watcher) *Service {
	return &Service{
		watcher:   watcher,
		receivers: make(map[reach.Registration]*runtime.SubQueue[ChangeEvent]),
	}
}

// Register adds a receiver. Each receiver is invoked on its own goroutine,
// once per change, in the order changes were observed.
func (s *Service) Register(receiver func()) (reach.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	reg := reach.Registration(uuid.New().String())
	q := runtime.NewSubQueue[ChangeEvent](receiverQueueSize)
	s.receivers[reg] = q

	go func() {
		for range q.Chan() {
			receiver()
		}
	}()

	log.WithField("registration", reg).Debug("Connectivity receiver registered")
	return reg, nil
}

// Unregister removes a receiver. It does not wait for a receiver call that is
// already running. Unknown registrations are ignored.
func (s *Service) Unregister(reg reach.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := s.receivers[reg]; ok {
		delete(s.receivers, reg)
		q.Close()
		log.WithField("registration", reg).Debug("Connectivity receiver unregistered")
	}
	return nil
}

// Receivers returns the number of registered receivers.
func (s *Service) Receivers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.receivers)
}

func (s *Service) Start(ctx context.Context) error {
	log.Info("Starting connectivity monitoring service")
	defer log.Info("Stopping connectivity monitoring service")

	if err := s.watcher.Start(ctx, s.Notify); err != nil {
		log.WithError(err).Error("Connectivity watcher failed")
		return err
	}
	return nil
}

func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for reg, q := range s.receivers {
		q.Close()
		delete(s.receivers, reg)
	}
	return nil
}

// Notify broadcasts ev to every registered receiver.
func (s *Service) Notify(ev ChangeEvent) {
	log.WithFields(log.Fields{
		"kind":      ev.Kind,
		"interface": ev.InterfaceName,
	}).Debug("Connectivity change")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.receivers {
		q.Enqueue(ev)
	}
}
