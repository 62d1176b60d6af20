package reach

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Subscription is a live registration forwarding reachability to a sink.
type Subscription struct {
	ID   string
	reg  Registration
	sink func(Class)
}

// Observer answers reachability queries against a bound platform context and
// keeps at most one change subscription alive.
type Observer struct {
	strategy classifier

	mu      sync.Mutex
	binding *Binding
	sub     *Subscription
}

// NewObserver creates an unbound observer. capabilityAPI selects whether
// transport capabilities are consulted before the legacy connection type.
func NewObserver(capabilityAPI bool) *Observer {
	return &Observer{strategy: newClassifier(capabilityAPI)}
}

// Attach binds the observer to a platform context, dropping any subscription
// made against a previous one.
func (o *Observer) Attach(b Binding) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.teardownLocked()
	o.binding = &b
}

// Detach drops the active subscription and unbinds the observer.
func (o *Observer) Detach() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.teardownLocked()
	o.binding = nil
}

// Query returns the current reachability class. An unbound observer reports
// None together with ErrUnboundContext.
func (o *Observer) Query() (Class, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queryLocked()
}

func (o *Observer) queryLocked() (Class, error) {
	if o.binding == nil || o.binding.Connectivity == nil {
		return None, ErrUnboundContext
	}
	return o.strategy.classify(o.binding.Connectivity), nil
}

// Subscribe registers sink for change notifications, replacing any existing
// subscription. Every notification delivers one freshly queried class.
//
// The sink runs on the broadcaster's goroutine with the observer locked, so
// it must not block or call back into the observer.
func (o *Observer) Subscribe(sink func(Class)) (*Subscription, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.binding == nil || o.binding.Broadcaster == nil {
		return nil, ErrUnboundContext
	}

	o.teardownLocked()

	sub := &Subscription{
		ID:   uuid.New().String(),
		sink: sink,
	}
	reg, err := o.binding.Broadcaster.Register(func() { o.deliver(sub) })
	if err != nil {
		return nil, fmt.Errorf("register connectivity receiver: %w", err)
	}
	sub.reg = reg
	o.sub = sub

	log.WithField("subscription", sub.ID).Debug("Connectivity subscription registered")
	return sub, nil
}

// Unsubscribe stops sub if it is the active subscription. Unknown, stale or
// nil subscriptions are ignored.
func (o *Observer) Unsubscribe(sub *Subscription) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if sub == nil || o.sub != sub {
		return nil
	}
	return o.teardownLocked()
}

// Active reports whether a subscription is currently registered.
func (o *Observer) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sub != nil
}

func (o *Observer) deliver(sub *Subscription) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sub != sub {
		// Notification raced with teardown.
		return
	}

	class, err := o.queryLocked()
	if err != nil {
		return
	}

	log.WithFields(log.Fields{
		"subscription": sub.ID,
		"class":        class,
	}).Trace("Forwarding connectivity change")
	sub.sink(class)
}

func (o *Observer) teardownLocked() error {
	sub := o.sub
	if sub == nil {
		return nil
	}
	o.sub = nil

	if o.binding == nil || o.binding.Broadcaster == nil {
		return nil
	}
	if err := o.binding.Broadcaster.Unregister(sub.reg); err != nil {
		log.WithError(err).WithField("subscription", sub.ID).Warn("Failed to unregister connectivity receiver")
		return fmt.Errorf("unregister connectivity receiver: %w", err)
	}

	log.WithField("subscription", sub.ID).Debug("Connectivity subscription removed")
	return nil
}
